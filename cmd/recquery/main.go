package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	kingpin "github.com/alecthomas/kingpin/v2"

	"github.com/carlatools/recording-query/pkg/export"
	"github.com/carlatools/recording-query/pkg/query"
	"github.com/carlatools/recording-query/pkg/reader"
)

var version = "0.1.0"

var (
	debug = kingpin.Flag("debug", "Enable debug logging.").Bool()
	dir   = kingpin.Flag("dir", "Recordings directory.").Short('d').
		OverrideDefaultFromEnvar("RECORDER_PATH").Default("").String()
	utf16 = kingpin.Flag("utf16", "Decode recording strings as UTF-16LE (older producers).").Bool()

	infoCmd  = kingpin.Command("info", "Show a frame-by-frame dump of a recording.")
	infoFile = infoCmd.Arg("file", "Recording file name.").Required().String()
	infoAll  = infoCmd.Flag("all", "Show all packet kinds, not just events.").Short('a').Bool()

	collCmd   = kingpin.Command("collisions", "List collision pairs, de-duplicated at onset.")
	collFile  = collCmd.Arg("file", "Recording file name.").Required().String()
	collTypes = collCmd.Flag("types", "Two category letters (o/v/w/t/h/a) for the two sides.").
			Short('t').Default("aa").String()

	blockedCmd  = kingpin.Command("blocked", "List actors that stayed in place, longest first.")
	blockedFile = blockedCmd.Arg("file", "Recording file name.").Required().String()
	blockedTime = blockedCmd.Flag("time", "Minimum seconds an actor must stay to be reported.").
			Default("30").Float64()
	blockedDist = blockedCmd.Flag("distance", "Maximum displacement still considered as staying.").
			Default("10").Float64()

	exportCmd   = kingpin.Command("export", "Export recording events to a MongoDB collection.")
	exportFile  = exportCmd.Arg("file", "Recording file name.").Required().String()
	exportURI   = exportCmd.Arg("uri", "MongoDB connection URI.").Required().String()
	exportDB    = exportCmd.Flag("db", "Destination database.").Default("recordings").String()
	exportColl  = exportCmd.Flag("collection", "Destination collection.").Default("events").String()
	exportBatch = exportCmd.Flag("batch", "Documents per insert batch.").Default("500").Int()
)

func main() {
	kingpin.Version(version)
	cmd := kingpin.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	encoding := reader.StringUTF8
	if *utf16 {
		encoding = reader.StringUTF16LE
	}
	engine := query.Engine{Dir: *dir, Encoding: encoding}

	switch cmd {
	case infoCmd.FullCommand():
		fmt.Print(engine.Info(*infoFile, *infoAll))

	case collCmd.FullCommand():
		if len(*collTypes) != 2 {
			kingpin.Fatalf("--types must be exactly two category letters, got %q", *collTypes)
		}
		fmt.Print(engine.Collisions(*collFile, (*collTypes)[0], (*collTypes)[1]))

	case blockedCmd.FullCommand():
		fmt.Print(engine.Blocked(*blockedFile, *blockedTime, *blockedDist))

	case exportCmd.FullCommand():
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		exp, err := export.New(ctx, export.Options{
			URI:        *exportURI,
			Database:   *exportDB,
			Collection: *exportColl,
			BatchSize:  *exportBatch,
		})
		if err != nil {
			logrus.Fatalf("export: %v", err)
		}
		defer exp.Close(ctx)

		path := reader.ResolveFilename(*exportFile, *dir)
		total, err := exp.Run(ctx, path, encoding)
		if err != nil {
			logrus.Fatalf("export: %v", err)
		}
		logrus.Infof("exported %d events from %s", total, path)

	default:
		kingpin.Usage()
		os.Exit(1)
	}
}
