// Package query implements the three report queries over a simulation
// recording: a frame-by-frame info dump, a collision listing filtered by
// actor category, and a blocked-actor listing. Each query owns its
// recording handle and all transient state for the duration of one call.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carlatools/recording-query/pkg/reader"
)

// Engine carries the per-installation configuration shared by the
// queries: where recordings live and how their strings are encoded.
// The zero value resolves names relative to the working directory and
// decodes UTF-8.
type Engine struct {
	Dir      string
	Encoding reader.StringEncoding
}

// Info runs the info query with a zero-valued Engine
func Info(filename string, showAll bool) string {
	return Engine{}.Info(filename, showAll)
}

// Collisions runs the collisions query with a zero-valued Engine
func Collisions(filename string, cat1, cat2 byte) string {
	return Engine{}.Collisions(filename, cat1, cat2)
}

// Blocked runs the blocked query with a zero-valued Engine
func Blocked(filename string, minTime, minDistance float64) string {
	return Engine{}.Blocked(filename, minTime, minDistance)
}

// actorInfo is what the collision query remembers about a live actor
type actorInfo struct {
	Type uint8
	ID   string
}

// Category letters indexed by actor type; 'h' and 'a' are filter-only
var categories = [...]byte{'o', 'v', 'w', 't', 'h', 'a'}

func categoryOf(actorType uint8) byte {
	if int(actorType) < len(categories) {
		return categories[actorType]
	}
	return 'o'
}

// pairKey packs a collision pair into a single map key
func pairKey(id1, id2 uint32) uint64 {
	return uint64(id1)<<32 | uint64(id2)
}

const dateLayout = "01/02/06 15:04:05"

// openAndCheck resolves the filename, opens the recording and validates
// its header. On failure the one-line error report is already written to
// info and nil is returned; on success the header block (version, map,
// date) has been written and the caller owns the returned Recording.
func (e Engine) openAndCheck(filename string, info *strings.Builder) *reader.Recording {
	resolved := reader.ResolveFilename(filename, e.Dir)

	rec, err := reader.OpenRecording(resolved, e.Encoding)
	if err != nil {
		fmt.Fprintf(info, "File %s not found on server\n", resolved)
		return nil
	}

	hdr, err := reader.ReadRecInfo(rec.Reader())
	if err != nil || hdr.Magic != reader.MagicString {
		info.WriteString("File is not a CARLA recorder\n")
		rec.Close()
		return nil
	}

	fmt.Fprintf(info, "Version: %d\n", hdr.Version)
	fmt.Fprintf(info, "Map: %s\n", hdr.MapFile)
	fmt.Fprintf(info, "Date: %s\n\n", time.Unix(hdr.Date, 0).Format(dateLayout))
	return rec
}

// writeTrailer appends the closing frame-count and duration lines
func writeTrailer(info *strings.Builder, frame reader.Frame) {
	fmt.Fprintf(info, "\nFrames: %d\n", frame.ID)
	fmt.Fprintf(info, "Duration: %v seconds\n", frame.Elapsed)
}

// checkConsumed verifies a codec consumed exactly the declared payload
// size. A mismatch means the codec and the producer disagree on the wire
// layout; the stream position is unrecoverable past this point.
func checkConsumed(hdr reader.PacketHeader, start int64, br *reader.ByteReader) error {
	if got := br.Tell() - start; got != int64(hdr.Size) {
		return fmt.Errorf("packet %s consumed %d bytes, declared size %d", hdr.ID, got, hdr.Size)
	}
	return nil
}

// logStreamEnd notes why packet parsing stopped; mid-packet EOF is
// tolerated and reported as end-of-stream
func logStreamEnd(err error) {
	if err != nil {
		logrus.Debugf("recording stream ended: %v", err)
	}
}
