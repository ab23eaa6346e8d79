// Package export streams the events of a recording into a MongoDB
// collection so they can be queried offline with regular aggregation
// tooling instead of the textual reports.
package export

import (
	"context"
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/carlatools/recording-query/pkg/reader"
)

// Options configures the MongoDB destination of an export
type Options struct {
	URI        string
	Database   string
	Collection string
	BatchSize  int
}

// defaultBatchSize bounds a single InsertMany payload
const defaultBatchSize = 500

// Exporter owns the MongoDB connection used by an export run
type Exporter struct {
	client *mongo.Client
	coll   *mongo.Collection
	batch  int
}

// New connects to MongoDB and verifies the connection with a ping
func New(ctx context.Context, opts Options) (*Exporter, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	batch := opts.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Exporter{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
		batch:  batch,
	}, nil
}

// Close disconnects from MongoDB
func (e *Exporter) Close(ctx context.Context) error {
	return e.client.Disconnect(ctx)
}

// frameDocument maps a frame-start record to its exported form
func frameDocument(f reader.Frame) bson.D {
	return bson.D{
		{Key: "kind", Value: "frame"},
		{Key: "frame", Value: int64(f.ID)},
		{Key: "elapsed", Value: f.Elapsed},
		{Key: "duration", Value: f.DurationThis},
	}
}

// addDocument maps an actor-creation event; attributes are flattened to a
// subdocument keyed by attribute id
func addDocument(f reader.Frame, add reader.EventAdd) bson.D {
	attrs := bson.D{}
	for _, att := range add.Description.Attributes {
		attrs = append(attrs, bson.E{Key: att.ID, Value: att.Value})
	}
	return bson.D{
		{Key: "kind", Value: "create"},
		{Key: "frame", Value: int64(f.ID)},
		{Key: "elapsed", Value: f.Elapsed},
		{Key: "actor", Value: int64(add.DatabaseID)},
		{Key: "type", Value: int32(add.Type)},
		{Key: "description", Value: add.Description.ID},
		{Key: "location", Value: vecDocument(add.Location)},
		{Key: "attributes", Value: attrs},
	}
}

func delDocument(f reader.Frame, del reader.EventDel) bson.D {
	return bson.D{
		{Key: "kind", Value: "destroy"},
		{Key: "frame", Value: int64(f.ID)},
		{Key: "elapsed", Value: f.Elapsed},
		{Key: "actor", Value: int64(del.DatabaseID)},
	}
}

func parentDocument(f reader.Frame, par reader.EventParent) bson.D {
	return bson.D{
		{Key: "kind", Value: "parent"},
		{Key: "frame", Value: int64(f.ID)},
		{Key: "elapsed", Value: f.Elapsed},
		{Key: "actor", Value: int64(par.DatabaseID)},
		{Key: "parent", Value: int64(par.DatabaseIDParent)},
	}
}

func collisionDocument(f reader.Frame, col reader.Collision) bson.D {
	return bson.D{
		{Key: "kind", Value: "collision"},
		{Key: "frame", Value: int64(f.ID)},
		{Key: "elapsed", Value: f.Elapsed},
		{Key: "collision", Value: int64(col.ID)},
		{Key: "actor1", Value: int64(col.DatabaseID1)},
		{Key: "actor2", Value: int64(col.DatabaseID2)},
		{Key: "hero1", Value: col.IsActor1Hero != 0},
		{Key: "hero2", Value: col.IsActor2Hero != 0},
	}
}

func positionDocument(f reader.Frame, pos reader.Position) bson.D {
	return bson.D{
		{Key: "kind", Value: "position"},
		{Key: "frame", Value: int64(f.ID)},
		{Key: "elapsed", Value: f.Elapsed},
		{Key: "actor", Value: int64(pos.DatabaseID)},
		{Key: "location", Value: vecDocument(pos.Location)},
		{Key: "rotation", Value: vecDocument(pos.Rotation)},
	}
}

func vecDocument(v reader.Vector3) bson.D {
	return bson.D{
		{Key: "x", Value: float64(v.X)},
		{Key: "y", Value: float64(v.Y)},
		{Key: "z", Value: float64(v.Z)},
	}
}

// Run streams one recording into the exporter's collection. Frame starts,
// life-cycle events, collisions and positions are exported; other packet
// kinds are skipped. Returns the number of documents written.
func (e *Exporter) Run(ctx context.Context, path string, encoding reader.StringEncoding) (int64, error) {
	rec, err := reader.OpenRecording(path, encoding)
	if err != nil {
		return 0, err
	}
	defer rec.Close()

	br := rec.Reader()
	hdr, err := reader.ReadRecInfo(br)
	if err != nil {
		return 0, err
	}
	if hdr.Magic != reader.MagicString {
		return 0, fmt.Errorf("%s is not a recording file", path)
	}
	logrus.Infof("exporting %s (map %s, version %d)", path, hdr.MapFile, hdr.Version)

	bar := pb.Full.Start64(rec.Size())
	defer bar.Finish()

	var frame reader.Frame
	var total int64
	batch := make([]any, 0, e.batch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := e.coll.InsertMany(ctx, batch); err != nil {
			return fmt.Errorf("failed to insert events: %w", err)
		}
		total += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for {
		pkt, ok, err := reader.ReadPacketHeader(br)
		if !ok || err != nil {
			break
		}

		switch pkt.ID {
		case reader.PacketFrameStart:
			var f reader.Frame
			if f, err = reader.ReadFrame(br); err == nil {
				frame = f
				batch = append(batch, frameDocument(frame))
			}

		case reader.PacketFrameEnd:
			// empty payload

		case reader.PacketEventAdd:
			err = forEachRecord(br, func() error {
				add, err := reader.ReadEventAdd(br)
				if err == nil {
					batch = append(batch, addDocument(frame, add))
				}
				return err
			})

		case reader.PacketEventDel:
			err = forEachRecord(br, func() error {
				del, err := reader.ReadEventDel(br)
				if err == nil {
					batch = append(batch, delDocument(frame, del))
				}
				return err
			})

		case reader.PacketEventParent:
			err = forEachRecord(br, func() error {
				par, err := reader.ReadEventParent(br)
				if err == nil {
					batch = append(batch, parentDocument(frame, par))
				}
				return err
			})

		case reader.PacketCollision:
			err = forEachRecord(br, func() error {
				col, err := reader.ReadCollision(br)
				if err == nil {
					batch = append(batch, collisionDocument(frame, col))
				}
				return err
			})

		case reader.PacketPosition:
			err = forEachRecord(br, func() error {
				pos, err := reader.ReadPosition(br)
				if err == nil {
					batch = append(batch, positionDocument(frame, pos))
				}
				return err
			})

		default:
			err = pkt.Skip(br)
		}

		if err != nil {
			logrus.Debugf("recording stream ended: %v", err)
			break
		}

		bar.SetCurrent(br.Tell())
		if len(batch) >= e.batch {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}
	bar.SetCurrent(rec.Size())
	return total, nil
}

// forEachRecord reads the 16-bit record count and applies fn that many
// times, stopping at the first error
func forEachRecord(br *reader.ByteReader, fn func() error) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	for i := uint16(0); i < total; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
