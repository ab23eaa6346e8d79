package query

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/carlatools/recording-query/pkg/reader"
)

// blockedActor extends the actor table with the movement tracker used by
// the blocked query
type blockedActor struct {
	Type         uint8
	ID           string
	LastPosition reader.Vector3
	Time         float64
	Duration     float64
}

func distance(a, b reader.Vector3) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Blocked renders the report of actors whose position stayed within
// minDistance for at least minTime seconds, sorted by descending
// duration. Actors still blocked at end of stream are flushed.
func (e Engine) Blocked(filename string, minTime, minDistance float64) string {
	var info strings.Builder

	rec := e.openAndCheck(filename, &info)
	if rec == nil {
		return info.String()
	}
	defer rec.Close()

	br := rec.Reader()
	var frame reader.Frame
	var lastAdd reader.EventAdd
	actors := make(map[uint32]*blockedActor)

	type result struct {
		duration float64
		line     string
	}
	var results []result

	row := func(id uint32, a *blockedActor) string {
		return fmt.Sprintf("%8.0f %6d %-35s %10.0f\n", a.Time, id, a.ID, a.Duration)
	}

	fmt.Fprintf(&info, "%8s %6s %-35s %10s\n", "Time", "Id", "Actor", "Duration")

	for {
		hdr, ok, err := reader.ReadPacketHeader(br)
		if !ok || err != nil {
			logStreamEnd(err)
			break
		}
		start := br.Tell()

		switch hdr.ID {
		case reader.PacketFrameStart:
			var f reader.Frame
			if f, err = reader.ReadFrame(br); err == nil {
				frame = f
			}

		case reader.PacketFrameEnd:
			// empty payload

		case reader.PacketEventAdd:
			var total uint16
			if total, err = br.ReadUint16(); err != nil {
				break
			}
			for i := uint16(0); i < total && err == nil; i++ {
				if lastAdd, err = reader.ReadEventAdd(br); err == nil {
					actors[lastAdd.DatabaseID] = &blockedActor{Type: lastAdd.Type, ID: lastAdd.Description.ID}
				}
			}

		case reader.PacketEventDel:
			var total uint16
			if total, err = br.ReadUint16(); err != nil {
				break
			}
			for i := uint16(0); i < total && err == nil; i++ {
				if _, err = reader.ReadEventDel(br); err == nil {
					// erases by the id of the last EventAdd record, as the
					// recorder does; kept for parity
					delete(actors, lastAdd.DatabaseID)
				}
			}

		case reader.PacketPosition:
			var total uint16
			if total, err = br.ReadUint16(); err != nil {
				break
			}
			for i := uint16(0); i < total && err == nil; i++ {
				var pos reader.Position
				if pos, err = reader.ReadPosition(br); err != nil {
					break
				}
				actor := actors[pos.DatabaseID]
				if actor == nil {
					actor = &blockedActor{}
					actors[pos.DatabaseID] = actor
				}
				if distance(actor.LastPosition, pos.Location) < minDistance {
					if actor.Duration == 0 {
						actor.Time = frame.Elapsed
					}
					actor.Duration += frame.DurationThis
				} else {
					if actor.Duration >= minTime {
						results = append(results, result{actor.Duration, row(pos.DatabaseID, actor)})
					}
					actor.Duration = 0
					actor.LastPosition = pos.Location
				}
			}

		default:
			err = hdr.Skip(br)
		}

		if err != nil {
			logStreamEnd(err)
			break
		}
		if err := checkConsumed(hdr, start, br); err != nil {
			logStreamEnd(err)
			break
		}
	}

	// flush actors that never moved again, in id order for determinism
	ids := make([]uint32, 0, len(actors))
	for id := range actors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if actor := actors[id]; actor.Duration >= minTime {
			results = append(results, result{actor.Duration, row(id, actor)})
		}
	}

	// descending by duration, equal durations keep insertion order
	sort.SliceStable(results, func(i, j int) bool { return results[i].duration > results[j].duration })
	for _, r := range results {
		info.WriteString(r.line)
	}

	writeTrailer(&info, frame)
	return info.String()
}
