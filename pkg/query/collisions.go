package query

import (
	"fmt"
	"strings"

	"github.com/carlatools/recording-query/pkg/reader"
)

// Collisions renders the collision report of a recording, filtered by two
// category letters ('o' other, 'v' vehicle, 'w' walker, 't' traffic
// light, 'h' hero, 'a' any). A multi-frame contact is reported once at
// onset: pairs seen in the previous frame are suppressed, and the pair
// sets swap at every frame start.
func (e Engine) Collisions(filename string, cat1, cat2 byte) string {
	var info strings.Builder

	rec := e.openAndCheck(filename, &info)
	if rec == nil {
		return info.String()
	}
	defer rec.Close()

	br := rec.Reader()
	var frame reader.Frame
	var lastAdd reader.EventAdd
	actors := make(map[uint32]actorInfo)
	oldCollisions := make(map[uint64]struct{})
	newCollisions := make(map[uint64]struct{})

	fmt.Fprintf(&info, "%8s %6s %6s %-35s %6s %-35s\n",
		"Time", "Types", "Id", "Actor 1", "Id", "Actor 2")

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
				// swap pair sets so onset detection sees only the previous frame
				oldCollisions = newCollisions
				newCollisions = make(map[uint64]struct{})
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
					actors[lastAdd.DatabaseID] = actorInfo{Type: lastAdd.Type, ID: lastAdd.Description.ID}
				}
			}

		case reader.PacketEventDel:
			var total uint16
			if total, err = br.ReadUint16(); err != nil {
				break
			}
			for i := uint16(0); i < total && err == nil; i++ {
				if _, err = reader.ReadEventDel(br); err == nil {
					// the recorder erases by the id of the last EventAdd
					// record, not the EventDel one; kept for parity
					delete(actors, lastAdd.DatabaseID)
				}
			}

		case reader.PacketCollision:
			var total uint16
			if total, err = br.ReadUint16(); err != nil {
				break
			}
			for i := uint16(0); i < total && err == nil; i++ {
				var col reader.Collision
				if col, err = reader.ReadCollision(br); err != nil {
					break
				}

				type1 := byte('o')
				if col.DatabaseID1 != reader.NonActorID {
					type1 = categoryOf(actors[col.DatabaseID1].Type)
				}
				type2 := byte('o')
				if col.DatabaseID2 != reader.NonActorID {
					type2 = categoryOf(actors[col.DatabaseID2].Type)
				}

				valid := 0
				if cat1 == 'a' || cat1 == type1 || (cat1 == 'h' && col.IsActor1Hero != 0) {
					valid++
				}
				if cat2 == 'a' || cat2 == type2 || (cat2 == 'h' && col.IsActor2Hero != 0) {
					valid++
				}
				if valid != 2 {
					continue
				}

				key := pairKey(col.DatabaseID1, col.DatabaseID2)
				if _, seen := oldCollisions[key]; !seen {
					fmt.Fprintf(&info, "%8.0f   %c %c  %6d %-35s %6d %-35s\n",
						frame.Elapsed, type1, type2,
						col.DatabaseID1, actors[col.DatabaseID1].ID,
						col.DatabaseID2, actors[col.DatabaseID2].ID)
				}
				newCollisions[key] = struct{}{}
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

	writeTrailer(&info, frame)
	return info.String()
}
