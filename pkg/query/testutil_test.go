package query

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/carlatools/recording-query/pkg/reader"
)

// recBuilder assembles a recording file byte by byte for tests
type recBuilder struct {
	buf bytes.Buffer
}

// newRecording starts a recording with a valid file header
func newRecording() *recBuilder {
	return newRecordingWithMagic(reader.MagicString)
}

func newRecordingWithMagic(magic string) *recBuilder {
	b := &recBuilder{}
	b.writeString(&b.buf, magic)
	binary.Write(&b.buf, binary.LittleEndian, uint16(9))
	b.writeString(&b.buf, "Town03")
	binary.Write(&b.buf, binary.LittleEndian, int64(0))
	return b
}

func (b *recBuilder) writeString(w *bytes.Buffer, s string) {
	binary.Write(w, binary.LittleEndian, uint16(len(s)))
	w.WriteString(s)
}

func (b *recBuilder) packet(id reader.PacketID, payload []byte) *recBuilder {
	binary.Write(&b.buf, binary.LittleEndian, uint8(id))
	binary.Write(&b.buf, binary.LittleEndian, uint32(len(payload)))
	b.buf.Write(payload)
	return b
}

func (b *recBuilder) frameStart(id uint64, elapsed, duration float64) *recBuilder {
	p := new(bytes.Buffer)
	binary.Write(p, binary.LittleEndian, id)
	binary.Write(p, binary.LittleEndian, elapsed)
	binary.Write(p, binary.LittleEndian, duration)
	return b.packet(reader.PacketFrameStart, p.Bytes())
}

func (b *recBuilder) frameEnd() *recBuilder {
	return b.packet(reader.PacketFrameEnd, nil)
}

type attr struct {
	id    string
	value string
}

func (b *recBuilder) eventAdd(db uint32, actorType uint8, loc [3]float32, desc string, attrs ...attr) *recBuilder {
	p := new(bytes.Buffer)
	binary.Write(p, binary.LittleEndian, uint16(1))
	binary.Write(p, binary.LittleEndian, db)
	binary.Write(p, binary.LittleEndian, actorType)
	for _, f := range loc {
		binary.Write(p, binary.LittleEndian, f)
	}
	for i := 0; i < 3; i++ {
		binary.Write(p, binary.LittleEndian, float32(0))
	}
	b.writeString(p, desc)
	binary.Write(p, binary.LittleEndian, uint16(len(attrs)))
	for _, a := range attrs {
		binary.Write(p, binary.LittleEndian, uint8(0))
		b.writeString(p, a.id)
		b.writeString(p, a.value)
	}
	return b.packet(reader.PacketEventAdd, p.Bytes())
}

func (b *recBuilder) eventDel(db uint32) *recBuilder {
	p := new(bytes.Buffer)
	binary.Write(p, binary.LittleEndian, uint16(1))
	binary.Write(p, binary.LittleEndian, db)
	return b.packet(reader.PacketEventDel, p.Bytes())
}

func (b *recBuilder) eventParent(db, parent uint32) *recBuilder {
	p := new(bytes.Buffer)
	binary.Write(p, binary.LittleEndian, uint16(1))
	binary.Write(p, binary.LittleEndian, db)
	binary.Write(p, binary.LittleEndian, parent)
	return b.packet(reader.PacketEventParent, p.Bytes())
}

func (b *recBuilder) collision(id uint32, hero1, hero2 uint8, db1, db2 uint32) *recBuilder {
	p := new(bytes.Buffer)
	binary.Write(p, binary.LittleEndian, uint16(1))
	binary.Write(p, binary.LittleEndian, id)
	binary.Write(p, binary.LittleEndian, hero1)
	binary.Write(p, binary.LittleEndian, hero2)
	binary.Write(p, binary.LittleEndian, db1)
	binary.Write(p, binary.LittleEndian, db2)
	return b.packet(reader.PacketCollision, p.Bytes())
}

func (b *recBuilder) position(db uint32, loc [3]float32) *recBuilder {
	p := new(bytes.Buffer)
	binary.Write(p, binary.LittleEndian, uint16(1))
	binary.Write(p, binary.LittleEndian, db)
	for _, f := range loc {
		binary.Write(p, binary.LittleEndian, f)
	}
	for i := 0; i < 3; i++ {
		binary.Write(p, binary.LittleEndian, float32(0))
	}
	return b.packet(reader.PacketPosition, p.Bytes())
}

func (b *recBuilder) vehicleDoor(db uint32, doors uint8) *recBuilder {
	p := new(bytes.Buffer)
	binary.Write(p, binary.LittleEndian, uint16(1))
	binary.Write(p, binary.LittleEndian, db)
	binary.Write(p, binary.LittleEndian, doors)
	return b.packet(reader.PacketVehicleDoor, p.Bytes())
}

func (b *recBuilder) vehicleLight(db uint32, state uint32) *recBuilder {
	p := new(bytes.Buffer)
	binary.Write(p, binary.LittleEndian, uint16(1))
	binary.Write(p, binary.LittleEndian, db)
	binary.Write(p, binary.LittleEndian, state)
	return b.packet(reader.PacketVehicleLight, p.Bytes())
}

func (b *recBuilder) unknown(id uint8, payload []byte) *recBuilder {
	return b.packet(reader.PacketID(id), payload)
}

// raw appends bytes without framing, for truncation scenarios
func (b *recBuilder) raw(data []byte) *recBuilder {
	b.buf.Write(data)
	return b
}

// writeFile writes the recording to a temp file and returns its path
func (b *recBuilder) writeFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, b.buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test recording: %v", err)
	}
	return path
}
