package reader

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// recordBuffer builds record payloads field by field
type recordBuffer struct {
	bytes.Buffer
}

func (b *recordBuffer) write(values ...any) *recordBuffer {
	for _, v := range values {
		binary.Write(&b.Buffer, binary.LittleEndian, v)
	}
	return b
}

func (b *recordBuffer) writeString(s string) *recordBuffer {
	b.write(uint16(len(s)))
	b.WriteString(s)
	return b
}

func (b *recordBuffer) writeVec(x, y, z float32) *recordBuffer {
	return b.write(x, y, z)
}

func (b *recordBuffer) reader() *ByteReader {
	return NewByteReader(bytes.NewReader(b.Bytes()), StringUTF8)
}

func TestReadFrame(t *testing.T) {
	var b recordBuffer
	b.write(uint64(42), float64(1.5), float64(0.05))

	br := b.reader()
	f, err := ReadFrame(br)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if f.ID != 42 || f.Elapsed != 1.5 || f.DurationThis != 0.05 {
		t.Errorf("ReadFrame() = %+v", f)
	}
	if br.Tell() != 24 {
		t.Errorf("consumed %d bytes, want 24", br.Tell())
	}
}

func TestReadEventAdd(t *testing.T) {
	var b recordBuffer
	b.write(uint32(7), uint8(1))
	b.writeVec(1, 2, 3)
	b.writeVec(0, 0, 0)
	b.writeString("vehicle.tesla.model3")
	b.write(uint16(2))
	b.write(uint8(0))
	b.writeString("color")
	b.writeString("255,0,0")
	b.write(uint8(0))
	b.writeString("role_name")
	b.writeString("hero")

	e, err := ReadEventAdd(b.reader())
	if err != nil {
		t.Fatalf("ReadEventAdd failed: %v", err)
	}
	if e.DatabaseID != 7 {
		t.Errorf("DatabaseID = %v, want 7", e.DatabaseID)
	}
	if e.Type != 1 {
		t.Errorf("Type = %v, want 1", e.Type)
	}
	if e.Location != (Vector3{1, 2, 3}) {
		t.Errorf("Location = %v", e.Location)
	}
	if e.Description.ID != "vehicle.tesla.model3" {
		t.Errorf("Description.ID = %q", e.Description.ID)
	}
	if len(e.Description.Attributes) != 2 {
		t.Fatalf("Attributes = %d, want 2", len(e.Description.Attributes))
	}
	if e.Description.Attributes[1].ID != "role_name" || e.Description.Attributes[1].Value != "hero" {
		t.Errorf("Attributes[1] = %+v", e.Description.Attributes[1])
	}
}

func TestReadCollision(t *testing.T) {
	var b recordBuffer
	b.write(uint32(1), uint8(1), uint8(0), uint32(7), uint32(8))

	c, err := ReadCollision(b.reader())
	if err != nil {
		t.Fatalf("ReadCollision failed: %v", err)
	}
	if c.ID != 1 || c.IsActor1Hero != 1 || c.IsActor2Hero != 0 || c.DatabaseID1 != 7 || c.DatabaseID2 != 8 {
		t.Errorf("ReadCollision() = %+v", c)
	}
}

func TestReadPosition(t *testing.T) {
	var b recordBuffer
	b.write(uint32(7))
	b.writeVec(10, 20, 30)
	b.writeVec(0, 90, 0)

	br := b.reader()
	p, err := ReadPosition(br)
	if err != nil {
		t.Fatalf("ReadPosition failed: %v", err)
	}
	if p.DatabaseID != 7 || p.Location != (Vector3{10, 20, 30}) || p.Rotation != (Vector3{0, 90, 0}) {
		t.Errorf("ReadPosition() = %+v", p)
	}
	if br.Tell() != 28 {
		t.Errorf("consumed %d bytes, want 28", br.Tell())
	}
}

func TestReadStateTrafficLight(t *testing.T) {
	var b recordBuffer
	b.write(uint32(12), uint8(2), uint8(1), float32(3.5))

	s, err := ReadStateTrafficLight(b.reader())
	if err != nil {
		t.Fatalf("ReadStateTrafficLight failed: %v", err)
	}
	if s.DatabaseID != 12 || s.State != 2 || s.IsFrozen != 1 || s.ElapsedTime != 3.5 {
		t.Errorf("ReadStateTrafficLight() = %+v", s)
	}
}

func TestReadAnimVehicle(t *testing.T) {
	var b recordBuffer
	b.write(uint32(7), float32(-0.5), float32(0.8), float32(0), uint8(1), int32(-1))

	a, err := ReadAnimVehicle(b.reader())
	if err != nil {
		t.Fatalf("ReadAnimVehicle failed: %v", err)
	}
	if a.DatabaseID != 7 || a.Steering != -0.5 || a.Throttle != 0.8 || a.Handbrake != 1 || a.Gear != -1 {
		t.Errorf("ReadAnimVehicle() = %+v", a)
	}
}

func TestReadWalkerBones(t *testing.T) {
	var b recordBuffer
	b.write(uint32(9), uint16(2))
	b.writeString("crl_root")
	b.writeVec(0, 0, 0)
	b.writeVec(0, 0, 0)
	b.writeString("crl_spine")
	b.writeVec(0, 0, 1)
	b.writeVec(0, 10, 0)

	w, err := ReadWalkerBones(b.reader())
	if err != nil {
		t.Fatalf("ReadWalkerBones failed: %v", err)
	}
	if w.DatabaseID != 9 || len(w.Bones) != 2 {
		t.Fatalf("ReadWalkerBones() = %+v", w)
	}
	if w.Bones[1].Name != "crl_spine" || w.Bones[1].Location != (Vector3{0, 0, 1}) {
		t.Errorf("Bones[1] = %+v", w.Bones[1])
	}
}

func TestReadPhysicsControl(t *testing.T) {
	var b recordBuffer
	b.write(uint32(7))
	// engine scalars
	b.write(float32(300), float32(6000), float32(1), float32(600))
	b.write(int32(1), float32(0.5), uint8(1))
	b.write(float32(0.3), float32(4), float32(5500), float32(2000), float32(0.9), float32(1500), float32(0.3))
	b.writeVec(0.1, 0, -0.2)
	// torque curve, steering curve
	b.write(uint16(2), float32(0), float32(400), float32(5000), float32(300))
	b.write(uint16(1), float32(0), float32(1))
	// gear ratios
	b.write(uint16(2), float32(3.5), float32(2.2))
	b.write(uint16(1), float32(3.0))
	// no wheels keeps the fixture small
	b.write(uint16(0))

	br := b.reader()
	p, err := ReadPhysicsControl(br)
	if err != nil {
		t.Fatalf("ReadPhysicsControl failed: %v", err)
	}
	c := p.VehiclePhysicsControl
	if p.DatabaseID != 7 || c.MaxTorque != 300 || c.MaxRPM != 6000 {
		t.Errorf("ReadPhysicsControl() = %+v", p)
	}
	if c.DifferentialType != 1 || c.UseGearAutoBox != 1 {
		t.Errorf("transmission fields = %+v", c)
	}
	if len(c.TorqueCurve) != 2 || c.TorqueCurve[1] != (CurvePoint{5000, 300}) {
		t.Errorf("TorqueCurve = %+v", c.TorqueCurve)
	}
	if len(c.ForwardGearRatios) != 2 || len(c.ReverseGearRatios) != 1 {
		t.Errorf("gear ratios = %+v / %+v", c.ForwardGearRatios, c.ReverseGearRatios)
	}
	if len(c.Wheels) != 0 {
		t.Errorf("Wheels = %+v", c.Wheels)
	}
	if br.Tell() != int64(b.Len()) {
		t.Errorf("consumed %d bytes, payload is %d", br.Tell(), b.Len())
	}
}

func TestRecordConsumedBytes(t *testing.T) {
	// every codec must consume exactly the bytes of its record
	tests := []struct {
		name  string
		build func(b *recordBuffer)
		read  func(br *ByteReader) error
	}{
		{
			"EventDel",
			func(b *recordBuffer) { b.write(uint32(7)) },
			func(br *ByteReader) error { _, err := ReadEventDel(br); return err },
		},
		{
			"EventParent",
			func(b *recordBuffer) { b.write(uint32(7), uint32(3)) },
			func(br *ByteReader) error { _, err := ReadEventParent(br); return err },
		},
		{
			"AnimWalker",
			func(b *recordBuffer) { b.write(uint32(7), float32(1.2)) },
			func(br *ByteReader) error { _, err := ReadAnimWalker(br); return err },
		},
		{
			"VehicleDoor",
			func(b *recordBuffer) { b.write(uint32(7), uint8(DoorHood)) },
			func(br *ByteReader) error { _, err := ReadVehicleDoor(br); return err },
		},
		{
			"VehicleLight",
			func(b *recordBuffer) { b.write(uint32(7), uint32(LightLowBeam|LightPosition)) },
			func(br *ByteReader) error { _, err := ReadVehicleLight(br); return err },
		},
		{
			"SceneLight",
			func(b *recordBuffer) { b.write(uint32(4), uint8(1), float32(100), uint8(255), uint8(128), uint8(0)) },
			func(br *ByteReader) error { _, err := ReadSceneLight(br); return err },
		},
		{
			"Kinematics",
			func(b *recordBuffer) { b.write(uint32(7)); b.writeVec(1, 0, 0); b.writeVec(0, 0, 0) },
			func(br *ByteReader) error { _, err := ReadKinematics(br); return err },
		},
		{
			"BoundingBox",
			func(b *recordBuffer) { b.write(uint32(7)); b.writeVec(0, 0, 1); b.writeVec(2, 1, 1) },
			func(br *ByteReader) error { _, err := ReadBoundingBox(br); return err },
		},
		{
			"PlatformTime",
			func(b *recordBuffer) { b.write(float64(123.456)) },
			func(br *ByteReader) error { _, err := ReadPlatformTime(br); return err },
		},
		{
			"TrafficLightTime",
			func(b *recordBuffer) { b.write(uint32(12), float32(10), float32(3), float32(8)) },
			func(br *ByteReader) error { _, err := ReadTrafficLightTime(br); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b recordBuffer
			tt.build(&b)
			br := b.reader()
			if err := tt.read(br); err != nil {
				t.Fatalf("codec failed: %v", err)
			}
			if br.Tell() != int64(b.Len()) {
				t.Errorf("consumed %d bytes, record is %d", br.Tell(), b.Len())
			}
		})
	}
}

func TestRecord_Truncated(t *testing.T) {
	var b recordBuffer
	b.write(uint32(7), uint8(1)) // EventAdd cut off inside the location

	if _, err := ReadEventAdd(b.reader()); err == nil {
		t.Error("Expected error for truncated record, got nil")
	}
}
