package reader

// Record codecs, one per packet kind. Each codec knows its own wire layout
// and consumes exactly the bytes that make up one record; the engine never
// infers layout from the framing size. List-valued packets carry a 16-bit
// record count ahead of the records themselves, read by the caller via
// ByteReader.ReadUint16.

// Frame marks the start of a temporal partition of the stream
type Frame struct {
	ID           uint64
	Elapsed      float64
	DurationThis float64
}

// ReadFrame decodes a FrameStart payload
func ReadFrame(br *ByteReader) (Frame, error) {
	var f Frame
	var err error
	if f.ID, err = br.ReadUint64(); err != nil {
		return f, err
	}
	if f.Elapsed, err = br.ReadFloat64(); err != nil {
		return f, err
	}
	f.DurationThis, err = br.ReadFloat64()
	return f, err
}

// ActorAttribute is one key/value descriptor attached to an actor
type ActorAttribute struct {
	Type  uint8
	ID    string
	Value string
}

// ActorDescription labels an actor with its blueprint id and attributes
type ActorDescription struct {
	ID         string
	Attributes []ActorAttribute
}

// EventAdd records an actor entering the simulation
type EventAdd struct {
	DatabaseID  uint32
	Type        uint8
	Location    Vector3
	Rotation    Vector3
	Description ActorDescription
}

// ReadEventAdd decodes one EventAdd record
func ReadEventAdd(br *ByteReader) (EventAdd, error) {
	var e EventAdd
	var err error
	if e.DatabaseID, err = br.ReadUint32(); err != nil {
		return e, err
	}
	if e.Type, err = br.ReadUint8(); err != nil {
		return e, err
	}
	if e.Location, err = br.ReadVector3(); err != nil {
		return e, err
	}
	if e.Rotation, err = br.ReadVector3(); err != nil {
		return e, err
	}
	if e.Description.ID, err = br.ReadString(); err != nil {
		return e, err
	}
	total, err := br.ReadUint16()
	if err != nil {
		return e, err
	}
	for i := uint16(0); i < total; i++ {
		var att ActorAttribute
		if att.Type, err = br.ReadUint8(); err != nil {
			return e, err
		}
		if att.ID, err = br.ReadString(); err != nil {
			return e, err
		}
		if att.Value, err = br.ReadString(); err != nil {
			return e, err
		}
		e.Description.Attributes = append(e.Description.Attributes, att)
	}
	return e, nil
}

// EventDel records an actor leaving the simulation
type EventDel struct {
	DatabaseID uint32
}

// ReadEventDel decodes one EventDel record
func ReadEventDel(br *ByteReader) (EventDel, error) {
	var e EventDel
	var err error
	e.DatabaseID, err = br.ReadUint32()
	return e, err
}

// EventParent records an actor being attached to a parent actor
type EventParent struct {
	DatabaseID       uint32
	DatabaseIDParent uint32
}

// ReadEventParent decodes one EventParent record
func ReadEventParent(br *ByteReader) (EventParent, error) {
	var e EventParent
	var err error
	if e.DatabaseID, err = br.ReadUint32(); err != nil {
		return e, err
	}
	e.DatabaseIDParent, err = br.ReadUint32()
	return e, err
}

// NonActorID is the sentinel database id for a collision partner that is
// not a registered actor (a static world object)
const NonActorID = uint32(0xFFFFFFFF)

// Collision records one contact between two entities in a frame
type Collision struct {
	ID           uint32
	IsActor1Hero uint8
	IsActor2Hero uint8
	DatabaseID1  uint32
	DatabaseID2  uint32
}

// ReadCollision decodes one Collision record
func ReadCollision(br *ByteReader) (Collision, error) {
	var c Collision
	var err error
	if c.ID, err = br.ReadUint32(); err != nil {
		return c, err
	}
	if c.IsActor1Hero, err = br.ReadUint8(); err != nil {
		return c, err
	}
	if c.IsActor2Hero, err = br.ReadUint8(); err != nil {
		return c, err
	}
	if c.DatabaseID1, err = br.ReadUint32(); err != nil {
		return c, err
	}
	c.DatabaseID2, err = br.ReadUint32()
	return c, err
}

// Position is the per-frame transform of one actor
type Position struct {
	DatabaseID uint32
	Location   Vector3
	Rotation   Vector3
}

// ReadPosition decodes one Position record
func ReadPosition(br *ByteReader) (Position, error) {
	var p Position
	var err error
	if p.DatabaseID, err = br.ReadUint32(); err != nil {
		return p, err
	}
	if p.Location, err = br.ReadVector3(); err != nil {
		return p, err
	}
	p.Rotation, err = br.ReadVector3()
	return p, err
}

// StateTrafficLight is the per-frame state of one traffic light
type StateTrafficLight struct {
	DatabaseID  uint32
	State       uint8
	IsFrozen    uint8
	ElapsedTime float32
}

// ReadStateTrafficLight decodes one traffic-light State record
func ReadStateTrafficLight(br *ByteReader) (StateTrafficLight, error) {
	var s StateTrafficLight
	var err error
	if s.DatabaseID, err = br.ReadUint32(); err != nil {
		return s, err
	}
	if s.State, err = br.ReadUint8(); err != nil {
		return s, err
	}
	if s.IsFrozen, err = br.ReadUint8(); err != nil {
		return s, err
	}
	s.ElapsedTime, err = br.ReadFloat32()
	return s, err
}

// AnimVehicle is the control input applied to one vehicle in a frame
type AnimVehicle struct {
	DatabaseID uint32
	Steering   float32
	Throttle   float32
	Brake      float32
	Handbrake  uint8
	Gear       int32
}

// ReadAnimVehicle decodes one AnimVehicle record
func ReadAnimVehicle(br *ByteReader) (AnimVehicle, error) {
	var a AnimVehicle
	var err error
	if a.DatabaseID, err = br.ReadUint32(); err != nil {
		return a, err
	}
	if a.Steering, err = br.ReadFloat32(); err != nil {
		return a, err
	}
	if a.Throttle, err = br.ReadFloat32(); err != nil {
		return a, err
	}
	if a.Brake, err = br.ReadFloat32(); err != nil {
		return a, err
	}
	if a.Handbrake, err = br.ReadUint8(); err != nil {
		return a, err
	}
	a.Gear, err = br.ReadInt32()
	return a, err
}

// AnimWalker is the animation speed of one walker in a frame
type AnimWalker struct {
	DatabaseID uint32
	Speed      float32
}

// ReadAnimWalker decodes one AnimWalker record
func ReadAnimWalker(br *ByteReader) (AnimWalker, error) {
	var a AnimWalker
	var err error
	if a.DatabaseID, err = br.ReadUint32(); err != nil {
		return a, err
	}
	a.Speed, err = br.ReadFloat32()
	return a, err
}

// Vehicle door identifiers as stored in the Doors byte
const (
	DoorFrontLeft  = 0x01
	DoorFrontRight = 0x02
	DoorRearLeft   = 0x04
	DoorRearRight  = 0x08
	DoorHood       = 0x10
	DoorTrunk      = 0x20
	DoorAll        = 0xFF
)

// VehicleDoor records a door state change on one vehicle
type VehicleDoor struct {
	DatabaseID uint32
	Doors      uint8
}

// ReadVehicleDoor decodes one VehicleDoor record
func ReadVehicleDoor(br *ByteReader) (VehicleDoor, error) {
	var d VehicleDoor
	var err error
	if d.DatabaseID, err = br.ReadUint32(); err != nil {
		return d, err
	}
	d.Doors, err = br.ReadUint8()
	return d, err
}

// Vehicle light flags as stored in the State bitmask
const (
	LightPosition     = uint32(1) << 0
	LightLowBeam      = uint32(1) << 1
	LightHighBeam     = uint32(1) << 2
	LightBrake        = uint32(1) << 3
	LightRightBlinker = uint32(1) << 4
	LightLeftBlinker  = uint32(1) << 5
	LightReverse      = uint32(1) << 6
	LightInterior     = uint32(1) << 7
	LightFog          = uint32(1) << 8
	LightSpecial1     = uint32(1) << 9
	LightSpecial2     = uint32(1) << 10
)

// VehicleLight records the light state of one vehicle
type VehicleLight struct {
	DatabaseID uint32
	State      uint32
}

// ReadVehicleLight decodes one VehicleLight record
func ReadVehicleLight(br *ByteReader) (VehicleLight, error) {
	var l VehicleLight
	var err error
	if l.DatabaseID, err = br.ReadUint32(); err != nil {
		return l, err
	}
	l.State, err = br.ReadUint32()
	return l, err
}

// SceneLight records a state change of one scene light
type SceneLight struct {
	LightID   uint32
	On        uint8
	Intensity float32
	Color     Color
}

// ReadSceneLight decodes one SceneLight record
func ReadSceneLight(br *ByteReader) (SceneLight, error) {
	var l SceneLight
	var err error
	if l.LightID, err = br.ReadUint32(); err != nil {
		return l, err
	}
	if l.On, err = br.ReadUint8(); err != nil {
		return l, err
	}
	if l.Intensity, err = br.ReadFloat32(); err != nil {
		return l, err
	}
	l.Color, err = br.ReadColor()
	return l, err
}

// Kinematics is the per-frame velocity state of one actor
type Kinematics struct {
	DatabaseID      uint32
	LinearVelocity  Vector3
	AngularVelocity Vector3
}

// ReadKinematics decodes one Kinematics record
func ReadKinematics(br *ByteReader) (Kinematics, error) {
	var k Kinematics
	var err error
	if k.DatabaseID, err = br.ReadUint32(); err != nil {
		return k, err
	}
	if k.LinearVelocity, err = br.ReadVector3(); err != nil {
		return k, err
	}
	k.AngularVelocity, err = br.ReadVector3()
	return k, err
}

// BoundingBox is an axis-aligned box attached to an actor; the same record
// shape carries both bounding boxes and trigger volumes
type BoundingBox struct {
	DatabaseID uint32
	Origin     Vector3
	Extension  Vector3
}

// ReadBoundingBox decodes one BoundingBox or TriggerVolume record
func ReadBoundingBox(br *ByteReader) (BoundingBox, error) {
	var b BoundingBox
	var err error
	if b.DatabaseID, err = br.ReadUint32(); err != nil {
		return b, err
	}
	if b.Origin, err = br.ReadVector3(); err != nil {
		return b, err
	}
	b.Extension, err = br.ReadVector3()
	return b, err
}

// PlatformTime is the wall-clock time of the producer at a frame. It is a
// singleton payload with no record count.
type PlatformTime struct {
	Time float64
}

// ReadPlatformTime decodes a PlatformTime payload
func ReadPlatformTime(br *ByteReader) (PlatformTime, error) {
	var p PlatformTime
	var err error
	p.Time, err = br.ReadFloat64()
	return p, err
}

// TrafficLightTime records the cycle timings of one traffic light
type TrafficLightTime struct {
	DatabaseID uint32
	GreenTime  float32
	YellowTime float32
	RedTime    float32
}

// ReadTrafficLightTime decodes one TrafficLightTime record
func ReadTrafficLightTime(br *ByteReader) (TrafficLightTime, error) {
	var t TrafficLightTime
	var err error
	if t.DatabaseID, err = br.ReadUint32(); err != nil {
		return t, err
	}
	if t.GreenTime, err = br.ReadFloat32(); err != nil {
		return t, err
	}
	if t.YellowTime, err = br.ReadFloat32(); err != nil {
		return t, err
	}
	t.RedTime, err = br.ReadFloat32()
	return t, err
}

// WalkerBone is one bone of a walker skeleton, relative to its root
type WalkerBone struct {
	Name     string
	Location Vector3
	Rotation Vector3
}

// WalkerBones is the skeletal pose of one walker in a frame
type WalkerBones struct {
	DatabaseID uint32
	Bones      []WalkerBone
}

// ReadWalkerBones decodes one WalkerBones record
func ReadWalkerBones(br *ByteReader) (WalkerBones, error) {
	var w WalkerBones
	var err error
	if w.DatabaseID, err = br.ReadUint32(); err != nil {
		return w, err
	}
	total, err := br.ReadUint16()
	if err != nil {
		return w, err
	}
	for i := uint16(0); i < total; i++ {
		var b WalkerBone
		if b.Name, err = br.ReadString(); err != nil {
			return w, err
		}
		if b.Location, err = br.ReadVector3(); err != nil {
			return w, err
		}
		if b.Rotation, err = br.ReadVector3(); err != nil {
			return w, err
		}
		w.Bones = append(w.Bones, b)
	}
	return w, nil
}
