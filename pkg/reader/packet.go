package reader

import (
	"errors"
	"fmt"
	"io"
)

// PacketID identifies the kind of a packet in a recording stream
type PacketID uint8

// Packet kinds as written by the recorder. Values unknown to this reader
// are skipped by advancing the declared payload size.
const (
	PacketFrameStart PacketID = iota
	PacketFrameEnd
	PacketEventAdd
	PacketEventDel
	PacketEventParent
	PacketCollision
	PacketPosition
	PacketState
	PacketAnimVehicle
	PacketAnimWalker
	PacketVehicleLight
	PacketSceneLight
	PacketKinematics
	PacketBoundingBox
	PacketPlatformTime
	PacketPhysicsControl
	PacketTrafficLightTime
	PacketTriggerVolume
	PacketFrameCounter
	PacketWalkerBones
	PacketVehicleDoor
)

// String returns a human-readable name for the packet kind
func (id PacketID) String() string {
	switch id {
	case PacketFrameStart:
		return "FrameStart"
	case PacketFrameEnd:
		return "FrameEnd"
	case PacketEventAdd:
		return "EventAdd"
	case PacketEventDel:
		return "EventDel"
	case PacketEventParent:
		return "EventParent"
	case PacketCollision:
		return "Collision"
	case PacketPosition:
		return "Position"
	case PacketState:
		return "State"
	case PacketAnimVehicle:
		return "AnimVehicle"
	case PacketAnimWalker:
		return "AnimWalker"
	case PacketVehicleLight:
		return "VehicleLight"
	case PacketSceneLight:
		return "SceneLight"
	case PacketKinematics:
		return "Kinematics"
	case PacketBoundingBox:
		return "BoundingBox"
	case PacketPlatformTime:
		return "PlatformTime"
	case PacketPhysicsControl:
		return "PhysicsControl"
	case PacketTrafficLightTime:
		return "TrafficLightTime"
	case PacketTriggerVolume:
		return "TriggerVolume"
	case PacketFrameCounter:
		return "FrameCounter"
	case PacketWalkerBones:
		return "WalkerBones"
	case PacketVehicleDoor:
		return "VehicleDoor"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(id))
	}
}

// PacketHeader is the framing header preceding every payload: a one-byte
// kind followed by the payload length in bytes
type PacketHeader struct {
	ID   PacketID
	Size uint32
}

// ReadPacketHeader reads the next packet header from the stream. A clean
// EOF on the id byte signals end-of-stream and returns ok=false with a nil
// error; a short read inside the header is reported as an error.
func ReadPacketHeader(br *ByteReader) (hdr PacketHeader, ok bool, err error) {
	id, err := br.ReadUint8()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return hdr, false, nil
		}
		return hdr, false, err
	}
	hdr.ID = PacketID(id)

	hdr.Size, err = br.ReadUint32()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return hdr, false, fmt.Errorf("truncated packet header: %w", err)
		}
		return hdr, false, err
	}
	return hdr, true, nil
}

// Skip discards the packet's payload without decoding it
func (h PacketHeader) Skip(br *ByteReader) error {
	return br.Skip(h.Size)
}
