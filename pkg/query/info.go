package query

import (
	"fmt"
	"strings"

	"github.com/carlatools/recording-query/pkg/reader"
)

// Info renders the frame-by-frame report of a recording. Actor life-cycle
// events, parenting and collisions are always shown; the remaining packet
// kinds only appear when showAll is set. Frame lines are emitted lazily so
// frames that contribute nothing stay silent (unless showAll).
func (e Engine) Info(filename string, showAll bool) string {
	var info strings.Builder

	rec := e.openAndCheck(filename, &info)
	if rec == nil {
		return info.String()
	}
	defer rec.Close()

	br := rec.Reader()
	var frame reader.Frame
	framePrinted := false

	printFrame := func() {
		fmt.Fprintf(&info, "Frame %d at %v seconds\n", frame.ID, frame.Elapsed)
		framePrinted = true
	}
	// frame header ahead of the first displayed record of a frame
	printFrameOnce := func(total uint16) {
		if total > 0 && !framePrinted {
			printFrame()
		}
	}

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
				if showAll {
					printFrame()
				} else {
					framePrinted = false
				}
			}

		case reader.PacketFrameEnd:
			// empty payload

		case reader.PacketEventAdd:
			var total uint16
			if total, err = br.ReadUint16(); err != nil {
				break
			}
			printFrameOnce(total)
			for i := uint16(0); i < total && err == nil; i++ {
				var add reader.EventAdd
				if add, err = reader.ReadEventAdd(br); err != nil {
					break
				}
				fmt.Fprintf(&info, " Create %d: %s (%d) at (%v, %v, %v)\n",
					add.DatabaseID, add.Description.ID, add.Type,
					add.Location.X, add.Location.Y, add.Location.Z)
				for _, att := range add.Description.Attributes {
					fmt.Fprintf(&info, "  %s = %s\n", att.ID, att.Value)
				}
			}

		case reader.PacketEventDel:
			var total uint16
			if total, err = br.ReadUint16(); err != nil {
				break
			}
			printFrameOnce(total)
			for i := uint16(0); i < total && err == nil; i++ {
				var del reader.EventDel
				if del, err = reader.ReadEventDel(br); err == nil {
					fmt.Fprintf(&info, " Destroy %d\n", del.DatabaseID)
				}
			}

		case reader.PacketEventParent:
			var total uint16
			if total, err = br.ReadUint16(); err != nil {
				break
			}
			printFrameOnce(total)
			for i := uint16(0); i < total && err == nil; i++ {
				var par reader.EventParent
				if par, err = reader.ReadEventParent(br); err == nil {
					fmt.Fprintf(&info, " Parenting %d with %d (parent)\n",
						par.DatabaseID, par.DatabaseIDParent)
				}
			}

		case reader.PacketCollision:
			var total uint16
			if total, err = br.ReadUint16(); err != nil {
				break
			}
			printFrameOnce(total)
			for i := uint16(0); i < total && err == nil; i++ {
				var col reader.Collision
				if col, err = reader.ReadCollision(br); err != nil {
					break
				}
				fmt.Fprintf(&info, " Collision id %d between %d", col.ID, col.DatabaseID1)
				if col.IsActor1Hero != 0 {
					info.WriteString(" (hero) ")
				}
				fmt.Fprintf(&info, " with %d", col.DatabaseID2)
				if col.IsActor2Hero != 0 {
					info.WriteString(" (hero) ")
				}
				info.WriteByte('\n')
			}

		case reader.PacketPosition:
			if showAll {
				err = infoPositions(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketState:
			if showAll {
				err = infoTrafficLights(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketAnimVehicle:
			if showAll {
				err = infoAnimVehicles(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketAnimWalker:
			if showAll {
				err = infoAnimWalkers(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketVehicleDoor:
			if showAll {
				err = infoVehicleDoors(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketVehicleLight:
			if showAll {
				err = infoVehicleLights(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketSceneLight:
			if showAll {
				err = infoSceneLights(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketKinematics:
			if showAll {
				err = infoKinematics(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketBoundingBox:
			if showAll {
				err = infoBoundingBoxes(br, &info, " Actor bounding boxes: ", printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketTriggerVolume:
			if showAll {
				err = infoBoundingBoxes(br, &info, " Actor trigger volumes: ", printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketPlatformTime:
			if showAll {
				if !framePrinted {
					printFrame()
				}
				var pt reader.PlatformTime
				if pt, err = reader.ReadPlatformTime(br); err == nil {
					fmt.Fprintf(&info, " Current platform time: %v\n", pt.Time)
				}
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketPhysicsControl:
			if showAll {
				err = infoPhysicsControl(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketTrafficLightTime:
			if showAll {
				err = infoTrafficLightTimes(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
			}

		case reader.PacketWalkerBones:
			if showAll {
				err = infoWalkerBones(br, &info, printFrameOnce)
			} else {
				err = hdr.Skip(br)
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

func infoPositions(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Positions: %d\n", total)
	for i := uint16(0); i < total; i++ {
		pos, err := reader.ReadPosition(br)
		if err != nil {
			return err
		}
		fmt.Fprintf(info, "  Id: %d Location: (%v, %v, %v) Rotation: (%v, %v, %v)\n",
			pos.DatabaseID,
			pos.Location.X, pos.Location.Y, pos.Location.Z,
			pos.Rotation.X, pos.Rotation.Y, pos.Rotation.Z)
	}
	return nil
}

func infoTrafficLights(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " State traffic lights: %d\n", total)
	for i := uint16(0); i < total; i++ {
		st, err := reader.ReadStateTrafficLight(br)
		if err != nil {
			return err
		}
		fmt.Fprintf(info, "  Id: %d state: %c frozen: %d elapsedTime: %v\n",
			st.DatabaseID, rune('0'+st.State), st.IsFrozen, st.ElapsedTime)
	}
	return nil
}

func infoAnimVehicles(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Vehicle animations: %d\n", total)
	for i := uint16(0); i < total; i++ {
		av, err := reader.ReadAnimVehicle(br)
		if err != nil {
			return err
		}
		fmt.Fprintf(info, "  Id: %d Steering: %v Throttle: %v Brake: %v Handbrake: %d Gear: %d\n",
			av.DatabaseID, av.Steering, av.Throttle, av.Brake, av.Handbrake, av.Gear)
	}
	return nil
}

func infoAnimWalkers(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Walker animations: %d\n", total)
	for i := uint16(0); i < total; i++ {
		aw, err := reader.ReadAnimWalker(br)
		if err != nil {
			return err
		}
		fmt.Fprintf(info, "  Id: %d speed: %v\n", aw.DatabaseID, aw.Speed)
	}
	return nil
}

// Door names are reported by enum equality against the raw byte, so a
// multi-door mask other than All prints nothing. This mirrors the
// recorder's own report output.
var doorNames = []struct {
	value uint8
	name  string
}{
	{reader.DoorFrontLeft, "Front Left"},
	{reader.DoorFrontRight, "Front Right"},
	{reader.DoorRearLeft, "Rear Left"},
	{reader.DoorRearRight, "Rear Right"},
	{reader.DoorHood, "Hood"},
	{reader.DoorTrunk, "Trunk"},
	{reader.DoorAll, "All"},
}

func infoVehicleDoors(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Vehicle door animations: %d\n", total)
	for i := uint16(0); i < total; i++ {
		door, err := reader.ReadVehicleDoor(br)
		if err != nil {
			return err
		}
		fmt.Fprintf(info, "  Id: %d\n", door.DatabaseID)
		info.WriteString("  Doors opened: ")
		for _, d := range doorNames {
			if door.Doors == d.value {
				fmt.Fprintf(info, " %s \n", d.name)
			}
		}
	}
	return nil
}

var lightNames = []struct {
	flag uint32
	name string
}{
	{reader.LightPosition, "Position"},
	{reader.LightLowBeam, "LowBeam"},
	{reader.LightHighBeam, "HighBeam"},
	{reader.LightBrake, "Brake"},
	{reader.LightRightBlinker, "RightBlinker"},
	{reader.LightLeftBlinker, "LeftBlinker"},
	{reader.LightReverse, "Reverse"},
	{reader.LightInterior, "Interior"},
	{reader.LightFog, "Fog"},
	{reader.LightSpecial1, "Special1"},
	{reader.LightSpecial2, "Special2"},
}

func infoVehicleLights(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Vehicle light animations: %d\n", total)
	for i := uint16(0); i < total; i++ {
		light, err := reader.ReadVehicleLight(br)
		if err != nil {
			return err
		}
		var enabled []string
		for _, l := range lightNames {
			if light.State&l.flag != 0 {
				enabled = append(enabled, l.name)
			}
		}
		if len(enabled) > 0 {
			fmt.Fprintf(info, "  Id: %d %s\n", light.DatabaseID, strings.Join(enabled, " "))
		} else {
			fmt.Fprintf(info, "  Id: %d None\n", light.DatabaseID)
		}
	}
	return nil
}

func infoSceneLights(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Scene light changes: %d\n", total)
	for i := uint16(0); i < total; i++ {
		light, err := reader.ReadSceneLight(br)
		if err != nil {
			return err
		}
		enabled := "False"
		if light.On != 0 {
			enabled = "True"
		}
		fmt.Fprintf(info, "  Id: %d enabled: %s intensity: %v RGB_color: (%d, %d, %d)\n",
			light.LightID, enabled, light.Intensity,
			light.Color.R, light.Color.G, light.Color.B)
	}
	return nil
}

func infoKinematics(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Dynamic actors: %d\n", total)
	for i := uint16(0); i < total; i++ {
		kin, err := reader.ReadKinematics(br)
		if err != nil {
			return err
		}
		fmt.Fprintf(info, "  Id: %d linear_velocity: (%v, %v, %v) angular_velocity: (%v, %v, %v)\n",
			kin.DatabaseID,
			kin.LinearVelocity.X, kin.LinearVelocity.Y, kin.LinearVelocity.Z,
			kin.AngularVelocity.X, kin.AngularVelocity.Y, kin.AngularVelocity.Z)
	}
	return nil
}

func infoBoundingBoxes(br *reader.ByteReader, info *strings.Builder, label string, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, "%s%d\n", label, total)
	for i := uint16(0); i < total; i++ {
		box, err := reader.ReadBoundingBox(br)
		if err != nil {
			return err
		}
		fmt.Fprintf(info, "  Id: %d origin: (%v, %v, %v) extension: (%v, %v, %v)\n",
			box.DatabaseID,
			box.Origin.X, box.Origin.Y, box.Origin.Z,
			box.Extension.X, box.Extension.Y, box.Extension.Z)
	}
	return nil
}

func infoTrafficLightTimes(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Traffic Light time events: %d\n", total)
	for i := uint16(0); i < total; i++ {
		tl, err := reader.ReadTrafficLightTime(br)
		if err != nil {
			return err
		}
		fmt.Fprintf(info, "  Id: %d green_time: %v yellow_time: %v red_time: %v\n",
			tl.DatabaseID, tl.GreenTime, tl.YellowTime, tl.RedTime)
	}
	return nil
}

func infoWalkerBones(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Walkers Bones: %d\n", total)
	for i := uint16(0); i < total; i++ {
		wb, err := reader.ReadWalkerBones(br)
		if err != nil {
			return err
		}
		fmt.Fprintf(info, "  Id: %d\n", wb.DatabaseID)
		for _, bone := range wb.Bones {
			fmt.Fprintf(info, "     Bone: %q relative: Loc(%v, %v, %v) Rot(%v, %v, %v)\n",
				bone.Name,
				bone.Location.X, bone.Location.Y, bone.Location.Z,
				bone.Rotation.X, bone.Rotation.Y, bone.Rotation.Z)
		}
	}
	info.WriteByte('\n')
	return nil
}

func formatVec(v reader.Vector3) string {
	return fmt.Sprintf("(%v, %v, %v)", v.X, v.Y, v.Z)
}

func formatCurve(points []reader.CurvePoint) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, p := range points {
		fmt.Fprintf(&sb, "(%v, %v),", p.X, p.Y)
	}
	sb.WriteByte(']')
	return sb.String()
}

func infoPhysicsControl(br *reader.ByteReader, info *strings.Builder, printFrameOnce func(uint16)) error {
	total, err := br.ReadUint16()
	if err != nil {
		return err
	}
	printFrameOnce(total)
	fmt.Fprintf(info, " Physics Control events: %d\n", total)
	for i := uint16(0); i < total; i++ {
		pc, err := reader.ReadPhysicsControl(br)
		if err != nil {
			return err
		}
		c := pc.VehiclePhysicsControl
		autoBox := "false"
		if c.UseGearAutoBox != 0 {
			autoBox = "true"
		}
		fmt.Fprintf(info, "  Id: %d\n", pc.DatabaseID)
		fmt.Fprintf(info, "   max_torque = %v\n", c.MaxTorque)
		fmt.Fprintf(info, "   max_rpm = %v\n", c.MaxRPM)
		fmt.Fprintf(info, "   MOI = %v\n", c.MOI)
		fmt.Fprintf(info, "   rev_down_rate = %v\n", c.RevDownRate)
		fmt.Fprintf(info, "   differential_type = %d\n", c.DifferentialType)
		fmt.Fprintf(info, "   front_rear_split = %v\n", c.FrontRearSplit)
		fmt.Fprintf(info, "   use_gear_auto_box = %s\n", autoBox)
		fmt.Fprintf(info, "   gear_change_time = %v\n", c.GearChangeTime)
		fmt.Fprintf(info, "   final_ratio = %v\n", c.FinalRatio)
		fmt.Fprintf(info, "   change_up_rpm = %v\n", c.ChangeUpRPM)
		fmt.Fprintf(info, "   change_down_rpm = %v\n", c.ChangeDownRPM)
		fmt.Fprintf(info, "   transmission_efficiency = %v\n", c.TransmissionEfficiency)
		fmt.Fprintf(info, "   mass = %v\n", c.Mass)
		fmt.Fprintf(info, "   drag_coefficient = %v\n", c.DragCoefficient)
		fmt.Fprintf(info, "   center_of_mass = %s\n", formatVec(c.CenterOfMass))
		info.WriteString("   torque_curve =")
		for _, p := range c.TorqueCurve {
			fmt.Fprintf(info, " (%v, %v)", p.X, p.Y)
		}
		info.WriteByte('\n')
		info.WriteString("   steering_curve =")
		for _, p := range c.SteeringCurve {
			fmt.Fprintf(info, " (%v, %v)", p.X, p.Y)
		}
		info.WriteByte('\n')
		info.WriteString("   forward_gear_ratios:\n")
		for n, ratio := range c.ForwardGearRatios {
			fmt.Fprintf(info, "    gear %d: ratio %v\n", n, ratio)
		}
		info.WriteString("   reverse_gear_ratios:\n")
		for n, ratio := range c.ReverseGearRatios {
			fmt.Fprintf(info, "    gear %d: ratio %v\n", n, ratio)
		}
		info.WriteString("   wheels:")
		for n, w := range c.Wheels {
			fmt.Fprintf(info, "\nwheel #%d:\n", n)
			fmt.Fprintf(info, " axle_type: %d", w.AxleType)
			fmt.Fprintf(info, " offset: %s", formatVec(w.Offset))
			fmt.Fprintf(info, " wheel_radius: %v", w.WheelRadius)
			fmt.Fprintf(info, " wheel_width: %v", w.WheelWidth)
			fmt.Fprintf(info, " wheel_mass: %v", w.WheelMass)
			fmt.Fprintf(info, " cornering_stiffness: %v", w.CorneringStiffness)
			fmt.Fprintf(info, " friction_force_multiplier: %v", w.FrictionForceMultiplier)
			fmt.Fprintf(info, " side_slip_modifier: %v", w.SideSlipModifier)
			fmt.Fprintf(info, " slip_threshold: %v", w.SlipThreshold)
			fmt.Fprintf(info, " skid_threshold: %v", w.SkidThreshold)
			fmt.Fprintf(info, " max_steer_angle: %v", w.MaxSteerAngle)
			fmt.Fprintf(info, " affected_by_steering: %d", w.AffectedBySteering)
			fmt.Fprintf(info, " affected_by_brake: %d", w.AffectedByBrake)
			fmt.Fprintf(info, " affected_by_handbrake: %d", w.AffectedByHandbrake)
			fmt.Fprintf(info, " affected_by_engine: %d", w.AffectedByEngine)
			fmt.Fprintf(info, " abs_enabled: %d", w.ABSEnabled)
			fmt.Fprintf(info, " traction_control_enabled: %d", w.TractionControlEnabled)
			fmt.Fprintf(info, " max_wheelspin_rotation: %v", w.MaxWheelspinRotation)
			fmt.Fprintf(info, " external_torque_combine_method: %d", w.ExternalTorqueCombineMethod)
			fmt.Fprintf(info, " lateral_slip_graph: %s", formatCurve(w.LateralSlipGraph))
			fmt.Fprintf(info, " suspension_axis: %s", formatVec(w.SuspensionAxis))
			fmt.Fprintf(info, " suspension_force_offset: %s", formatVec(w.SuspensionForceOffset))
			fmt.Fprintf(info, " suspension_max_raise: %v", w.SuspensionMaxRaise)
			fmt.Fprintf(info, " suspension_max_drop: %v", w.SuspensionMaxDrop)
			fmt.Fprintf(info, " suspension_damping_ratio: %v", w.SuspensionDampingRatio)
			fmt.Fprintf(info, " wheel_load_ratio: %v", w.WheelLoadRatio)
			fmt.Fprintf(info, " spring_rate: %v", w.SpringRate)
			fmt.Fprintf(info, " spring_preload: %v", w.SpringPreload)
			fmt.Fprintf(info, " suspension_smoothing: %v", w.SuspensionSmoothing)
			fmt.Fprintf(info, " rollbar_scaling: %v", w.RollbarScaling)
			fmt.Fprintf(info, " sweep_shape: %d", w.SweepShape)
			fmt.Fprintf(info, " sweep_type: %d", w.SweepType)
			fmt.Fprintf(info, " max_brake_torque: %v", w.MaxBrakeTorque)
			fmt.Fprintf(info, " max_hand_brake_torque: %v", w.MaxHandBrakeTorque)
			fmt.Fprintf(info, " wheel_index: %d", w.WheelIndex)
			fmt.Fprintf(info, " location: %s", formatVec(w.Location))
			fmt.Fprintf(info, " old_location: %s", formatVec(w.OldLocation))
			fmt.Fprintf(info, " velocity: %s", formatVec(w.Velocity))
		}
		info.WriteByte('\n')
	}
	return nil
}
