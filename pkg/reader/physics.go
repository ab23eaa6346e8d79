package reader

// CurvePoint is one knot of a response curve
type CurvePoint struct {
	X, Y float32
}

// WheelPhysics is the physics setup of a single wheel
type WheelPhysics struct {
	AxleType                    int32
	Offset                      Vector3
	WheelRadius                 float32
	WheelWidth                  float32
	WheelMass                   float32
	CorneringStiffness          float32
	FrictionForceMultiplier     float32
	SideSlipModifier            float32
	SlipThreshold               float32
	SkidThreshold               float32
	MaxSteerAngle               float32
	AffectedBySteering          uint8
	AffectedByBrake             uint8
	AffectedByHandbrake         uint8
	AffectedByEngine            uint8
	ABSEnabled                  uint8
	TractionControlEnabled      uint8
	MaxWheelspinRotation        float32
	ExternalTorqueCombineMethod int32
	LateralSlipGraph            []CurvePoint
	SuspensionAxis              Vector3
	SuspensionForceOffset       Vector3
	SuspensionMaxRaise          float32
	SuspensionMaxDrop           float32
	SuspensionDampingRatio      float32
	WheelLoadRatio              float32
	SpringRate                  float32
	SpringPreload               float32
	SuspensionSmoothing         float32
	RollbarScaling              float32
	SweepShape                  uint8
	SweepType                   uint8
	MaxBrakeTorque              float32
	MaxHandBrakeTorque          float32
	WheelIndex                  uint32
	Location                    Vector3
	OldLocation                 Vector3
	Velocity                    Vector3
}

// VehiclePhysicsControl is the full physics parameter set applied to a
// vehicle: engine scalars, transmission ratios, response curves and the
// per-wheel setup
type VehiclePhysicsControl struct {
	MaxTorque              float32
	MaxRPM                 float32
	MOI                    float32
	RevDownRate            float32
	DifferentialType       int32
	FrontRearSplit         float32
	UseGearAutoBox         uint8
	GearChangeTime         float32
	FinalRatio             float32
	ChangeUpRPM            float32
	ChangeDownRPM          float32
	TransmissionEfficiency float32
	Mass                   float32
	DragCoefficient        float32
	CenterOfMass           Vector3
	TorqueCurve            []CurvePoint
	SteeringCurve          []CurvePoint
	ForwardGearRatios      []float32
	ReverseGearRatios      []float32
	Wheels                 []WheelPhysics
}

// PhysicsControl binds a physics parameter set to an actor
type PhysicsControl struct {
	DatabaseID            uint32
	VehiclePhysicsControl VehiclePhysicsControl
}

func readCurve(br *ByteReader) ([]CurvePoint, error) {
	total, err := br.ReadUint16()
	if err != nil {
		return nil, err
	}
	points := make([]CurvePoint, 0, total)
	for i := uint16(0); i < total; i++ {
		var p CurvePoint
		if p.X, err = br.ReadFloat32(); err != nil {
			return nil, err
		}
		if p.Y, err = br.ReadFloat32(); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func readRatios(br *ByteReader) ([]float32, error) {
	total, err := br.ReadUint16()
	if err != nil {
		return nil, err
	}
	ratios := make([]float32, 0, total)
	for i := uint16(0); i < total; i++ {
		r, err := br.ReadFloat32()
		if err != nil {
			return nil, err
		}
		ratios = append(ratios, r)
	}
	return ratios, nil
}

func readWheel(br *ByteReader) (WheelPhysics, error) {
	var w WheelPhysics
	var err error
	if w.AxleType, err = br.ReadInt32(); err != nil {
		return w, err
	}
	if w.Offset, err = br.ReadVector3(); err != nil {
		return w, err
	}
	for _, f := range []*float32{
		&w.WheelRadius, &w.WheelWidth, &w.WheelMass, &w.CorneringStiffness,
		&w.FrictionForceMultiplier, &w.SideSlipModifier, &w.SlipThreshold,
		&w.SkidThreshold, &w.MaxSteerAngle,
	} {
		if *f, err = br.ReadFloat32(); err != nil {
			return w, err
		}
	}
	for _, b := range []*uint8{
		&w.AffectedBySteering, &w.AffectedByBrake, &w.AffectedByHandbrake,
		&w.AffectedByEngine, &w.ABSEnabled, &w.TractionControlEnabled,
	} {
		if *b, err = br.ReadUint8(); err != nil {
			return w, err
		}
	}
	if w.MaxWheelspinRotation, err = br.ReadFloat32(); err != nil {
		return w, err
	}
	if w.ExternalTorqueCombineMethod, err = br.ReadInt32(); err != nil {
		return w, err
	}
	if w.LateralSlipGraph, err = readCurve(br); err != nil {
		return w, err
	}
	if w.SuspensionAxis, err = br.ReadVector3(); err != nil {
		return w, err
	}
	if w.SuspensionForceOffset, err = br.ReadVector3(); err != nil {
		return w, err
	}
	for _, f := range []*float32{
		&w.SuspensionMaxRaise, &w.SuspensionMaxDrop, &w.SuspensionDampingRatio,
		&w.WheelLoadRatio, &w.SpringRate, &w.SpringPreload,
		&w.SuspensionSmoothing, &w.RollbarScaling,
	} {
		if *f, err = br.ReadFloat32(); err != nil {
			return w, err
		}
	}
	if w.SweepShape, err = br.ReadUint8(); err != nil {
		return w, err
	}
	if w.SweepType, err = br.ReadUint8(); err != nil {
		return w, err
	}
	if w.MaxBrakeTorque, err = br.ReadFloat32(); err != nil {
		return w, err
	}
	if w.MaxHandBrakeTorque, err = br.ReadFloat32(); err != nil {
		return w, err
	}
	if w.WheelIndex, err = br.ReadUint32(); err != nil {
		return w, err
	}
	if w.Location, err = br.ReadVector3(); err != nil {
		return w, err
	}
	if w.OldLocation, err = br.ReadVector3(); err != nil {
		return w, err
	}
	w.Velocity, err = br.ReadVector3()
	return w, err
}

// ReadPhysicsControl decodes one PhysicsControl record
func ReadPhysicsControl(br *ByteReader) (PhysicsControl, error) {
	var p PhysicsControl
	var err error
	if p.DatabaseID, err = br.ReadUint32(); err != nil {
		return p, err
	}
	c := &p.VehiclePhysicsControl
	for _, f := range []*float32{&c.MaxTorque, &c.MaxRPM, &c.MOI, &c.RevDownRate} {
		if *f, err = br.ReadFloat32(); err != nil {
			return p, err
		}
	}
	if c.DifferentialType, err = br.ReadInt32(); err != nil {
		return p, err
	}
	if c.FrontRearSplit, err = br.ReadFloat32(); err != nil {
		return p, err
	}
	if c.UseGearAutoBox, err = br.ReadUint8(); err != nil {
		return p, err
	}
	for _, f := range []*float32{
		&c.GearChangeTime, &c.FinalRatio, &c.ChangeUpRPM, &c.ChangeDownRPM,
		&c.TransmissionEfficiency, &c.Mass, &c.DragCoefficient,
	} {
		if *f, err = br.ReadFloat32(); err != nil {
			return p, err
		}
	}
	if c.CenterOfMass, err = br.ReadVector3(); err != nil {
		return p, err
	}
	if c.TorqueCurve, err = readCurve(br); err != nil {
		return p, err
	}
	if c.SteeringCurve, err = readCurve(br); err != nil {
		return p, err
	}
	if c.ForwardGearRatios, err = readRatios(br); err != nil {
		return p, err
	}
	if c.ReverseGearRatios, err = readRatios(br); err != nil {
		return p, err
	}
	total, err := br.ReadUint16()
	if err != nil {
		return p, err
	}
	for i := uint16(0); i < total; i++ {
		w, err := readWheel(br)
		if err != nil {
			return p, err
		}
		c.Wheels = append(c.Wheels, w)
	}
	return p, nil
}
