package sim

// Input is a snapshot of held control flags, read once per tick. Keyboard
// and touch handlers refresh it asynchronously; the integrator only ever
// sees whole-tick snapshots.
type Input struct {
	ThrustForward  bool
	ThrustBackward bool
	StrafeLeft     bool
	StrafeRight    bool
	PitchUp        bool
	PitchDown      bool
	YawLeft        bool
	YawRight       bool
	RollLeft       bool
	RollRight      bool
	Boost          bool
	TrailActive    bool
}
