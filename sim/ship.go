package sim

// Status is the ship's flight state machine:
// Flying -> (collision) -> Crashed -> (player restart) -> Flying.
type Status int

const (
	StatusFlying Status = iota
	StatusCrashed
)

// Ship is the locally simulated player ship. Remote players are mirrored
// by RemoteShip instead and never pass through the integrator.
//
// Velocity persists across ticks — that is the whole inertia model.
// Acceleration is recomputed from scratch every tick and never stored.
type Ship struct {
	ID   string
	Name string

	Pos   Vec3
	Basis Basis
	Vel   Vec3

	Boosting bool
	TrailOn  bool
	Status   Status
	Trail    *Trail

	tun Tuning
}

// NewShip creates a flying ship at the given spawn transform
func NewShip(id, name string, spawn Transform, tun Tuning) *Ship {
	return &Ship{
		ID:    id,
		Name:  name,
		Pos:   spawn.Pos,
		Basis: BasisFromEuler(spawn.Rot),
		Trail: NewTrail(tun.TrailMaxPoints),
		tun:   tun,
	}
}

// Integrate advances velocity and orientation one tick and returns the
// tentative new position. The caller commits the position after collision
// resolution. dtMult is elapsed real time normalized to the nominal tick,
// already clamped by the simulation.
//
// Order per tick: thrust, gravity, velocity integration, drag, speed
// clamp, rotation, tentative position.
func (s *Ship) Integrate(in Input, bodies []CelestialBody, dtMult float64) Vec3 {
	s.Boosting = in.Boost
	s.TrailOn = in.TrailActive

	boost := 1.0
	if in.Boost {
		boost = s.tun.BoostMultiplier
	}

	// Thrust in ship-local space, rotated into world space by the basis
	var acc Vec3
	if in.ThrustForward {
		acc = acc.Add(s.Basis.Forward.Scale(s.tun.ForwardAccel * boost))
	}
	if in.ThrustBackward {
		acc = acc.Sub(s.Basis.Forward.Scale(s.tun.ForwardAccel * s.tun.ReverseFactor * boost))
	}
	if in.StrafeLeft {
		acc = acc.Sub(s.Basis.Right.Scale(s.tun.StrafeAccel * boost))
	}
	if in.StrafeRight {
		acc = acc.Add(s.Basis.Right.Scale(s.tun.StrafeAccel * boost))
	}

	acc = acc.Add(GravityAccel(s.Pos, bodies, s.tun))

	s.Vel = s.Vel.Add(acc.Scale(dtMult))

	// Flat per-tick drag, deliberately independent of dtMult; the flight
	// feel is calibrated against the once-per-frame multiplier.
	s.Vel = s.Vel.Scale(s.tun.Drag)

	// Clamp speed by rescaling the velocity vector, never the acceleration
	maxSpd := s.tun.MaxSpeed
	if in.Boost {
		maxSpd *= s.tun.BoostMultiplier
	}
	speed := s.Vel.Length()
	if speed > maxSpd {
		s.Vel = s.Vel.Scale(maxSpd / speed)
	}

	s.rotate(in)

	if !s.Vel.IsFinite() {
		s.Vel = Vec3{}
	}

	return s.Pos.Add(s.Vel.Scale(dtMult))
}

// rotate applies held rotation flags directly to the orientation. Rotation
// has no inertia: a fixed angle per tick around the current local axis,
// stopping the instant the key is released. Order is roll, pitch, yaw.
func (s *Ship) rotate(in Input) {
	b := s.Basis
	if in.RollLeft {
		b = b.Rotated(b.Forward, -s.tun.TurnRate)
	}
	if in.RollRight {
		b = b.Rotated(b.Forward, s.tun.TurnRate)
	}
	if in.PitchUp {
		b = b.Rotated(b.Right, s.tun.TurnRate)
	}
	if in.PitchDown {
		b = b.Rotated(b.Right, -s.tun.TurnRate)
	}
	if in.YawLeft {
		b = b.Rotated(b.Up, s.tun.TurnRate)
	}
	if in.YawRight {
		b = b.Rotated(b.Up, -s.tun.TurnRate)
	}
	s.Basis = b.Orthonormalized()
}

// Crash puts the ship into the crashed state. Position and velocity are
// expected to already hold the contact point and reflected velocity.
func (s *Ship) Crash() {
	s.Status = StatusCrashed
	s.TrailOn = false
	s.Trail.Clear()
}

// Respawn resets the ship to a spawn transform with all motion zeroed
func (s *Ship) Respawn(spawn Transform) {
	s.Pos = spawn.Pos
	s.Basis = BasisFromEuler(spawn.Rot)
	s.Vel = Vec3{}
	s.Boosting = false
	s.TrailOn = false
	s.Trail.Clear()
	s.Status = StatusFlying
}

// Speed returns the current velocity magnitude
func (s *Ship) Speed() float64 {
	return s.Vel.Length()
}

// Transform returns the ship's wire-format transform
func (s *Ship) Transform() Transform {
	return Transform{Pos: s.Pos, Rot: s.Basis.Euler()}
}
