package sim

import (
	"math"
	"testing"
)

func testShip() *Ship {
	return NewShip("s1", "Pilot", Transform{}, DefaultTuning())
}

func TestDragDecaysVelocityMonotonically(t *testing.T) {
	s := testShip()
	s.Vel = Vec3{X: 1, Y: 2, Z: 3}
	prev := s.Vel.Length()
	for i := 0; i < 500; i++ {
		s.Integrate(Input{}, nil, 1.0)
		speed := s.Vel.Length()
		if speed > prev {
			t.Fatalf("speed increased under pure drag at tick %d: %f > %f", i, speed, prev)
		}
		prev = speed
	}
	if prev > 0.05 {
		t.Errorf("speed should have decayed toward zero, still %f", prev)
	}
	// Drag must never reverse the direction of motion
	if s.Vel.X < 0 || s.Vel.Y < 0 || s.Vel.Z < 0 {
		t.Errorf("drag reversed velocity sign: %+v", s.Vel)
	}
}

func TestSpeedClampAfterIntegration(t *testing.T) {
	s := testShip()
	s.Vel = Vec3{X: 1000}
	s.Integrate(Input{}, nil, 1.0)
	if s.Vel.Length() > s.tun.MaxSpeed+eps {
		t.Errorf("speed %f exceeds max %f", s.Vel.Length(), s.tun.MaxSpeed)
	}

	s.Vel = Vec3{X: 1000}
	s.Integrate(Input{Boost: true}, nil, 1.0)
	boosted := s.tun.MaxSpeed * s.tun.BoostMultiplier
	if s.Vel.Length() > boosted+eps {
		t.Errorf("boosted speed %f exceeds max %f", s.Vel.Length(), boosted)
	}
	if s.Vel.Length() < s.tun.MaxSpeed {
		t.Error("boost clamp should allow more than base max speed")
	}
}

func TestReverseThrustIsHalfForward(t *testing.T) {
	fwd := testShip()
	fwd.Integrate(Input{ThrustForward: true}, nil, 1.0)
	rev := testShip()
	rev.Integrate(Input{ThrustBackward: true}, nil, 1.0)

	if math.Abs(fwd.Vel.Length()-2*rev.Vel.Length()) > eps {
		t.Errorf("reverse should be half of forward: fwd=%f rev=%f",
			fwd.Vel.Length(), rev.Vel.Length())
	}
	if fwd.Vel.Z >= 0 {
		t.Errorf("forward thrust should move toward -Z, vel %+v", fwd.Vel)
	}
	if rev.Vel.Z <= 0 {
		t.Errorf("reverse thrust should move toward +Z, vel %+v", rev.Vel)
	}
}

func TestBoostScalesThrust(t *testing.T) {
	plain := testShip()
	plain.Integrate(Input{ThrustForward: true}, nil, 1.0)
	boosted := testShip()
	boosted.Integrate(Input{ThrustForward: true, Boost: true}, nil, 1.0)

	ratio := boosted.Vel.Length() / plain.Vel.Length()
	if math.Abs(ratio-BoostMultiplier) > 1e-6 {
		t.Errorf("boost ratio %f, want %f", ratio, BoostMultiplier)
	}
}

func TestRotationHasNoInertia(t *testing.T) {
	s := testShip()
	s.Integrate(Input{YawLeft: true}, nil, 1.0)
	after := s.Basis
	s.Integrate(Input{}, nil, 1.0)
	if !vecNear(s.Basis.Forward, after.Forward, 1e-12) {
		t.Error("orientation kept changing after key release")
	}
}

func TestYawLeftTurnsNoseLeft(t *testing.T) {
	s := testShip()
	s.Integrate(Input{YawLeft: true}, nil, 1.0)
	if s.Basis.Forward.X >= 0 {
		t.Errorf("left yaw should swing nose toward -X, forward %+v", s.Basis.Forward)
	}
}

func TestNaNVelocitySanitized(t *testing.T) {
	s := testShip()
	s.Vel = Vec3{X: math.NaN()}
	tent := s.Integrate(Input{}, nil, 1.0)
	if !s.Vel.IsFinite() {
		t.Errorf("velocity not sanitized: %+v", s.Vel)
	}
	if !tent.IsFinite() {
		t.Errorf("tentative position not finite: %+v", tent)
	}
}

func TestCrashAndRespawn(t *testing.T) {
	s := testShip()
	s.Vel = Vec3{X: 2}
	s.Trail.Push(Vec3{X: 1})
	s.Crash()
	if s.Status != StatusCrashed {
		t.Error("expected crashed status")
	}
	if s.Trail.Len() != 0 {
		t.Error("crash should truncate the trail")
	}

	s.Respawn(Transform{Pos: Vec3{Y: 50}})
	if s.Status != StatusFlying {
		t.Error("expected flying after respawn")
	}
	if s.Vel != (Vec3{}) {
		t.Errorf("respawn should zero velocity, got %+v", s.Vel)
	}
	if s.Pos != (Vec3{Y: 50}) {
		t.Errorf("respawn position mismatch: %+v", s.Pos)
	}
}
