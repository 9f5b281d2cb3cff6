package sim

import (
	"math"
	"testing"
	"time"
)

func testSim(w *World) *Simulation {
	if w == nil {
		w = &World{}
	}
	return NewSimulation(w, DefaultTuning(), "local", "Pilot")
}

// Ship at the origin flying at a planet dead ahead: forward thrust must
// eventually trip the sphere predicate, snap the ship to a contact exactly
// radius+shipRadius from the center, and reflect+scale its velocity.
func TestSimulationPlanetCrashScenario(t *testing.T) {
	w := worldWith(CelestialBody{Name: "wall", Pos: Vec3{Z: -20}, Radius: 10, Mass: 0.001})
	s := testSim(w)
	s.Local.Pos = Vec3{}
	s.Local.Vel = Vec3{Z: -1}

	var ev *CrashEvent
	for i := 0; i < 200 && ev == nil; i++ {
		ev = s.Tick(Input{ThrustForward: true}, NominalTick)
	}
	if ev == nil {
		t.Fatal("ship never hit the planet")
	}
	if ev.What != "wall" {
		t.Errorf("crashed into %q, want wall", ev.What)
	}

	limit := 10.0 + s.Tun.ShipRadius
	if d := s.Local.Pos.Distance(Vec3{Z: -20}); math.Abs(d-limit) > 1e-9 {
		t.Errorf("contact distance %f, want %f", d, limit)
	}
	if s.Local.Status != StatusCrashed {
		t.Error("ship should be crashed")
	}
	if math.Abs(s.Local.Vel.Length()-s.Tun.Restitution*ev.ImpactSpeed) > 1e-9 {
		t.Errorf("reflected speed %f, want restitution*impact %f",
			s.Local.Vel.Length(), s.Tun.Restitution*ev.ImpactSpeed)
	}
	if s.Local.Vel.Z <= 0 {
		t.Errorf("reflected velocity should point away from the planet, got %+v", s.Local.Vel)
	}
}

func TestSimulationCrashedShipDoesNotMove(t *testing.T) {
	w := worldWith(CelestialBody{Name: "p", Pos: Vec3{Z: -20}, Radius: 10, Mass: 0.001})
	s := testSim(w)
	s.Local.Pos = Vec3{}
	s.Local.Vel = Vec3{Z: -3}

	var ev *CrashEvent
	for i := 0; i < 50 && ev == nil; i++ {
		ev = s.Tick(Input{}, NominalTick)
	}
	if ev == nil {
		t.Fatal("expected a crash")
	}
	pos := s.Local.Pos
	for i := 0; i < 10; i++ {
		if e := s.Tick(Input{ThrustForward: true}, NominalTick); e != nil {
			t.Fatal("crashed ship should not crash again")
		}
	}
	if s.Local.Pos != pos {
		t.Errorf("crashed ship moved from %+v to %+v", pos, s.Local.Pos)
	}
}

func TestSimulationRestart(t *testing.T) {
	w := worldWith(CelestialBody{Name: "p", Pos: Vec3{Z: -20}, Radius: 10, Mass: 0.001})
	w.SpawnPads = []Transform{{Pos: Vec3{Y: 80}}}
	s := testSim(w)

	// Restart while flying is a no-op
	before := s.Local.Pos
	s.Restart()
	if s.Local.Pos != before {
		t.Error("restart while flying should do nothing")
	}

	s.Local.Pos = Vec3{}
	s.Local.Vel = Vec3{Z: -3}
	for i := 0; i < 50 && s.Local.Status == StatusFlying; i++ {
		s.Tick(Input{}, NominalTick)
	}
	if s.Local.Status != StatusCrashed {
		t.Fatal("expected a crash")
	}

	s.Restart()
	if s.Local.Status != StatusFlying {
		t.Error("restart should return ship to flying")
	}
	if s.Local.Pos != (Vec3{Y: 80}) {
		t.Errorf("restart should respawn at the pad, got %+v", s.Local.Pos)
	}
	if s.Local.Vel != (Vec3{}) {
		t.Errorf("restart should zero velocity, got %+v", s.Local.Vel)
	}
}

func TestSimulationDeltaTimeClamp(t *testing.T) {
	s := testSim(nil)
	s.Local.Pos = Vec3{}
	s.Local.Vel = Vec3{X: 1}

	// A one-second stall must integrate at most MaxDeltaMult nominal ticks
	s.Tick(Input{}, time.Second)
	if s.Local.Pos.X > 1*MaxDeltaMult {
		t.Errorf("stall integrated too far: %f", s.Local.Pos.X)
	}
	if s.Local.Pos.X <= 0 {
		t.Error("ship should still have moved")
	}
}

func TestSimulationTrailFollowsInput(t *testing.T) {
	s := testSim(nil)
	for i := 0; i < 5; i++ {
		s.Tick(Input{ThrustForward: true, TrailActive: true}, NominalTick)
	}
	if s.Local.Trail.Len() != 5 {
		t.Errorf("expected 5 trail points, got %d", s.Local.Trail.Len())
	}
	s.Tick(Input{}, NominalTick)
	if s.Local.Trail.Len() != 0 {
		t.Error("releasing the trail input should truncate the trail")
	}
}

func TestSimulationRemoteTrailHazard(t *testing.T) {
	s := testSim(nil)
	r := s.Remotes.Add("p2", "Other")
	r.SetTarget(Transform{Pos: Vec3{Z: -30}}, true)
	r.SetTarget(Transform{Pos: Vec3{Z: -40}}, true)

	// Aim the local ship straight through the remote trail segment
	s.Local.Pos = Vec3{Z: -34}
	s.Local.Vel = Vec3{Z: -0.5}
	ev := s.Tick(Input{}, NominalTick)
	if ev == nil {
		t.Fatal("expected trail collision")
	}
	if ev.What != "trail:p2" {
		t.Errorf("crashed into %q, want trail:p2", ev.What)
	}
}

func TestSimulationRemoteLifecycle(t *testing.T) {
	s := testSim(nil)
	s.Remotes.Add("a", "A")
	s.Remotes.Add("b", "B")
	if s.Remotes.Len() != 2 {
		t.Fatalf("expected 2 remotes, got %d", s.Remotes.Len())
	}
	dropped := s.Remotes.Retain(map[string]bool{"a": true})
	if len(dropped) != 1 || dropped[0] != "b" {
		t.Errorf("expected to drop b, got %v", dropped)
	}
	if s.Remotes.Get("a") == nil || s.Remotes.Get("b") != nil {
		t.Error("retain kept the wrong mirrors")
	}
}

func TestRemoteShipSmoothing(t *testing.T) {
	r := NewRemoteShip("p2", "Other", DefaultTuning())

	// Unseeded mirrors are skipped, not simulated
	r.Smooth(RemoteSmooth)
	if r.Pos != (Vec3{}) {
		t.Error("unseeded mirror should not move")
	}

	r.SetTarget(Transform{Pos: Vec3{X: 100}}, false)
	if r.Pos != (Vec3{X: 100}) {
		t.Error("first transform should snap, not smooth")
	}

	r.SetTarget(Transform{Pos: Vec3{X: 200}}, false)
	for i := 0; i < 100; i++ {
		r.Smooth(RemoteSmooth)
	}
	if math.Abs(r.Pos.X-200) > 1 {
		t.Errorf("mirror should converge on its target, at %f", r.Pos.X)
	}
	if r.Pos.X > 200+eps {
		t.Error("mirror overshot its target")
	}
}
