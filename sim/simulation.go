package sim

import "time"

// NominalTick is the tick the tuning constants are calibrated for
const NominalTick = time.Second / 60

// CrashEvent is emitted when the resolver overrides a tick's position
// update. Presentation (sound, particles, the crashed overlay) hangs off
// this event; the core only produces it.
type CrashEvent struct {
	What        string
	Contact     Vec3
	ImpactSpeed float64
}

// Simulation runs the full client-side pipeline for one local ship:
// input -> integrate -> collide -> respond, once per animation frame,
// entirely synchronously. Remote players are mirrored, never simulated.
type Simulation struct {
	World   *World
	Tun     Tuning
	Local   *Ship
	Remotes *Registry

	tick uint64
}

// NewSimulation creates a simulation with the local ship at a random spawn
func NewSimulation(w *World, tun Tuning, id, name string) *Simulation {
	return &Simulation{
		World:   w,
		Tun:     tun,
		Local:   NewShip(id, name, w.RandomSpawn(), tun),
		Remotes: NewRegistry(tun),
	}
}

// Tick advances the simulation by one frame. elapsed is the real time
// since the previous frame; it is normalized against the nominal tick and
// clamped so a stalled tab doesn't integrate a huge step. Returns a
// CrashEvent when this tick's motion hit something, else nil.
func (s *Simulation) Tick(in Input, elapsed time.Duration) *CrashEvent {
	dtMult := Clamp(float64(elapsed)/float64(NominalTick), 0, MaxDeltaMult)
	s.tick++

	for _, r := range s.Remotes.Snapshot() {
		r.Smooth(RemoteSmooth)
	}

	if s.Local.Status == StatusCrashed {
		// Crashed ships wait for a player-initiated restart
		return nil
	}

	tentative := s.Local.Integrate(in, s.World.Bodies, dtMult)
	if !tentative.IsFinite() {
		tentative = s.Local.Pos
	}

	col := ResolveCollision(s.World, s.Local.Pos, tentative, s.Tun, s.hazards())
	if col != nil {
		impact := s.Local.Speed()
		s.Local.Vel = Reflect(s.Local.Vel, col.Normal, s.Tun.Restitution)
		s.Local.Pos = col.Contact
		s.Local.Crash()
		return &CrashEvent{What: col.What, Contact: col.Contact, ImpactSpeed: impact}
	}

	s.Local.Pos = clampExtent(tentative)
	if in.TrailActive {
		s.Local.Trail.Push(s.Local.Pos)
	} else if s.Local.Trail.Len() > 0 {
		s.Local.Trail.Clear()
	}
	return nil
}

// Restart performs the player-initiated Crashed -> Flying transition,
// respawning at a random launch pad with all motion zeroed. A no-op while
// still flying.
func (s *Simulation) Restart() {
	if s.Local.Status != StatusCrashed {
		return
	}
	s.Local.Respawn(s.World.RandomSpawn())
}

// TickCount returns the number of completed ticks
func (s *Simulation) TickCount() uint64 {
	return s.tick
}

// hazards collects the other players' trails for the resolver. The local
// ship's own trail is never among them.
func (s *Simulation) hazards() []TrailHazard {
	remotes := s.Remotes.Snapshot()
	var out []TrailHazard
	for _, r := range remotes {
		if r.Trail.Segments() == 0 {
			continue
		}
		out = append(out, TrailHazard{Owner: r.ID, Trail: r.Trail})
	}
	return out
}

func clampExtent(p Vec3) Vec3 {
	return Vec3{
		X: Clamp(p.X, -WorldExtent, WorldExtent),
		Y: Clamp(p.Y, -WorldExtent, WorldExtent),
		Z: Clamp(p.Z, -WorldExtent, WorldExtent),
	}
}
