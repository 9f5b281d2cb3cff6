package sim

// RemoteShip mirrors another player's ship. Remote ships are never
// simulated locally: they exponentially smooth toward the transforms the
// relay delivers, and their trails are rebuilt from those positions while
// the remote reports its trail active.
type RemoteShip struct {
	ID   string
	Name string

	Pos Vec3
	Rot Vec3 // XYZ Euler, smoothed with angle wrapping

	TrailOn bool
	Crashed bool
	Trail   *Trail

	targetPos Vec3
	targetRot Vec3
	seeded    bool
}

// NewRemoteShip creates a mirror for a newly joined remote player. Until
// its first transform arrives it is unseeded and skipped each tick.
func NewRemoteShip(id, name string, tun Tuning) *RemoteShip {
	return &RemoteShip{
		ID:    id,
		Name:  name,
		Trail: NewTrail(tun.TrailMaxPoints),
	}
}

// SetTarget records the latest reported transform. The first report snaps
// the mirror instead of smoothing so a new player doesn't glide in from
// the origin. Trail points accumulate while the remote holds its trail
// active and are dropped the moment it releases.
func (r *RemoteShip) SetTarget(t Transform, trailOn bool) {
	r.targetPos = t.Pos
	r.targetRot = t.Rot
	if !r.seeded {
		r.Pos = t.Pos
		r.Rot = t.Rot
		r.seeded = true
	}
	if trailOn {
		r.Trail.Push(t.Pos)
	} else if r.TrailOn {
		r.Trail.Clear()
	}
	r.TrailOn = trailOn
	r.Crashed = false
}

// SetCrashed marks the mirror crashed and truncates its trail
func (r *RemoteShip) SetCrashed() {
	r.Crashed = true
	r.TrailOn = false
	r.Trail.Clear()
}

// Smooth moves the mirror toward its target transform by the given
// per-tick factor. Unseeded mirrors (no transform received yet) are left
// untouched rather than treated as an error.
func (r *RemoteShip) Smooth(factor float64) {
	if !r.seeded {
		return
	}
	r.Pos = Lerp(r.Pos, r.targetPos, factor)
	r.Rot = LerpAngles(r.Rot, r.targetRot, factor)
}
