package sim

// Flight tuning defaults. Accelerations and speeds are in world units per
// nominal 60 Hz tick; the integrator scales them by the frame's delta
// multiplier. These are arcade feel numbers, not physical units.
const (
	ForwardAccel    = 0.08
	StrafeAccel     = 0.06
	ReverseFactor   = 0.5  // reverse thrust is deliberately weaker
	BoostMultiplier = 4.0
	DragFactor      = 0.99 // flat per-tick velocity multiplier
	MaxSpeed        = 3.0
	TurnRate        = 0.03 // radians per tick, no angular inertia

	GravityStrength  = 60.0
	GravityCutoff    = 1500.0 // hard-edged gravity well radius
	MinGravityDistSq = 100.0  // singularity floor

	ShipRadius     = 5.0
	Restitution    = 0.5
	TrailRadius    = 0.5
	TrailMaxPoints = 120

	WorldExtent = 5000.0 // positions are clamped to this cube

	MaxDeltaMult  = 2.0 // cap on frame-time normalization after a stall
	RemoteSmooth  = 0.2 // per-tick exponential smoothing for remote ships
	SpawnAltitude = 120.0
)

// Tuning carries the flight constants so config files can override them.
// The zero value is not usable; start from DefaultTuning.
type Tuning struct {
	ForwardAccel    float64
	StrafeAccel     float64
	ReverseFactor   float64
	BoostMultiplier float64
	Drag            float64
	MaxSpeed        float64
	TurnRate        float64

	GravityStrength  float64
	GravityCutoff    float64
	MinGravityDistSq float64

	ShipRadius     float64
	Restitution    float64
	TrailRadius    float64
	TrailMaxPoints int
}

// DefaultTuning returns the stock flight constants
func DefaultTuning() Tuning {
	return Tuning{
		ForwardAccel:     ForwardAccel,
		StrafeAccel:      StrafeAccel,
		ReverseFactor:    ReverseFactor,
		BoostMultiplier:  BoostMultiplier,
		Drag:             DragFactor,
		MaxSpeed:         MaxSpeed,
		TurnRate:         TurnRate,
		GravityStrength:  GravityStrength,
		GravityCutoff:    GravityCutoff,
		MinGravityDistSq: MinGravityDistSq,
		ShipRadius:       ShipRadius,
		Restitution:      Restitution,
		TrailRadius:      TrailRadius,
		TrailMaxPoints:   TrailMaxPoints,
	}
}
