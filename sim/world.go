package sim

// CelestialBody is a fixed planet or moon. Radius doubles as the collision
// sphere; Mass is only a multiplier in the simplified gravity law.
// Bodies are created once at world setup and never move or die.
type CelestialBody struct {
	Name   string
	Pos    Vec3
	Radius float64
	Mass   float64
}

// CylinderPart is a vertical-axis cylinder collider (pads, towers)
type CylinderPart struct {
	Name   string
	Center Vec3
	Radius float64
	Height float64
}

// BoxPart is an oriented box collider. YRotation is yaw about the world Y
// axis through the box center.
type BoxPart struct {
	Name        string
	Center      Vec3
	HalfExtents Vec3
	YRotation   float64
}

// Structure is a fixed composite of primitive collision parts, e.g. the
// spaceport. Parts are immutable after world construction. There is no
// spatial index: part counts stay in the tens.
type Structure struct {
	Name      string
	Cylinders []CylinderPart
	Boxes     []BoxPart
}

// Transform is a position plus XYZ Euler rotation
type Transform struct {
	Pos Vec3
	Rot Vec3
}

// World is the immutable geometry snapshot the core simulates against
type World struct {
	Bodies     []CelestialBody
	Structures []Structure
	SpawnPads  []Transform
}

// RandomSpawn picks one of the launch pad transforms, or a default altitude
// above the origin when the world defines none.
func (w *World) RandomSpawn() Transform {
	if len(w.SpawnPads) == 0 {
		return Transform{Pos: Vec3{Y: SpawnAltitude}}
	}
	return w.SpawnPads[randIntn(len(w.SpawnPads))]
}

// DefaultWorld builds the stock scene: a handful of planets around the
// origin and a spaceport with a base platform, control tower, two landing
// ramps and a perimeter barrier.
func DefaultWorld() *World {
	return &World{
		Bodies: []CelestialBody{
			{Name: "rust", Pos: Vec3{X: 900, Y: 200, Z: -1400}, Radius: 180, Mass: 900},
			{Name: "cinder", Pos: Vec3{X: -1600, Y: -300, Z: 600}, Radius: 260, Mass: 1600},
			{Name: "halcyon", Pos: Vec3{X: 300, Y: 700, Z: 1900}, Radius: 140, Mass: 600},
			{Name: "bleak", Pos: Vec3{X: -500, Y: -900, Z: -2200}, Radius: 320, Mass: 2400},
		},
		Structures: []Structure{
			{
				Name: "spaceport",
				Cylinders: []CylinderPart{
					{Name: "base", Center: Vec3{Y: -20}, Radius: 90, Height: 40},
					{Name: "tower", Center: Vec3{X: 40, Y: 45, Z: -30}, Radius: 12, Height: 90},
				},
				Boxes: []BoxPart{
					{Name: "ramp-east", Center: Vec3{X: 110, Y: -10}, HalfExtents: Vec3{X: 30, Y: 6, Z: 14}, YRotation: 0},
					{Name: "ramp-north", Center: Vec3{Z: -110, Y: -10}, HalfExtents: Vec3{X: 30, Y: 6, Z: 14}, YRotation: 1.5707963267948966},
					{Name: "barrier", Center: Vec3{X: -70, Y: 5, Z: 70}, HalfExtents: Vec3{X: 40, Y: 18, Z: 4}, YRotation: 0.7853981633974483},
				},
			},
		},
		SpawnPads: []Transform{
			{Pos: Vec3{X: 60, Y: 12, Z: 40}},
			{Pos: Vec3{X: -60, Y: 12, Z: 40}, Rot: Vec3{Y: 3.141592653589793}},
			{Pos: Vec3{Y: 12, Z: -60}, Rot: Vec3{Y: 1.5707963267948966}},
		},
	}
}
