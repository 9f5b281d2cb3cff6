package sim

import "math"

// Basis is a ship's orientation as an orthonormal frame of local axes in
// world space. Local X is Right, local Y is Up, and the nose points along
// Forward (local -Z). Rotation input is applied as incremental rotations
// about these local axes, so key order matters: roll, then pitch, then yaw.
type Basis struct {
	Right   Vec3
	Up      Vec3
	Forward Vec3
}

// IdentityBasis returns the unrotated frame (nose toward -Z)
func IdentityBasis() Basis {
	return Basis{
		Right:   Vec3{X: 1},
		Up:      Vec3{Y: 1},
		Forward: Vec3{Z: -1},
	}
}

// Rotated returns the basis rotated by angle radians about a unit axis
func (b Basis) Rotated(axis Vec3, angle float64) Basis {
	return Basis{
		Right:   b.Right.RotateAround(axis, angle),
		Up:      b.Up.RotateAround(axis, angle),
		Forward: b.Forward.RotateAround(axis, angle),
	}
}

// Orthonormalized rebuilds the frame as exactly orthonormal. Repeated
// incremental rotations accumulate floating point drift; calling this once
// per tick keeps the frame from shearing.
func (b Basis) Orthonormalized() Basis {
	back := b.Forward.Scale(-1).Normalize()
	if back.LengthSquared() == 0 {
		return IdentityBasis()
	}
	right := b.Right.Sub(back.Scale(b.Right.Dot(back))).Normalize()
	if right.LengthSquared() == 0 {
		right = Vec3{X: 1}
	}
	up := back.Cross(right)
	return Basis{Right: right, Up: up, Forward: back.Scale(-1)}
}

// Euler extracts XYZ-order Euler angles (radians) matching the wire format
// used for ship rotation. Columns of the rotation matrix are Right, Up and
// Back (-Forward).
func (b Basis) Euler() Vec3 {
	back := b.Forward.Scale(-1)
	m13 := back.X
	m23 := back.Y
	m33 := back.Z

	y := math.Asin(clampUnit(m13))
	var x, z float64
	if math.Abs(m13) < 0.9999999 {
		x = math.Atan2(-m23, m33)
		z = math.Atan2(-b.Up.X, b.Right.X)
	} else {
		// Gimbal lock: pitch folds into roll
		x = math.Atan2(b.Up.Z, b.Up.Y)
		z = 0
	}
	return Vec3{X: x, Y: y, Z: z}
}

// BasisFromEuler builds a frame from XYZ-order Euler angles
func BasisFromEuler(e Vec3) Basis {
	sx, cx := math.Sincos(e.X)
	sy, cy := math.Sincos(e.Y)
	sz, cz := math.Sincos(e.Z)

	right := Vec3{
		X: cy * cz,
		Y: cx*sz + sx*sy*cz,
		Z: sx*sz - cx*sy*cz,
	}
	up := Vec3{
		X: -cy * sz,
		Y: cx*cz - sx*sy*sz,
		Z: sx*cz + cx*sy*sz,
	}
	back := Vec3{
		X: sy,
		Y: -sx * cy,
		Z: cx * cy,
	}
	return Basis{Right: right, Up: up, Forward: back.Scale(-1)}
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
