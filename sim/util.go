package sim

import (
	"crypto/rand"
	"math"
)

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates between two angles taking the short path
func LerpAngle(from, to, t float64) float64 {
	diff := NormalizeAngle(to - from)
	return from + diff*t
}

// LerpAngles interpolates Euler angles component-wise on the short path
func LerpAngles(from, to Vec3, t float64) Vec3 {
	return Vec3{
		X: LerpAngle(from.X, to.X, t),
		Y: LerpAngle(from.Y, to.Y, t),
		Z: LerpAngle(from.Z, to.Z, t),
	}
}

// Non-crypto gameplay randomness, seeded once from crypto/rand
var randSrc uint64

func randFloat() float64 {
	// Simple xorshift for non-crypto random
	randSrc ^= randSrc << 13
	randSrc ^= randSrc >> 7
	randSrc ^= randSrc << 17
	if randSrc == 0 {
		randSrc = 1
	}
	return float64(randSrc%10000) / 10000.0
}

func randIntn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(randFloat() * float64(n))
}

func init() {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	for i, v := range b {
		randSrc |= uint64(v) << (uint(i) * 8)
	}
	if randSrc == 0 {
		randSrc = 1
	}
}
