package sim

// GravityAccel accumulates gravitational acceleration at pos from every
// body within the cutoff. The pull is direction * mass/d² * strength — a
// hard-edged well, not true infinite-range gravity: bodies beyond the
// cutoff contribute exactly zero. The distance-squared floor keeps a ship
// grazing a body center from blowing up the integration.
func GravityAccel(pos Vec3, bodies []CelestialBody, tun Tuning) Vec3 {
	var acc Vec3
	cutoffSq := tun.GravityCutoff * tun.GravityCutoff
	for _, b := range bodies {
		delta := b.Pos.Sub(pos)
		distSq := delta.LengthSquared()
		if distSq > cutoffSq || distSq == 0 {
			continue
		}
		denom := distSq
		if denom < tun.MinGravityDistSq {
			denom = tun.MinGravityDistSq
		}
		acc = acc.Add(delta.Normalize().Scale(b.Mass / denom * tun.GravityStrength))
	}
	return acc
}
