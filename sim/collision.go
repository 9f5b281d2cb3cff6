package sim

import "math"

// Collision is the transient result of a resolved hit. It is consumed
// immediately by the response step and never persisted.
type Collision struct {
	Contact Vec3
	Normal  Vec3 // unit, pointing away from the solid surface
	What    string
}

// TrailHazard is another player's trail offered to the resolver. A ship's
// own trail is never tested against itself.
type TrailHazard struct {
	Owner string
	Trail *Trail
}

// ResolveCollision tests the tentative position against every body, every
// structure part and every hazard trail, and returns the hit whose contact
// point is nearest to the ship's current position, or nil on a miss.
//
// This is a point check at the tentative position, not a swept test along
// the motion segment: a fast ship can tunnel through thin geometry between
// ticks. When several primitives overlap the point, the nearest contact
// wins so simultaneous hits resolve independently of iteration order.
func ResolveCollision(w *World, from, tentative Vec3, tun Tuning, trails []TrailHazard) *Collision {
	var best *Collision
	bestDistSq := math.Inf(1)

	consider := func(c *Collision) {
		if c == nil {
			return
		}
		d := from.DistanceSquared(c.Contact)
		if d < bestDistSq {
			best = c
			bestDistSq = d
		}
	}

	for i := range w.Bodies {
		consider(sphereHit(tentative, &w.Bodies[i], tun.ShipRadius))
	}
	for i := range w.Structures {
		st := &w.Structures[i]
		for j := range st.Cylinders {
			consider(cylinderHit(tentative, &st.Cylinders[j], tun.ShipRadius))
		}
		for j := range st.Boxes {
			consider(boxHit(tentative, &st.Boxes[j], tun.ShipRadius))
		}
	}
	for _, h := range trails {
		consider(trailHit(tentative, h, tun.ShipRadius, tun.TrailRadius))
	}
	return best
}

// sphereHit tests a planet: hit when the tentative position is within
// bodyRadius+shipRadius of the center. The contact point is where the ship
// center comes to rest — the surface plus the ship's own radius, so the
// snapped position is exactly clear of the body.
func sphereHit(p Vec3, b *CelestialBody, shipRadius float64) *Collision {
	delta := p.Sub(b.Pos)
	if delta.Length() >= b.Radius+shipRadius {
		return nil
	}
	normal := delta.Normalize()
	if normal.LengthSquared() == 0 {
		// Ship exactly at the body center: push it straight up
		normal = Vec3{Y: 1}
	}
	return &Collision{
		Contact: b.Pos.Add(normal.Scale(b.Radius + shipRadius)),
		Normal:  normal,
		What:    b.Name,
	}
}

// cylinderHit tests a vertical cylinder: horizontal distance to the axis
// plus a vertical band check. The normal is horizontal only — the ship is
// pushed radially outward, never up or down.
func cylinderHit(p Vec3, c *CylinderPart, shipRadius float64) *Collision {
	dx := p.X - c.Center.X
	dz := p.Z - c.Center.Z
	horiz := math.Sqrt(dx*dx + dz*dz)
	if horiz >= c.Radius+shipRadius {
		return nil
	}
	halfH := c.Height / 2
	if p.Y < c.Center.Y-halfH || p.Y > c.Center.Y+halfH {
		return nil
	}
	var normal Vec3
	if horiz == 0 {
		normal = Vec3{X: 1}
	} else {
		normal = Vec3{X: dx / horiz, Z: dz / horiz}
	}
	return &Collision{
		Contact: Vec3{
			X: c.Center.X + normal.X*(c.Radius+shipRadius),
			Y: p.Y,
			Z: c.Center.Z + normal.Z*(c.Radius+shipRadius),
		},
		Normal: normal,
		What:   c.Name,
	}
}

// boxHit tests an oriented box by transforming the point into the box's
// yaw-rotated local frame and doing an exact containment test. The normal
// is the axis of minimum penetration, rotated back into world space.
func boxHit(p Vec3, b *BoxPart, shipRadius float64) *Collision {
	local := rotateY(p.Sub(b.Center), -b.YRotation)

	px := b.HalfExtents.X - math.Abs(local.X)
	py := b.HalfExtents.Y - math.Abs(local.Y)
	pz := b.HalfExtents.Z - math.Abs(local.Z)
	if px <= 0 || py <= 0 || pz <= 0 {
		return nil
	}

	// Face of minimum penetration
	pen := px
	normalLocal := Vec3{X: sign(local.X)}
	if py < pen {
		pen = py
		normalLocal = Vec3{Y: sign(local.Y)}
	}
	if pz < pen {
		pen = pz
		normalLocal = Vec3{Z: sign(local.Z)}
	}

	normal := rotateY(normalLocal, b.YRotation)
	return &Collision{
		Contact: p.Add(normal.Scale(pen + shipRadius)),
		Normal:  normal,
		What:    b.Name,
	}
}

// trailHit tests every consecutive pair of trail points as a segment:
// hit when the tentative position comes within shipRadius+trailRadius of
// the segment.
func trailHit(p Vec3, h TrailHazard, shipRadius, trailRadius float64) *Collision {
	limit := shipRadius + trailRadius
	for i := 0; i < h.Trail.Segments(); i++ {
		a, b := h.Trail.Segment(i)
		closest := closestOnSegment(p, a, b)
		delta := p.Sub(closest)
		if delta.Length() >= limit {
			continue
		}
		normal := delta.Normalize()
		if normal.LengthSquared() == 0 {
			normal = Vec3{Y: 1}
		}
		return &Collision{
			Contact: closest.Add(normal.Scale(trailRadius + shipRadius)),
			Normal:  normal,
			What:    "trail:" + h.Owner,
		}
	}
	return nil
}

// closestOnSegment returns the point on segment ab nearest to p
func closestOnSegment(p, a, b Vec3) Vec3 {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return a
	}
	t := Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Scale(t))
}

// Reflect bounces v off a unit normal and scales by the restitution
// factor: v' = restitution * (v - 2(v·n)n).
func Reflect(v, n Vec3, restitution float64) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n))).Scale(restitution)
}

func rotateY(v Vec3, angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
