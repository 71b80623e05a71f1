package geom

import "math"

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeAngle maps an angle into [0, 2pi).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleBetween returns the counter-clockwise angle from direction a to
// direction b, in [0, 2pi).
func AngleBetween(a, b Vec2) float64 {
	return NormalizeAngle(b.Angle() - a.Angle())
}

// LineIntersection intersects the lines p1 + t*d1 and p2 + s*d2. ok is false
// for parallel or degenerate lines.
func LineIntersection(p1, d1, p2, d2 Vec2) (Vec2, bool) {
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
		return Vec2{}, false
	}
	t := p2.Sub(p1).Cross(d2) / denom
	return p1.Add(d1.Scale(t)), true
}

// SegmentDistance returns the distance from p to the segment ab.
func SegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Dist(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Dist(a.Add(ab.Scale(t)))
}

// PolygonContains tests p against a closed polygon with the even-odd rule.
func PolygonContains(poly []Vec2, p Vec2) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// ArcPoints samples a circular arc counter-clockwise from start to end
// (radians) with the given number of segments.
func ArcPoints(center Vec2, radius, start, end float64, segments int) []Vec2 {
	if segments < 1 {
		segments = 1
	}
	pts := make([]Vec2, segments+1)
	for i := 0; i <= segments; i++ {
		a := start + (end-start)*float64(i)/float64(segments)
		sin, cos := math.Sincos(a)
		pts[i] = Vec2{center.X + radius*cos, center.Y + radius*sin}
	}
	return pts
}
