package geom

import "math"

// CatmullRom samples the uniform Catmull-Rom curve through points at
// divisions+1 evenly spaced parameter values, endpoints included. Points
// fewer than two are returned as-is.
func CatmullRom(points []Vec2, divisions int) []Vec2 {
	if len(points) < 2 || divisions < 1 {
		out := make([]Vec2, len(points))
		copy(out, points)
		return out
	}

	out := make([]Vec2, divisions+1)
	for d := 0; d <= divisions; d++ {
		out[d] = catmullRomAt(points, float64(d)/float64(divisions))
	}
	return out
}

func catmullRomAt(points []Vec2, t float64) Vec2 {
	last := len(points) - 1
	p := float64(last) * t
	i := int(math.Floor(p))
	w := p - float64(i)
	if i >= last {
		i, w = last-1, 1
	}

	p0 := points[max(i-1, 0)]
	p1 := points[i]
	p2 := points[min(i+1, last)]
	p3 := points[min(i+2, last)]

	return Vec2{
		catmullRom(w, p0.X, p1.X, p2.X, p3.X),
		catmullRom(w, p0.Y, p1.Y, p2.Y, p3.Y),
	}
}

func catmullRom(t, p0, p1, p2, p3 float64) float64 {
	v0 := (p2 - p0) * 0.5
	v1 := (p3 - p1) * 0.5
	t2 := t * t
	t3 := t * t2
	return (2*p1-2*p2+v0+v1)*t3 + (-3*p1+3*p2-2*v0-v1)*t2 + v0*t + p1
}
