package geom

import "math"

// Rect is an axis-aligned box given by its min and max corners.
type Rect struct {
	Min Vec2 `json:"min"`
	Max Vec2 `json:"max"`
}

// R builds a rectangle from two corners in any order.
func R(a, b Vec2) Rect {
	return Rect{
		Min: Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// EmptyRect returns a rectangle that Extend can grow from.
func EmptyRect() Rect {
	return Rect{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains checks if a point is inside the rect, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Extend grows the rect to include p.
func (r Rect) Extend(p Vec2) Rect {
	return Rect{
		Min: Vec2{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Vec2{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return r.Extend(other.Min).Extend(other.Max)
}

// Inset shrinks the rect by d on every side (grows it for negative d).
func (r Rect) Inset(d float64) Rect {
	return Rect{Min: r.Min.Add(Vec2{d, d}), Max: r.Max.Sub(Vec2{d, d})}
}

// Center returns the center point of the rect.
func (r Rect) Center() Vec2 {
	return r.Min.Lerp(r.Max, 0.5)
}

// Corners returns the four corners counter-clockwise from Min.
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{r.Min, {r.Max.X, r.Min.Y}, r.Max, {r.Min.X, r.Max.Y}}
}

// Clamp moves p to the nearest point inside the rect.
func (r Rect) Clamp(p Vec2) Vec2 {
	return Vec2{
		math.Min(math.Max(p.X, r.Min.X), r.Max.X),
		math.Min(math.Max(p.Y, r.Min.Y), r.Max.Y),
	}
}

// ClipLine intersects the infinite line through p with direction dir with the
// rect and returns the two points where it enters and leaves. ok is false when
// dir is the zero vector or the line misses the rect.
func (r Rect) ClipLine(p, dir Vec2) (a, b Vec2, ok bool) {
	if dir.IsZero() {
		return Vec2{}, Vec2{}, false
	}

	tMin, tMax := math.Inf(-1), math.Inf(1)
	clip := func(origin, d, lo, hi float64) bool {
		if d == 0 {
			return origin >= lo && origin <= hi
		}
		t0, t1 := (lo-origin)/d, (hi-origin)/d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		return tMin <= tMax
	}
	if !clip(p.X, dir.X, r.Min.X, r.Max.X) || !clip(p.Y, dir.Y, r.Min.Y, r.Max.Y) {
		return Vec2{}, Vec2{}, false
	}
	return p.Add(dir.Scale(tMin)), p.Add(dir.Scale(tMax)), true
}
