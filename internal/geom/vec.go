// Package geom holds the 2D math shared by the scene graph and the visual
// components: vectors, affine matrices, rectangles, intersections and curves.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedPosition is returned by ToVec3 for values it cannot read as a position.
var ErrUnsupportedPosition = errors.New("unsupported position type")

// Vec2 is a point or direction in the plane.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a position with a stacking depth in Z.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V2 is shorthand for Vec2{x, y}.
func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Neg() Vec2            { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Len() }
func (v Vec2) Vec3(z float64) Vec3  { return Vec3{v.X, v.Y, z} }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Normalize returns the unit vector in the direction of v, or the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp returns v rotated by +90 degrees.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Rotate returns v rotated counter-clockwise by radians.
func (v Vec2) Rotate(radians float64) Vec2 {
	sin, cos := math.Sincos(radians)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Angle returns the direction of v in radians, in (-pi, pi].
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// ApproxEqual compares two vectors within eps on both axes.
func (v Vec2) ApproxEqual(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// XY drops the depth component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

// Positioner is implemented by richer point objects (for example visual points)
// that can be used wherever a position is expected.
type Positioner interface {
	Position() Vec3
}

// ToVec3 normalizes the position forms accepted by the public constructors:
// two or three element arrays and slices, Vec2, Vec3 and anything that
// implements Positioner. Missing Z defaults to zero.
func ToVec3(p any) (Vec3, error) {
	switch v := p.(type) {
	case Vec3:
		return v, nil
	case *Vec3:
		return *v, nil
	case Vec2:
		return v.Vec3(0), nil
	case *Vec2:
		return v.Vec3(0), nil
	case [2]float64:
		return Vec3{v[0], v[1], 0}, nil
	case [3]float64:
		return Vec3{v[0], v[1], v[2]}, nil
	case []float64:
		switch len(v) {
		case 2:
			return Vec3{v[0], v[1], 0}, nil
		case 3:
			return Vec3{v[0], v[1], v[2]}, nil
		}
		return Vec3{}, fmt.Errorf("position slice of length %d: %w", len(v), ErrUnsupportedPosition)
	case Positioner:
		return v.Position(), nil
	default:
		return Vec3{}, fmt.Errorf("%T: %w", p, ErrUnsupportedPosition)
	}
}

// MustVec3 is ToVec3 for positions known to be valid at compile time.
func MustVec3(p any) Vec3 {
	v, err := ToVec3(p)
	if err != nil {
		panic(err)
	}
	return v
}
