package diagram

import (
	"errors"
	"fmt"
	"math"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
	"github.com/graphica/graphica/internal/visual"
)

var (
	ErrDivisorBelowOne      = errors.New("divisor below one")
	ErrFilledExceedsDivisor = errors.New("filled parts exceed divisor")
	ErrNegativeFilled       = errors.New("filled parts below zero")
)

const wedgeSegments = 64

// Fraction is a circle cut into divisor equal wedges, filled of which are
// shaded. Wedges run clockwise from twelve o'clock.
type Fraction struct {
	node    *scene.Node
	radius  float64
	divisor int
	filled  int

	FillColor  string
	EmptyColor string
	mode       scene.DragMode
}

// NewFraction creates filled/divisor with the given radius in world units.
func NewFraction(divisor, filled int, radius float64) (*Fraction, error) {
	f := &Fraction{
		node:       scene.NewNode(typeid.PrefixFraction),
		radius:     radius,
		divisor:    1,
		FillColor:  visual.ColorPrimary,
		EmptyColor: "#ffffff",
	}
	if err := f.SetDivisor(divisor); err != nil {
		return nil, err
	}
	if err := f.SetFilled(filled); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Fraction) Object() *scene.Node              { return f.node }
func (f *Fraction) DragMode() scene.DragMode         { return f.mode }
func (f *Fraction) Constraint() scene.ConstraintFunc { return nil }
func (f *Fraction) SetDraggable(mode scene.DragMode) { f.mode = mode }
func (f *Fraction) Divisor() int                     { return f.divisor }
func (f *Fraction) Filled() int                      { return f.filled }
func (f *Fraction) Value() float64                   { return float64(f.filled) / float64(f.divisor) }

func (f *Fraction) String() string { return fmt.Sprintf("%d/%d", f.filled, f.divisor) }

// SetDivisor changes the number of wedges. It fails without changing the
// fraction when d is below one or below the filled count.
func (f *Fraction) SetDivisor(d int) error {
	switch {
	case d < 1:
		return fmt.Errorf("set divisor %d: %w", d, ErrDivisorBelowOne)
	case f.filled > d:
		return fmt.Errorf("set divisor %d with %d filled: %w", d, f.filled, ErrFilledExceedsDivisor)
	}
	f.divisor = d
	f.rebuild()
	return nil
}

// SetFilled changes the number of shaded wedges.
func (f *Fraction) SetFilled(n int) error {
	switch {
	case n < 0:
		return fmt.Errorf("set filled %d: %w", n, ErrNegativeFilled)
	case n > f.divisor:
		return fmt.Errorf("set filled %d of %d: %w", n, f.divisor, ErrFilledExceedsDivisor)
	}
	f.filled = n
	f.rebuild()
	return nil
}

// Wedges counts filled and empty wedges in the scene graph.
func (f *Fraction) Wedges() (filled, empty int) {
	for _, c := range f.node.Children() {
		if c.Mesh == nil {
			continue
		}
		if c.Mesh.Fill == f.FillColor {
			filled++
		} else {
			empty++
		}
	}
	return filled, empty
}

func (f *Fraction) rebuild() {
	f.node.Clear()
	sweep := 2 * math.Pi / float64(f.divisor)
	segs := max(2, wedgeSegments/f.divisor)
	for i := range f.divisor {
		start := math.Pi/2 - float64(i)*sweep
		var path scene.Path
		if f.divisor == 1 {
			path = scene.Circle(geom.Vec2{}, f.radius)
		} else {
			pts := geom.ArcPoints(geom.Vec2{}, f.radius, start, start-sweep, segs)
			path = scene.Polyline(append([]geom.Vec2{{}}, pts...), true)
		}

		color := f.EmptyColor
		if i < f.filled {
			color = f.FillColor
		}
		wedge := scene.NewMeshNode(typeid.PrefixFraction, scene.NewMesh(path).Filled(color).Stroked(visual.ColorInk, 1.5))
		f.node.Add(wedge)
	}
	f.node.SetOwner(f)
}
