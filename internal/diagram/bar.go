package diagram

import (
	"errors"
	"fmt"
	"slices"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
	"github.com/graphica/graphica/internal/visual"
)

var (
	ErrNegativeValue = errors.New("bar value below zero")
	ErrBarIndex      = errors.New("bar index out of range")
)

// Bar is one labelled value.
type Bar struct {
	Label string
	Value float64
}

// BarDiagram draws bars side by side on a baseline at its position. The
// tallest bar is Height world units high.
type BarDiagram struct {
	node     *scene.Node
	bars     []Bar
	Height   float64
	BarWidth float64
	Gap      float64
	Colors   []string

	rects  []*scene.Node
	labels []*visual.Text
}

func NewBarDiagram(bars []Bar, height float64) (*BarDiagram, error) {
	for _, b := range bars {
		if b.Value < 0 {
			return nil, fmt.Errorf("bar %q: %w", b.Label, ErrNegativeValue)
		}
	}
	d := &BarDiagram{
		node:     scene.NewNode(typeid.PrefixBar),
		bars:     slices.Clone(bars),
		Height:   height,
		BarWidth: 1,
		Gap:      0.5,
		Colors:   []string{visual.ColorPrimary, visual.ColorAccent, visual.ColorHighlight},
	}
	d.rebuild()
	return d, nil
}

func (d *BarDiagram) Object() *scene.Node { return d.node }

func (d *BarDiagram) Bars() []Bar { return d.bars }

// SetValue changes the value of bar i.
func (d *BarDiagram) SetValue(i int, v float64) error {
	if i < 0 || i >= len(d.bars) {
		return fmt.Errorf("set bar %d: %w", i, ErrBarIndex)
	}
	if v < 0 {
		return fmt.Errorf("set bar %d: %w", i, ErrNegativeValue)
	}
	d.bars[i].Value = v
	d.rebuild()
	return nil
}

// BarHeight returns the drawn height of bar i.
func (d *BarDiagram) BarHeight(i int) float64 {
	m := d.maxValue()
	if m == 0 {
		return 0
	}
	return d.bars[i].Value / m * d.Height
}

func (d *BarDiagram) maxValue() float64 {
	var m float64
	for _, b := range d.bars {
		m = max(m, b.Value)
	}
	return m
}

func (d *BarDiagram) rebuild() {
	d.node.Clear()
	d.rects = d.rects[:0]
	d.labels = d.labels[:0]

	for i, b := range d.bars {
		x := float64(i) * (d.BarWidth + d.Gap)
		h := d.BarHeight(i)
		rect := scene.Polyline([]geom.Vec2{{X: x, Y: 0}, {X: x + d.BarWidth, Y: 0}, {X: x + d.BarWidth, Y: h}, {X: x, Y: h}}, true)
		n := scene.NewMeshNode(typeid.PrefixBar, scene.NewMesh(rect).Filled(d.Colors[i%len(d.Colors)]).Stroked(visual.ColorInk, 1))
		d.node.Add(n)
		d.rects = append(d.rects, n)

		t := visual.NewText(b.Label, 14)
		t.MoveTo(geom.V2(x+d.BarWidth/2, -0.4))
		d.node.Add(t.Object())
		d.labels = append(d.labels, t)
	}

	var base scene.Path
	base.MoveTo(geom.V2(-d.Gap/2, 0))
	base.LineTo(geom.V2(float64(len(d.bars))*(d.BarWidth+d.Gap)-d.Gap/2, 0))
	d.node.Add(scene.NewMeshNode(typeid.PrefixBar, scene.NewMesh(base).Stroked(visual.ColorInk, 2)))
	d.node.SetOwner(d)
}

// Update keeps the bar labels a constant size on screen.
func (d *BarDiagram) Update(cam *scene.Camera) error {
	for _, t := range d.labels {
		if err := t.Update(cam); err != nil {
			return err
		}
	}
	return nil
}
