// Package diagram builds composite visuals out of primitives: the adaptive
// grid, function plots, fractions, bar charts, graphs and imported SVG.
package diagram

import (
	"math"
	"strconv"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
	"github.com/graphica/graphica/internal/visual"
)

const (
	DefaultGridSpacing = 40.0 // minimum on-screen spacing in pixels
	gridLabelSize      = 12.0
	gridLabelMargin    = 14.0 // pixels from the viewport edge
	maxGridLines       = 400
)

// GridUniforms are the per-frame parameters the grid geometry is derived
// from. Hosts with a shader pipeline can draw the grid from these alone.
type GridUniforms struct {
	Zoom    float64   `json:"zoom"`
	Offset  geom.Vec2 `json:"offset"`
	Spacing float64   `json:"spacing"`
}

// Grid is the coordinate grid with axes and tick labels. The line spacing
// is a power of two chosen so it stays between MinSpacing and twice that on
// screen.
type Grid struct {
	node       *scene.Node
	lines      *scene.Mesh
	axes       *scene.Mesh
	labels     *scene.Node
	labelPool  []*visual.Text
	MinSpacing float64
	ShowLabels bool

	uniforms GridUniforms
	view     geom.Rect
}

func NewGrid() *Grid {
	g := &Grid{
		node:       scene.NewNode(typeid.PrefixGrid),
		MinSpacing: DefaultGridSpacing,
		ShowLabels: true,
	}
	g.node.Name = "grid"
	g.node.Position.Z = -1

	g.lines = scene.NewMesh(nil).Stroked("#e2e8f0", 1)
	g.axes = scene.NewMesh(nil).Stroked("#4a5568", 1.5)
	g.node.Add(scene.NewMeshNode(typeid.PrefixGrid, g.lines))
	g.node.Add(scene.NewMeshNode(typeid.PrefixGrid, g.axes))
	g.labels = scene.NewNode(typeid.PrefixGrid)
	g.node.Add(g.labels)
	g.node.SetOwner(g)
	return g
}

func (g *Grid) Object() *scene.Node { return g.node }

// Uniforms returns the parameters from the last update.
func (g *Grid) Uniforms() GridUniforms { return g.uniforms }

// GridSpacing returns the power of two world spacing for zoom.
func GridSpacing(zoom, minPixels float64) float64 {
	return math.Exp2(math.Ceil(math.Log2(minPixels / zoom)))
}

// Update recomputes spacing, lines, axes and labels for the visible area.
func (g *Grid) Update(cam *scene.Camera) error {
	view := cam.Visible()
	spacing := GridSpacing(cam.Zoom, g.MinSpacing)
	u := GridUniforms{Zoom: cam.Zoom, Offset: cam.Position, Spacing: spacing}
	if u == g.uniforms && view == g.view {
		return nil
	}
	g.uniforms, g.view = u, view

	var lines scene.Path
	x0 := math.Floor(view.Min.X/spacing) * spacing
	for i, x := 0, x0; x <= view.Max.X && i < maxGridLines; i, x = i+1, x+spacing {
		lines.MoveTo(geom.V2(x, view.Min.Y))
		lines.LineTo(geom.V2(x, view.Max.Y))
	}
	y0 := math.Floor(view.Min.Y/spacing) * spacing
	for i, y := 0, y0; y <= view.Max.Y && i < maxGridLines; i, y = i+1, y+spacing {
		lines.MoveTo(geom.V2(view.Min.X, y))
		lines.LineTo(geom.V2(view.Max.X, y))
	}
	g.lines.Path = lines

	// Axes stay on screen when the origin is panned out of view.
	margin := gridLabelMargin / cam.Zoom
	inner := view.Inset(margin)
	if inner.IsEmpty() {
		inner = view
	}
	axisY := clamp(0, inner.Min.Y, inner.Max.Y)
	axisX := clamp(0, inner.Min.X, inner.Max.X)

	var axes scene.Path
	axes.MoveTo(geom.V2(view.Min.X, axisY))
	axes.LineTo(geom.V2(view.Max.X, axisY))
	axes.MoveTo(geom.V2(axisX, view.Min.Y))
	axes.LineTo(geom.V2(axisX, view.Max.Y))
	g.axes.Path = axes

	g.layoutLabels(cam, view, spacing, axisX, axisY)
	return nil
}

func (g *Grid) layoutLabels(cam *scene.Camera, view geom.Rect, spacing, axisX, axisY float64) {
	used := 0
	place := func(v float64, at geom.Vec2) {
		var t *visual.Text
		if used < len(g.labelPool) {
			t = g.labelPool[used]
		} else {
			t = visual.NewText("", gridLabelSize)
			t.SetColor("#4a5568")
			g.labelPool = append(g.labelPool, t)
			g.labels.Add(t.Object())
		}
		used++
		t.SetLabelText(formatTick(v))
		t.MoveTo(at)
		t.SetVisible(true)
		_ = t.Update(cam)
	}

	if g.ShowLabels {
		off := gridLabelSize / cam.Zoom
		// Labels every other line keep them from overlapping.
		step := 2 * spacing
		for x := math.Ceil(view.Min.X/step) * step; x <= view.Max.X && used < maxGridLines; x += step {
			if x != 0 {
				place(x, geom.V2(x, axisY-off))
			}
		}
		for y := math.Ceil(view.Min.Y/step) * step; y <= view.Max.Y && used < maxGridLines; y += step {
			if y != 0 {
				place(y, geom.V2(axisX-off, y))
			}
		}
	}

	for _, t := range g.labelPool[used:] {
		t.SetVisible(false)
	}
}

func formatTick(v float64) string {
	if math.Abs(v) < 1e-12 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
