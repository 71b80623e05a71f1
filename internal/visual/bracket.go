package visual

import (
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
)

// Bracket shape in pixels.
const (
	BracketHeight = 8.0
	BracketNotch  = 6.0
	BracketGap    = 12.0
)

// Bracket is a curly-brace style bracket spanning two endpoints, with an
// optional label at its tip. Its size on screen does not depend on zoom.
type Bracket struct {
	Base
	from, to any
	a, b     geom.Vec2
	flip     bool
	mesh     *scene.Mesh
	label    *Text

	zoom   float64
	points [7]geom.Vec2
}

// NewBracket creates a bracket between from and to, which may be fixed
// positions or objects to follow.
func NewBracket(from, to any) *Bracket {
	br := &Bracket{Base: newBase(typeid.PrefixBracket), from: from, to: to}
	br.mesh = scene.NewMesh(nil).Stroked(ColorInk, DefaultLineWidth)
	br.node.Mesh = br.mesh
	br.own(br)
	return br
}

// SetFlip puts the bracket on the other side of the segment.
func (br *Bracket) SetFlip(flip bool) {
	br.flip = flip
	br.zoom = 0
}

// SetEndpoints replaces the followed endpoints.
func (br *Bracket) SetEndpoints(from, to any) {
	br.from, br.to = from, to
}

// LabelText implements scene.HasLabel.
func (br *Bracket) LabelText() string {
	if br.label == nil {
		return ""
	}
	return br.label.LabelText()
}

// SetLabelText implements scene.HasLabel.
func (br *Bracket) SetLabelText(s string) {
	if br.label == nil {
		br.label = NewText(s, DefaultTextSize)
		br.node.Add(br.label.Object())
		br.zoom = 0
		return
	}
	br.label.SetLabelText(s)
}

// Points returns the seven path points from the last update.
func (br *Bracket) Points() [7]geom.Vec2 { return br.points }

// Update rebuilds the path when the zoom or an endpoint changed.
func (br *Bracket) Update(cam *scene.Camera) error {
	a := resolve(br.from, br.a)
	b := resolve(br.to, br.b)
	if cam.Zoom == br.zoom && a == br.a && b == br.b {
		return nil
	}
	br.a, br.b, br.zoom = a, b, cam.Zoom

	dir := b.Sub(a).Normalize()
	if dir.IsZero() {
		br.node.Visible = false
		return nil
	}
	br.node.Visible = true

	n := dir.Perp()
	if br.flip {
		n = n.Neg()
	}
	h := n.Scale(BracketHeight / cam.Zoom)
	d := dir.Scale(BracketNotch / cam.Zoom)
	mid := a.Lerp(b, 0.5)

	br.points = [7]geom.Vec2{
		a,
		a.Add(h),
		mid.Sub(d).Add(h),
		mid.Add(h.Scale(2)),
		mid.Add(d).Add(h),
		b.Add(h),
		b,
	}
	br.mesh.Path = scene.Polyline(br.points[:], false)

	if br.label != nil {
		br.label.MoveTo(mid.Add(h.Scale(2)).Add(n.Scale(BracketGap / cam.Zoom)))
		br.label.node.SetUniformScale(1 / cam.Zoom)
	}
	return nil
}
