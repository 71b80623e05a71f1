package visual

import (
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
)

const DefaultPointRadius = 6.0

// Point is a dot with a constant screen size.
type Point struct {
	Base
	radius float64
	color  string
	mesh   *scene.Mesh
	label  *Text
}

// NewPoint creates a point at (x, y).
func NewPoint(x, y float64) *Point {
	p := &Point{
		Base:   newBase(typeid.PrefixPoint),
		radius: DefaultPointRadius,
		color:  ColorPrimary,
	}
	p.mesh = scene.NewMesh(nil).Filled(p.color).Stroked(ColorInk, 1)
	p.node.Mesh = p.mesh
	p.node.SetXY(geom.V2(x, y))
	p.rebuild()
	p.own(p)
	return p
}

func (p *Point) rebuild() {
	p.mesh.Path = scene.Circle(geom.Vec2{}, p.radius)
}

// SetRadius sets the radius in pixels.
func (p *Point) SetRadius(px float64) {
	p.radius = px
	p.rebuild()
}

func (p *Point) Radius() float64 { return p.radius }

// SetColor sets the fill color.
func (p *Point) SetColor(c string) {
	p.color = c
	p.mesh.Fill = c
}

func (p *Point) Color() string { return p.color }

// SetLabel attaches a caption offset from the point by offset pixels.
func (p *Point) SetLabel(text string, offset geom.Vec2) {
	if p.label == nil {
		p.label = NewText(text, DefaultTextSize)
		p.node.Add(p.label.Object())
	} else {
		p.label.SetLabelText(text)
	}
	p.label.MoveTo(offset)
}

// LabelText implements scene.HasLabel.
func (p *Point) LabelText() string {
	if p.label == nil {
		return ""
	}
	return p.label.LabelText()
}

// SetLabelText implements scene.HasLabel.
func (p *Point) SetLabelText(text string) {
	offset := geom.V2(p.radius+2, p.radius+2)
	if p.label != nil {
		offset = p.label.XY()
	}
	p.SetLabel(text, offset)
}

// Attach implements scene.Attachable.
func (p *Point) Attach(cam *scene.Camera) {
	p.node.SetUniformScale(1 / cam.Zoom)
}

// Update keeps the point a constant size on screen. The label is a child
// and inherits the scale.
func (p *Point) Update(cam *scene.Camera) error {
	p.Attach(cam)
	return nil
}
