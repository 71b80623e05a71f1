package visual

import (
	"math"
	"slices"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
)

// Polygon is a closed filled shape. Vertices are relative to its position.
type Polygon struct {
	Base
	vertices []geom.Vec2
	mesh     *scene.Mesh
}

func NewPolygon(vertices []geom.Vec2) *Polygon {
	p := &Polygon{Base: newBase(typeid.PrefixPolygon)}
	p.mesh = scene.NewMesh(nil).Filled(ColorFill).Stroked(ColorPrimary, DefaultLineWidth)
	p.node.Mesh = p.mesh
	p.SetVertices(vertices)
	p.own(p)
	return p
}

// NewRegularPolygon creates an n-gon with circumradius r centered on c.
func NewRegularPolygon(c geom.Vec2, r float64, n int) *Polygon {
	pts := geom.ArcPoints(geom.Vec2{}, r, 0, 2*math.Pi, n)
	p := NewPolygon(pts[:n])
	p.MoveTo(c)
	return p
}

func (p *Polygon) Vertices() []geom.Vec2 { return p.vertices }

func (p *Polygon) SetVertices(v []geom.Vec2) {
	p.vertices = slices.Clone(v)
	p.mesh.Path = scene.Polyline(p.vertices, true)
}

// SetStyle sets fill and stroke colors; an empty color disables that paint.
func (p *Polygon) SetStyle(fill, stroke string) {
	p.mesh.Fill = fill
	p.mesh.Stroke = stroke
}

// Area returns the signed shoelace area.
func (p *Polygon) Area() float64 {
	var a float64
	for i, v := range p.vertices {
		w := p.vertices[(i+1)%len(p.vertices)]
		a += v.Cross(w)
	}
	return a / 2
}

// Circle is a filled disc in world units.
type Circle struct {
	Base
	radius float64
	mesh   *scene.Mesh
}

func NewCircle(center geom.Vec2, radius float64) *Circle {
	c := &Circle{Base: newBase(typeid.PrefixPolygon), radius: radius}
	c.mesh = scene.NewMesh(scene.Circle(geom.Vec2{}, radius)).Filled(ColorFill).Stroked(ColorPrimary, DefaultLineWidth)
	c.node.Mesh = c.mesh
	c.MoveTo(center)
	c.own(c)
	return c
}

func (c *Circle) Radius() float64 { return c.radius }

func (c *Circle) SetRadius(r float64) {
	c.radius = r
	c.mesh.Path = scene.Circle(geom.Vec2{}, r)
}

// SetStyle sets fill and stroke colors; an empty color disables that paint.
func (c *Circle) SetStyle(fill, stroke string) {
	c.mesh.Fill = fill
	c.mesh.Stroke = stroke
}

// BoundaryPoint returns the point on the circle in the direction of p.
func (c *Circle) BoundaryPoint(p geom.Vec2) geom.Vec2 {
	center := c.XY()
	return center.Add(p.Sub(center).Normalize().Scale(c.radius))
}
