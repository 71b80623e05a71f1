package visual

import (
	"math"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
)

const arcSegments = 48

// Arc is a circular arc from start to end angle (radians, counter-clockwise)
// around its position. As a sector it is closed through the center.
type Arc struct {
	Base
	radius     float64
	start, end float64
	sector     bool
	mesh       *scene.Mesh
}

func NewArc(center geom.Vec2, radius, start, end float64) *Arc {
	a := &Arc{Base: newBase(typeid.PrefixArc), radius: radius, start: start, end: end}
	a.mesh = scene.NewMesh(nil).Stroked(ColorInk, DefaultLineWidth)
	a.node.Mesh = a.mesh
	a.MoveTo(center)
	a.rebuild()
	a.own(a)
	return a
}

// NewAngleMarker creates a filled sector at vertex marking the angle swept
// counter-clockwise from direction u to direction v.
func NewAngleMarker(vertex, u, v geom.Vec2, radius float64) *Arc {
	start := u.Angle()
	a := NewArc(vertex, radius, start, start+geom.AngleBetween(u, v))
	a.sector = true
	a.mesh.Filled(ColorFill)
	a.rebuild()
	return a
}

func (a *Arc) rebuild() {
	pts := geom.ArcPoints(geom.Vec2{}, a.radius, a.start, a.end, arcSegments)
	if a.sector {
		pts = append([]geom.Vec2{{}}, pts...)
	}
	a.mesh.Path = scene.Polyline(pts, a.sector)
}

// Angles returns start and end in radians.
func (a *Arc) Angles() (float64, float64) { return a.start, a.end }

// Sweep returns the swept angle in radians.
func (a *Arc) Sweep() float64 { return a.end - a.start }

// SetAngles changes the swept range.
func (a *Arc) SetAngles(start, end float64) {
	a.start, a.end = start, end
	a.rebuild()
}

// SetBetween sets the arc to span from direction u to direction v.
func (a *Arc) SetBetween(u, v geom.Vec2) {
	start := u.Angle()
	a.SetAngles(start, start+geom.AngleBetween(u, v))
}

// Degrees returns the swept angle in degrees, rounded to one decimal.
func (a *Arc) Degrees() float64 {
	return math.Round(geom.RadToDeg(a.Sweep())*10) / 10
}
