package visual

import (
	"math"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
)

const (
	DefaultLineWidth   = 2.0
	DefaultArrowLength = 12.0
)

// Line is a segment between two points, optionally with an arrowhead at the
// end. Endpoints can follow other objects (anything geom.ToVec3 accepts).
type Line struct {
	Base
	start, end geom.Vec2
	from, to   any

	arrow       bool
	arrowLength float64 // pixels

	body  *scene.Mesh
	head  *scene.Node
	wings [2]geom.Vec2
}

// NewLine creates a line from start to end.
func NewLine(start, end geom.Vec2) *Line {
	l := &Line{
		Base:        newBase(typeid.PrefixLine),
		start:       start,
		end:         end,
		arrowLength: DefaultArrowLength,
	}
	l.body = scene.NewMesh(nil).Stroked(ColorInk, DefaultLineWidth)
	l.node.Mesh = l.body

	l.head = scene.NewMeshNode(typeid.PrefixLine, scene.NewMesh(nil).Stroked(ColorInk, DefaultLineWidth))
	l.head.Visible = false
	l.node.Add(l.head)

	l.body.Path = scene.Polyline([]geom.Vec2{start, end}, false)
	l.own(l)
	return l
}

// NewArrow creates a line with an arrowhead at end.
func NewArrow(start, end geom.Vec2) *Line {
	l := NewLine(start, end)
	l.SetArrow(true)
	return l
}

// Follow makes the endpoints track from and to on every update.
func (l *Line) Follow(from, to any) {
	l.from, l.to = from, to
}

func (l *Line) Start() geom.Vec2 { return l.start }
func (l *Line) End() geom.Vec2   { return l.end }

// SetEndpoints moves both endpoints.
func (l *Line) SetEndpoints(start, end geom.Vec2) {
	l.start, l.end = start, end
	l.body.Path = scene.Polyline([]geom.Vec2{start, end}, false)
}

// SetArrow toggles the arrowhead.
func (l *Line) SetArrow(on bool) {
	l.arrow = on
	l.head.Visible = on
}

// SetArrowLength sets the arrowhead wing length in pixels.
func (l *Line) SetArrowLength(px float64) { l.arrowLength = px }

// SetStyle sets stroke color and width in pixels on body and head.
func (l *Line) SetStyle(color string, width float64) {
	l.body.Stroked(color, width)
	l.head.Mesh.Stroked(color, width)
}

// SetDash sets a dash pattern in pixels.
func (l *Line) SetDash(dash ...float64) { l.body.Dash = dash }

// Wings returns the two arrowhead wing tips from the last update.
func (l *Line) Wings() [2]geom.Vec2 { return l.wings }

// Update refreshes followed endpoints and rebuilds the arrowhead so it keeps
// a constant screen size.
func (l *Line) Update(cam *scene.Camera) error {
	if l.from != nil || l.to != nil {
		l.SetEndpoints(resolve(l.from, l.start), resolve(l.to, l.end))
	}
	if !l.arrow {
		return nil
	}

	dir := l.end.Sub(l.start).Normalize()
	if dir.IsZero() {
		l.head.Visible = false
		return nil
	}
	l.head.Visible = true

	length := l.arrowLength / cam.Zoom
	back := dir.Neg()
	l.wings = [2]geom.Vec2{
		l.end.Add(back.Rotate(math.Pi / 4).Scale(length)),
		l.end.Add(back.Rotate(-math.Pi / 4).Scale(length)),
	}
	l.head.Mesh.Path = scene.Polyline([]geom.Vec2{l.wings[0], l.end, l.wings[1]}, false)
	return nil
}

// Vector is an arrow from a tail point along a displacement.
type Vector struct {
	*Line
	tail, components geom.Vec2
}

// NewVector creates the vector v drawn from tail.
func NewVector(tail, v geom.Vec2) *Vector {
	vec := &Vector{Line: NewArrow(tail, tail.Add(v)), tail: tail, components: v}
	vec.SetStyle(ColorAccent, DefaultLineWidth)
	vec.own(vec)
	return vec
}

func (v *Vector) Components() geom.Vec2 { return v.components }
func (v *Vector) Tail() geom.Vec2       { return v.tail }

// Magnitude returns the length of the vector.
func (v *Vector) Magnitude() float64 { return v.components.Len() }

// SetComponents changes the displacement, keeping the tail.
func (v *Vector) SetComponents(c geom.Vec2) {
	v.components = c
	v.SetEndpoints(v.tail, v.tail.Add(c))
}

// SetTail moves the tail, keeping the displacement.
func (v *Vector) SetTail(t geom.Vec2) {
	v.tail = t
	v.SetEndpoints(t, t.Add(v.components))
}

// InfiniteLine is a line through a point that always spans the viewport.
type InfiniteLine struct {
	Base
	point, dir geom.Vec2
	through    any
	mesh       *scene.Mesh
	a, b       geom.Vec2
}

// NewInfiniteLine creates the line through p with direction dir.
func NewInfiniteLine(p, dir geom.Vec2) *InfiniteLine {
	l := &InfiniteLine{
		Base:  newBase(typeid.PrefixLine),
		point: p,
		dir:   dir,
	}
	l.mesh = scene.NewMesh(nil).Stroked(ColorMuted, DefaultLineWidth)
	l.node.Mesh = l.mesh
	l.own(l)
	return l
}

// NewInfiniteLineThrough creates the line through two points.
func NewInfiniteLineThrough(a, b geom.Vec2) *InfiniteLine {
	return NewInfiniteLine(a, b.Sub(a))
}

// Follow makes the line pass through the two tracked objects.
func (l *InfiniteLine) Follow(a, b any) {
	l.through = [2]any{a, b}
}

func (l *InfiniteLine) Direction() geom.Vec2 { return l.dir }
func (l *InfiniteLine) Point() geom.Vec2     { return l.point }

// Set changes the point and direction.
func (l *InfiniteLine) Set(p, dir geom.Vec2) {
	l.point, l.dir = p, dir
}

// SetStyle sets stroke color and width in pixels.
func (l *InfiniteLine) SetStyle(color string, width float64) {
	l.mesh.Stroked(color, width)
}

// Endpoints returns the clipped segment from the last update, in the
// line's local space.
func (l *InfiniteLine) Endpoints() (geom.Vec2, geom.Vec2) { return l.a, l.b }

// Update clips the line to the visible rectangle. The point and direction
// are in the line's local space, so a moved or nested line is clipped
// where it is drawn. A zero direction leaves the line hidden.
func (l *InfiniteLine) Update(cam *scene.Camera) error {
	if pair, ok := l.through.([2]any); ok {
		a := resolve(pair[0], l.point)
		b := resolve(pair[1], l.point.Add(l.dir))
		l.point, l.dir = a, b.Sub(a)
	}

	toWorld := l.node.WorldMatrix()
	p := toWorld.Apply(l.point)
	dir := toWorld.ApplyVector(l.dir)

	a, b, ok := cam.Visible().ClipLine(p, dir)
	if !ok {
		l.node.Visible = false
		return nil
	}
	toLocal := toWorld.Invert()
	a, b = toLocal.Apply(a), toLocal.Apply(b)
	l.node.Visible = true
	l.a, l.b = a, b
	l.mesh.Path = scene.Polyline([]geom.Vec2{a, b}, false)
	return nil
}
