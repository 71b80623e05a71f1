package visual

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
)

func updateTwice(t *testing.T, u scene.Updatable, cam *scene.Camera, snapshot func() any) {
	t.Helper()
	require.NoError(t, u.Update(cam))
	first := snapshot()
	require.NoError(t, u.Update(cam))
	assert.Equal(t, first, snapshot())
}

func TestUpdateIdempotent(t *testing.T) {
	cam := scene.NewCamera(800, 600, 40)
	cam.PanTo(geom.V2(3, -1))

	t.Run("point", func(t *testing.T) {
		p := NewPoint(1, 2)
		updateTwice(t, p, cam, func() any { return []any{p.Object().Scale, p.mesh.Path} })
		assert.InDelta(t, 1.0/40, p.Object().Scale.X, 1e-12)
	})

	t.Run("line", func(t *testing.T) {
		l := NewArrow(geom.V2(0, 0), geom.V2(2, 1))
		updateTwice(t, l, cam, func() any { return []any{l.body.Path, l.head.Mesh.Path, l.Wings()} })
	})

	t.Run("infinite line", func(t *testing.T) {
		l := NewInfiniteLine(geom.V2(0, 1), geom.V2(1, 1))
		updateTwice(t, l, cam, func() any { return l.mesh.Path })
	})

	t.Run("bracket", func(t *testing.T) {
		b := NewBracket(geom.V2(0, 0), geom.V2(4, 0))
		b.SetLabelText("4")
		updateTwice(t, b, cam, func() any { return []any{b.Points(), b.mesh.Path, b.label.XY()} })
	})
}

func TestInfiniteLineSpansViewport(t *testing.T) {
	cam := scene.NewCamera(800, 600, 50)
	cam.PanTo(geom.V2(100, 0))

	l := NewInfiniteLine(geom.V2(0, 0), geom.V2(1, 0))
	require.NoError(t, l.Update(cam))

	vis := cam.Visible()
	a, b := l.Endpoints()
	assert.InDelta(t, vis.Min.X, a.X, 1e-9)
	assert.InDelta(t, vis.Max.X, b.X, 1e-9)
	assert.Zero(t, a.Y)
	assert.Zero(t, b.Y)
	assert.InDelta(t, 800.0/50, b.X-a.X, 1e-9)
	assert.True(t, l.Visible())
}

func TestInfiniteLineClippedInLocalSpace(t *testing.T) {
	cam := scene.NewCamera(800, 600, 50)

	group := scene.NewNode("")
	group.SetXY(geom.V2(3, 0))
	l := NewInfiniteLine(geom.V2(0, 0), geom.V2(1, 0))
	l.MoveTo(geom.V2(0, 2))
	l.Object().SetUniformScale(2)
	group.Add(l.Object())
	require.NoError(t, l.Update(cam))

	// world x = 3 + 2*local x, visible x spans [-8, 8]
	a, b := l.Endpoints()
	assert.True(t, a.ApproxEqual(geom.V2(-5.5, 0), 1e-9), "got %v", a)
	assert.True(t, b.ApproxEqual(geom.V2(2.5, 0), 1e-9), "got %v", b)

	world := l.Object().WorldMatrix()
	vis := cam.Visible()
	assert.InDelta(t, vis.Min.X, world.Apply(a).X, 1e-9)
	assert.InDelta(t, vis.Max.X, world.Apply(b).X, 1e-9)
	assert.InDelta(t, 2, world.Apply(a).Y, 1e-9)
}

func TestInfiniteLineDegenerateHidden(t *testing.T) {
	cam := scene.NewCamera(100, 100, 1)
	l := NewInfiniteLine(geom.V2(0, 0), geom.Vec2{})
	require.NoError(t, l.Update(cam))
	assert.False(t, l.Visible())
	assert.Empty(t, l.mesh.Path)
}

func TestArrowWingsConstantScreenSize(t *testing.T) {
	l := NewArrow(geom.V2(0, 0), geom.V2(10, 0))

	for _, zoom := range []float64{1, 10, 100} {
		cam := scene.NewCamera(400, 400, zoom)
		require.NoError(t, l.Update(cam))
		w := l.Wings()

		for _, wing := range w {
			assert.InDelta(t, DefaultArrowLength, wing.Dist(l.End())*zoom, 1e-9)
			assert.Less(t, wing.X, l.End().X)
		}
		assert.InDelta(t, math.Pi/2, geom.AngleBetween(w[1].Sub(l.End()), w[0].Sub(l.End())), 1e-9)
	}
}

func TestLineFollowsPoints(t *testing.T) {
	a, b := NewPoint(0, 0), NewPoint(1, 1)
	l := NewLine(geom.Vec2{}, geom.Vec2{})
	l.Follow(a, b)

	b.MoveTo(geom.V2(5, 5))
	require.NoError(t, l.Update(scene.NewCamera(100, 100, 1)))
	assert.Equal(t, geom.V2(5, 5), l.End())
}

func TestBracketShape(t *testing.T) {
	cam := scene.NewCamera(400, 400, 20)
	b := NewBracket(geom.V2(0, 0), geom.V2(10, 0))
	require.NoError(t, b.Update(cam))

	pts := b.Points()
	h := BracketHeight / 20
	assert.Equal(t, geom.V2(0, 0), pts[0])
	assert.Equal(t, geom.V2(10, 0), pts[6])
	assert.InDelta(t, h, pts[1].Y, 1e-12)
	assert.InDelta(t, 2*h, pts[3].Y, 1e-12)
	assert.InDelta(t, 5, pts[3].X, 1e-12)

	cam.SetZoom(40)
	require.NoError(t, b.Update(cam))
	assert.InDelta(t, h, b.Points()[3].Y, 1e-12, "tip moves closer when zooming in")
}

func TestPointLabelAndDrag(t *testing.T) {
	p := NewPoint(1, 1)
	assert.Equal(t, scene.DragNone, p.DragMode())

	p.SetLabelText("A")
	assert.Equal(t, "A", p.LabelText())
	require.Len(t, p.Object().Children(), 1)
	assert.Same(t, scene.Component(p), p.Object().Owner)

	p.ConstrainTo(func(q geom.Vec2) geom.Vec2 { return geom.V2(q.X, 0) })
	assert.Equal(t, scene.DragFunction, p.DragMode())
	assert.Equal(t, geom.V2(3, 0), p.Constraint()(geom.V2(3, 4)))

	require.NoError(t, p.SetPosition([]float64{2, 3}))
	assert.Equal(t, geom.V2(2, 3), p.XY())
	assert.Error(t, p.SetPosition("x"))
}

func TestLabelFollowsTarget(t *testing.T) {
	p := NewPoint(2, 2)
	l := NewLabel("P", p, geom.V2(10, 0))
	require.NoError(t, l.Update(scene.NewCamera(100, 100, 10)))
	assert.True(t, l.XY().ApproxEqual(geom.V2(3, 2), 1e-12))
	assert.InDelta(t, 0.1, l.Object().Scale.X, 1e-12)
}

func TestAngleMarker(t *testing.T) {
	a := NewAngleMarker(geom.Vec2{}, geom.V2(1, 0), geom.V2(0, 1), 1)
	assert.InDelta(t, 90, a.Degrees(), 1e-9)
	assert.Equal(t, scene.OpClose, a.mesh.Path[len(a.mesh.Path)-1].Op)
}

func TestPolygonArea(t *testing.T) {
	p := NewPolygon([]geom.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})
	assert.InDelta(t, 4, p.Area(), 1e-12)

	c := NewCircle(geom.V2(1, 1), 2)
	assert.True(t, c.BoundaryPoint(geom.V2(5, 1)).ApproxEqual(geom.V2(3, 1), 1e-12))
}
