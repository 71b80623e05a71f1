package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/visual"
)

// composite is a group whose only geometry lives depth levels below it.
type composite struct {
	root *scene.Node
	leaf *scene.Node
	mode scene.DragMode
}

func newComposite(depth int) *composite {
	c := &composite{root: scene.NewNode(""), mode: scene.DragFree}
	parent := c.root
	for range depth {
		child := scene.NewNode("")
		child.SetXY(geom.V2(0.5, 0))
		parent.Add(child)
		parent = child
	}
	parent.Mesh = scene.NewMesh(scene.Circle(geom.Vec2{}, 1)).Filled("#000")
	c.leaf = parent
	c.root.SetOwner(c)
	return c
}

func (c *composite) Object() *scene.Node              { return c.root }
func (c *composite) DragMode() scene.DragMode         { return c.mode }
func (c *composite) Constraint() scene.ConstraintFunc { return nil }

func setup(t *testing.T) (*scene.Camera, *scene.Node, *DragController) {
	t.Helper()
	cam := scene.NewCamera(200, 200, 10)
	root := scene.NewNode("")
	return cam, root, NewDragController(cam, root)
}

func TestHorizontalDragLocksY(t *testing.T) {
	cam, root, c := setup(t)

	p := visual.NewPoint(1, 2)
	p.SetDraggable(scene.DragHorizontal)
	root.Add(p.Object())
	require.NoError(t, p.Update(cam))
	require.True(t, c.Register(p))

	require.True(t, c.PointerDown(cam.WorldToScreen(geom.V2(1, 2))))
	assert.Equal(t, StateDragging, c.State())

	moves := []geom.Vec2{{X: 3, Y: 7}, {X: -4, Y: -9}, {X: 0.25, Y: 100}, {X: 2, Y: 2.5}}
	for _, m := range moves {
		c.PointerMove(cam.WorldToScreen(m))
		assert.Equal(t, 2.0, p.XY().Y)
	}
	assert.InDelta(t, 2, p.XY().X, 1e-9)

	c.PointerUp(geom.Vec2{})
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Session())
	assert.Equal(t, 2.0, p.XY().Y)
}

func TestVerticalAndFunctionConstraints(t *testing.T) {
	cam, root, c := setup(t)

	v := visual.NewPoint(0, 0)
	v.SetDraggable(scene.DragVertical)
	f := visual.NewPoint(5, 25)
	f.ConstrainTo(func(p geom.Vec2) geom.Vec2 { return geom.V2(p.X, p.X*p.X) })
	for _, p := range []*visual.Point{v, f} {
		root.Add(p.Object())
		require.NoError(t, p.Update(cam))
		c.Register(p)
	}

	require.True(t, c.PointerDown(cam.WorldToScreen(geom.V2(0, 0))))
	c.PointerMove(cam.WorldToScreen(geom.V2(3, 4)))
	c.PointerUp(geom.Vec2{})
	assert.True(t, v.XY().ApproxEqual(geom.V2(0, 4), 1e-9), "got %v", v.XY())

	require.True(t, c.PointerDown(cam.WorldToScreen(geom.V2(5, 25))))
	c.PointerMove(cam.WorldToScreen(geom.V2(3, 0)))
	c.PointerLeave()
	assert.True(t, f.XY().ApproxEqual(geom.V2(3, 9), 1e-9), "got %v", f.XY())
}

func TestDragMovesTopLevelComposite(t *testing.T) {
	for depth := 1; depth <= 4; depth++ {
		cam, root, c := setup(t)
		comp := newComposite(depth)
		root.Add(comp.root)
		c.Register(comp)

		leafWorld := comp.leaf.WorldPosition()
		leafLocal := comp.leaf.Position

		require.True(t, c.PointerDown(cam.WorldToScreen(leafWorld)), "depth %d", depth)
		assert.Same(t, scene.DragTarget(comp), c.Session().Target)

		c.PointerMove(cam.WorldToScreen(leafWorld.Add(geom.V2(2, 3))))
		c.PointerUp(geom.Vec2{})

		assert.True(t, comp.root.Position.XY().ApproxEqual(geom.V2(2, 3), 1e-9), "depth %d: %v", depth, comp.root.Position)
		assert.Equal(t, leafLocal, comp.leaf.Position, "depth %d", depth)
	}
}

func TestDragInsideTransformedParent(t *testing.T) {
	cam, root, c := setup(t)
	group := scene.NewNode("")
	group.SetXY(geom.V2(10, 0))
	group.SetUniformScale(2)
	root.Add(group)

	comp := newComposite(1)
	group.Add(comp.root)
	c.Register(comp)

	start := comp.leaf.WorldPosition()
	require.True(t, c.PointerDown(cam.WorldToScreen(start)))
	c.PointerMove(cam.WorldToScreen(start.Add(geom.V2(4, 0))))
	assert.True(t, comp.root.Position.XY().ApproxEqual(geom.V2(2, 0), 1e-9), "got %v", comp.root.Position)
}

func TestEventsAndHover(t *testing.T) {
	cam, root, c := setup(t)
	p := visual.NewPoint(0, 0)
	p.SetDraggable(scene.DragFree)
	root.Add(p.Object())
	require.NoError(t, p.Update(cam))
	c.Register(p)

	var got []EventType
	record := func(e Event) { got = append(got, e.Type) }
	handles := []Handle{}
	for _, ev := range []EventType{EventDragStart, EventDrag, EventDragEnd, EventHoverOn, EventHoverOff} {
		handles = append(handles, c.On(ev, record))
	}

	c.PointerMove(cam.WorldToScreen(geom.V2(0, 0)))
	assert.Equal(t, StateHovering, c.State())
	assert.Same(t, scene.DragTarget(p), c.Hovered())
	c.PointerMove(cam.WorldToScreen(geom.V2(5, 5)))
	assert.Equal(t, StateIdle, c.State())

	c.PointerDown(cam.WorldToScreen(geom.V2(0, 0)))
	c.PointerMove(cam.WorldToScreen(geom.V2(1, 0)))
	c.Cancel()

	assert.Equal(t, []EventType{EventHoverOn, EventHoverOff, EventDragStart, EventDrag, EventDragEnd}, got)

	for _, h := range handles {
		h.Remove()
	}
	got = nil
	c.PointerDown(cam.WorldToScreen(geom.V2(1, 0)))
	c.PointerUp(geom.Vec2{})
	assert.Empty(t, got)
}

func TestHoverBalancedAcrossDrag(t *testing.T) {
	cam, root, c := setup(t)
	p := visual.NewPoint(0, 0)
	p.SetDraggable(scene.DragFree)
	root.Add(p.Object())
	require.NoError(t, p.Update(cam))
	c.Register(p)

	var got []EventType
	record := func(e Event) { got = append(got, e.Type) }
	c.On(EventHoverOn, record)
	c.On(EventHoverOff, record)

	at := cam.WorldToScreen(geom.V2(0, 0))
	c.PointerMove(at)
	require.True(t, c.PointerDown(at))
	assert.Same(t, scene.DragTarget(p), c.Hovered())
	c.PointerUp(at)
	assert.Equal(t, StateHovering, c.State())

	c.PointerMove(cam.WorldToScreen(geom.V2(8, 8)))
	assert.Equal(t, []EventType{EventHoverOn, EventHoverOff}, got)
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Hovered())
}

func TestReleaseAwayFromDraggedTargetEndsHover(t *testing.T) {
	cam, root, c := setup(t)
	p := visual.NewPoint(0, 0)
	p.SetDraggable(scene.DragHorizontal)
	root.Add(p.Object())
	require.NoError(t, p.Update(cam))
	c.Register(p)

	var got []EventType
	record := func(e Event) { got = append(got, e.Type) }
	c.On(EventHoverOn, record)
	c.On(EventHoverOff, record)

	at := cam.WorldToScreen(geom.V2(0, 0))
	c.PointerMove(at)
	require.True(t, c.PointerDown(at))
	// The point is locked to y=0, so the release lands well above it.
	c.PointerMove(cam.WorldToScreen(geom.V2(2, 6)))
	c.PointerUp(cam.WorldToScreen(geom.V2(2, 6)))

	assert.Equal(t, []EventType{EventHoverOn, EventHoverOff}, got)
	assert.Equal(t, StateIdle, c.State())
}

func TestUnregisterCancelsDrag(t *testing.T) {
	cam, root, c := setup(t)
	p := visual.NewPoint(0, 0)
	p.SetDraggable(scene.DragFree)
	root.Add(p.Object())
	require.NoError(t, p.Update(cam))
	c.Register(p)

	ended := 0
	c.On(EventDragEnd, func(Event) { ended++ })

	require.True(t, c.PointerDown(cam.WorldToScreen(geom.V2(0, 0))))
	c.Unregister(p)
	assert.Equal(t, 1, ended)
	assert.Nil(t, c.Session())
	assert.False(t, c.IsRegistered(p))
	assert.False(t, c.PointerDown(cam.WorldToScreen(geom.V2(0, 0))))
}

func TestUndraggableNotRegistered(t *testing.T) {
	_, _, c := setup(t)
	p := visual.NewPoint(0, 0)
	assert.False(t, c.Register(p))
}

func TestPanZoom(t *testing.T) {
	cam := scene.NewCamera(200, 200, 10)
	pz := NewPanZoom(cam)

	pz.PointerDown(geom.V2(100, 100))
	pz.PointerMove(geom.V2(120, 90))
	pz.PointerUp()
	assert.True(t, cam.Position.ApproxEqual(geom.V2(-2, -1), 1e-9), "got %v", cam.Position)

	cursor := geom.V2(150, 50)
	before := cam.ScreenToWorld(cursor)
	pz.Wheel(cursor, -100)
	assert.InDelta(t, 11, cam.Zoom, 1e-9)
	assert.True(t, cam.ScreenToWorld(cursor).ApproxEqual(before, 1e-9))
}
