package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/gui"
	"github.com/graphica/graphica/internal/interact"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/visual"
)

type fakeComponent struct {
	node    *scene.Node
	updates int
	resizes int
	err     error
	log     *[]string
	name    string
}

func newFake(name string, log *[]string) *fakeComponent {
	mesh := &scene.Mesh{Path: scene.Circle(geom.Vec2{}, 0.5), Fill: "#000", Opacity: 1}
	f := &fakeComponent{node: scene.NewMeshNode("", mesh), log: log, name: name}
	f.node.SetOwner(f)
	return f
}

func (f *fakeComponent) Object() *scene.Node { return f.node }

func (f *fakeComponent) Update(*scene.Camera) error {
	f.updates++
	if f.log != nil {
		*f.log = append(*f.log, f.name)
	}
	return f.err
}

func (f *fakeComponent) Resize(*scene.Camera) { f.resizes++ }

type draggableFake struct {
	*fakeComponent
}

func (d *draggableFake) DragMode() scene.DragMode         { return scene.DragFree }
func (d *draggableFake) Constraint() scene.ConstraintFunc { return nil }

func newDraggable() *draggableFake {
	d := &draggableFake{newFake("drag", nil)}
	d.node.SetOwner(d)
	return d
}

type captureRenderer struct {
	frames []*Frame
	err    error
}

func (r *captureRenderer) Render(f *Frame) error {
	r.frames = append(r.frames, f)
	return r.err
}

func TestScheduler(t *testing.T) {
	var s Scheduler
	_, ok := s.Advance(time.Now())
	assert.False(t, ok)

	s.Start()
	t0 := time.Unix(100, 0)
	dt, ok := s.Advance(t0)
	require.True(t, ok)
	assert.Zero(t, dt)

	dt, _ = s.Advance(t0.Add(16 * time.Millisecond))
	assert.Equal(t, 16*time.Millisecond, dt)
	dt, _ = s.Advance(t0.Add(40 * time.Millisecond))
	assert.Equal(t, 24*time.Millisecond, dt)
	assert.Equal(t, uint64(3), s.Frames())
	assert.Equal(t, 40*time.Millisecond, s.Uptime())

	s.Stop()
	_, ok = s.Advance(t0.Add(time.Second))
	assert.False(t, ok)
}

func TestAddRemove(t *testing.T) {
	g := New(Options{})
	a, b := newFake("a", nil), newFake("b", nil)

	require.NoError(t, g.AddAll(a, b))
	assert.ErrorIs(t, g.Add(a), ErrAlreadyRegistered)
	assert.Equal(t, 2, g.Components())
	assert.Same(t, g.Root(), a.node.Parent())

	ia, _ := g.StackIndex(a)
	ib, _ := g.StackIndex(b)
	assert.Less(t, ia, ib)
	assert.Equal(t, float64(ib), b.node.Position.Z)

	require.NoError(t, g.Remove(a))
	assert.False(t, g.IsRegistered(a))
	assert.Nil(t, a.node.Parent())
	assert.ErrorIs(t, g.Remove(a), ErrNotRegistered)

	g.Run(nil)
	g.Tick(time.Unix(0, 0))
	assert.Zero(t, a.updates)
	assert.Equal(t, 1, b.updates)
}

func TestExplicitDepthIsKept(t *testing.T) {
	g := New(Options{})
	a := newFake("a", nil)
	a.node.Position.Z = -3
	require.NoError(t, g.Add(a))
	assert.Equal(t, -3.0, a.node.Position.Z)
}

func TestReAddRestacks(t *testing.T) {
	g := New(Options{})
	a, b, c := newFake("a", nil), newFake("b", nil), newFake("c", nil)
	c.node.Position.Z = -3
	require.NoError(t, g.AddAll(a, b, c))

	require.NoError(t, g.Remove(a))
	require.NoError(t, g.Remove(c))
	assert.Zero(t, a.node.Position.Z)
	assert.Equal(t, -3.0, c.node.Position.Z)

	require.NoError(t, g.Add(a))
	ia, _ := g.StackIndex(a)
	ib, _ := g.StackIndex(b)
	assert.Greater(t, ia, ib)
	assert.Equal(t, float64(ia), a.node.Position.Z)
	assert.Greater(t, a.node.Position.Z, b.node.Position.Z)
}

func TestTickOrder(t *testing.T) {
	var log []string
	r := &captureRenderer{}
	g := New(Options{Renderer: r})
	require.NoError(t, g.AddAll(newFake("a", &log), newFake("b", &log), newFake("c", &log)))

	var elapsed []time.Duration
	g.Run(func(dt time.Duration) {
		log = append(log, "tick")
		elapsed = append(elapsed, dt)
	})
	g.Post(func() { log = append(log, "posted") })

	t0 := time.Unix(10, 0)
	assert.Equal(t, Continue, g.Tick(t0))
	assert.Equal(t, Continue, g.Tick(t0.Add(20*time.Millisecond)))

	assert.Equal(t, []string{"posted", "tick", "a", "b", "c", "tick", "a", "b", "c"}, log)
	assert.Equal(t, []time.Duration{0, 20 * time.Millisecond}, elapsed)
	require.Len(t, r.frames, 2)
	assert.Len(t, r.frames[1].Commands, 3)
	assert.Equal(t, uint64(2), r.frames[1].Number)
	assert.Equal(t, 20.0, r.frames[1].ElapsedMS)
	assert.Same(t, r.frames[1], g.Frame())
}

func TestUpdateErrorStopsLoop(t *testing.T) {
	var log []string
	r := &captureRenderer{}
	g := New(Options{Renderer: r})
	bad := newFake("bad", &log)
	bad.err = errors.New("boom")
	good := newFake("good", &log)
	require.NoError(t, g.AddAll(bad, good))

	g.Run(nil)
	assert.Equal(t, Stop, g.Tick(time.Unix(0, 0)))

	// the healthy component still ran, nothing was rendered
	assert.Equal(t, []string{"bad", "good"}, log)
	assert.Empty(t, r.frames)
	require.Error(t, g.Err())
	assert.ErrorContains(t, g.Err(), "boom")
	assert.False(t, g.Running())
	assert.Equal(t, Stop, g.Tick(time.Unix(1, 0)))
	assert.Equal(t, 1, good.updates)
}

func TestRenderErrorStopsLoop(t *testing.T) {
	r := &captureRenderer{err: errors.New("lost context")}
	g := New(Options{Renderer: r})
	g.Run(nil)
	assert.Equal(t, Stop, g.Tick(time.Unix(0, 0)))
	assert.ErrorContains(t, g.Err(), "lost context")
}

func TestStopFromUpdate(t *testing.T) {
	g := New(Options{})
	g.Run(func(time.Duration) { g.Stop() })
	assert.Equal(t, Stop, g.Tick(time.Unix(0, 0)))
	assert.NoError(t, g.Err())
}

func TestResize(t *testing.T) {
	g := New(Options{Width: 100, Height: 100})
	f := newFake("f", nil)
	require.NoError(t, g.Add(f))

	g.Resize(400, 200)
	assert.Equal(t, 1, f.resizes)
	assert.Equal(t, 400.0, g.Camera().Width)
	assert.Equal(t, -100.0, g.Camera().Bottom)

	g.Resize(0, 10)
	assert.Equal(t, 1, f.resizes)
}

func TestPointerRouting(t *testing.T) {
	g := New(Options{Width: 200, Height: 200, Zoom: 10})
	d := newDraggable()
	require.NoError(t, g.Add(d))

	var events []interact.EventType
	for _, et := range []interact.EventType{interact.EventDragStart, interact.EventDragEnd} {
		g.On(et, func(ev interact.Event) { events = append(events, ev.Type) })
	}

	// object at the origin sits at the screen center
	g.PointerDown(100, 100)
	assert.Equal(t, interact.StateDragging, g.Drag().State())
	g.PointerMove(120, 100)
	g.PointerUp(120, 100)
	assert.InDelta(t, 2, d.node.Position.X, 1e-9)
	assert.Equal(t, []interact.EventType{interact.EventDragStart, interact.EventDragEnd}, events)
	assert.Zero(t, g.Camera().Position.X)

	// empty space pans the camera
	g.PointerDown(10, 10)
	assert.True(t, g.PanZoom().Panning())
	g.PointerMove(30, 10)
	g.PointerUp(30, 10)
	assert.InDelta(t, -2, g.Camera().Position.X, 1e-9)

	g.Wheel(100, 100, -100)
	assert.Greater(t, g.Camera().Zoom, 10.0)
}

func TestPointHitAreaBeforeFirstTick(t *testing.T) {
	g := New(Options{Width: 400, Height: 400, Zoom: 50})
	p := visual.NewPoint(0, 0)
	p.SetDraggable(scene.DragFree)
	require.NoError(t, g.Add(p))

	// the origin is at the screen center and the point has a 6px radius
	g.PointerDown(350, 200)
	assert.NotEqual(t, interact.StateDragging, g.Drag().State())
	g.PointerUp(350, 200)

	g.PointerDown(203, 200)
	assert.Equal(t, interact.StateDragging, g.Drag().State())
}

func TestRemoveCancelsDrag(t *testing.T) {
	g := New(Options{Width: 200, Height: 200, Zoom: 10})
	d := newDraggable()
	require.NoError(t, g.Add(d))

	g.PointerDown(100, 100)
	require.Equal(t, interact.StateDragging, g.Drag().State())
	require.NoError(t, g.Remove(d))
	assert.Nil(t, g.Drag().Session())
	assert.False(t, g.Drag().IsRegistered(d))
}

func TestWidgets(t *testing.T) {
	g := New(Options{})
	s, err := gui.NewSlider("a", 0, 10, 1, 2)
	require.NoError(t, err)

	require.NoError(t, g.AddGui(s))
	assert.ErrorIs(t, g.AddGui(s), ErrAlreadyRegistered)

	require.NoError(t, g.HandleGui(s.ID(), gui.Event{Action: "change", Value: 7}))
	assert.Equal(t, 7.0, s.Value())
	assert.ErrorIs(t, g.HandleGui("nope", gui.Event{}), ErrUnknownWidget)

	g.Run(nil)
	g.Tick(time.Unix(0, 0))
	require.Len(t, g.Frame().Widgets, 1)
	assert.Equal(t, 7.0, g.Frame().Widgets[0].Value)

	require.NoError(t, g.RemoveGui(s))
	assert.ErrorIs(t, g.RemoveGui(s), ErrNotRegistered)
}

func TestSnapshot(t *testing.T) {
	g := New(Options{})
	f := newFake("f", nil)
	require.NoError(t, g.Add(f))
	frame, err := g.Snapshot()
	require.NoError(t, err)
	assert.Len(t, frame.Commands, 1)
	assert.False(t, g.Running())

	data, err := frame.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"commands"`)
}
