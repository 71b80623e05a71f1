// Package core is the frame orchestrator: it owns the camera, the scene
// root, the component registry and the drag controller, and runs one
// update-then-render pass per host tick.
package core

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/gui"
	"github.com/graphica/graphica/internal/interact"
	"github.com/graphica/graphica/internal/scene"
)

var (
	ErrAlreadyRegistered = errors.New("component already registered")
	ErrNotRegistered     = errors.New("component not registered")
	ErrUnknownWidget     = errors.New("unknown widget")
	ErrStopped           = errors.New("graphica stopped")
)

const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultZoom       = 50
	DefaultBackground = "#ffffff"
)

// Options configure a new orchestrator.
type Options struct {
	Width, Height float64
	Zoom          float64
	Background    string
	Renderer      Renderer
}

type entry struct {
	component scene.Component
	stack     int
	// autoZ is set when the depth came from the stacking index.
	autoZ bool
}

// Graphica coordinates the components of one scene. Apart from Post, its
// methods must be called from a single goroutine, the one driving Tick.
type Graphica struct {
	cam     *scene.Camera
	root    *scene.Node
	drag    *interact.DragController
	panZoom *interact.PanZoom

	entries    []entry
	index      map[scene.Component]int
	updatables []scene.Updatable
	resizables []scene.Resizable
	nextStack  int

	widgets []gui.Widget

	renderer   Renderer
	background string
	sched      Scheduler
	onUpdate   func(elapsed time.Duration)
	last       *Frame
	err        error

	mu     sync.Mutex
	posted []func()
}

func New(opts Options) *Graphica {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Zoom <= 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.Background == "" {
		opts.Background = DefaultBackground
	}

	cam := scene.NewCamera(opts.Width, opts.Height, opts.Zoom)
	root := scene.NewNode("")
	root.Name = "root"

	return &Graphica{
		cam:        cam,
		root:       root,
		drag:       interact.NewDragController(cam, root),
		panZoom:    interact.NewPanZoom(cam),
		index:      make(map[scene.Component]int),
		renderer:   opts.Renderer,
		background: opts.Background,
	}
}

func (g *Graphica) Camera() *scene.Camera          { return g.cam }
func (g *Graphica) Root() *scene.Node              { return g.root }
func (g *Graphica) Drag() *interact.DragController { return g.drag }
func (g *Graphica) PanZoom() *interact.PanZoom     { return g.panZoom }
func (g *Graphica) SetRenderer(r Renderer)         { g.renderer = r }
func (g *Graphica) SetBackground(color string)     { g.background = color }
func (g *Graphica) Running() bool                  { return g.sched.Running() }
func (g *Graphica) Components() int                { return len(g.entries) }

// IsRegistered reports whether c was added and not removed since.
func (g *Graphica) IsRegistered(c scene.Component) bool {
	_, ok := g.index[c]
	return ok
}

// StackIndex returns the stacking index c received when it was added.
func (g *Graphica) StackIndex(c scene.Component) (int, bool) {
	i, ok := g.index[c]
	if !ok {
		return 0, false
	}
	return g.entries[i].stack, true
}

// Err returns the error that stopped the loop, if any.
func (g *Graphica) Err() error { return g.err }

// On registers a drag controller listener.
func (g *Graphica) On(t interact.EventType, fn interact.Listener) interact.Handle {
	return g.drag.On(t, fn)
}

// Add registers c: its node joins the scene and gets the next stacking
// index. It is indexed into the update, drag and resize lists by the
// capabilities it implements. An Attachable is scaled to the camera at once.
func (g *Graphica) Add(c scene.Component) error {
	if _, ok := g.index[c]; ok {
		return fmt.Errorf("add %s: %w", c.Object().ID, ErrAlreadyRegistered)
	}

	node := c.Object()
	stack := g.nextStack
	g.nextStack++
	autoZ := node.Position.Z == 0
	if autoZ {
		node.Position.Z = float64(stack)
	}
	g.root.Add(node)
	if a, ok := c.(scene.Attachable); ok {
		a.Attach(g.cam)
	}

	g.index[c] = len(g.entries)
	g.entries = append(g.entries, entry{component: c, stack: stack, autoZ: autoZ})

	if u, ok := c.(scene.Updatable); ok {
		g.updatables = append(g.updatables, u)
	}
	if r, ok := c.(scene.Resizable); ok {
		g.resizables = append(g.resizables, r)
	}
	if d, ok := c.(scene.DragTarget); ok {
		g.drag.Register(d)
	}
	return nil
}

// AddAll registers several components in order.
func (g *Graphica) AddAll(cs ...scene.Component) error {
	for _, c := range cs {
		if err := g.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// Remove reverses Add. An active drag of c is cancelled and a depth taken
// from the stacking index is cleared, so a later Add restacks c.
func (g *Graphica) Remove(c scene.Component) error {
	i, ok := g.index[c]
	if !ok {
		return fmt.Errorf("remove %s: %w", c.Object().ID, ErrNotRegistered)
	}

	g.drag.Unregister(c)
	node := c.Object()
	g.root.Remove(node)
	if e := g.entries[i]; e.autoZ && node.Position.Z == float64(e.stack) {
		node.Position.Z = 0
	}

	g.entries = slices.Delete(g.entries, i, i+1)
	delete(g.index, c)
	for j := i; j < len(g.entries); j++ {
		g.index[g.entries[j].component] = j
	}

	g.updatables = slices.DeleteFunc(g.updatables, func(u scene.Updatable) bool { return scene.Component(u) == c })
	g.resizables = slices.DeleteFunc(g.resizables, func(r scene.Resizable) bool { return scene.Component(r) == c })
	return nil
}

// SetDraggable re-evaluates c's drag mode after it changed.
func (g *Graphica) SetDraggable(c scene.DragTarget) {
	g.drag.Unregister(c)
	if _, ok := g.index[c]; ok {
		g.drag.Register(c)
	}
}

// AddGui registers a widget for hosts to display.
func (g *Graphica) AddGui(w gui.Widget) error {
	if slices.Contains(g.widgets, w) {
		return fmt.Errorf("add widget %s: %w", w.ID(), ErrAlreadyRegistered)
	}
	g.widgets = append(g.widgets, w)
	return nil
}

// RemoveGui unregisters a widget.
func (g *Graphica) RemoveGui(w gui.Widget) error {
	i := slices.Index(g.widgets, w)
	if i < 0 {
		return fmt.Errorf("remove widget %s: %w", w.ID(), ErrNotRegistered)
	}
	g.widgets = slices.Delete(g.widgets, i, i+1)
	return nil
}

// Widgets returns the registered widgets in order.
func (g *Graphica) Widgets() []gui.Widget { return g.widgets }

// HandleGui routes host input to the widget with the given id.
func (g *Graphica) HandleGui(id string, ev gui.Event) error {
	for _, w := range g.widgets {
		if w.ID() == id {
			return w.Handle(ev)
		}
	}
	return fmt.Errorf("widget %s: %w", id, ErrUnknownWidget)
}

// Post queues fn to run at the start of the next tick. It is the only
// method safe to call from other goroutines.
func (g *Graphica) Post(fn func()) {
	g.mu.Lock()
	g.posted = append(g.posted, fn)
	g.mu.Unlock()
}

func (g *Graphica) drainPosted() {
	g.mu.Lock()
	fns := g.posted
	g.posted = nil
	g.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Run arms the loop. onUpdate, when not nil, is called at the start of
// every tick with the time since the previous tick.
func (g *Graphica) Run(onUpdate func(elapsed time.Duration)) {
	g.onUpdate = onUpdate
	g.err = nil
	g.sched.Start()
	slog.Debug("graphica loop started", "components", len(g.entries))
}

// Stop ends the loop. Later ticks return Stop.
func (g *Graphica) Stop() {
	if g.sched.Running() {
		slog.Debug("graphica loop stopped", "frames", g.sched.Frames())
	}
	g.sched.Stop()
}

// Tick runs one frame: posted callbacks, onUpdate, Update on every
// updatable in registration order, then frame compilation and rendering.
// A failing update does not keep the others from running; the tick then
// stops the loop with the joined error and nothing is rendered.
func (g *Graphica) Tick(now time.Time) TickResult {
	elapsed, ok := g.sched.Advance(now)
	if !ok {
		return Stop
	}

	g.drainPosted()
	if g.onUpdate != nil {
		g.onUpdate(elapsed)
	}

	if err := g.update(); err != nil {
		g.fail(err)
		return Stop
	}

	f := g.compile(elapsed)
	g.last = f
	if g.renderer != nil {
		if err := g.renderer.Render(f); err != nil {
			g.fail(fmt.Errorf("render frame %d: %w", f.Number, err))
			return Stop
		}
	}

	if !g.sched.Running() {
		return Stop
	}
	return Continue
}

func (g *Graphica) update() error {
	var errs []error
	for _, u := range slices.Clone(g.updatables) {
		if err := u.Update(g.cam); err != nil {
			errs = append(errs, fmt.Errorf("update %s: %w", u.Object().ID, err))
		}
	}
	return errors.Join(errs...)
}

func (g *Graphica) fail(err error) {
	g.err = err
	slog.Error("graphica loop halted", "error", err)
	g.sched.Stop()
}

func (g *Graphica) compile(elapsed time.Duration) *Frame {
	f := &Frame{
		Number:     g.sched.Frames(),
		ElapsedMS:  float64(elapsed) / float64(time.Millisecond),
		Background: g.background,
		Camera:     g.cam.State(),
		Commands:   scene.CompileDrawCommands(g.root, g.cam),
	}
	for _, w := range g.widgets {
		f.Widgets = append(f.Widgets, w.State())
	}
	return f
}

// Frame returns the last compiled frame, or nil before the first tick.
func (g *Graphica) Frame() *Frame { return g.last }

// Snapshot updates every component once and compiles a frame without
// touching the loop state. Hosts use it for still images.
func (g *Graphica) Snapshot() (*Frame, error) {
	g.drainPosted()
	if err := g.update(); err != nil {
		return nil, err
	}
	return g.compile(0), nil
}

// Resize recomputes the camera frustum and notifies resizable components.
func (g *Graphica) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	g.cam.Resize(width, height)
	for _, r := range g.resizables {
		r.Resize(g.cam)
	}
}

// PointerDown starts a drag on the object under (x, y) in screen pixels,
// or a camera pan when there is none.
func (g *Graphica) PointerDown(x, y float64) {
	s := geom.V2(x, y)
	if !g.drag.PointerDown(s) {
		g.panZoom.PointerDown(s)
	}
}

func (g *Graphica) PointerMove(x, y float64) {
	s := geom.V2(x, y)
	if g.panZoom.Panning() {
		g.panZoom.PointerMove(s)
		return
	}
	g.drag.PointerMove(s)
}

func (g *Graphica) PointerUp(x, y float64) {
	g.drag.PointerUp(geom.V2(x, y))
	g.panZoom.PointerUp()
}

func (g *Graphica) PointerLeave() {
	g.drag.PointerLeave()
	g.panZoom.PointerUp()
}

// Wheel zooms around (x, y).
func (g *Graphica) Wheel(x, y, delta float64) {
	g.panZoom.Wheel(geom.V2(x, y), delta)
}
