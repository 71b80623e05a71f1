// Package interact turns pointer input into object drags and camera motion.
package interact

import (
	"log/slog"
	"slices"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
)

// State is the drag controller state.
type State int

const (
	StateIdle State = iota
	StateHovering
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateHovering:
		return "hovering"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// EventType names a drag controller notification.
type EventType string

const (
	EventDragStart EventType = "dragstart"
	EventDrag      EventType = "drag"
	EventDragEnd   EventType = "dragend"
	EventHoverOn   EventType = "hoveron"
	EventHoverOff  EventType = "hoveroff"
)

// Event is delivered to listeners. Position is the target's parent-local
// position after the event.
type Event struct {
	Type     EventType
	Target   scene.DragTarget
	Position geom.Vec2
}

// Listener receives controller events.
type Listener func(Event)

// DragSession is the state of the one active drag.
type DragSession struct {
	Target scene.DragTarget
	// Start is the target's parent-local position at pointer down.
	Start geom.Vec2
	// Offset is the pointer world position minus the target's world
	// position at pointer down.
	Offset geom.Vec2
	// Depth is the Z of the drag plane, the target's depth.
	Depth float64
}

// DragController maps pointer events to drags of registered targets.
// It is not safe for concurrent use; all calls happen on the scene
// goroutine.
type DragController struct {
	cam  *scene.Camera
	root *scene.Node

	targets map[scene.Component]scene.DragTarget

	state   State
	hovered scene.DragTarget
	session *DragSession

	listeners map[EventType][]listener
	nextID    uint64
}

type listener struct {
	id uint64
	fn Listener
}

// NewDragController creates a controller picking among the descendants of
// root as seen through cam.
func NewDragController(cam *scene.Camera, root *scene.Node) *DragController {
	return &DragController{
		cam:       cam,
		root:      root,
		targets:   make(map[scene.Component]scene.DragTarget),
		listeners: make(map[EventType][]listener),
	}
}

// Register adds t to the drag list. Targets with DragNone are ignored.
func (c *DragController) Register(t scene.DragTarget) bool {
	if t.DragMode() == scene.DragNone {
		return false
	}
	c.targets[t] = t
	return true
}

// Unregister removes t, ending its drag session and hover state.
func (c *DragController) Unregister(t scene.Component) {
	target, ok := c.targets[t]
	if !ok {
		return
	}
	if c.session != nil && c.session.Target == target {
		c.Cancel()
	}
	if c.hovered == target {
		c.emit(EventHoverOff, target)
		c.hovered = nil
		c.state = StateIdle
	}
	delete(c.targets, t)
}

// IsRegistered reports whether t is in the drag list.
func (c *DragController) IsRegistered(t scene.Component) bool {
	_, ok := c.targets[t]
	return ok
}

func (c *DragController) State() State { return c.state }

// Session returns the active drag, or nil.
func (c *DragController) Session() *DragSession { return c.session }

// Hovered returns the object under the pointer. A drag keeps the hover of
// its target until the pointer is released elsewhere.
func (c *DragController) Hovered() scene.DragTarget { return c.hovered }

// On registers fn for events of type t.
func (c *DragController) On(t EventType, fn Listener) Handle {
	c.nextID++
	c.listeners[t] = append(c.listeners[t], listener{id: c.nextID, fn: fn})
	return Handle{c: c, event: t, id: c.nextID}
}

// Handle removes a listener registered with On.
type Handle struct {
	c     *DragController
	event EventType
	id    uint64
}

func (h Handle) Remove() {
	if h.c == nil {
		return
	}
	h.c.listeners[h.event] = slices.DeleteFunc(h.c.listeners[h.event], func(l listener) bool {
		return l.id == h.id
	})
}

func (c *DragController) emit(t EventType, target scene.DragTarget) {
	ev := Event{Type: t, Target: target, Position: target.Object().Position.XY()}
	for _, l := range c.listeners[t] {
		l.fn(ev)
	}
}

// PointerDown starts a drag when a registered target is under the screen
// position s. It reports whether a drag started.
func (c *DragController) PointerDown(s geom.Vec2) bool {
	if c.session != nil {
		return true
	}
	world := c.cam.ScreenToWorld(s)
	target := c.pick(world)
	if target == nil {
		return false
	}

	node := target.Object()
	c.session = &DragSession{
		Target: target,
		Start:  node.Position.XY(),
		Offset: world.Sub(node.WorldPosition()),
		Depth:  node.Position.Z,
	}
	if c.hovered != nil && c.hovered != target {
		c.emit(EventHoverOff, c.hovered)
		c.hovered = nil
	}
	c.state = StateDragging
	slog.Debug("drag started", "target", node.ID, "mode", target.DragMode())
	c.emit(EventDragStart, target)
	return true
}

// PointerMove moves the dragged object, or updates hover state when no
// drag is active.
func (c *DragController) PointerMove(s geom.Vec2) {
	world := c.cam.ScreenToWorld(s)

	if c.session == nil {
		c.hover(c.pick(world))
		return
	}

	t := c.session.Target
	node := t.Object()
	proposed := node.ParentMatrix().Invert().Apply(world.Sub(c.session.Offset))
	node.SetXY(c.constrain(t, proposed))
	c.emit(EventDrag, t)
}

// PointerUp ends the active drag and resolves hover at the release
// position.
func (c *DragController) PointerUp(s geom.Vec2) {
	c.end()
	c.hover(c.pick(c.cam.ScreenToWorld(s)))
}

// PointerLeave ends the active drag and clears hover state.
func (c *DragController) PointerLeave() {
	c.end()
	c.hover(nil)
}

// Cancel ends the active drag without a pointer event. The object stays
// where the last move put it.
func (c *DragController) Cancel() {
	c.end()
}

func (c *DragController) end() {
	if c.session == nil {
		return
	}
	t := c.session.Target
	c.session = nil
	c.state = StateIdle
	if c.hovered != nil {
		c.state = StateHovering
	}
	slog.Debug("drag ended", "target", t.Object().ID)
	c.emit(EventDragEnd, t)
}

func (c *DragController) hover(target scene.DragTarget) {
	if target == c.hovered {
		return
	}
	if c.hovered != nil {
		c.emit(EventHoverOff, c.hovered)
	}
	c.hovered = target
	if target != nil {
		c.state = StateHovering
		c.emit(EventHoverOn, target)
	} else {
		c.state = StateIdle
	}
}

func (c *DragController) constrain(t scene.DragTarget, p geom.Vec2) geom.Vec2 {
	switch t.DragMode() {
	case scene.DragHorizontal:
		p.Y = c.session.Start.Y
	case scene.DragVertical:
		p.X = c.session.Start.X
	case scene.DragFunction:
		if fn := t.Constraint(); fn != nil {
			p = fn(p)
		}
	}
	return p
}

// pick returns the registered target owning the front-most node under the
// world point.
func (c *DragController) pick(world geom.Vec2) scene.DragTarget {
	var found scene.DragTarget
	scene.Pick(c.root, world, c.cam.Zoom, func(n *scene.Node) bool {
		found = c.resolve(n)
		return found != nil
	})
	return found
}

// resolve walks up from n to the nearest node owned by a registered target.
func (c *DragController) resolve(n *scene.Node) scene.DragTarget {
	for ; n != nil; n = n.Parent() {
		if n.Owner == nil {
			continue
		}
		if t, ok := c.targets[n.Owner]; ok && t.DragMode() != scene.DragNone {
			return t
		}
	}
	return nil
}
