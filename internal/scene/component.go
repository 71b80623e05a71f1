package scene

import "github.com/graphica/graphica/internal/geom"

// Component is anything that can be registered with the orchestrator: it owns
// a root node in the scene graph.
type Component interface {
	Object() *Node
}

// Updatable components recompute their geometry from the camera once per
// frame. Update must be idempotent for a given camera state.
type Updatable interface {
	Component
	Update(cam *Camera) error
}

// Resizable components are notified after the viewport changes size.
type Resizable interface {
	Component
	Resize(cam *Camera)
}

// Attachable components take their camera-dependent scale as soon as they
// join a scene, so they hit test correctly before the first frame.
type Attachable interface {
	Component
	Attach(cam *Camera)
}

// HasLabel components carry a text caption.
type HasLabel interface {
	LabelText() string
	SetLabelText(text string)
}

// DragMode classifies how a component may be dragged.
type DragMode int

const (
	DragNone DragMode = iota
	DragFree
	DragHorizontal
	DragVertical
	DragFunction
)

func (m DragMode) String() string {
	switch m {
	case DragFree:
		return "free"
	case DragHorizontal:
		return "horizontal"
	case DragVertical:
		return "vertical"
	case DragFunction:
		return "function"
	default:
		return "none"
	}
}

// ConstraintFunc maps a proposed position (parent-local) to the position
// actually applied. Its output is trusted as-is.
type ConstraintFunc func(p geom.Vec2) geom.Vec2

// DragTarget components can be picked up by the drag controller.
type DragTarget interface {
	Component
	DragMode() DragMode
	Constraint() ConstraintFunc
}
