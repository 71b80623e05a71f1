// Package visual contains the geometric primitives. Each primitive owns a
// node in the scene graph and recomputes its geometry from the camera in
// Update.
package visual

import (
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
)

// Default palette.
const (
	ColorInk       = "#1f2933"
	ColorPrimary   = "#2b6cb0"
	ColorAccent    = "#e53e3e"
	ColorHighlight = "#38a169"
	ColorMuted     = "#a0aec0"
	ColorFill      = "#bee3f8"
)

// Base carries the node and drag classification shared by all primitives.
type Base struct {
	node       *scene.Node
	mode       scene.DragMode
	constraint scene.ConstraintFunc
}

func newBase(prefix string) Base {
	return Base{node: scene.NewNode(prefix)}
}

// Object implements scene.Component.
func (b *Base) Object() *scene.Node { return b.node }

// DragMode implements scene.DragTarget.
func (b *Base) DragMode() scene.DragMode { return b.mode }

// Constraint implements scene.DragTarget.
func (b *Base) Constraint() scene.ConstraintFunc { return b.constraint }

// SetDraggable sets the drag classification. DragFunction needs a
// constraint; use ConstrainTo for that.
func (b *Base) SetDraggable(mode scene.DragMode) {
	b.mode = mode
}

// ConstrainTo makes the object draggable along fn. The returned position is
// applied as-is.
func (b *Base) ConstrainTo(fn scene.ConstraintFunc) {
	b.mode = scene.DragFunction
	b.constraint = fn
}

// Position implements geom.Positioner.
func (b *Base) Position() geom.Vec3 { return b.node.Position }

// XY returns the position in the parent's space.
func (b *Base) XY() geom.Vec2 { return b.node.Position.XY() }

// MoveTo sets the position, keeping the stacking depth.
func (b *Base) MoveTo(p geom.Vec2) { b.node.SetXY(p) }

// SetPosition accepts any of the position forms geom.ToVec3 understands.
// A Z of zero keeps the current depth.
func (b *Base) SetPosition(p any) error {
	v, err := geom.ToVec3(p)
	if err != nil {
		return err
	}
	b.node.SetXY(v.XY())
	if v.Z != 0 {
		b.node.Position.Z = v.Z
	}
	return nil
}

// SetVisible shows or hides the object and its children.
func (b *Base) SetVisible(v bool) { b.node.Visible = v }

// Visible reports whether the object is drawn.
func (b *Base) Visible() bool { return b.node.Visible }

// own marks owner as the component behind the node tree.
func (b *Base) own(owner scene.Component) {
	b.node.SetOwner(owner)
}

func resolve(p any, fallback geom.Vec2) geom.Vec2 {
	if p == nil {
		return fallback
	}
	if v, err := geom.ToVec3(p); err == nil {
		return v.XY()
	}
	return fallback
}
