package scene

import (
	"slices"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/typeid"
)

// Node is a member of the scene graph. Its transform is relative to its
// parent; Position.Z orders siblings for drawing (higher is in front).
type Node struct {
	ID       string
	Name     string
	Position geom.Vec3
	Rotation float64 // radians
	Scale    geom.Vec2
	Visible  bool

	// Mesh is nil for pure grouping nodes.
	Mesh *Mesh

	// Owner is the component this node belongs to, used by hit testing to
	// find the object to drag. Child nodes of a composite share its owner.
	Owner Component

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with an id of the given typeid prefix.
func NewNode(prefix string) *Node {
	if prefix == "" {
		prefix = typeid.PrefixNode
	}
	return &Node{
		ID:      typeid.New(prefix),
		Scale:   geom.V2(1, 1),
		Visible: true,
	}
}

// NewMeshNode creates a node that renders mesh.
func NewMeshNode(prefix string, mesh *Mesh) *Node {
	n := NewNode(prefix)
	n.Mesh = mesh
	return n
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child list; callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// Add appends child, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child if it is a direct child of n.
func (n *Node) Remove(child *Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Clear removes all children.
func (n *Node) Clear() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// SetOwner assigns owner to n and every descendant.
func (n *Node) SetOwner(owner Component) {
	n.Walk(func(c *Node) bool {
		c.Owner = owner
		return true
	})
}

// Walk visits n and its descendants depth-first in child order. Returning
// false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// IsAncestorOf reports whether n is other or one of its ancestors.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() geom.Matrix2D {
	return geom.FromTransform(n.Position.X, n.Position.Y, n.Scale.X, n.Scale.Y, n.Rotation)
}

// WorldMatrix returns parent * local, walking up to the root.
func (n *Node) WorldMatrix() geom.Matrix2D {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Multiply(m)
	}
	return m
}

// ParentMatrix returns the world matrix of the parent, or identity.
func (n *Node) ParentMatrix() geom.Matrix2D {
	if n.parent == nil {
		return geom.Identity()
	}
	return n.parent.WorldMatrix()
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() geom.Vec2 {
	return n.WorldMatrix().Translation()
}

// SetXY moves the node within its parent, keeping its depth.
func (n *Node) SetXY(p geom.Vec2) {
	n.Position.X, n.Position.Y = p.X, p.Y
}

// SetUniformScale sets the same scale on both axes.
func (n *Node) SetUniformScale(s float64) {
	n.Scale = geom.V2(s, s)
}

// drawOrder returns the children sorted back to front by depth; siblings at
// the same depth keep insertion order.
func (n *Node) drawOrder() []*Node {
	if len(n.children) < 2 {
		return n.children
	}
	out := slices.Clone(n.children)
	slices.SortStableFunc(out, func(a, b *Node) int {
		switch {
		case a.Position.Z < b.Position.Z:
			return -1
		case a.Position.Z > b.Position.Z:
			return 1
		}
		return 0
	})
	return out
}
