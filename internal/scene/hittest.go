package scene

import (
	"slices"

	"github.com/graphica/graphica/internal/geom"
)

// HitSlop is the extra pick tolerance around strokes, in screen pixels.
const HitSlop = 4.0

// Pick visits every visible node whose mesh contains the world point p,
// front to back, until visit returns true. The matching node is returned.
// zoom converts pixel stroke widths into world units.
func Pick(root *Node, p geom.Vec2, zoom float64, visit func(*Node) bool) *Node {
	if root == nil || zoom <= 0 {
		return nil
	}
	return pickNode(root, geom.Identity(), p, zoom, visit)
}

// pickNode tests children before the node itself: they are drawn on top.
func pickNode(node *Node, parentWorld geom.Matrix2D, p geom.Vec2, zoom float64, visit func(*Node) bool) *Node {
	if node == nil || !node.Visible {
		return nil
	}

	world := parentWorld.Multiply(node.LocalMatrix())

	order := node.drawOrder()
	for _, child := range slices.Backward(order) {
		if hit := pickNode(child, world, p, zoom, visit); hit != nil {
			return hit
		}
	}

	if node.Mesh != nil && meshContains(node.Mesh, world, p, zoom) && visit(node) {
		return node
	}
	return nil
}

func meshContains(m *Mesh, world geom.Matrix2D, p geom.Vec2, zoom float64) bool {
	if len(m.Path) == 0 {
		return false
	}
	if !m.Path.Bounds(world).Inset(-(m.StrokeWidth/2 + HitSlop) / zoom).Contains(p) {
		return false
	}

	tolerance := (m.StrokeWidth/2 + HitSlop) / zoom
	for _, sub := range m.Path.Flatten(world) {
		if m.Fill != "" && sub.Closed && geom.PolygonContains(sub.Points, p) {
			return true
		}
		if m.Stroke == "" && m.Fill != "" {
			continue
		}
		for i := 1; i < len(sub.Points); i++ {
			if geom.SegmentDistance(p, sub.Points[i-1], sub.Points[i]) <= tolerance {
				return true
			}
		}
		if sub.Closed && len(sub.Points) > 1 {
			if geom.SegmentDistance(p, sub.Points[len(sub.Points)-1], sub.Points[0]) <= tolerance {
				return true
			}
		}
	}
	return false
}

// ObjectBounds returns the world-space bounds of a node and its descendants.
func ObjectBounds(n *Node) geom.Rect {
	r := geom.EmptyRect()
	if n == nil {
		return r
	}
	var walk func(node *Node, parent geom.Matrix2D)
	walk = func(node *Node, parent geom.Matrix2D) {
		world := parent.Multiply(node.LocalMatrix())
		if node.Mesh != nil {
			r = r.Union(node.Mesh.Path.Bounds(world))
		}
		for _, c := range node.children {
			walk(c, world)
		}
	}
	walk(n, n.ParentMatrix())
	return r
}
