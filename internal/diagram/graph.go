package diagram

import (
	"errors"
	"math"
	"slices"
	"strconv"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
	"github.com/graphica/graphica/internal/visual"
)

var (
	ErrSelfLoop    = errors.New("cannot connect a node to itself")
	ErrForeignNode = errors.New("nodes belong to different graphs")
)

const (
	DefaultNodeRadius = 0.5
	edgeCurvature     = 0.2
	edgeArrowLength   = 10.0 // pixels
	edgeLabelOffset   = 12.0 // pixels
)

// Graph owns the edges between its nodes. Edges live in an arena and each
// node keeps the indices of the edges touching it, so an undirected edge is
// a single value seen from both ends.
type Graph struct {
	node  *scene.Node
	nodes []*GraphNode
	edges []*Edge
	free  []int
}

func NewGraph() *Graph {
	g := &Graph{node: scene.NewNode(typeid.PrefixEdge)}
	g.node.Name = "graph"
	g.node.SetOwner(g)
	return g
}

// Object holds the edge visuals. Nodes are separate components.
func (g *Graph) Object() *scene.Node { return g.node }

// Nodes returns the graph's nodes in creation order.
func (g *Graph) Nodes() []*GraphNode { return g.nodes }

// Edges returns the live edges in arena order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges)-len(g.free))
	for _, e := range g.edges {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// NewNode creates a node at p with a text label.
func (g *Graph) NewNode(label string, p geom.Vec2) *GraphNode {
	n := &GraphNode{
		graph:  g,
		node:   scene.NewNode(typeid.PrefixVertex),
		radius: DefaultNodeRadius,
		mode:   scene.DragFree,
	}
	n.node.SetXY(p)
	n.mesh = scene.NewMesh(scene.Circle(geom.Vec2{}, n.radius)).Filled("#ffffff").Stroked(visual.ColorInk, 2)
	n.node.Mesh = n.mesh
	n.label = visual.NewText(label, visual.DefaultTextSize)
	n.node.Add(n.label.Object())
	n.node.SetOwner(n)
	g.nodes = append(g.nodes, n)
	return n
}

// RemoveNode disconnects n from everything and forgets it.
func (g *Graph) RemoveNode(n *GraphNode) {
	for _, idx := range slices.Clone(n.edges) {
		g.removeEdge(idx)
	}
	g.nodes = slices.DeleteFunc(g.nodes, func(o *GraphNode) bool { return o == n })
}

func (g *Graph) addEdge(from, to *GraphNode, directed bool) *Edge {
	e := &Edge{graph: g, from: from, to: to, directed: directed}
	if k := len(g.free); k > 0 {
		e.index = g.free[k-1]
		g.free = g.free[:k-1]
		g.edges[e.index] = e
	} else {
		e.index = len(g.edges)
		g.edges = append(g.edges, e)
	}

	e.node = scene.NewNode(typeid.PrefixEdge)
	e.body = scene.NewMesh(nil).Stroked(visual.ColorInk, 2)
	e.node.Mesh = e.body
	if directed {
		e.head = scene.NewMeshNode(typeid.PrefixEdge, scene.NewMesh(nil).Filled(visual.ColorInk).Stroked(visual.ColorInk, 1))
		e.node.Add(e.head)
	}
	g.node.Add(e.node)
	g.node.SetOwner(g)

	from.edges = append(from.edges, e.index)
	to.edges = append(to.edges, e.index)
	return e
}

func (g *Graph) removeEdge(idx int) {
	e := g.edges[idx]
	if e == nil {
		return
	}
	e.node.Detach()
	drop := func(i int) bool { return i == idx }
	e.from.edges = slices.DeleteFunc(e.from.edges, drop)
	e.to.edges = slices.DeleteFunc(e.to.edges, drop)
	g.edges[idx] = nil
	g.free = append(g.free, idx)
	e.removed = true
}

// Update recomputes every edge from the current node positions.
func (g *Graph) Update(cam *scene.Camera) error {
	for _, e := range g.edges {
		if e != nil {
			e.layout(cam)
		}
	}
	return nil
}

// GraphNode is a draggable circle that edges attach to.
type GraphNode struct {
	graph  *Graph
	node   *scene.Node
	mesh   *scene.Mesh
	label  *visual.Text
	radius float64
	mode   scene.DragMode
	edges  []int
}

func (n *GraphNode) Object() *scene.Node              { return n.node }
func (n *GraphNode) DragMode() scene.DragMode         { return n.mode }
func (n *GraphNode) Constraint() scene.ConstraintFunc { return nil }
func (n *GraphNode) SetDraggable(mode scene.DragMode) { n.mode = mode }
func (n *GraphNode) Position() geom.Vec3              { return n.node.Position }
func (n *GraphNode) Center() geom.Vec2                { return n.node.Position.XY() }
func (n *GraphNode) Radius() float64                  { return n.radius }
func (n *GraphNode) LabelText() string                { return n.label.LabelText() }
func (n *GraphNode) SetLabelText(s string)            { n.label.SetLabelText(s) }

// SetColor sets the fill of the node circle.
func (n *GraphNode) SetColor(c string) { n.mesh.Fill = c }

// Degree returns the number of edges touching n.
func (n *GraphNode) Degree() int { return len(n.edges) }

// Update keeps the label a constant size on screen.
func (n *GraphNode) Update(cam *scene.Camera) error {
	return n.label.Update(cam)
}

// ConnectTo creates an edge to other. When the nodes are already adjacent
// in that sense the existing edge is returned and nothing changes: for an
// undirected edge adjacency is checked in both directions. weight is
// optional.
func (n *GraphNode) ConnectTo(other *GraphNode, directed bool, weight ...float64) (*Edge, error) {
	if other == n {
		return nil, ErrSelfLoop
	}
	if other.graph != n.graph {
		return nil, ErrForeignNode
	}

	if e := n.edgeTo(other); e != nil {
		return e, nil
	}
	if !directed {
		if e := other.edgeTo(n); e != nil {
			return e, nil
		}
	}

	e := n.graph.addEdge(n, other, directed)
	if len(weight) > 0 {
		e.SetWeight(weight[0])
	}
	return e, nil
}

// DisconnectFrom removes the edge from n to other. An undirected edge is
// gone for both ends. It reports whether an edge was removed.
func (n *GraphNode) DisconnectFrom(other *GraphNode) bool {
	e := n.edgeTo(other)
	if e == nil {
		return false
	}
	n.graph.removeEdge(e.index)
	return true
}

// IsAdjacentTo reports whether an edge leads from n to other. Undirected
// edges lead both ways.
func (n *GraphNode) IsAdjacentTo(other *GraphNode) bool {
	return n.edgeTo(other) != nil
}

// Neighbors returns the nodes n is adjacent to.
func (n *GraphNode) Neighbors() []*GraphNode {
	var out []*GraphNode
	for _, idx := range n.edges {
		e := n.graph.edges[idx]
		if e.from == n {
			out = append(out, e.to)
		} else if !e.directed {
			out = append(out, e.from)
		}
	}
	return out
}

// Edges returns the edges touching n.
func (n *GraphNode) Edges() []*Edge {
	out := make([]*Edge, len(n.edges))
	for i, idx := range n.edges {
		out[i] = n.graph.edges[idx]
	}
	return out
}

func (n *GraphNode) edgeTo(other *GraphNode) *Edge {
	for _, idx := range n.edges {
		e := n.graph.edges[idx]
		if e.from == n && e.to == other {
			return e
		}
		if !e.directed && e.from == other && e.to == n {
			return e
		}
	}
	return nil
}

// Edge connects two graph nodes. Directed edges are drawn curved with an
// arrowhead so that opposite edges between the same nodes stay apart.
type Edge struct {
	graph    *Graph
	index    int
	from, to *GraphNode
	directed bool

	weight    float64
	hasWeight bool

	node  *scene.Node
	body  *scene.Mesh
	head  *scene.Node
	label *visual.Text

	removed bool
}

func (e *Edge) From() *GraphNode { return e.from }
func (e *Edge) To() *GraphNode   { return e.to }
func (e *Edge) Directed() bool   { return e.directed }

// Removed reports whether the edge was disconnected.
func (e *Edge) Removed() bool { return e.removed }

// Weight returns the weight and whether one is set.
func (e *Edge) Weight() (float64, bool) { return e.weight, e.hasWeight }

// SetWeight sets the weight and re-renders its label in place.
func (e *Edge) SetWeight(w float64) {
	e.weight, e.hasWeight = w, true
	text := strconv.FormatFloat(w, 'g', -1, 64)
	if e.label == nil {
		e.label = visual.NewText(text, 14)
		e.label.SetColor(visual.ColorAccent)
		e.node.Add(e.label.Object())
		return
	}
	e.label.SetLabelText(text)
}

// ClearWeight removes the weight and its label.
func (e *Edge) ClearWeight() {
	e.hasWeight = false
	if e.label != nil {
		e.label.Object().Detach()
		e.label = nil
	}
}

// Label returns the weight label, nil when unweighted.
func (e *Edge) Label() *visual.Text { return e.label }

// Endpoints returns where the edge meets the two node circles.
func (e *Edge) Endpoints() (geom.Vec2, geom.Vec2) {
	a, _, b := e.geometry()
	return a, b
}

// geometry returns the boundary points and the curve control point.
func (e *Edge) geometry() (a, ctrl, b geom.Vec2) {
	p, q := e.from.Center(), e.to.Center()
	ctrl = p.Lerp(q, 0.5)
	if e.directed {
		ctrl = ctrl.Add(q.Sub(p).Perp().Scale(-edgeCurvature))
	}
	a = p.Add(ctrl.Sub(p).Normalize().Scale(e.from.radius))
	b = q.Add(ctrl.Sub(q).Normalize().Scale(e.to.radius))
	return a, ctrl, b
}

func (e *Edge) layout(cam *scene.Camera) {
	a, ctrl, b := e.geometry()
	var path scene.Path
	path.MoveTo(a)
	if e.directed {
		path.QuadTo(ctrl, b)
	} else {
		path.LineTo(b)
	}
	e.body.Path = path

	if e.head != nil {
		back := ctrl.Sub(b).Normalize()
		l := edgeArrowLength / cam.Zoom
		e.head.Mesh.Path = scene.Polyline([]geom.Vec2{
			b.Add(back.Rotate(math.Pi / 6).Scale(l)),
			b,
			b.Add(back.Rotate(-math.Pi / 6).Scale(l)),
		}, true)
	}

	if e.label != nil {
		mid := a.Scale(0.25).Add(ctrl.Scale(0.5)).Add(b.Scale(0.25))
		if !e.directed {
			mid = a.Lerp(b, 0.5)
		}
		normal := b.Sub(a).Normalize().Perp()
		e.label.MoveTo(mid.Add(normal.Scale(edgeLabelOffset / cam.Zoom)))
		_ = e.label.Update(cam)
	}
}
