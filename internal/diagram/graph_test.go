package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
)

func TestUndirectedSymmetry(t *testing.T) {
	g := NewGraph()
	a := g.NewNode("A", geom.V2(0, 0))
	b := g.NewNode("B", geom.V2(3, 0))

	e, err := a.ConnectTo(b, false)
	require.NoError(t, err)
	assert.True(t, a.IsAdjacentTo(b))
	assert.True(t, b.IsAdjacentTo(a))
	assert.Len(t, g.Edges(), 1)

	again, err := b.ConnectTo(a, false)
	require.NoError(t, err)
	assert.Same(t, e, again, "reconnecting is a no-op")
	assert.Len(t, g.Edges(), 1)

	assert.True(t, b.DisconnectFrom(a))
	assert.False(t, a.IsAdjacentTo(b))
	assert.False(t, b.IsAdjacentTo(a))
	assert.True(t, e.Removed())
	assert.Empty(t, g.Edges())
	assert.Zero(t, a.Degree())
	assert.Empty(t, g.Object().Children())

	_, err = a.ConnectTo(b, false)
	require.NoError(t, err)
	assert.True(t, a.DisconnectFrom(b))
	assert.False(t, b.IsAdjacentTo(a))
}

func TestDirectedEdges(t *testing.T) {
	g := NewGraph()
	a := g.NewNode("A", geom.V2(0, 0))
	b := g.NewNode("B", geom.V2(3, 0))

	ab, err := a.ConnectTo(b, true, 5)
	require.NoError(t, err)
	assert.True(t, a.IsAdjacentTo(b))
	assert.False(t, b.IsAdjacentTo(a))
	assert.False(t, b.DisconnectFrom(a), "incoming edge is not removable from the target")

	ba, err := b.ConnectTo(a, true)
	require.NoError(t, err)
	assert.NotSame(t, ab, ba)
	assert.Len(t, g.Edges(), 2)

	w, ok := ab.Weight()
	assert.True(t, ok)
	assert.Equal(t, 5.0, w)
	_, ok = ba.Weight()
	assert.False(t, ok)

	require.NoError(t, g.Update(scene.NewCamera(200, 200, 20)))
	abA, abB := ab.Endpoints()
	baB, baA := ba.Endpoints()
	assert.InDelta(t, DefaultNodeRadius, abA.Dist(a.Center()), 1e-9)
	assert.InDelta(t, DefaultNodeRadius, abB.Dist(b.Center()), 1e-9)
	assert.Greater(t, abA.Dist(baA), 1e-3, "opposite edges curve apart")
	assert.Greater(t, abB.Dist(baB), 1e-3)

	assert.Equal(t, []*GraphNode{b}, a.Neighbors())
	assert.Equal(t, []*GraphNode{a}, b.Neighbors())
}

func TestEdgeWeightLabelInPlace(t *testing.T) {
	g := NewGraph()
	a := g.NewNode("A", geom.V2(0, 0))
	b := g.NewNode("B", geom.V2(0, 4))
	e, err := a.ConnectTo(b, false, 1)
	require.NoError(t, err)

	label := e.Label()
	require.NotNil(t, label)
	e.SetWeight(2.5)
	assert.Same(t, label, e.Label())
	assert.Equal(t, "2.5", label.LabelText())

	e.ClearWeight()
	assert.Nil(t, e.Label())
}

func TestNodeDragMovesEdgeNextUpdate(t *testing.T) {
	g := NewGraph()
	a := g.NewNode("A", geom.V2(0, 0))
	b := g.NewNode("B", geom.V2(4, 0))
	e, err := a.ConnectTo(b, false)
	require.NoError(t, err)

	cam := scene.NewCamera(200, 200, 20)
	require.NoError(t, g.Update(cam))
	b.Object().SetXY(geom.V2(0, 4))
	require.NoError(t, g.Update(cam))

	_, end := e.Endpoints()
	assert.True(t, end.ApproxEqual(geom.V2(0, 4-DefaultNodeRadius), 1e-9), "got %v", end)
}

func TestArenaReusesSlotsAndRemoveNode(t *testing.T) {
	g := NewGraph()
	a := g.NewNode("A", geom.V2(0, 0))
	b := g.NewNode("B", geom.V2(1, 0))
	c := g.NewNode("C", geom.V2(2, 0))

	_, err := a.ConnectTo(b, false)
	require.NoError(t, err)
	_, err = b.ConnectTo(c, true)
	require.NoError(t, err)

	g.RemoveNode(b)
	assert.Empty(t, g.Edges())
	assert.Zero(t, a.Degree())
	assert.Zero(t, c.Degree())
	assert.Len(t, g.Nodes(), 2)

	_, err = a.ConnectTo(c, false)
	require.NoError(t, err)
	assert.Len(t, g.edges, 2, "freed slots are reused")

	_, err = a.ConnectTo(a, false)
	assert.ErrorIs(t, err, ErrSelfLoop)
	_, err = a.ConnectTo(NewGraph().NewNode("X", geom.Vec2{}), false)
	assert.ErrorIs(t, err, ErrForeignNode)
}
