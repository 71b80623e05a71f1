package demo

import (
	"fmt"
	"log/slog"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/diagram"
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/gui"
)

type edgeSpec struct {
	from, to int
	directed bool
	weight   float64
}

var graphLayout = []struct {
	label string
	at    geom.Vec2
}{
	{"A", geom.V2(-4, 2)},
	{"B", geom.V2(0, 3.5)},
	{"C", geom.V2(4, 2)},
	{"D", geom.V2(3, -2.5)},
	{"E", geom.V2(-3, -2.5)},
}

var graphEdges = []edgeSpec{
	{0, 1, false, 4},
	{1, 2, false, 2},
	{2, 3, true, 7},
	{3, 4, true, 1},
	{4, 0, false, 3},
	{1, 3, true, 5},
}

func buildGraph(g *core.Graphica, _ Options) (Hook, error) {
	graph := diagram.NewGraph()
	if err := g.Add(graph); err != nil {
		return nil, err
	}

	for _, n := range graphLayout {
		if err := g.Add(graph.NewNode(n.label, n.at)); err != nil {
			return nil, err
		}
	}
	nodes := graph.Nodes()
	for _, e := range graphEdges {
		if _, err := nodes[e.from].ConnectTo(nodes[e.to], e.directed, e.weight); err != nil {
			return nil, err
		}
	}

	reweigh := gui.NewButton("Double weights")
	reweigh.AddObserver(func(*gui.Button) {
		for _, e := range graph.Edges() {
			if w, ok := e.Weight(); ok {
				e.SetWeight(w * 2)
			}
		}
	})

	add := gui.NewButton("Add node")
	add.AddObserver(func(*gui.Button) {
		count := len(graph.Nodes())
		label := fmt.Sprintf("%c", 'A'+rune(count%26))
		at := geom.V2(5, 0).Rotate(float64(count))
		n := graph.NewNode(label, at)
		if err := g.Add(n); err != nil {
			slog.Warn("add graph node", "error", err)
			return
		}
		if _, err := n.ConnectTo(graph.Nodes()[0], false, 1); err != nil {
			slog.Warn("connect graph node", "error", err)
		}
	})

	for _, w := range []gui.Widget{reweigh, add} {
		if err := g.AddGui(w); err != nil {
			return nil, err
		}
	}
	return nil, nil
}
