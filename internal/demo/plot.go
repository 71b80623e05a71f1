package demo

import (
	"fmt"
	"log/slog"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/diagram"
	"github.com/graphica/graphica/internal/eval"
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/gui"
	"github.com/graphica/graphica/internal/interact"
	"github.com/graphica/graphica/internal/visual"
)

const plotExpression = "a * sin(x)"

// plotVariables are the names a typed expression may use.
var plotVariables = map[string]bool{"x": true, "a": true}

func buildPlot(g *core.Graphica, _ Options) (Hook, error) {
	grid := diagram.NewGrid()
	plot, err := diagram.NewPlot(plotExpression)
	if err != nil {
		return nil, err
	}
	plot.SetParameter("a", 1)

	p := visual.NewPoint(1, 0)
	p.SetColor(visual.ColorAccent)
	p.ConstrainTo(plot.OnCurve())
	p.MoveTo(plot.OnCurve()(p.XY()))
	p.SetLabel(coords("P", p.XY()), geom.V2(10, -10))

	if err := g.AddAll(grid, plot, p); err != nil {
		return nil, err
	}

	g.On(interact.EventDrag, func(ev interact.Event) {
		if ev.Target == p {
			p.SetLabelText(coords("P", p.XY()))
		}
	})

	amp, err := gui.NewSlider("a", 0, 3, 0.1, 1)
	if err != nil {
		return nil, err
	}
	amp.AddObserver(func(v float64) {
		plot.SetParameter("a", v)
		p.MoveTo(plot.OnCurve()(p.XY()))
		p.SetLabelText(coords("P", p.XY()))
	})

	input := gui.NewInputField("f(x)", plotExpression)
	input.AddObserver(func(text string) {
		if err := setPlotExpression(plot, text); err != nil {
			slog.Warn("rejected plot expression", "expression", text, "error", err)
			return
		}
		p.MoveTo(plot.OnCurve()(p.XY()))
		p.SetLabelText(coords("P", p.XY()))
	})

	legend := gui.NewLegendBox("legend", gui.LegendEntry{Label: "f(x)", Color: visual.ColorPrimary, Visible: true})
	legend.AddObserver(func(e gui.LegendEntry) {
		plot.Object().Visible = e.Visible
	})

	for _, w := range []gui.Widget{amp, input, legend} {
		if err := g.AddGui(w); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// setPlotExpression only accepts expressions over the bound variables so
// that a typo cannot halt the loop on the next update.
func setPlotExpression(plot *diagram.Plot, text string) error {
	e, err := eval.Parse(text)
	if err != nil {
		return err
	}
	for _, v := range e.Variables() {
		if !plotVariables[v] {
			return fmt.Errorf("undefined variable %q", v)
		}
	}
	return plot.SetExpression(text)
}

func coords(name string, p geom.Vec2) string {
	return fmt.Sprintf("%s(%.2f, %.2f)", name, p.X, p.Y)
}
