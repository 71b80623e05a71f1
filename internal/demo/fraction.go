package demo

import (
	"log/slog"
	"math"
	"time"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/diagram"
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/gui"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/visual"
)

const maxDivisor = 12

var captionOffset = geom.V2(0, -150)

func buildFraction(g *core.Graphica, _ Options) (Hook, error) {
	frac, err := diagram.NewFraction(4, 3, 2.5)
	if err != nil {
		return nil, err
	}
	frac.SetDraggable(scene.DragFree)
	frac.Object().SetXY(geom.V2(-4, 0))

	caption := visual.NewLabel(frac.String(), frac.Object().Position, captionOffset)

	bars, err := diagram.NewBarDiagram([]diagram.Bar{
		{Label: "filled", Value: 3},
		{Label: "empty", Value: 1},
	}, 4)
	if err != nil {
		return nil, err
	}
	bars.Object().SetXY(geom.V2(2, -2))

	if err := g.AddAll(frac, caption, bars); err != nil {
		return nil, err
	}

	divisor, err := gui.NewSlider("divisor", 1, maxDivisor, 1, float64(frac.Divisor()))
	if err != nil {
		return nil, err
	}
	filled, err := gui.NewSlider("filled", 0, maxDivisor, 1, float64(frac.Filled()))
	if err != nil {
		return nil, err
	}

	refresh := func() {
		caption.SetLabelText(frac.String())
		if err := bars.SetValue(0, float64(frac.Filled())); err != nil {
			slog.Warn("update bar", "error", err)
		}
		if err := bars.SetValue(1, float64(frac.Divisor()-frac.Filled())); err != nil {
			slog.Warn("update bar", "error", err)
		}
	}

	divisor.AddObserver(func(v float64) {
		d := int(math.Round(v))
		if d >= 1 && frac.Filled() > d {
			if err := frac.SetFilled(d); err != nil {
				slog.Warn("set filled", "error", err)
				return
			}
		}
		if err := frac.SetDivisor(d); err != nil {
			slog.Warn("set divisor", "error", err)
			return
		}
		filled.SetValue(float64(frac.Filled()))
		refresh()
	})
	filled.AddObserver(func(v float64) {
		n := min(int(math.Round(v)), frac.Divisor())
		if err := frac.SetFilled(n); err != nil {
			slog.Warn("set filled", "error", err)
			return
		}
		if float64(n) != v {
			filled.SetValue(float64(n))
		}
		refresh()
	})

	for _, w := range []gui.Widget{divisor, filled} {
		if err := g.AddGui(w); err != nil {
			return nil, err
		}
	}

	// the caption follows the circle when it is dragged
	return func(time.Duration) {
		caption.SetTarget(frac.Object().Position, captionOffset)
	}, nil
}
