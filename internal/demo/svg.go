package demo

import (
	"bytes"
	_ "embed"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/diagram"
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/visual"
)

//go:embed assets/compass.svg
var compassSVG []byte

// svgScale maps 200 SVG user units onto 5 world units.
const svgScale = 0.025

func buildSVG(g *core.Graphica, opts Options) (Hook, error) {
	var img *diagram.SVG
	if opts.SVGPath != "" {
		img = diagram.LoadSVGFile(opts.SVGPath, svgScale)
	} else {
		img = diagram.LoadSVG(bytes.NewReader(compassSVG), "compass.svg", svgScale)
	}
	img.SetDraggable(scene.DragFree)
	img.Center(geom.Vec2{})

	caption := visual.NewText("Drag the image", visual.DefaultTextSize)
	caption.MoveTo(geom.V2(0, -3.5))

	if err := g.AddAll(diagram.NewGrid(), img, caption); err != nil {
		return nil, err
	}
	return nil, nil
}
