package demo

import (
	"fmt"
	"time"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/diagram"
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/visual"
)

func buildGeometry(g *core.Graphica, _ Options) (Hook, error) {
	grid := diagram.NewGrid()

	a := visual.NewPoint(-3, -2)
	a.SetDraggable(scene.DragHorizontal)
	a.SetLabel("A", geom.V2(-14, 12))

	b := visual.NewPoint(3, -2)
	b.SetLabel("B", geom.V2(14, 12))

	c := visual.NewPoint(0, 3)
	c.SetDraggable(scene.DragVertical)
	c.SetLabel("C", geom.V2(0, 16))

	tri := visual.NewPolygon(nil)
	tri.SetStyle(visual.ColorFill, visual.ColorPrimary)
	tri.Object().Position.Z = -0.5

	ab := visual.NewLine(a.XY(), b.XY())
	ab.Follow(a, b)
	ac := visual.NewArrow(a.XY(), c.XY())
	ac.Follow(a, c)
	ac.SetStyle(visual.ColorAccent, visual.DefaultLineWidth)

	bc := visual.NewInfiniteLineThrough(b.XY(), c.XY())
	bc.Follow(b, c)
	bc.SetStyle(visual.ColorMuted, 1)

	angle := visual.NewAngleMarker(a.XY(), b.XY().Sub(a.XY()), c.XY().Sub(a.XY()), 0.8)
	angleLabel := visual.NewLabel("", a, geom.V2(36, -18))

	br := visual.NewBracket(a, b)
	br.SetLabelText("c")

	v := visual.NewVector(geom.V2(-6, 1), geom.V2(2, 1))

	circle := visual.NewCircle(geom.V2(6, 2), 1.5)
	circle.SetStyle("#38a16933", visual.ColorHighlight)
	circle.SetDraggable(scene.DragFree)

	title := visual.NewText("Drag the points", 20)
	title.MoveTo(geom.V2(0, 5))

	if err := g.AddAll(grid, tri, bc, ab, ac, angle, angleLabel, br, v, circle, a, b, c, title); err != nil {
		return nil, err
	}

	hook := func(time.Duration) {
		pa, pb, pc := a.XY(), b.XY(), c.XY()
		tri.SetVertices([]geom.Vec2{pa, pb, pc})
		angle.MoveTo(pa)
		angle.SetBetween(pb.Sub(pa), pc.Sub(pa))
		angleLabel.SetLabelText(fmt.Sprintf("%.1f°", angle.Degrees()))
		br.SetLabelText(fmt.Sprintf("%.2f", pa.Dist(pb)))
	}
	return hook, nil
}
