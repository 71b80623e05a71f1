package diagram

import (
	"fmt"
	"math"

	"github.com/graphica/graphica/internal/eval"
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
	"github.com/graphica/graphica/internal/visual"
)

const (
	DefaultControlPoints = 200
	DefaultSamples       = 1000
)

// Plot graphs y = f(x) over the visible x range.
type Plot struct {
	node *scene.Node
	mesh *scene.Mesh

	expr     *eval.Expression
	variable string
	scope    eval.Scope

	ControlPoints int
	Samples       int

	minX, maxX float64
	dirty      bool
	points     []geom.Vec2
}

// NewPlot parses expression, a function of x.
func NewPlot(expression string) (*Plot, error) {
	e, err := eval.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("new plot: %w", err)
	}
	p := &Plot{
		node:          scene.NewNode(typeid.PrefixPlot),
		expr:          e,
		variable:      "x",
		scope:         eval.Scope{},
		ControlPoints: DefaultControlPoints,
		Samples:       DefaultSamples,
		minX:          math.NaN(),
		maxX:          math.NaN(),
	}
	p.mesh = scene.NewMesh(nil).Stroked(visual.ColorPrimary, 2.5)
	p.node.Mesh = p.mesh
	p.node.SetOwner(p)
	return p, nil
}

func (p *Plot) Object() *scene.Node { return p.node }

// Expression returns the source of the plotted expression.
func (p *Plot) Expression() string { return p.expr.String() }

// SetExpression replaces the plotted function.
func (p *Plot) SetExpression(expression string) error {
	e, err := eval.Parse(expression)
	if err != nil {
		return fmt.Errorf("set plot expression: %w", err)
	}
	p.expr = e
	p.dirty = true
	return nil
}

// SetParameter binds a free variable other than x, e.g. a slider value.
func (p *Plot) SetParameter(name string, v float64) {
	if old, ok := p.scope[name]; ok && old == v {
		return
	}
	p.scope[name] = v
	p.dirty = true
}

// SetStyle sets the curve color and width in pixels.
func (p *Plot) SetStyle(color string, width float64) {
	p.mesh.Stroked(color, width)
}

// Points returns the smoothed curve points from the last update.
func (p *Plot) Points() []geom.Vec2 { return p.points }

// Evaluate computes f(x) with the current parameters.
func (p *Plot) Evaluate(x float64) (float64, error) {
	scope := make(eval.Scope, len(p.scope)+1)
	for k, v := range p.scope {
		scope[k] = v
	}
	scope[p.variable] = x
	return p.expr.Evaluate(scope)
}

// OnCurve is a drag constraint keeping a point on the graph. Where f is
// undefined the proposed position is kept.
func (p *Plot) OnCurve() scene.ConstraintFunc {
	return func(q geom.Vec2) geom.Vec2 {
		y, err := p.Evaluate(q.X)
		if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
			return q
		}
		return geom.V2(q.X, y)
	}
}

// Update re-samples the function when the visible x range changed. Errors
// from the evaluator are returned unchanged in meaning.
func (p *Plot) Update(cam *scene.Camera) error {
	view := cam.Visible()
	if !p.dirty && view.Min.X == p.minX && view.Max.X == p.maxX {
		return nil
	}

	n := max(p.ControlPoints, 2)
	step := (view.Max.X - view.Min.X) / float64(n-1)

	var runs [][]geom.Vec2
	var run []geom.Vec2
	for i := range n {
		x := view.Min.X + float64(i)*step
		y, err := p.Evaluate(x)
		if err != nil {
			return fmt.Errorf("plot %q: %w", p.expr, err)
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			if len(run) > 0 {
				runs = append(runs, run)
				run = nil
			}
			continue
		}
		run = append(run, geom.V2(x, y))
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}

	p.points = p.points[:0]
	var path scene.Path
	for _, r := range runs {
		divisions := max(1, (p.Samples-1)*(len(r)-1)/(n-1))
		smooth := r
		if len(r) > 1 {
			smooth = geom.CatmullRom(r, divisions)
		}
		p.points = append(p.points, smooth...)
		path = append(path, scene.Polyline(smooth, false)...)
	}
	p.mesh.Path = path

	p.minX, p.maxX = view.Min.X, view.Max.X
	p.dirty = false
	return nil
}
