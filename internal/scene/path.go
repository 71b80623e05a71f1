package scene

import (
	"encoding/json"
	"fmt"

	"github.com/graphica/graphica/internal/geom"
)

// PathOp is a path segment kind, named after the Canvas2D/SVG letters.
type PathOp byte

const (
	OpMove  PathOp = 'M'
	OpLine  PathOp = 'L'
	OpQuad  PathOp = 'Q'
	OpCubic PathOp = 'C'
	OpClose PathOp = 'Z'
)

// PathCommand is a single path segment. Pts holds the control points followed
// by the end point: one for M/L, two for Q, three for C, none for Z.
type PathCommand struct {
	Op  PathOp
	Pts []geom.Vec2
}

// MarshalJSON encodes the command the way the frontends execute it on a
// Canvas2D context: ["M", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
func (c PathCommand) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, 1+2*len(c.Pts))
	out = append(out, string(c.Op))
	for _, p := range c.Pts {
		out = append(out, p.X, p.Y)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the array form produced by MarshalJSON.
func (c *PathCommand) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty path command")
	}
	op, ok := raw[0].(string)
	if !ok || len(op) != 1 {
		return fmt.Errorf("invalid path op %v", raw[0])
	}
	c.Op = PathOp(op[0])
	c.Pts = c.Pts[:0]
	for i := 1; i+1 < len(raw); i += 2 {
		x, _ := raw[i].(float64)
		y, _ := raw[i+1].(float64)
		c.Pts = append(c.Pts, geom.V2(x, y))
	}
	return nil
}

// End returns the end point of the segment.
func (c PathCommand) End() (geom.Vec2, bool) {
	if len(c.Pts) == 0 {
		return geom.Vec2{}, false
	}
	return c.Pts[len(c.Pts)-1], true
}

// Path is a sequence of path commands in a node's local space.
type Path []PathCommand

func (p *Path) MoveTo(pt geom.Vec2) { *p = append(*p, PathCommand{OpMove, []geom.Vec2{pt}}) }
func (p *Path) LineTo(pt geom.Vec2) { *p = append(*p, PathCommand{OpLine, []geom.Vec2{pt}}) }
func (p *Path) QuadTo(c, pt geom.Vec2) {
	*p = append(*p, PathCommand{OpQuad, []geom.Vec2{c, pt}})
}
func (p *Path) CubicTo(c1, c2, pt geom.Vec2) {
	*p = append(*p, PathCommand{OpCubic, []geom.Vec2{c1, c2, pt}})
}
func (p *Path) Close() { *p = append(*p, PathCommand{Op: OpClose}) }

// Polyline builds a path through pts, closing it if requested.
func Polyline(pts []geom.Vec2, closed bool) Path {
	var p Path
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt)
		} else {
			p.LineTo(pt)
		}
	}
	if closed && len(pts) > 2 {
		p.Close()
	}
	return p
}

// Ellipse approximates an ellipse centered at c with four cubic curves.
func Ellipse(c geom.Vec2, rx, ry float64) Path {
	// k = 4 * (sqrt(2) - 1) / 3
	const k = 0.5522847498
	kx, ky := rx*k, ry*k
	pt := func(x, y float64) geom.Vec2 { return c.Add(geom.V2(x, y)) }

	var p Path
	p.MoveTo(pt(rx, 0))
	p.CubicTo(pt(rx, ky), pt(kx, ry), pt(0, ry))
	p.CubicTo(pt(-kx, ry), pt(-rx, ky), pt(-rx, 0))
	p.CubicTo(pt(-rx, -ky), pt(-kx, -ry), pt(0, -ry))
	p.CubicTo(pt(kx, -ry), pt(rx, -ky), pt(rx, 0))
	p.Close()
	return p
}

// Circle is Ellipse with equal radii.
func Circle(c geom.Vec2, r float64) Path { return Ellipse(c, r, r) }

// Transform returns a copy of the path with every point mapped through m.
func (p Path) Transform(m geom.Matrix2D) Path {
	out := make(Path, len(p))
	for i, cmd := range p {
		pts := make([]geom.Vec2, len(cmd.Pts))
		for j, pt := range cmd.Pts {
			pts[j] = m.Apply(pt)
		}
		out[i] = PathCommand{Op: cmd.Op, Pts: pts}
	}
	return out
}

// Bounds returns the bounding box of all points, control points included,
// after mapping them through m.
func (p Path) Bounds(m geom.Matrix2D) geom.Rect {
	r := geom.EmptyRect()
	for _, cmd := range p {
		for _, pt := range cmd.Pts {
			r = r.Extend(m.Apply(pt))
		}
	}
	return r
}

// Subpath is a flattened run of points.
type Subpath struct {
	Points []geom.Vec2
	Closed bool
}

const curveSteps = 8

// Flatten converts the path into polylines, approximating curves with
// straight segments, after mapping the points through m.
func (p Path) Flatten(m geom.Matrix2D) []Subpath {
	var subs []Subpath
	var cur *Subpath
	var last geom.Vec2

	for _, cmd := range p {
		switch cmd.Op {
		case OpMove:
			subs = append(subs, Subpath{})
			cur = &subs[len(subs)-1]
			last = m.Apply(cmd.Pts[0])
			cur.Points = append(cur.Points, last)
		case OpLine, OpQuad, OpCubic:
			if cur == nil {
				subs = append(subs, Subpath{Points: []geom.Vec2{last}})
				cur = &subs[len(subs)-1]
			}
			pts := make([]geom.Vec2, len(cmd.Pts))
			for i, pt := range cmd.Pts {
				pts[i] = m.Apply(pt)
			}
			switch cmd.Op {
			case OpLine:
				cur.Points = append(cur.Points, pts[0])
			case OpQuad:
				for s := 1; s <= curveSteps; s++ {
					cur.Points = append(cur.Points, quadAt(last, pts[0], pts[1], float64(s)/curveSteps))
				}
			case OpCubic:
				for s := 1; s <= curveSteps; s++ {
					cur.Points = append(cur.Points, cubicAt(last, pts[0], pts[1], pts[2], float64(s)/curveSteps))
				}
			}
			last = pts[len(pts)-1]
		case OpClose:
			if cur != nil {
				cur.Closed = true
				last = cur.Points[0]
				cur = nil
			}
		}
	}
	return subs
}

func quadAt(p0, p1, p2 geom.Vec2, t float64) geom.Vec2 {
	u := 1 - t
	return p0.Scale(u * u).Add(p1.Scale(2 * u * t)).Add(p2.Scale(t * t))
}

func cubicAt(p0, p1, p2, p3 geom.Vec2, t float64) geom.Vec2 {
	u := 1 - t
	return p0.Scale(u * u * u).
		Add(p1.Scale(3 * u * u * t)).
		Add(p2.Scale(3 * u * t * t)).
		Add(p3.Scale(t * t * t))
}
