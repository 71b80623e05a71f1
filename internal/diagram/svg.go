package diagram

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
)

var (
	ErrSVGParamMismatch  = errors.New("svg: parameter count mismatch")
	ErrSVGCommandUnknown = errors.New("svg: unknown path command")
)

// SVG is a composite of the shapes imported from an SVG document. SVG
// coordinates are Y down; the composite flips them so the drawing appears
// upright, scaled to world units by Scale.
type SVG struct {
	node   *scene.Node
	shapes []*scene.Node
	mode   scene.DragMode
	// ViewBox is the document viewBox, or the shape bounds when absent.
	ViewBox geom.Rect
}

// LoadSVG reads an SVG document. A document that cannot be read is logged
// and yields an empty composite.
func LoadSVG(r io.Reader, name string, scale float64) *SVG {
	s, err := ParseSVG(r, scale)
	if err != nil {
		slog.Error("failed to load svg", "name", name, "error", err)
		return emptySVG(scale)
	}
	return s
}

// LoadSVGFile is LoadSVG for a file on disk.
func LoadSVGFile(path string, scale float64) *SVG {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open svg", "path", path, "error", err)
		return emptySVG(scale)
	}
	defer f.Close()
	return LoadSVG(f, path, scale)
}

func emptySVG(scale float64) *SVG {
	s := &SVG{node: scene.NewNode(typeid.PrefixSVG)}
	s.node.Scale = geom.V2(scale, -scale)
	s.node.SetOwner(s)
	return s
}

func (s *SVG) Object() *scene.Node              { return s.node }
func (s *SVG) DragMode() scene.DragMode         { return s.mode }
func (s *SVG) Constraint() scene.ConstraintFunc { return nil }
func (s *SVG) SetDraggable(mode scene.DragMode) { s.mode = mode }
func (s *SVG) Shapes() []*scene.Node            { return s.shapes }

// Center moves the composite so the viewBox center sits at p.
func (s *SVG) Center(p geom.Vec2) {
	c := s.node.LocalMatrix()
	c[4], c[5] = 0, 0
	s.node.SetXY(p.Sub(c.Apply(s.ViewBox.Center())))
}

type svgStyle struct {
	fill, stroke string
	width        float64
}

// ParseSVG decodes path, polygon, polyline, rect, circle, ellipse and line
// elements. Groups contribute their transform and paint to their children.
func ParseSVG(r io.Reader, scale float64) (*SVG, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel

	s := emptySVG(scale)
	bounds := geom.EmptyRect()
	hasViewBox := false

	type frame struct {
		m     geom.Matrix2D
		style svgStyle
	}
	stack := []frame{{m: geom.Identity(), style: svgStyle{fill: "#000000", width: 1}}}
	seenRoot := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode svg: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			top := stack[len(stack)-1]
			attrs := attrMap(el.Attr)
			m := top.m
			if t, ok := attrs["transform"]; ok {
				tm, err := parseTransform(t)
				if err != nil {
					return nil, err
				}
				m = m.Multiply(tm)
			}
			style := mergeStyle(top.style, attrs)
			stack = append(stack, frame{m: m, style: style})

			name := el.Name.Local
			if name == "svg" {
				seenRoot = true
				if vb, ok := attrs["viewBox"]; ok {
					nums, err := parseNumbers(vb)
					if err != nil || len(nums) != 4 {
						return nil, fmt.Errorf("viewBox %q: %w", vb, ErrSVGParamMismatch)
					}
					s.ViewBox = geom.R(geom.V2(nums[0], nums[1]), geom.V2(nums[0]+nums[2], nums[1]+nums[3]))
					hasViewBox = true
				}
				continue
			}

			path, err := shapePath(name, attrs)
			if err != nil {
				return nil, fmt.Errorf("<%s>: %w", name, err)
			}
			if path == nil {
				continue
			}
			path = path.Transform(m)
			bounds = bounds.Union(path.Bounds(geom.Identity()))

			mesh := scene.NewMesh(path)
			if style.fill != "none" {
				mesh.Fill = style.fill
			}
			if style.stroke != "" && style.stroke != "none" {
				mesh.Stroke = style.stroke
				mesh.StrokeWidth = style.width
			}
			n := scene.NewMeshNode(typeid.PrefixSVG, mesh)
			n.Name = name
			s.node.Add(n)
			s.shapes = append(s.shapes, n)

		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !seenRoot {
		return nil, errors.New("svg: no <svg> element")
	}
	if !hasViewBox && !bounds.IsEmpty() {
		s.ViewBox = bounds
	}
	s.node.SetOwner(s)
	return s, nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	// Inline style wins over presentation attributes.
	if st, ok := m["style"]; ok {
		for _, decl := range strings.Split(st, ";") {
			k, v, ok := strings.Cut(decl, ":")
			if ok {
				m[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}
		}
	}
	return m
}

func mergeStyle(parent svgStyle, attrs map[string]string) svgStyle {
	s := parent
	if v, ok := attrs["fill"]; ok {
		s.fill = v
	}
	if v, ok := attrs["stroke"]; ok {
		s.stroke = v
	}
	if v, ok := attrs["stroke-width"]; ok {
		if w, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64); err == nil {
			s.width = w
		}
	}
	return s
}

func shapePath(name string, a map[string]string) (scene.Path, error) {
	num := func(key string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSuffix(a[key], "px"), 64)
		return v
	}

	switch name {
	case "path":
		return parsePathData(a["d"])
	case "polygon", "polyline":
		nums, err := parseNumbers(a["points"])
		if err != nil {
			return nil, err
		}
		if len(nums)%2 != 0 {
			return nil, ErrSVGParamMismatch
		}
		pts := make([]geom.Vec2, 0, len(nums)/2)
		for i := 0; i+1 < len(nums); i += 2 {
			pts = append(pts, geom.V2(nums[i], nums[i+1]))
		}
		return scene.Polyline(pts, name == "polygon"), nil
	case "rect":
		x, y, w, h := num("x"), num("y"), num("width"), num("height")
		return scene.Polyline([]geom.Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, true), nil
	case "circle":
		return scene.Circle(geom.V2(num("cx"), num("cy")), num("r")), nil
	case "ellipse":
		return scene.Ellipse(geom.V2(num("cx"), num("cy")), num("rx"), num("ry")), nil
	case "line":
		return scene.Polyline([]geom.Vec2{{X: num("x1"), Y: num("y1")}, {X: num("x2"), Y: num("y2")}}, false), nil
	}
	return nil, nil
}

// parseNumbers reads a comma or whitespace separated number list, including
// the compact forms "1-2" and "1.5.5".
func parseNumbers(s string) ([]float64, error) {
	var out []float64
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		j := numberEnd(s, i)
		if j == i {
			return nil, fmt.Errorf("invalid number at %q", s[i:])
		}
		v, err := strconv.ParseFloat(s[i:j], 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		i = j
	}
	return out, nil
}

func numberEnd(s string, i int) int {
	j := i
	if j < len(s) && (s[j] == '-' || s[j] == '+') {
		j++
	}
	dot, exp := false, false
	for j < len(s) {
		c := s[j]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !dot && !exp:
			dot = true
		case (c == 'e' || c == 'E') && !exp:
			exp = true
			if j+1 < len(s) && (s[j+1] == '-' || s[j+1] == '+') {
				j++
			}
		default:
			return j
		}
		j++
	}
	return j
}

var pathArgs = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// parsePathData converts SVG path data into a path. Arcs are flattened.
func parsePathData(d string) (scene.Path, error) {
	var p scene.Path
	var cur, start, lastCtrl geom.Vec2
	var prevCmd byte

	i := 0
	for i < len(d) {
		c := d[i]
		if c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		upper := c &^ 0x20
		n, ok := pathArgs[upper]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrSVGCommandUnknown, c)
		}
		rel := c != upper
		i++

		// Read all numbers up to the next command letter.
		j := i
		for j < len(d) {
			if l := d[j] &^ 0x20; l >= 'A' && l <= 'Z' && l != 'E' {
				break
			}
			j++
		}
		nums, err := parseNumbers(d[i:j])
		if err != nil {
			return nil, err
		}
		i = j

		if n == 0 {
			p.Close()
			cur = start
			prevCmd = 'Z'
			continue
		}
		if len(nums) == 0 || len(nums)%n != 0 {
			return nil, fmt.Errorf("%c: %w", c, ErrSVGParamMismatch)
		}

		for k := 0; k < len(nums); k += n {
			a := nums[k : k+n]
			off := geom.Vec2{}
			if rel {
				off = cur
			}
			pt := func(x, y float64) geom.Vec2 { return geom.V2(x, y).Add(off) }

			cmd := upper
			// Extra coordinate pairs after a moveto are lineto.
			if cmd == 'M' && k > 0 {
				cmd = 'L'
			}
			switch cmd {
			case 'M':
				cur = pt(a[0], a[1])
				start = cur
				p.MoveTo(cur)
			case 'L':
				cur = pt(a[0], a[1])
				p.LineTo(cur)
			case 'H':
				if rel {
					cur.X += a[0]
				} else {
					cur.X = a[0]
				}
				p.LineTo(cur)
			case 'V':
				if rel {
					cur.Y += a[0]
				} else {
					cur.Y = a[0]
				}
				p.LineTo(cur)
			case 'C':
				c1, c2, end := pt(a[0], a[1]), pt(a[2], a[3]), pt(a[4], a[5])
				p.CubicTo(c1, c2, end)
				lastCtrl, cur = c2, end
			case 'S':
				c1 := cur
				if prevCmd == 'C' || prevCmd == 'S' {
					c1 = cur.Add(cur.Sub(lastCtrl))
				}
				c2, end := pt(a[0], a[1]), pt(a[2], a[3])
				p.CubicTo(c1, c2, end)
				lastCtrl, cur = c2, end
			case 'Q':
				ctrl, end := pt(a[0], a[1]), pt(a[2], a[3])
				p.QuadTo(ctrl, end)
				lastCtrl, cur = ctrl, end
			case 'T':
				ctrl := cur
				if prevCmd == 'Q' || prevCmd == 'T' {
					ctrl = cur.Add(cur.Sub(lastCtrl))
				}
				end := pt(a[0], a[1])
				p.QuadTo(ctrl, end)
				lastCtrl, cur = ctrl, end
			case 'A':
				end := pt(a[5], a[6])
				for _, q := range arcToPoints(cur, end, a[0], a[1], a[2], a[3] != 0, a[4] != 0) {
					p.LineTo(q)
				}
				cur = end
			}
			prevCmd = cmd
		}
	}
	return p, nil
}

// arcToPoints flattens an SVG elliptical arc using the endpoint to center
// conversion from the SVG implementation notes.
func arcToPoints(from, to geom.Vec2, rx, ry, phiDeg float64, large, sweep bool) []geom.Vec2 {
	if from == to {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []geom.Vec2{to}
	}

	phi := geom.DegToRad(phiDeg)
	sinPhi, cosPhi := math.Sincos(phi)
	dx, dy := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	if l := x1*x1/(rx*rx) + y1*y1/(ry*ry); l > 1 {
		s := math.Sqrt(l)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	cx := cosPhi*cx1 - sinPhi*cy1 + (from.X+to.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (from.Y+to.Y)/2

	theta1 := math.Atan2((y1-cy1)/ry, (x1-cx1)/rx)
	theta2 := math.Atan2((-y1-cy1)/ry, (-x1-cx1)/rx)
	delta := theta2 - theta1
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	steps := max(4, int(math.Ceil(math.Abs(delta)/(math.Pi/16))))
	pts := make([]geom.Vec2, 0, steps)
	for s := 1; s <= steps; s++ {
		t := theta1 + delta*float64(s)/float64(steps)
		st, ct := math.Sincos(t)
		x := rx * ct
		y := ry * st
		pts = append(pts, geom.V2(cosPhi*x-sinPhi*y+cx, sinPhi*x+cosPhi*y+cy))
	}
	pts[len(pts)-1] = to
	return pts
}

// parseTransform reads translate, scale, rotate and matrix transforms.
func parseTransform(s string) (geom.Matrix2D, error) {
	m := geom.Identity()
	for rest := strings.TrimSpace(s); rest != ""; rest = strings.TrimLeft(rest, " ,\t\n") {
		open := strings.IndexByte(rest, '(')
		closing := strings.IndexByte(rest, ')')
		if open < 0 || closing < open {
			return m, fmt.Errorf("transform %q: %w", s, ErrSVGParamMismatch)
		}
		name := strings.TrimSpace(rest[:open])
		args, err := parseNumbers(rest[open+1 : closing])
		if err != nil {
			return m, fmt.Errorf("transform %q: %w", s, err)
		}
		rest = rest[closing+1:]

		var t geom.Matrix2D
		switch {
		case name == "translate" && len(args) >= 1:
			ty := 0.0
			if len(args) > 1 {
				ty = args[1]
			}
			t = geom.Translate(args[0], ty)
		case name == "scale" && len(args) >= 1:
			sy := args[0]
			if len(args) > 1 {
				sy = args[1]
			}
			t = geom.Scale(args[0], sy)
		case name == "rotate" && len(args) == 1:
			t = geom.Rotate(geom.DegToRad(args[0]))
		case name == "rotate" && len(args) == 3:
			t = geom.Translate(args[1], args[2]).Multiply(geom.Rotate(geom.DegToRad(args[0]))).Multiply(geom.Translate(-args[1], -args[2]))
		case name == "matrix" && len(args) == 6:
			t = geom.Matrix2D{args[0], args[1], args[2], args[3], args[4], args[5]}
		default:
			return m, fmt.Errorf("transform %s(%v): %w", name, args, ErrSVGParamMismatch)
		}
		m = m.Multiply(t)
	}
	return m, nil
}
