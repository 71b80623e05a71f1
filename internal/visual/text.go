package visual

import (
	"context"
	"log/slog"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/glyph"
	"github.com/graphica/graphica/internal/scene"
	"github.com/graphica/graphica/internal/typeid"
)

const DefaultTextSize = 16.0

// Anchor selects which point of the text box sits at the text's position.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorLeft
	AnchorRight
	AnchorBaseline
)

// Text is a string rendered as glyph outlines at a constant screen size.
// Size is the em height in pixels.
type Text struct {
	Base
	content string
	size    float64
	anchor  Anchor
	shaper  glyph.Service
	layout  *glyph.Layout
	mesh    *scene.Mesh
}

// NewText lays out content synchronously with the default font.
func NewText(content string, size float64) *Text {
	t := newText(content, size, glyph.Default())
	t.relayout()
	return t
}

// NewTextAsync returns an empty text whose geometry arrives later through
// post, the way hosts deliver slow font work back to the scene goroutine.
func NewTextAsync(ctx context.Context, content string, size float64, svc glyph.Service, post glyph.Poster) *Text {
	t := newText(content, size, svc)
	glyph.Request(ctx, svc, content, size, post, func(l *glyph.Layout, err error) {
		if err != nil {
			slog.Warn("text layout failed", "text", content, "error", err)
			return
		}
		if t.content == content {
			t.apply(l)
		}
	})
	return t
}

func newText(content string, size float64, svc glyph.Service) *Text {
	t := &Text{
		Base:    newBase(typeid.PrefixText),
		content: content,
		size:    size,
		shaper:  svc,
	}
	t.mesh = scene.NewMesh(nil).Filled(ColorInk)
	t.node.Mesh = t.mesh
	t.own(t)
	return t
}

func (t *Text) relayout() {
	l, err := t.shaper.Layout(t.content, t.size)
	if err != nil {
		slog.Warn("text layout failed", "text", t.content, "error", err)
		t.mesh.Path = nil
		return
	}
	t.apply(l)
}

func (t *Text) apply(l *glyph.Layout) {
	t.layout = l
	box := l.Bounds()
	var offset geom.Vec2
	switch t.anchor {
	case AnchorCenter:
		offset = box.Center().Neg()
	case AnchorLeft:
		offset = geom.V2(0, -box.Center().Y)
	case AnchorRight:
		offset = geom.V2(-box.Width(), -box.Center().Y)
	case AnchorBaseline:
		offset = geom.Vec2{}
	}
	t.mesh.Path = l.Path(offset)
}

// LabelText implements scene.HasLabel.
func (t *Text) LabelText() string { return t.content }

// SetLabelText implements scene.HasLabel.
func (t *Text) SetLabelText(s string) {
	if s == t.content {
		return
	}
	t.content = s
	t.relayout()
}

// SetAnchor changes how the text box is placed around its position.
func (t *Text) SetAnchor(a Anchor) {
	t.anchor = a
	if t.layout != nil {
		t.apply(t.layout)
	}
}

// SetSize sets the em height in pixels.
func (t *Text) SetSize(px float64) {
	t.size = px
	t.relayout()
}

// SetColor sets the glyph color.
func (t *Text) SetColor(c string) { t.mesh.Fill = c }

// Layout returns the current glyph layout, nil until it is available.
func (t *Text) Layout() *glyph.Layout { return t.layout }

// Attach implements scene.Attachable.
func (t *Text) Attach(cam *scene.Camera) {
	t.node.SetUniformScale(1 / cam.Zoom)
}

// Update keeps the text a constant size on screen.
func (t *Text) Update(cam *scene.Camera) error {
	t.Attach(cam)
	return nil
}

// Label is a text caption pinned to another object at a pixel offset.
type Label struct {
	*Text
	target any
	offset geom.Vec2
}

// NewLabel creates a label. target may be nil for a free-standing label or
// anything geom.ToVec3 accepts.
func NewLabel(content string, target any, offset geom.Vec2) *Label {
	l := &Label{Text: NewText(content, DefaultTextSize), target: target, offset: offset}
	l.own(l)
	return l
}

// SetTarget changes the followed object.
func (l *Label) SetTarget(target any, offset geom.Vec2) {
	l.target, l.offset = target, offset
}

// Update moves the label next to its target and keeps it a constant size.
func (l *Label) Update(cam *scene.Camera) error {
	if l.target != nil {
		anchor := resolve(l.target, l.XY())
		l.MoveTo(anchor.Add(l.offset.Scale(1 / cam.Zoom)))
	}
	return l.Text.Update(cam)
}
