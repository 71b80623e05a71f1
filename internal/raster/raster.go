// Package raster draws compiled frames into an RGBA image with gogpu/gg.
// It backs the desktop window, PNG snapshots and video export.
package raster

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/scene"
)

// Renderer is a core.Renderer keeping the last frame as pixels.
type Renderer struct {
	mu     sync.Mutex
	dc     *gg.Context
	frames uint64

	// warned remembers bad colors so each is logged once.
	warned map[string]bool
}

var _ core.Renderer = (*Renderer)(nil)

func New(width, height int) *Renderer {
	return &Renderer{
		dc:     gg.NewContext(max(width, 1), max(height, 1)),
		warned: make(map[string]bool),
	}
}

// Resize changes the canvas size. The content is cleared.
func (r *Renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dc.Resize(width, height)
}

func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dc.Width(), r.dc.Height()
}

// Frames returns how many frames were rendered.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Render clears the canvas to the frame background and draws every
// command in order.
func (r *Renderer) Render(f *core.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bg, ok, err := ParseColor(f.Background)
	if err != nil {
		r.warn(f.Background, err)
	}
	if ok {
		r.dc.ClearWithColor(bg)
	} else {
		r.dc.Clear()
	}

	for i := range f.Commands {
		if err := r.draw(&f.Commands[i]); err != nil {
			return fmt.Errorf("draw %s: %w", f.Commands[i].ObjectID, err)
		}
	}
	r.frames++
	return nil
}

func (r *Renderer) draw(cmd *scene.DrawCommand) error {
	alpha := min(max(cmd.Opacity, 0), 1)
	if alpha == 0 {
		return nil
	}

	if fill, ok := r.color(cmd.Fill); ok {
		r.trace(cmd.Path)
		r.dc.SetRGBA(fill.R, fill.G, fill.B, fill.A*alpha)
		if err := r.dc.Fill(); err != nil {
			return err
		}
	}

	if stroke, ok := r.color(cmd.Stroke); ok && cmd.StrokeWidth > 0 {
		r.trace(cmd.Path)
		r.dc.SetRGBA(stroke.R, stroke.G, stroke.B, stroke.A*alpha)
		r.dc.SetLineWidth(cmd.StrokeWidth)
		if len(cmd.Dash) > 0 {
			r.dc.SetDash(cmd.Dash...)
		} else {
			r.dc.ClearDash()
		}
		if err := r.dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) trace(p scene.Path) {
	r.dc.ClearPath()
	for _, c := range p {
		switch c.Op {
		case scene.OpMove:
			r.dc.MoveTo(c.Pts[0].X, c.Pts[0].Y)
		case scene.OpLine:
			r.dc.LineTo(c.Pts[0].X, c.Pts[0].Y)
		case scene.OpQuad:
			r.dc.QuadraticTo(c.Pts[0].X, c.Pts[0].Y, c.Pts[1].X, c.Pts[1].Y)
		case scene.OpCubic:
			r.dc.CubicTo(c.Pts[0].X, c.Pts[0].Y, c.Pts[1].X, c.Pts[1].Y, c.Pts[2].X, c.Pts[2].Y)
		case scene.OpClose:
			r.dc.ClosePath()
		}
	}
}

func (r *Renderer) color(s string) (gg.RGBA, bool) {
	c, ok, err := ParseColor(s)
	if err != nil {
		r.warn(s, err)
		return gg.RGBA{}, false
	}
	return c, ok
}

func (r *Renderer) warn(s string, err error) {
	if r.warned[s] {
		return
	}
	r.warned[s] = true
	slog.Warn("skipping paint with unknown color", "color", s, "error", err)
}

// Image returns a copy of the current pixels.
func (r *Renderer) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneRGBA(r.dc.Image())
}

// EncodePNG writes the current pixels as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dc.EncodePNG(w)
}

// Close releases the drawing context.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dc.Close()
}

// RenderPNG rasterizes a single frame at the camera's size.
func RenderPNG(w io.Writer, f *core.Frame) error {
	r := New(int(f.Camera.Width), int(f.Camera.Height))
	defer r.Close()
	if err := r.Render(f); err != nil {
		return err
	}
	return r.EncodePNG(w)
}

func cloneRGBA(img image.Image) *image.RGBA {
	if src, ok := img.(*image.RGBA); ok {
		out := image.NewRGBA(src.Rect)
		copy(out.Pix, src.Pix)
		return out
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
