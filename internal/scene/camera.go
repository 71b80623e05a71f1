package scene

import (
	"math"

	"github.com/graphica/graphica/internal/geom"
)

const (
	DefaultMinZoom = 0.01
	DefaultMaxZoom = 10000.0
)

// Camera is an orthographic 2D camera. Left/Right/Top/Bottom describe the
// frustum in screen pixels around the view center; Zoom is pixels per world
// unit and Position is the world point at the view center.
type Camera struct {
	Left, Right, Top, Bottom float64
	Width, Height            float64
	Zoom                     float64
	Position                 geom.Vec2
	MinZoom, MaxZoom         float64
}

// CameraState is the serializable view of a camera sent to hosts.
type CameraState struct {
	Zoom     float64   `json:"zoom"`
	Position geom.Vec2 `json:"position"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Visible  geom.Rect `json:"visible"`
}

// NewCamera creates a camera for a viewport of width x height pixels.
func NewCamera(width, height, zoom float64) *Camera {
	c := &Camera{
		Zoom:    zoom,
		MinZoom: DefaultMinZoom,
		MaxZoom: DefaultMaxZoom,
	}
	c.Resize(width, height)
	return c
}

// Resize recomputes the frustum for a new viewport size.
func (c *Camera) Resize(width, height float64) {
	c.Width, c.Height = width, height
	c.Left, c.Right = -width/2, width/2
	c.Top, c.Bottom = height/2, -height/2
}

// SetZoom sets the zoom clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float64) {
	if c.MinZoom > 0 {
		z = math.Max(z, c.MinZoom)
	}
	if c.MaxZoom > 0 {
		z = math.Min(z, c.MaxZoom)
	}
	c.Zoom = z
}

// PanTo centers the view on p.
func (c *Camera) PanTo(p geom.Vec2) {
	c.Position = p
}

// PanBy moves the view by a screen-space delta, as when the scene is dragged
// by the pointer.
func (c *Camera) PanBy(dx, dy float64) {
	c.Position.X -= dx / c.Zoom
	c.Position.Y += dy / c.Zoom
}

// ZoomAt multiplies the zoom by factor keeping the world point under the
// screen position s fixed.
func (c *Camera) ZoomAt(s geom.Vec2, factor float64) {
	before := c.ScreenToWorld(s)
	c.SetZoom(c.Zoom * factor)
	after := c.ScreenToWorld(s)
	c.Position = c.Position.Add(before.Sub(after))
}

// Visible returns the world-space rectangle currently in view.
func (c *Camera) Visible() geom.Rect {
	return geom.R(
		geom.V2(c.Position.X+c.Left/c.Zoom, c.Position.Y+c.Bottom/c.Zoom),
		geom.V2(c.Position.X+c.Right/c.Zoom, c.Position.Y+c.Top/c.Zoom),
	)
}

// ViewMatrix maps world coordinates to screen pixels (origin top-left,
// Y down).
func (c *Camera) ViewMatrix() geom.Matrix2D {
	kx, ky := 1.0, 1.0
	if c.Right != c.Left {
		kx = c.Width / (c.Right - c.Left)
	}
	if c.Top != c.Bottom {
		ky = c.Height / (c.Top - c.Bottom)
	}
	return geom.Matrix2D{
		c.Zoom * kx,
		0,
		0,
		-c.Zoom * ky,
		(-c.Position.X*c.Zoom - c.Left) * kx,
		(c.Top + c.Position.Y*c.Zoom) * ky,
	}
}

// WorldToScreen maps a world point to screen pixels.
func (c *Camera) WorldToScreen(p geom.Vec2) geom.Vec2 {
	return c.ViewMatrix().Apply(p)
}

// ScreenToWorld maps screen pixels to the world point under them. This is the
// pointer ray intersected with the drawing plane.
func (c *Camera) ScreenToWorld(s geom.Vec2) geom.Vec2 {
	return c.ViewMatrix().Invert().Apply(s)
}

// State returns the serializable camera view.
func (c *Camera) State() CameraState {
	return CameraState{
		Zoom:     c.Zoom,
		Position: c.Position,
		Width:    c.Width,
		Height:   c.Height,
		Visible:  c.Visible(),
	}
}
