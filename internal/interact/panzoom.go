package interact

import (
	"math"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
)

// DefaultZoomStep is the zoom factor for one wheel notch (100 delta units).
const DefaultZoomStep = 1.1

// PanZoom moves the camera: dragging the background pans and the wheel
// zooms around the cursor.
type PanZoom struct {
	cam *scene.Camera

	EnablePan  bool
	EnableZoom bool
	ZoomStep   float64

	panning bool
	last    geom.Vec2
}

func NewPanZoom(cam *scene.Camera) *PanZoom {
	return &PanZoom{cam: cam, EnablePan: true, EnableZoom: true, ZoomStep: DefaultZoomStep}
}

// Panning reports whether a background drag is in progress.
func (p *PanZoom) Panning() bool { return p.panning }

func (p *PanZoom) PointerDown(s geom.Vec2) {
	if !p.EnablePan {
		return
	}
	p.panning = true
	p.last = s
}

func (p *PanZoom) PointerMove(s geom.Vec2) {
	if !p.panning {
		return
	}
	d := s.Sub(p.last)
	p.last = s
	p.cam.PanBy(d.X, d.Y)
}

func (p *PanZoom) PointerUp() {
	p.panning = false
}

// Wheel zooms around the screen position s. Negative delta zooms in, as
// browsers report scrolling up.
func (p *PanZoom) Wheel(s geom.Vec2, delta float64) {
	if !p.EnableZoom || delta == 0 {
		return
	}
	p.cam.ZoomAt(s, math.Pow(p.ZoomStep, -delta/100))
}
