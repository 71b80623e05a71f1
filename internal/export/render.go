package export

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/demo"
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/raster"
)

// Recording describes a server-side capture of a demo scene.
type Recording struct {
	Demo          string
	Width, Height int
	FPS           int
	Duration      time.Duration
	// PanX and PanY move the camera in screen pixels per second.
	PanX, PanY float64
	// ZoomRate multiplies the zoom once per second around the view center.
	ZoomRate float64
	Demos    demo.Options
}

// Frames returns the number of frames the recording produces.
func (rec Recording) Frames() int {
	return max(1, int(rec.Duration.Seconds()*float64(rec.FPS)))
}

// Snapshot renders the first frame of a demo as PNG.
func Snapshot(w io.Writer, name string, width, height int, opts demo.Options) error {
	r := raster.New(width, height)
	defer r.Close()

	g, err := demo.Setup(name, float64(width), float64(height), r, opts)
	if err != nil {
		return err
	}
	if g.Tick(time.Unix(0, 0)) == core.Stop && g.Err() != nil {
		return g.Err()
	}
	return r.EncodePNG(w)
}

// RenderFrames writes frame_0000.png, frame_0001.png, ... into dir using a
// simulated clock, and returns the number of frames written.
func RenderFrames(ctx context.Context, rec Recording, dir string) (int, error) {
	r := raster.New(rec.Width, rec.Height)
	defer r.Close()

	g, err := demo.Setup(rec.Demo, float64(rec.Width), float64(rec.Height), r, rec.Demos)
	if err != nil {
		return 0, err
	}

	step := time.Second / time.Duration(rec.FPS)
	center := geom.V2(float64(rec.Width)/2, float64(rec.Height)/2)
	now := time.Unix(0, 0)
	n := rec.Frames()

	for i := range n {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if i > 0 {
			dt := step.Seconds()
			g.Camera().PanBy(rec.PanX*dt, rec.PanY*dt)
			if rec.ZoomRate > 0 && rec.ZoomRate != 1 {
				g.Camera().ZoomAt(center, math.Pow(rec.ZoomRate, dt))
			}
		}
		if g.Tick(now) == core.Stop {
			if err := g.Err(); err != nil {
				return i, fmt.Errorf("frame %d: %w", i, err)
			}
		}
		if err := writePNG(r, filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))); err != nil {
			return i, err
		}
		now = now.Add(step)
	}
	return n, nil
}

func writePNG(r *raster.Renderer, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	if err := r.EncodePNG(out); err != nil {
		out.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	return out.Close()
}
