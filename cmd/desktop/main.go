//go:build !js

package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/graphica/graphica/internal/config"
	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/demo"
	"github.com/graphica/graphica/internal/glyph"
	"github.com/graphica/graphica/internal/gui"
	"github.com/graphica/graphica/internal/raster"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	if err := glyph.UseFontFile(cfg.FontPath); err != nil {
		slog.Error("load font", "path", cfg.FontPath, "error", err)
		os.Exit(1)
	}

	name := "plot"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}

	w := &window{width: cfg.SnapshotWidth, height: cfg.SnapshotHeight}
	w.renderer = raster.New(w.width, w.height)
	defer w.renderer.Close()
	if err := w.load(name); err != nil {
		slog.Error("load demo", "demo", name, "error", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("Graphica")
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TickRate)

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("window closed with error", "error", err)
		os.Exit(1)
	}
}

var demoKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9}

// window adapts a Graphica scene to ebiten's game loop.
type window struct {
	g        *core.Graphica
	renderer *raster.Renderer
	screen   *ebiten.Image

	width, height int
	pressed       bool
	focus         int
}

func (w *window) load(name string) error {
	g, err := demo.Setup(name, float64(w.width), float64(w.height), w.renderer, demo.Options{})
	if err != nil {
		return err
	}
	if w.g != nil {
		w.g.Stop()
	}
	w.g = g
	w.focus = 0
	slog.Info("demo loaded", "demo", name, "widgets", len(g.Widgets()))
	return nil
}

func (w *window) Update() error {
	w.handleKeys()

	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case down && !w.pressed:
		w.g.PointerDown(fx, fy)
	case !down && w.pressed:
		w.g.PointerUp(fx, fy)
	default:
		w.g.PointerMove(fx, fy)
	}
	w.pressed = down

	if _, dy := ebiten.Wheel(); dy != 0 {
		// ebiten reports lines with up positive; the camera expects pixels
		// with up negative
		w.g.Wheel(fx, fy, -dy*100)
	}

	if w.g.Tick(time.Now()) == core.Stop {
		if err := w.g.Err(); err != nil {
			return err
		}
		return ebiten.Termination
	}
	return nil
}

// handleKeys switches demos with the number keys and drives the widgets:
// Tab moves the focus, the arrow keys step a slider, Enter clicks a button.
func (w *window) handleKeys() {
	for i, name := range demo.Names() {
		if i < len(demoKeys) && inpututil.IsKeyJustPressed(demoKeys[i]) {
			if err := w.load(name); err != nil {
				slog.Warn("switch demo", "demo", name, "error", err)
			}
			return
		}
	}

	widgets := w.g.Widgets()
	if len(widgets) == 0 {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		w.focus = (w.focus + 1) % len(widgets)
		slog.Info("widget focused", "label", widgets[w.focus].State().Label)
	}
	focused := widgets[w.focus%len(widgets)]

	switch v := focused.(type) {
	case *gui.Slider:
		st := v.State()
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
			v.SetValue(st.Value + st.Step)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			v.SetValue(st.Value - st.Step)
		}
	case *gui.Button:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			v.Click()
		}
	case *gui.LegendBox:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			if err := v.Toggle(0); err != nil {
				slog.Warn("toggle legend", "error", err)
			}
		}
	}
}

func (w *window) Draw(screen *ebiten.Image) {
	img := w.renderer.Image()
	b := img.Bounds()
	if w.screen == nil || w.screen.Bounds().Dx() != b.Dx() || w.screen.Bounds().Dy() != b.Dy() {
		if w.screen != nil {
			w.screen.Deallocate()
		}
		w.screen = ebiten.NewImage(b.Dx(), b.Dy())
	}
	w.screen.WritePixels(img.Pix)
	screen.DrawImage(w.screen, nil)
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != w.width || outsideHeight != w.height {
		w.width, w.height = outsideWidth, outsideHeight
		if err := w.renderer.Resize(w.width, w.height); err != nil {
			slog.Warn("resize renderer", "error", err)
		}
		w.g.Resize(float64(w.width), float64(w.height))
	}
	return w.width, w.height
}
