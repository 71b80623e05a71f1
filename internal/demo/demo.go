// Package demo assembles the built-in scenes shown by every host.
package demo

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/graphica/graphica/internal/core"
)

var ErrUnknownDemo = errors.New("unknown demo")

// Hook runs at the start of every tick of a built scene.
type Hook func(elapsed time.Duration)

// Options carry host settings a scene may need.
type Options struct {
	// SVGPath overrides the asset drawn by the svg demo.
	SVGPath string
}

// Demo is a named scene builder.
type Demo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	build func(g *core.Graphica, opts Options) (Hook, error)
}

var registry = []Demo{
	{Name: "plot", Title: "Function plot", build: buildPlot},
	{Name: "geometry", Title: "Geometry primitives", build: buildGeometry},
	{Name: "graph", Title: "Weighted graph", build: buildGraph},
	{Name: "fraction", Title: "Fractions", build: buildFraction},
	{Name: "svg", Title: "SVG import", build: buildSVG},
}

// All returns the demos in menu order.
func All() []Demo { return slices.Clone(registry) }

// Names returns the demo names in menu order.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.Name
	}
	return names
}

// Lookup finds a demo by name.
func Lookup(name string) (Demo, bool) {
	i := slices.IndexFunc(registry, func(d Demo) bool { return d.Name == name })
	if i < 0 {
		return Demo{}, false
	}
	return registry[i], true
}

// Build populates g with the scene and returns its per-tick hook, which
// may be nil.
func (d Demo) Build(g *core.Graphica, opts Options) (Hook, error) {
	hook, err := d.build(g, opts)
	if err != nil {
		return nil, fmt.Errorf("build demo %s: %w", d.Name, err)
	}
	slog.Debug("demo built", "demo", d.Name, "components", g.Components(), "widgets", len(g.Widgets()))
	return hook, nil
}

// Start builds the named demo into g and arms its loop.
func Start(name string, g *core.Graphica, opts Options) error {
	d, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownDemo)
	}
	hook, err := d.Build(g, opts)
	if err != nil {
		return err
	}
	g.Run(hook)
	return nil
}

// Setup creates an orchestrator of the given size running the named demo.
func Setup(name string, width, height float64, r core.Renderer, opts Options) (*core.Graphica, error) {
	g := core.New(core.Options{Width: width, Height: height, Renderer: r})
	if err := Start(name, g, opts); err != nil {
		return nil, err
	}
	return g, nil
}
