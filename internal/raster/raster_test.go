package raster

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphica/graphica/internal/core"
	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want [4]float64
		ok   bool
		err  bool
	}{
		{"#ff0000", [4]float64{1, 0, 0, 1}, true, false},
		{"#0f0", [4]float64{0, 1, 0, 1}, true, false},
		{"white", [4]float64{1, 1, 1, 1}, true, false},
		{"Black", [4]float64{0, 0, 0, 1}, true, false},
		{"rgb(255, 0, 255)", [4]float64{1, 0, 1, 1}, true, false},
		{"rgba(0,0,255,0.5)", [4]float64{0, 0, 1, 0.5}, true, false},
		{"rgb(100%, 0%, 0%)", [4]float64{1, 0, 0, 1}, true, false},
		{"none", [4]float64{}, false, false},
		{"", [4]float64{}, false, false},
		{"#zzzzzz", [4]float64{}, false, true},
		{"notacolor", [4]float64{}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, ok, err := ParseColor(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrBadColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			got := [4]float64{c.R, c.G, c.B, c.A}
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-3)
			}
		})
	}
}

func square(fill string) scene.DrawCommand {
	return scene.DrawCommand{
		Op:   "path",
		Path: scene.Polyline([]geom.Vec2{{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 30}, {X: 10, Y: 30}}, true),
		Fill:    fill,
		Opacity: 1,
	}
}

func TestRenderFillsPaths(t *testing.T) {
	r := New(40, 40)
	defer r.Close()

	f := &core.Frame{Background: "#ffffff", Commands: []scene.DrawCommand{square("#ff0000")}}
	require.NoError(t, r.Render(f))
	assert.Equal(t, uint64(1), r.Frames())

	img := r.Image()
	inside := img.RGBAAt(20, 20)
	assert.Equal(t, uint8(255), inside.R)
	assert.Less(t, inside.G, uint8(10))

	outside := img.RGBAAt(2, 2)
	assert.Equal(t, uint8(255), outside.G)
}

func TestLaterCommandsPaintOver(t *testing.T) {
	r := New(40, 40)
	defer r.Close()

	f := &core.Frame{Background: "white", Commands: []scene.DrawCommand{square("#ff0000"), square("#0000ff")}}
	require.NoError(t, r.Render(f))
	px := r.Image().RGBAAt(20, 20)
	assert.Equal(t, uint8(255), px.B)
	assert.Less(t, px.R, uint8(10))
}

func TestOpacity(t *testing.T) {
	r := New(40, 40)
	defer r.Close()

	hidden := square("#000000")
	hidden.Opacity = 0
	require.NoError(t, r.Render(&core.Frame{Background: "#ffffff", Commands: []scene.DrawCommand{hidden}}))
	px := r.Image().RGBAAt(20, 20)
	assert.Equal(t, uint8(255), px.R)
	assert.Equal(t, uint8(255), px.G)

	half := square("#000000")
	half.Opacity = 0.5
	require.NoError(t, r.Render(&core.Frame{Background: "#ffffff", Commands: []scene.DrawCommand{half}}))
	px = r.Image().RGBAAt(20, 20)
	assert.InDelta(t, 128, int(px.R), 8)
}

func TestUnknownColorIsSkipped(t *testing.T) {
	r := New(40, 40)
	defer r.Close()

	f := &core.Frame{Background: "#ffffff", Commands: []scene.DrawCommand{square("bogus")}}
	require.NoError(t, r.Render(f))
	px := r.Image().RGBAAt(20, 20)
	assert.Equal(t, uint8(255), px.R)
	assert.Equal(t, uint8(255), px.G)
}

func TestRenderPNG(t *testing.T) {
	f := &core.Frame{
		Background: "#ffffff",
		Camera:     scene.CameraState{Width: 64, Height: 48},
		Commands:   []scene.DrawCommand{square("#000000")},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, f))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestRendererDrivesGraphica(t *testing.T) {
	r := New(100, 100)
	defer r.Close()

	g := core.New(core.Options{Width: 100, Height: 100, Renderer: r})
	f, err := g.Snapshot()
	require.NoError(t, err)
	require.NoError(t, r.Render(f))
	assert.Equal(t, uint8(255), r.Image().RGBAAt(50, 50).R)
}
