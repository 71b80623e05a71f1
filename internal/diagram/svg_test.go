package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphica/graphica/internal/geom"
	"github.com/graphica/graphica/internal/scene"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50">
  <g transform="translate(10,0)" fill="#ff0000">
    <rect x="0" y="0" width="20" height="10"/>
    <circle cx="50" cy="25" r="5" style="fill:none;stroke:#00ff00;stroke-width:2"/>
  </g>
  <path d="M0 0 L10 0 l0-10 h5 v5 Q 20 20 30 30 T 40 40 C 1 2 3 4 5 6 s 1 1 2 2 A 5 5 0 0 1 60 60 z"/>
  <polygon points="0,0 10,0 5,5"/>
  <polyline points="0 0 1 1 2 0"/>
  <line x1="0" y1="0" x2="3" y2="4"/>
  <ellipse cx="1" cy="1" rx="2" ry="1"/>
</svg>`

func TestParseSVG(t *testing.T) {
	s, err := ParseSVG(strings.NewReader(sample), 0.1)
	require.NoError(t, err)
	require.Len(t, s.Shapes(), 7)

	assert.Equal(t, geom.R(geom.V2(0, 0), geom.V2(100, 50)), s.ViewBox)
	assert.Equal(t, geom.V2(0.1, -0.1), s.Object().Scale)

	rect := s.Shapes()[0]
	assert.Equal(t, "#ff0000", rect.Mesh.Fill)
	first, _ := rect.Mesh.Path[0].End()
	assert.Equal(t, geom.V2(10, 0), first, "group transform applied")

	circle := s.Shapes()[1]
	assert.Empty(t, circle.Mesh.Fill)
	assert.Equal(t, "#00ff00", circle.Mesh.Stroke)
	assert.Equal(t, 2.0, circle.Mesh.StrokeWidth)

	path := s.Shapes()[2].Mesh.Path
	assert.Equal(t, scene.OpClose, path[len(path)-1].Op)
	third, _ := path[2].End()
	assert.Equal(t, geom.V2(10, -10), third, "relative lineto")
}

func TestParseSVGErrors(t *testing.T) {
	_, err := ParseSVG(strings.NewReader(`<svg><path d="M0 0 X 1 2"/></svg>`), 1)
	assert.ErrorIs(t, err, ErrSVGCommandUnknown)

	_, err = ParseSVG(strings.NewReader(`<svg><polygon points="0 0 1"/></svg>`), 1)
	assert.ErrorIs(t, err, ErrSVGParamMismatch)

	_, err = ParseSVG(strings.NewReader(`not svg`), 1)
	assert.Error(t, err)
}

func TestLoadSVGDegradesToEmpty(t *testing.T) {
	s := LoadSVG(strings.NewReader(`<svg><path d="M0 0 Y"/></svg>`), "broken", 1)
	require.NotNil(t, s)
	assert.Empty(t, s.Shapes())

	s = LoadSVGFile("/nonexistent/file.svg", 1)
	assert.Empty(t, s.Shapes())
}

func TestParseNumbersCompact(t *testing.T) {
	nums, err := parseNumbers("1-2.5.5e1,3")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2.5, 0.5e1, 3}, nums)
}
