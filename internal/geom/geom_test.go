package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

type fakePoint struct{ p Vec3 }

func (f fakePoint) Position() Vec3 { return f.p }

func TestToVec3(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Vec3
	}{
		{"array2", [2]float64{1, 2}, V3(1, 2, 0)},
		{"array3", [3]float64{1, 2, 3}, V3(1, 2, 3)},
		{"slice2", []float64{4, 5}, V3(4, 5, 0)},
		{"vec2", V2(7, 8), V3(7, 8, 0)},
		{"vec3ptr", &Vec3{1, 1, 1}, V3(1, 1, 1)},
		{"positioner", fakePoint{V3(3, 2, 1)}, V3(3, 2, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToVec3(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ToVec3("nope")
	assert.ErrorIs(t, err, ErrUnsupportedPosition)
	_, err = ToVec3([]float64{1})
	assert.ErrorIs(t, err, ErrUnsupportedPosition)
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(3, -2).Multiply(Rotate(DegToRad(30))).Multiply(Scale(2, 0.5))
	p := V2(1.5, -4)
	back := m.Invert().Apply(m.Apply(p))
	assert.True(t, back.ApproxEqual(p, tol), "got %v", back)

	assert.True(t, Identity().IsIdentity())
	assert.Equal(t, Identity(), Scale(0, 0).Invert())
}

func TestFromTransformMatchesComposition(t *testing.T) {
	want := Translate(2, 3).Multiply(Rotate(0.7)).Multiply(Scale(1.5, 2))
	got := FromTransform(2, 3, 1.5, 2, 0.7)
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol)
	}
}

func TestClipLine(t *testing.T) {
	r := R(V2(-10, -5), V2(10, 5))

	a, b, ok := r.ClipLine(V2(0, 0), V2(1, 0))
	require.True(t, ok)
	assert.Equal(t, V2(-10, 0), a)
	assert.Equal(t, V2(10, 0), b)

	a, b, ok = r.ClipLine(V2(0, 0), V2(1, 1))
	require.True(t, ok)
	assert.True(t, a.ApproxEqual(V2(-5, -5), tol))
	assert.True(t, b.ApproxEqual(V2(5, 5), tol))

	_, _, ok = r.ClipLine(V2(0, 0), V2(0, 0))
	assert.False(t, ok)

	_, _, ok = r.ClipLine(V2(0, 50), V2(1, 0))
	assert.False(t, ok)
}

func TestLineIntersection(t *testing.T) {
	p, ok := LineIntersection(V2(0, 0), V2(1, 1), V2(0, 2), V2(1, -1))
	require.True(t, ok)
	assert.True(t, p.ApproxEqual(V2(1, 1), tol))

	_, ok = LineIntersection(V2(0, 0), V2(1, 0), V2(0, 1), V2(2, 0))
	assert.False(t, ok)
}

func TestAngleBetween(t *testing.T) {
	assert.InDelta(t, math.Pi/2, AngleBetween(V2(1, 0), V2(0, 1)), tol)
	assert.InDelta(t, 3*math.Pi/2, AngleBetween(V2(0, 1), V2(1, 0)), tol)
}

func TestPolygonContains(t *testing.T) {
	square := []Vec2{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	assert.True(t, PolygonContains(square, V2(1, 1)))
	assert.False(t, PolygonContains(square, V2(3, 1)))
}

func TestCatmullRomPassesThroughCollinearPoints(t *testing.T) {
	pts := []Vec2{{-2, -2}, {-1, -1}, {0.5, 0.5}, {3, 3}}
	out := CatmullRom(pts, 30)
	require.Len(t, out, 31)
	assert.Equal(t, pts[0], out[0])
	assert.True(t, out[30].ApproxEqual(pts[3], tol))
	for _, p := range out {
		assert.InDelta(t, p.X, p.Y, tol)
	}
}
