package export

import (
	"context"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHandler(t *testing.T) {
	h := NewHandler("ffmpeg", 320, 240, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/snapshot/plot.png?w=200&h=100", nil)
	req = mux.SetURLVars(req, map[string]string{"demo": "plot"})
	rec := httptest.NewRecorder()
	h.Snapshot(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestSnapshotUnknownDemo(t *testing.T) {
	h := NewHandler("ffmpeg", 320, 240, 1, nil)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/snapshot/nope.png", nil), map[string]string{"demo": "nope"})
	rec := httptest.NewRecorder()
	h.Snapshot(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderFrames(t *testing.T) {
	dir := t.TempDir()
	rec := Recording{Demo: "geometry", Width: 160, Height: 120, FPS: 10, Duration: 500 * time.Millisecond, PanX: 20}
	n, err := RenderFrames(context.Background(), rec, dir)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	for i := range n {
		assert.FileExists(t, filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i)))
	}
}

func TestRenderFramesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderFrames(ctx, Recording{Demo: "plot", Width: 10, Height: 10, FPS: 1, Duration: time.Second}, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportVideoValidation(t *testing.T) {
	h := NewHandler(filepath.Join(t.TempDir(), "no-ffmpeg"), 64, 48, 0.2, nil)

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/export/video", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ExportVideo(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, post(url.Values{"format": {"avi"}, "demo": {"plot"}}).Code)
	assert.Equal(t, http.StatusNotFound, post(url.Values{"format": {"mp4"}, "demo": {"nope"}}).Code)

	// a missing encoder surfaces as a server error after rendering
	rec := post(url.Values{"format": {"mp4"}, "demo": {"plot"}, "fps": {"5"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "encoding failed")
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "my-plot-1", sanitize("my plot/1"))
}
