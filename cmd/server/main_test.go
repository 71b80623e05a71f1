package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphica/graphica/internal/asset"
	"github.com/graphica/graphica/internal/config"
	"github.com/graphica/graphica/internal/export"
	"github.com/graphica/graphica/internal/live"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	assets := asset.NewHandler(t.TempDir())
	return newRouter(cfg, assets, export.NewHandler("ffmpeg", 160, 120, 1, assets), live.NewManager(cfg.TickRate))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestDemos(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demos", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var demos []struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&demos))
	require.Len(t, demos, 5)
	assert.Equal(t, "plot", demos[0].Name)
}

func TestSnapshotRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshot/fraction.png?w=90&h=60", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}
