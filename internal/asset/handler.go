package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/graphica/graphica/internal/diagram"
	"github.com/graphica/graphica/internal/typeid"
)

const maxUploadSize = 2 << 20 // 2MB

var ErrNotFound = errors.New("asset not found")

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Shapes int     `json:"shapes"`
	Name   string  `json:"name"`
}

// Handler stores uploaded SVG drawings for the svg demo.
type Handler struct {
	dir string
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Upload handles POST /assets/upload (multipart form with a "file" field).
// The document must parse as SVG before it is stored.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 2MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/svg") && !strings.HasSuffix(header.Filename, ".svg") {
		http.Error(w, "only SVG drawings are supported", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	svg, err := diagram.ParseSVG(bytes.NewReader(data), 1)
	if err != nil {
		http.Error(w, "invalid svg: "+err.Error(), http.StatusBadRequest)
		return
	}

	assetID := typeid.NewAssetID()
	filename := assetID + ".svg"
	if err := os.WriteFile(filepath.Join(h.dir, filename), data, 0o644); err != nil {
		slog.Error("write asset file", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	resp := UploadResponse{
		ID:     assetID,
		URL:    fmt.Sprintf("/assets/%s", filename),
		Width:  svg.ViewBox.Width(),
		Height: svg.ViewBox.Height(),
		Shapes: len(svg.Shapes()),
		Name:   header.Filename,
	}
	slog.Info("asset uploaded", "id", assetID, "name", header.Filename, "shapes", resp.Shapes)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Path returns the file holding the asset with the given id.
func (h *Handler) Path(assetID string) (string, error) {
	if err := typeid.Validate(assetID, typeid.PrefixAsset); err != nil {
		return "", fmt.Errorf("asset %q: %w", assetID, err)
	}
	path := filepath.Join(h.dir, assetID+".svg")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("asset %q: %w", assetID, ErrNotFound)
	}
	return path, nil
}

// Delete removes an asset file from disk.
func (h *Handler) Delete(assetID string) error {
	path, err := h.Path(assetID)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
