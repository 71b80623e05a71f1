package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/graphica/graphica/internal/demo"
)

const (
	maxDimension = 4096
	maxSeconds   = 30
)

// AssetResolver maps an uploaded asset id to a file for the svg demo.
type AssetResolver interface {
	Path(assetID string) (string, error)
}

type Handler struct {
	ffmpegPath     string
	width, height  int
	defaultSeconds float64
	assets         AssetResolver
}

func NewHandler(ffmpegPath string, width, height int, seconds float64, assets AssetResolver) *Handler {
	return &Handler{
		ffmpegPath:     ffmpegPath,
		width:          width,
		height:         height,
		defaultSeconds: seconds,
		assets:         assets,
	}
}

func intParam(r *http.Request, name string, def, lo, hi int) int {
	v, err := strconv.Atoi(r.FormValue(name))
	if err != nil || v < lo || v > hi {
		return def
	}
	return v
}

func floatParam(r *http.Request, name string, def float64) float64 {
	v, err := strconv.ParseFloat(r.FormValue(name), 64)
	if err != nil {
		return def
	}
	return v
}

func (h *Handler) demoOptions(r *http.Request) (demo.Options, error) {
	id := r.FormValue("asset")
	if id == "" || h.assets == nil {
		return demo.Options{}, nil
	}
	path, err := h.assets.Path(id)
	if err != nil {
		return demo.Options{}, err
	}
	return demo.Options{SVGPath: path}, nil
}

// Snapshot handles GET /snapshot/{demo}.png?w=&h=&asset=.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["demo"]
	width := intParam(r, "w", h.width, 1, maxDimension)
	height := intParam(r, "h", h.height, 1, maxDimension)

	opts, err := h.demoOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := Snapshot(&buf, name, width, height, opts); err != nil {
		if errors.Is(err, demo.ErrUnknownDemo) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		slog.Error("snapshot failed", "demo", name, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

// ExportVideo handles POST /export/video. The scene is rendered on the
// server and encoded with ffmpeg.
func (h *Handler) ExportVideo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format != "mp4" && format != "gif" && format != "webm" {
		http.Error(w, "invalid format: must be mp4, gif, or webm", http.StatusBadRequest)
		return
	}

	name := r.FormValue("demo")
	if _, ok := demo.Lookup(name); !ok {
		http.Error(w, fmt.Sprintf("unknown demo %q", name), http.StatusNotFound)
		return
	}
	opts, err := h.demoOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	seconds := floatParam(r, "seconds", h.defaultSeconds)
	if seconds <= 0 || seconds > maxSeconds {
		seconds = h.defaultSeconds
	}
	rec := Recording{
		Demo:     name,
		Width:    intParam(r, "w", h.width, 2, maxDimension) &^ 1,
		Height:   intParam(r, "h", h.height, 2, maxDimension) &^ 1,
		FPS:      intParam(r, "fps", 24, 1, 120),
		Duration: time.Duration(seconds * float64(time.Second)),
		PanX:     floatParam(r, "panX", 0),
		PanY:     floatParam(r, "panY", 0),
		ZoomRate: floatParam(r, "zoomRate", 1),
		Demos:    opts,
	}

	tempDir, err := os.MkdirTemp("", "graphica-export-*")
	if err != nil {
		slog.Error("create temp dir", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tempDir)

	frameCount, err := RenderFrames(r.Context(), rec, tempDir)
	if err != nil {
		slog.Error("render frames", "demo", name, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	slog.Info("export started", "demo", name, "format", format, "frames", frameCount, "fps", rec.FPS)

	outputFile, contentType, err := h.encode(r.Context(), tempDir, format, rec.FPS)
	if err != nil {
		slog.Error("ffmpeg failed", "error", err)
		http.Error(w, fmt.Sprintf("encoding failed: %v", err), http.StatusInternalServerError)
		return
	}

	outFile, err := os.Open(outputFile)
	if err != nil {
		slog.Error("open output file", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer outFile.Close()

	stat, err := outFile.Stat()
	if err != nil {
		slog.Error("stat output file", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, sanitize(name), format))
	w.Header().Set("Content-Length", strconv.FormatInt(stat.Size(), 10))
	io.Copy(w, outFile)

	slog.Info("export complete", "demo", name, "format", format, "size", stat.Size())
}

// encode turns the frame sequence in dir into a video file.
func (h *Handler) encode(ctx context.Context, dir, format string, fps int) (string, string, error) {
	input := filepath.Join(dir, "frame_%04d.png")
	rate := strconv.Itoa(fps)

	switch format {
	case "mp4":
		out := filepath.Join(dir, "output.mp4")
		return out, "video/mp4", h.runFfmpeg(ctx,
			"-framerate", rate,
			"-i", input,
			"-c:v", "libx264",
			"-pix_fmt", "yuv420p",
			"-crf", "18",
			"-preset", "fast",
			"-movflags", "+faststart",
			out,
		)

	case "gif":
		out := filepath.Join(dir, "output.gif")
		// Two-pass GIF: generate palette then apply
		palette := filepath.Join(dir, "palette.png")
		if err := h.runFfmpeg(ctx,
			"-framerate", rate,
			"-i", input,
			"-vf", "palettegen=stats_mode=diff",
			palette,
		); err != nil {
			return "", "", err
		}
		return out, "image/gif", h.runFfmpeg(ctx,
			"-framerate", rate,
			"-i", input,
			"-i", palette,
			"-lavfi", "paletteuse=dither=bayer:bayer_scale=5:diff_mode=rectangle",
			out,
		)

	case "webm":
		out := filepath.Join(dir, "output.webm")
		return out, "video/webm", h.runFfmpeg(ctx,
			"-framerate", rate,
			"-i", input,
			"-c:v", "libvpx-vp9",
			"-crf", "30",
			"-b:v", "0",
			"-pix_fmt", "yuva420p",
			out,
		)
	}
	return "", "", fmt.Errorf("unsupported format %q", format)
}

func (h *Handler) runFfmpeg(ctx context.Context, args ...string) error {
	// -y overwrites output without prompting
	fullArgs := append([]string{"-y"}, args...)
	cmd := exec.CommandContext(ctx, h.ffmpegPath, fullArgs...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%v: %s", err, stderr.String())
	}
	return nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
