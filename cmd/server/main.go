package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/graphica/graphica/internal/asset"
	"github.com/graphica/graphica/internal/config"
	"github.com/graphica/graphica/internal/demo"
	"github.com/graphica/graphica/internal/export"
	"github.com/graphica/graphica/internal/glyph"
	"github.com/graphica/graphica/internal/live"
	mw "github.com/graphica/graphica/internal/middleware"
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

	assetHandler := asset.NewHandler(cfg.AssetDir)
	exportHandler := export.NewHandler(cfg.FfmpegPath, cfg.SnapshotWidth, cfg.SnapshotHeight, cfg.VideoSeconds, assetHandler)
	sessions := live.NewManager(cfg.TickRate,
		live.WithOrigins(cfg.OriginHosts()),
		live.WithIdleTimeout(cfg.IdleTimeout),
		live.WithAssets(assetHandler.Path),
	)

	r := newRouter(cfg, assetHandler, exportHandler, sessions)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server", "live_sessions", sessions.Count())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "demos", demo.Names())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newRouter(cfg *config.Config, assets *asset.Handler, exports *export.Handler, sessions *live.Manager) *mux.Router {
	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"status": "ok", "liveSessions": sessions.Count()})
	}).Methods("GET")

	r.HandleFunc("/demos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(demo.All())
	}).Methods("GET")

	r.HandleFunc("/snapshot/{demo}.png", exports.Snapshot).Methods("GET")
	r.HandleFunc("/export/video", exports.ExportVideo).Methods("POST", "OPTIONS")

	r.HandleFunc("/assets/upload", assets.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assets.Serve()).Methods("GET")

	r.Handle("/ws/live/{demo}", sessions)
	return r
}
