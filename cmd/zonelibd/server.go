package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/zonelib/zonelib/internal/api"
	"github.com/zonelib/zonelib/internal/config"
	"github.com/zonelib/zonelib/internal/fetch"
	"github.com/zonelib/zonelib/internal/history"
	"github.com/zonelib/zonelib/internal/ingest"
	"github.com/zonelib/zonelib/internal/library"
	"github.com/zonelib/zonelib/internal/probe"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	// Load config
	if configPath == "" {
		discovered, err := config.Discover()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		configPath = discovered
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure media, dump, and data directories exist
	for _, dir := range []string{
		cfg.Library.MediaPath,
		filepath.Join(cfg.Library.MediaPath, "dump"),
		filepath.Dir(cfg.Library.DataPath),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	// === Store (always created) ===
	store, err := library.NewStore(library.NewFileAdapter(cfg.Library.DataPath))
	if err != nil {
		return fmt.Errorf("load library: %w", err)
	}

	// === Services ===
	prober := probe.NewFFprobe(cfg.Tools.FFprobe)
	ingestor := ingest.New(store, prober, cfg.Library.MediaPath, logger)
	fetcher := fetch.NewYTDLP(cfg.Tools.YTDLP, cfg.Library.MediaPath, logger)

	// History log (optional - nil if not configured)
	var histLog *history.Log
	if cfg.History.Path != "" {
		histLog, err = history.Open(cfg.History.Path, logger)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer func() { _ = histLog.Close() }()
	}

	// === HTTP Setup ===
	mux := http.NewServeMux()

	apiSrv := api.New(store, ingestor, api.Config{
		Password:     cfg.Auth.Password,
		PublicPrefix: cfg.Library.PublicPrefix,
		UploadLimit:  cfg.UploadLimitBytes(),
	}, logger)
	apiSrv.SetFetcher(fetcher)
	if histLog != nil {
		apiSrv.SetHistory(histLog)
	}
	apiSrv.RegisterRoutes(mux)

	// Serve the managed media files under the public prefix
	prefix := strings.TrimSuffix(cfg.Library.PublicPrefix, "/")
	mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix+"/",
		http.FileServer(http.Dir(cfg.Library.MediaPath))))

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"media", cfg.Library.MediaPath,
		"data", cfg.Library.DataPath,
		"history", histLog != nil,
		"upload_limit", cfg.UploadLimitBytes(),
		"log_level", cfg.Server.LogLevel,
	)

	// === HTTP Server ===
	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	// Graceful HTTP shutdown with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	// Final flush so the on-disk document matches memory
	if err := store.Flush(); err != nil {
		logger.Error("final flush failed", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
