package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	v1 "github.com/vmunix/marquee/internal/api/v1"
	"github.com/vmunix/marquee/internal/catalog"
	"github.com/vmunix/marquee/internal/config"
	"github.com/vmunix/marquee/internal/ingest"
	"github.com/vmunix/marquee/internal/server"
	"github.com/vmunix/marquee/internal/tmdb"
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
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(wrapped, r)
		status := wrapped.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}

// buildSyncer returns nil when sync is disabled.
func buildSyncer(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *ingest.Importer {
	if !cfg.Sync.Enabled {
		return nil
	}
	client := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithCacheTTL(cfg.TMDB.CacheTTL),
		tmdb.WithLogger(logger.With("component", "tmdb")),
	)
	return ingest.New(client, store, ingest.Config{
		Lists:       cfg.Sync.Lists,
		Pages:       cfg.Sync.Pages,
		Concurrency: cfg.Sync.Concurrency,
	}, logger.With("component", "ingest"))
}

// buildHandler wires the API over the catalog. syncer may be nil.
func buildHandler(store *catalog.Store, syncer *ingest.Importer, logger *slog.Logger) (http.Handler, error) {
	deps := v1.ServerDeps{Catalog: store}
	if syncer != nil {
		deps.Syncer = syncer
	}
	api, err := v1.New(deps, v1.Config{Version: version}, logger.With("component", "api"))
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return logRequests(mux, logger.With("component", "http")), nil
}

func runServer(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return serve(context.Background(), cfg, os.Stdout)
}

func serve(ctx context.Context, cfg *config.Config, out io.Writer) error {
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	db, err := catalog.OpenDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	store := catalog.NewStore(db)

	syncer := buildSyncer(cfg, store, logger)
	handler, err := buildHandler(store, syncer, logger)
	if err != nil {
		return err
	}

	runnerCfg := server.Config{Addr: cfg.Server.Addr()}
	var runnerSyncer server.Syncer
	if syncer != nil {
		runnerSyncer = syncer
		runnerCfg.SyncInterval = cfg.Sync.Interval
		runnerCfg.SyncOnStart = true
	}

	logger.Info("server starting",
		"addr", runnerCfg.Addr,
		"database", cfg.Database.Path,
		"sync", syncer != nil,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := server.NewRunner(handler, runnerSyncer, runnerCfg, logger)
	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
