// Package server runs the daemon's long-lived components.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/marquee/internal/ingest"
)

const defaultShutdownTimeout = 30 * time.Second

// Syncer imports movies into the catalog.
type Syncer interface {
	Run(ctx context.Context) (*ingest.Result, error)
}

// Config for the runner.
type Config struct {
	Addr string
	// SyncInterval between periodic imports. Zero disables the loop.
	SyncInterval time.Duration
	// SyncOnStart runs one import as soon as the loop starts.
	SyncOnStart     bool
	ShutdownTimeout time.Duration
}

// Runner manages the HTTP server and the periodic sync loop.
type Runner struct {
	handler http.Handler
	syncer  Syncer // nil disables sync
	config  Config
	logger  *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(handler http.Handler, syncer Syncer, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Runner{
		handler: handler,
		syncer:  syncer,
		config:  cfg,
		logger:  logger,
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return r.Serve(ctx, ln)
}

// Serve runs all components on ln. It blocks until ctx is canceled or a
// component fails, then shuts the HTTP server down gracefully. A clean
// shutdown returns nil.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		r.logger.Info("http server stopped")
		return nil
	})

	if r.syncer != nil && r.config.SyncInterval > 0 {
		g.Go(func() error {
			r.syncLoop(ctx)
			return nil
		})
	}

	return g.Wait()
}

func (r *Runner) syncLoop(ctx context.Context) {
	log := r.logger.With("component", "sync")
	ticker := time.NewTicker(r.config.SyncInterval)
	defer ticker.Stop()

	log.Info("sync loop started", "interval", r.config.SyncInterval.String())
	if r.config.SyncOnStart {
		r.syncOnce(ctx, log)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("sync loop stopped")
			return
		case <-ticker.C:
			r.syncOnce(ctx, log)
		}
	}
}

func (r *Runner) syncOnce(ctx context.Context, log *slog.Logger) {
	res, err := r.syncer.Run(ctx)
	switch {
	case errors.Is(err, ingest.ErrInProgress):
		log.Debug("sync skipped, already running")
	case ctx.Err() != nil:
		// shutting down
	case err != nil:
		log.Error("sync failed", "error", err)
	default:
		log.Debug("sync finished", "created", res.Created, "updated", res.Updated, "failed", res.Failed)
	}
}
