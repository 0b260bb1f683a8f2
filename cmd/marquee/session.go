package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vmunix/marquee/internal/bootstrap"
	"github.com/vmunix/marquee/internal/moviecache"
	"github.com/vmunix/marquee/internal/provider"
	"github.com/vmunix/marquee/internal/storeclient"
)

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newClient() *storeclient.Client {
	return storeclient.New(serverURL, storeclient.WithTimeout(timeout))
}

// openCache opens the local cache and runs the format check on it.
func openCache(log *slog.Logger) (*moviecache.Adapter, *bootstrap.Bootstrap, error) {
	cache, err := moviecache.Open(moviecache.Options{
		Path:   cachePath,
		Logger: log.With("component", "moviecache"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	boot := bootstrap.New(cache, moviecache.SchemaVersion, log.With("component", "bootstrap"))
	boot.Ensure()
	return cache, boot, nil
}

// session is one movie list provider over the local cache and the server.
type session struct {
	cache    *moviecache.Adapter
	client   *storeclient.Client
	provider *provider.Provider
}

func openSession(cmd *cobra.Command) (*session, error) {
	log := newLogger(cmd.ErrOrStderr())
	cache, _, err := openCache(log)
	if err != nil {
		return nil, err
	}
	client := newClient()
	return &session{
		cache:    cache,
		client:   client,
		provider: provider.New(cache, client, log.With("component", "provider")),
	}, nil
}

// Close ends the session. Results arriving after Close are dropped.
func (s *session) Close() {
	s.provider.Close()
	_ = s.cache.Close()
}
