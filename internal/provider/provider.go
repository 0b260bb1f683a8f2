// Package provider shares one movie list session between any number of
// consumers.
package provider

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vmunix/marquee/internal/reconciler"
)

// State is the movie list as consumers see it.
type State = reconciler.State

// Provider owns a reconciler and fans its state out to subscribers.
type Provider struct {
	rec *reconciler.Reconciler
	log *slog.Logger

	mu      sync.Mutex // guards mounted
	mounted bool

	subMu  sync.RWMutex
	subs   []*Subscription
	closed bool
}

// New creates a provider. Nothing happens until Mount.
func New(cache reconciler.Cache, source reconciler.Source, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Provider{log: logger}
	p.rec = reconciler.New(cache, source, p.broadcast, logger)
	return p
}

// Mount starts a session. When a cached list exists it is available from
// MovieList as soon as Mount returns. Mounting an already mounted provider
// does nothing.
func (p *Provider) Mount(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mounted {
		return
	}
	p.mounted = true
	p.rec.Start(ctx)
}

// Unmount stops applying results to the shared state. Requests in flight are
// not cancelled.
func (p *Provider) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return
	}
	p.mounted = false
	p.rec.Deactivate()
}

// Mounted reports whether a session is active.
func (p *Provider) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// MovieList returns the current state.
func (p *Provider) MovieList() State {
	return p.rec.State()
}

// ForceRefresh discards the cache and reloads the list from the server,
// mounting the provider if needed.
func (p *Provider) ForceRefresh(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mounted = true
	p.rec.ForceRefresh(ctx)
}

// Retry reloads the list without discarding the cache. Ignored while a load
// is already running.
func (p *Provider) Retry(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mounted = true
	p.rec.Retry(ctx)
}

// WaitSettled blocks until no request is pending and returns that state.
func (p *Provider) WaitSettled(ctx context.Context) (State, error) {
	sub := p.Subscribe(1)
	defer sub.Close()

	st := p.MovieList()
	for st.Pending {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case next, ok := <-sub.C():
			if !ok {
				return p.MovieList(), nil
			}
			if next.Revision > st.Revision {
				st = next
			}
		}
	}
	return st, nil
}

// Close unmounts, waits for background requests and closes every
// subscription.
func (p *Provider) Close() {
	p.Unmount()
	p.rec.Wait()

	p.subMu.Lock()
	defer p.subMu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, s := range p.subs {
		close(s.ch)
	}
	p.subs = nil
}
