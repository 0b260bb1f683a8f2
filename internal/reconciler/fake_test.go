package reconciler_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/vmunix/marquee/internal/movie"
	"github.com/vmunix/marquee/internal/moviecache"
	"github.com/vmunix/marquee/internal/reconciler"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pendingCall is a network call the test resolves by hand.
type pendingCall struct {
	token string
	col   movie.Collection
	err   error
	done  chan struct{}
}

func (p *pendingCall) resolveToken(token string) {
	p.token = token
	close(p.done)
}

func (p *pendingCall) resolveCollection(movies []movie.Movie, version string) {
	p.col = movie.Collection{Movies: movies, DataVersion: version}
	close(p.done)
}

func (p *pendingCall) fail(err error) {
	p.err = err
	close(p.done)
}

// deferredSource blocks every call until the test resolves it.
type deferredSource struct {
	versions chan *pendingCall
	fetches  chan *pendingCall

	mu         sync.Mutex
	fetchCount int
}

func newDeferredSource() *deferredSource {
	return &deferredSource{
		versions: make(chan *pendingCall, 16),
		fetches:  make(chan *pendingCall, 16),
	}
}

func (d *deferredSource) FetchVersionToken(ctx context.Context) (string, error) {
	p := &pendingCall{done: make(chan struct{})}
	d.versions <- p
	<-p.done
	return p.token, p.err
}

func (d *deferredSource) FetchCollection(ctx context.Context) (movie.Collection, error) {
	d.mu.Lock()
	d.fetchCount++
	d.mu.Unlock()
	p := &pendingCall{done: make(chan struct{})}
	d.fetches <- p
	<-p.done
	return p.col, p.err
}

func (d *deferredSource) fetchCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fetchCount
}

func nextCall(t *testing.T, ch <-chan *pendingCall) *pendingCall {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for network call")
		return nil
	}
}

func noCall(t *testing.T, ch <-chan *pendingCall) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("unexpected network call")
	case <-time.After(50 * time.Millisecond):
	}
}

// recorder collects published states.
type recorder struct {
	mu     sync.Mutex
	states []reconciler.State
}

func (r *recorder) record(s reconciler.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) all() []reconciler.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]reconciler.State(nil), r.states...)
}

func seededCache(t *testing.T, movies []movie.Movie, version string) *moviecache.Adapter {
	t.Helper()
	c := moviecache.NewMemory(testLogger())
	c.Write(moviecache.Envelope{Movies: movies, DataVersion: version})
	return c
}

var (
	cachedMovies = []movie.Movie{
		{ID: 1, TMDBID: 550, Title: "Fight Club", Genres: []string{"Drama"}},
	}
	freshMovies = []movie.Movie{
		{ID: 1, TMDBID: 550, Title: "Fight Club", Genres: []string{"Drama"}},
		{ID: 2, TMDBID: 603, Title: "The Matrix", Genres: []string{"Action"}},
	}
	newestMovies = []movie.Movie{
		{ID: 3, TMDBID: 13, Title: "Forrest Gump", Genres: []string{"Comedy", "Drama"}},
	}
)
