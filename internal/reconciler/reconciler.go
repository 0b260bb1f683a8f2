// Package reconciler decides whether the locally cached movie list can be
// trusted and fetches a fresh one when it cannot.
//
// A session starts by serving the cache synchronously, then compares the
// cached data version with the server's. Fresh data replaces the served
// list and is written back to the cache. Network failures set the error
// flag but never remove data that is already being served.
package reconciler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vmunix/marquee/internal/movie"
	"github.com/vmunix/marquee/internal/moviecache"
)

// Reconciler runs the cache/version/fetch state machine for one consumer
// tree. All state changes are serialized.
type Reconciler struct {
	cache    Cache
	source   Source
	log      *slog.Logger
	onChange func(State)

	mu    sync.Mutex
	state State
	// active is false before Start and after Deactivate; results that land
	// while inactive are dropped.
	active bool
	// epoch identifies the current run; version check results from an
	// earlier run are ignored.
	epoch    uint64
	checking bool
	// fetchSeq is the sequence number of the most recently requested
	// collection fetch. Only that fetch may commit.
	fetchSeq uint64
	fetching bool
	// applied is the data version of the movies currently served.
	applied string

	wg sync.WaitGroup
}

// New creates a reconciler. onChange, if set, receives every published
// state in order. It is called with the reconciler's lock held and must not
// call back into the reconciler.
func New(cache Cache, source Source, onChange func(State), logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		cache:    cache,
		source:   source,
		log:      logger,
		onChange: onChange,
		state:    State{Phase: PhaseInit},
	}
}

// State returns the current state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start begins a session. The cache is consulted before Start returns, so a
// cached list is visible immediately; the network work continues in the
// background using ctx.
//
// If a collection fetch from an earlier session is still in flight, Start
// does not issue another one and the in-flight result is applied when it
// arrives.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = true
	r.runLocked(ctx, false)
}

// ForceRefresh clears the cache and fetches the collection unconditionally,
// even if the data version has not changed. Movies already on screen stay
// visible, marked as loading and no longer cached, until the new result
// commits; if the fetch fails they remain with Error set. It may overlap a
// fetch already in flight; the newer request wins.
func (r *Reconciler) ForceRefresh(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = true
	r.log.Info("force refresh")
	r.cache.Clear()
	r.runLocked(ctx, true)
}

// Retry reruns the session like ForceRefresh but keeps the cache. It is
// ignored while a collection fetch is in flight.
func (r *Reconciler) Retry(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetching {
		r.log.Debug("retry ignored, fetch in flight")
		return
	}
	r.active = true
	r.runLocked(ctx, true)
}

// Deactivate stops applying results. In-flight requests are left to finish
// and their results are discarded.
func (r *Reconciler) Deactivate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
}

// Wait blocks until every background request has returned.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}

// runLocked performs INIT and CACHE_CHECK synchronously and schedules the
// network step. force skips the version comparison.
func (r *Reconciler) runLocked(ctx context.Context, force bool) {
	prev := r.state
	r.epoch++
	r.checking = false
	r.applied = ""
	r.state = State{Phase: PhaseInit, IsLoading: true, Revision: r.state.Revision}
	r.state.Phase = PhaseCacheCheck

	env := r.cache.Read()
	if env != nil {
		movies := env.Movies
		if movies == nil {
			movies = []movie.Movie{}
		}
		r.applied = env.DataVersion
		r.publish(State{
			Movies:       movies,
			IsUsingCache: true,
			Phase:        PhaseServingCache,
			DataVersion:  env.DataVersion,
		})
		r.log.Debug("serving cached movies", "count", len(movies), "data_version", env.DataVersion)
	} else if force && prev.HasData() {
		// applied stays empty so the forced result always replaces these
		r.state.Movies = prev.Movies
		r.state.DataVersion = prev.DataVersion
		r.log.Debug("no usable cache, keeping movies on screen until refetched", "count", len(prev.Movies))
	} else {
		r.publish(State{
			IsLoading: true,
			Phase:     PhaseServingEmpty,
		})
		r.log.Debug("no usable cache")
	}

	switch {
	case force:
		r.startFetchLocked(ctx, env == nil)
	case r.fetching:
		r.log.Debug("fetch already in flight, waiting for it")
		r.transition(func(s *State) {
			s.Phase = PhaseRefetching
			s.Pending = true
		})
	case env != nil && env.DataVersion != "":
		r.startVersionCheckLocked(ctx)
	default:
		// no cached version to compare against
		r.startFetchLocked(ctx, false)
	}
}

func (r *Reconciler) startVersionCheckLocked(ctx context.Context) {
	epoch := r.epoch
	r.checking = true
	r.transition(func(s *State) {
		s.Phase = PhaseVersionCheck
		s.Pending = true
	})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		token, err := r.source.FetchVersionToken(ctx)
		r.finishVersionCheck(ctx, epoch, token, err)
	}()
}

func (r *Reconciler) finishVersionCheck(ctx context.Context, epoch uint64, token string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if epoch != r.epoch {
		return
	}
	r.checking = false
	if !r.active {
		return
	}

	if err != nil {
		r.log.Warn("version check failed, keeping cached movies", "error", err)
		r.transition(func(s *State) {
			s.Error = true
			s.Phase = PhaseServingCache
			s.Pending = r.fetching
		})
		return
	}

	if token == r.applied {
		r.log.Debug("cache is fresh", "data_version", token)
		r.transition(func(s *State) {
			s.Phase = PhaseConfirmedFresh
			s.Pending = r.fetching
		})
		return
	}

	if r.fetching {
		r.log.Debug("cache stale, fetch already in flight", "cached", r.applied, "current", token)
		r.transition(func(s *State) { s.Phase = PhaseRefetching })
		return
	}
	r.log.Info("cache stale, fetching", "cached", r.applied, "current", token)
	r.startFetchLocked(ctx, false)
}

// startFetchLocked issues a collection fetch. reload marks the movies on
// screen, if any, as loading until the result arrives.
func (r *Reconciler) startFetchLocked(ctx context.Context, reload bool) {
	r.fetchSeq++
	seq := r.fetchSeq
	r.fetching = true
	r.transition(func(s *State) {
		s.Phase = PhaseRefetching
		s.Pending = true
		s.IsLoading = s.Movies == nil || reload
	})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		col, err := r.source.FetchCollection(ctx)
		r.finishFetch(seq, col, err)
	}()
}

func (r *Reconciler) finishFetch(seq uint64, col movie.Collection, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.fetchSeq {
		r.log.Debug("discarding superseded fetch", "seq", seq, "latest", r.fetchSeq)
		return
	}
	r.fetching = false
	if !r.active {
		return
	}

	if err != nil {
		r.log.Warn("fetch movies failed", "error", err, "serving", r.state.HasData())
		r.transition(func(s *State) {
			s.Error = true
			s.IsLoading = false
			s.Pending = r.checking
			switch {
			case !s.HasData():
				s.Phase = PhaseServingEmpty
			case s.IsUsingCache:
				s.Phase = PhaseServingCache
			default:
				s.Phase = PhaseServingFresh
			}
		})
		return
	}

	if r.state.HasData() && col.DataVersion == r.applied {
		r.log.Debug("fetched data already applied", "data_version", col.DataVersion)
		r.transition(func(s *State) {
			s.Pending = r.checking
			if s.IsUsingCache {
				s.Phase = PhaseConfirmedFresh
			} else {
				s.Phase = PhaseServingFresh
			}
		})
		return
	}

	movies := col.Movies
	if movies == nil {
		movies = []movie.Movie{}
	}
	r.applied = col.DataVersion
	r.publish(State{
		Movies:      movies,
		Phase:       PhaseServingFresh,
		DataVersion: col.DataVersion,
		Pending:     r.checking,
	})
	r.cache.Write(moviecache.Envelope{Movies: movies, DataVersion: col.DataVersion})
	r.log.Info("movies refreshed", "count", len(movies), "data_version", col.DataVersion)
}

// transition applies fn to a copy of the current state and publishes it.
func (r *Reconciler) transition(fn func(s *State)) {
	next := r.state
	fn(&next)
	r.publish(next)
}

func (r *Reconciler) publish(next State) {
	next.Revision = r.state.Revision + 1
	r.state = next
	if r.onChange != nil {
		r.onChange(next)
	}
}
