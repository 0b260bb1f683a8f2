// Package ingest populates the catalog from TMDB movie lists.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/marquee/internal/tmdb"
)

// Movie lists an import can draw from.
const (
	ListPopular  = "popular"
	ListTopRated = "top_rated"
)

const (
	defaultPages         = 1
	defaultConcurrency   = 4
	defaultBackfillLimit = 50
)

// Config for the importer.
type Config struct {
	Lists       []string // ListPopular, ListTopRated
	Pages       int      // pages per list
	Concurrency int      // parallel detail fetches
}

// Result summarises one import run.
type Result struct {
	Discovered int           `json:"discovered"`
	Created    int           `json:"created"`
	Updated    int           `json:"updated"`
	Failed     int           `json:"failed"`
	StartedAt  time.Time     `json:"started_at"`
	Elapsed    time.Duration `json:"-"`
	Duration   string        `json:"duration"`
}

// BackfillResult reports one batch of re-imports over existing movies.
type BackfillResult struct {
	TotalMovies int  `json:"total_movies"`
	Processed   int  `json:"processed"`
	Succeeded   int  `json:"succeeded"`
	Failed      int  `json:"failed"`
	NextOffset  int  `json:"next_offset"`
	Done        bool `json:"done"`
}

// Importer fetches movie details from TMDB and upserts them.
type Importer struct {
	client MetadataClient
	store  Store
	cfg    Config
	log    *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	running bool
	last    *Result
}

// New creates a new importer.
func New(client MetadataClient, store Store, cfg Config, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Lists) == 0 {
		cfg.Lists = []string{ListPopular}
	}
	if cfg.Pages <= 0 {
		cfg.Pages = defaultPages
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Importer{
		client: client,
		store:  store,
		cfg:    cfg,
		log:    logger,
		now:    time.Now,
	}
}

// Last returns the result of the most recent completed run, or nil.
func (i *Importer) Last() *Result {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.last == nil {
		return nil
	}
	r := *i.last
	return &r
}

// Run collects ids from the configured lists and imports each movie.
// Failures on individual movies are counted, not returned. Only one run may
// be active at a time.
func (i *Importer) Run(ctx context.Context) (*Result, error) {
	if !i.begin() {
		return nil, ErrInProgress
	}
	defer i.end()

	started := i.now()
	ids, err := i.collectIDs(ctx)
	if err != nil {
		return nil, err
	}

	res := i.importIDs(ctx, ids)
	res.StartedAt = started
	res.Elapsed = i.now().Sub(started)
	res.Duration = res.Elapsed.Round(time.Millisecond).String()

	i.mu.Lock()
	last := *res
	i.last = &last
	i.mu.Unlock()

	i.log.Info("import complete",
		"discovered", res.Discovered,
		"created", res.Created,
		"updated", res.Updated,
		"failed", res.Failed,
		"duration", res.Duration)
	return res, ctx.Err()
}

// ImportIDs imports the given TMDB ids without consulting any list.
func (i *Importer) ImportIDs(ctx context.Context, ids []int64) (*Result, error) {
	if !i.begin() {
		return nil, ErrInProgress
	}
	defer i.end()
	res := i.importIDs(ctx, dedupe(ids))
	return res, ctx.Err()
}

// Backfill re-imports up to limit catalog movies starting at offset, in
// catalog order, refreshing their credits and people. Callers page through
// the catalog with NextOffset until Done. A non-positive limit means 50.
func (i *Importer) Backfill(ctx context.Context, offset, limit int) (*BackfillResult, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset %d", ErrInvalidRange, offset)
	}
	if limit <= 0 {
		limit = defaultBackfillLimit
	}
	if !i.begin() {
		return nil, ErrInProgress
	}
	defer i.end()

	all, err := i.store.TMDBIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	start := min(offset, len(all))
	end := min(start+limit, len(all))
	batch := all[start:end]

	res := i.importIDs(ctx, batch)
	out := &BackfillResult{
		TotalMovies: len(all),
		Processed:   len(batch),
		Succeeded:   res.Created + res.Updated,
		Failed:      res.Failed,
		NextOffset:  end,
		Done:        end >= len(all),
	}
	i.log.Info("backfill batch complete",
		"offset", offset,
		"processed", out.Processed,
		"failed", out.Failed,
		"total", out.TotalMovies)
	return out, ctx.Err()
}

func (i *Importer) begin() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running {
		return false
	}
	i.running = true
	return true
}

func (i *Importer) end() {
	i.mu.Lock()
	i.running = false
	i.mu.Unlock()
}

// collectIDs walks every configured list page. Page failures are logged;
// the run fails only if no page could be read.
func (i *Importer) collectIDs(ctx context.Context) ([]int64, error) {
	var (
		ids      []int64
		firstErr error
		okPages  int
	)
	for _, list := range i.cfg.Lists {
		fetch, err := i.lister(list)
		if err != nil {
			return nil, err
		}
		for p := 1; p <= i.cfg.Pages; p++ {
			page, err := fetch(ctx, p)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				i.log.Warn("list page failed", "list", list, "page", p, "error", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			okPages++
			ids = append(ids, page.IDs...)
			if page.TotalPages > 0 && p >= page.TotalPages {
				break
			}
		}
	}
	if okPages == 0 && firstErr != nil {
		return nil, fmt.Errorf("collect movie ids: %w", firstErr)
	}
	return dedupe(ids), nil
}

func (i *Importer) lister(list string) (func(context.Context, int) (*tmdb.IDPage, error), error) {
	switch list {
	case ListPopular:
		return func(ctx context.Context, p int) (*tmdb.IDPage, error) { return i.client.PopularMovieIDs(ctx, p) }, nil
	case ListTopRated:
		return func(ctx context.Context, p int) (*tmdb.IDPage, error) { return i.client.TopRatedMovieIDs(ctx, p) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
}

func (i *Importer) importIDs(ctx context.Context, ids []int64) *Result {
	res := &Result{Discovered: len(ids)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.cfg.Concurrency)
	for _, id := range ids {
		g.Go(func() error {
			created, err := i.importOne(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Failed++
				i.log.Warn("import movie failed", "tmdb_id", id, "error", err)
			case created:
				res.Created++
			default:
				res.Updated++
			}
			// per-movie errors never cancel the group
			return nil
		})
	}
	_ = g.Wait()
	return res
}

func (i *Importer) importOne(ctx context.Context, tmdbID int64) (bool, error) {
	details, err := i.client.GetMovie(ctx, tmdbID)
	if err != nil {
		return false, fmt.Errorf("fetch details: %w", err)
	}
	rec := Normalize(details, i.now())
	created, err := i.store.Upsert(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("save: %w", err)
	}
	if people := People(details); len(people) > 0 {
		// the movie itself is saved; missing names only degrade display
		if _, err := i.store.UpsertPeople(ctx, people); err != nil {
			i.log.Warn("save people failed", "tmdb_id", tmdbID, "error", err)
		}
	}
	i.log.Debug("movie imported", "tmdb_id", tmdbID, "title", rec.Title, "created", created)
	return created, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
