package v1

//go:generate mockgen -source=deps.go -destination=mocks/deps.go -package=mocks

import (
	"context"
	"errors"

	"github.com/vmunix/marquee/internal/catalog"
	"github.com/vmunix/marquee/internal/ingest"
	"github.com/vmunix/marquee/internal/movie"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Catalog is the read side of the movie catalog.
type Catalog interface {
	Snapshot(ctx context.Context) (movie.Collection, int, error)
	DataVersion(ctx context.Context) (movie.VersionInfo, error)
	Get(ctx context.Context, id int64) (*catalog.Movie, error)
	GetByTMDBID(ctx context.Context, tmdbID int64) (*catalog.Movie, error)
	GetPeopleByTMDBIDs(ctx context.Context, ids []int64) ([]*catalog.Person, error)
}

// Syncer runs catalog ingestion on demand.
type Syncer interface {
	Run(ctx context.Context) (*ingest.Result, error)
	Backfill(ctx context.Context, offset, limit int) (*ingest.BackfillResult, error)
	Last() *ingest.Result
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required
	Catalog Catalog

	// Optional (nil if TMDB sync is not configured)
	Syncer Syncer
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.New("catalog is required")
	}
	return nil
}
