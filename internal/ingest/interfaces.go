package ingest

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

import (
	"context"

	"github.com/vmunix/marquee/internal/catalog"
	"github.com/vmunix/marquee/internal/tmdb"
)

// MetadataClient fetches movie data from TMDB.
type MetadataClient interface {
	GetMovie(ctx context.Context, tmdbID int64) (*tmdb.Movie, error)
	PopularMovieIDs(ctx context.Context, page int) (*tmdb.IDPage, error)
	TopRatedMovieIDs(ctx context.Context, page int) (*tmdb.IDPage, error)
}

// Store persists imported movies and the people credited on them.
type Store interface {
	Upsert(ctx context.Context, rec *catalog.Movie) (bool, error)
	UpsertPeople(ctx context.Context, people []*catalog.Person) (int, error)
	TMDBIDs(ctx context.Context) ([]int64, error)
}
