package reconciler

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

import (
	"context"

	"github.com/vmunix/marquee/internal/movie"
	"github.com/vmunix/marquee/internal/moviecache"
)

// Cache is the local snapshot store. Implementations swallow their own
// storage errors.
type Cache interface {
	Read() *moviecache.Envelope
	Write(env moviecache.Envelope)
	Clear()
}

// Source is the authoritative movie store.
type Source interface {
	FetchVersionToken(ctx context.Context) (string, error)
	FetchCollection(ctx context.Context) (movie.Collection, error)
}
