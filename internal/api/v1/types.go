package v1

import (
	"github.com/vmunix/marquee/internal/ingest"
	"github.com/vmunix/marquee/internal/movie"
)

// listMoviesResponse is the response for GET /movies.
type listMoviesResponse struct {
	Movies      []movie.Movie `json:"movies"`
	DataVersion string        `json:"data_version"`
	TotalCount  int           `json:"total_count"`
}

// statusResponse is the response for GET /status.
type statusResponse struct {
	Status      string         `json:"status"`
	Version     string         `json:"version"`
	Movies      int            `json:"movies"`
	DataVersion string         `json:"data_version"`
	SyncEnabled bool           `json:"sync_enabled"`
	LastSync    *ingest.Result `json:"last_sync,omitempty"`
}

// peopleResponse is the response for GET /people.
type peopleResponse struct {
	People []movie.Person `json:"people"`
}
