package storeclient

import (
	"time"

	"github.com/vmunix/marquee/internal/movie"
)

// API response types (mirror server types)

// ListResponse is the body of GET /api/v1/movies.
type ListResponse struct {
	Movies      []movie.Movie `json:"movies"`
	DataVersion string        `json:"data_version"`
	TotalCount  int           `json:"total_count"`
}

// SyncResult is the body of POST /api/v1/sync.
type SyncResult struct {
	Discovered int       `json:"discovered"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	Duration   string    `json:"duration"`
}

// StatusResponse is the body of GET /api/v1/status.
type StatusResponse struct {
	Status      string      `json:"status"`
	Version     string      `json:"version"`
	Movies      int         `json:"movies"`
	DataVersion string      `json:"data_version"`
	SyncEnabled bool        `json:"sync_enabled"`
	LastSync    *SyncResult `json:"last_sync,omitempty"`
}

// PeopleResponse is the body of GET /api/v1/people.
type PeopleResponse struct {
	People []movie.Person `json:"people"`
}

// BackfillResult is the body of POST /api/v1/people/backfill.
type BackfillResult struct {
	TotalMovies int  `json:"total_movies"`
	Processed   int  `json:"processed"`
	Succeeded   int  `json:"succeeded"`
	Failed      int  `json:"failed"`
	NextOffset  int  `json:"next_offset"`
	Done        bool `json:"done"`
}
