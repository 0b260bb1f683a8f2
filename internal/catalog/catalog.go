// Package catalog is the authoritative movie store behind the REST API.
package catalog

import (
	"time"

	"github.com/vmunix/marquee/internal/movie"
)

// Movie is a full catalog record.
type Movie struct {
	ID                    int64
	TMDBID                int64
	IMDBID                string
	Title                 string
	OriginalTitle         string
	Overview              string
	Tagline               string
	Status                string
	ReleaseDate           string
	RuntimeMinutes        int
	PosterPath            string
	BackdropPath          string
	Genres                []string
	Rating                float64
	VoteCount             int
	Popularity            float64
	Budget                int64
	Revenue               int64
	ScreenshotURLTemplate string
	ScreenshotIDs         []string
	// TMDB person ids in billing order.
	Cast      []int64
	Directors []int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
	ImportedAt            time.Time
}

// ListItem projects the record onto the fields clients cache.
func (m *Movie) ListItem() movie.Movie {
	return movie.Movie{
		ID:                    m.ID,
		TMDBID:                m.TMDBID,
		Title:                 m.Title,
		PosterPath:            m.PosterPath,
		BackdropPath:          m.BackdropPath,
		ReleaseDate:           m.ReleaseDate,
		Genres:                nonNil(m.Genres),
		Rating:                m.Rating,
		RuntimeMinutes:        m.RuntimeMinutes,
		ScreenshotURLTemplate: m.ScreenshotURLTemplate,
		ScreenshotIDs:         nonNil(m.ScreenshotIDs),
	}
}

// stampLayout is fixed width and always UTC so stamps compare lexically in
// the same order as chronologically.
const stampLayout = "2006-01-02T15:04:05.000000000Z"

func formatStamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

func parseStamp(s string) (time.Time, error) {
	return time.Parse(stampLayout, s)
}

// Detail projects the record onto the single-movie API view.
func (m *Movie) Detail() movie.Detail {
	return movie.Detail{
		Movie:         m.ListItem(),
		IMDBID:        m.IMDBID,
		OriginalTitle: m.OriginalTitle,
		Overview:      m.Overview,
		Tagline:       m.Tagline,
		Status:        m.Status,
		VoteCount:     m.VoteCount,
		Popularity:    m.Popularity,
		Budget:        m.Budget,
		Revenue:       m.Revenue,
		Directors:     nonNil(m.Directors),
		Cast:          nonNil(m.Cast),
		UpdatedAt:     m.UpdatedAt,
	}
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
