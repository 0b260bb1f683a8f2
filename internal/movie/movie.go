// Package movie defines the movie records shared by the catalog API and the
// client-side cache.
package movie

import (
	"strconv"
	"strings"
	"time"
)

// Movie is the list-level view of a catalog record.
type Movie struct {
	ID                    int64    `json:"id"`
	TMDBID                int64    `json:"tmdb_id"`
	Title                 string   `json:"title"`
	PosterPath            string   `json:"poster_path,omitempty"`   // "/abc123.jpg"
	BackdropPath          string   `json:"backdrop_path,omitempty"` // "/def456.jpg"
	ReleaseDate           string   `json:"release_date,omitempty"`  // "2024-03-01"
	Genres                []string `json:"genres"`
	Rating                float64  `json:"rating"`
	RuntimeMinutes        int      `json:"runtime_minutes"`
	ScreenshotURLTemplate string   `json:"screenshot_url_template,omitempty"`
	ScreenshotIDs         []string `json:"screenshot_ids"`
}

// Detail is a single movie with the fields the list view omits.
type Detail struct {
	Movie
	IMDBID        string    `json:"imdb_id,omitempty"`
	OriginalTitle string    `json:"original_title,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	Tagline       string    `json:"tagline,omitempty"`
	Status        string    `json:"status,omitempty"`
	VoteCount     int       `json:"vote_count"`
	Popularity    float64   `json:"popularity"`
	Budget        int64     `json:"budget,omitempty"`
	Revenue       int64     `json:"revenue,omitempty"`
	// Directors and Cast hold TMDB person ids in billing order. Cast is
	// capped at the top-billed actors.
	Directors []int64   `json:"directors"`
	Cast      []int64   `json:"cast"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Person is someone credited on a movie, keyed by TMDB person id.
// Character is the role from the most recent import that credited them.
type Person struct {
	TMDBPersonID int64     `json:"tmdb_person_id"`
	Name         string    `json:"name"`
	ProfilePath  string    `json:"profile_path,omitempty"`
	Department   string    `json:"department,omitempty"`
	Character    string    `json:"character,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileURL returns the full profile image URL.
func (p *Person) ProfileURL(size string) string {
	if p.ProfilePath == "" {
		return ""
	}
	return imageBaseURL + size + p.ProfilePath
}

// ScreenshotURL fills the screenshot template for one id. Returns "" when
// the movie has no template.
func (m *Movie) ScreenshotURL(size, id string) string {
	if m.ScreenshotURLTemplate == "" {
		return ""
	}
	r := strings.NewReplacer("{size}", size, "{id}", id)
	return r.Replace(m.ScreenshotURLTemplate)
}

// Collection is the full movie list together with the data version that was
// authoritative when the list was read.
type Collection struct {
	Movies      []Movie `json:"movies"`
	DataVersion string  `json:"data_version"`
}

// VersionInfo is the cheap metadata read used for staleness checks.
type VersionInfo struct {
	DataVersion string `json:"data_version"`
	TotalCount  int    `json:"total_count"`
}

const imageBaseURL = "https://image.tmdb.org/t/p/"

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// PosterURL returns the full poster image URL.
// Size can be: w92, w154, w185, w342, w500, w780, original
func (m *Movie) PosterURL(size string) string {
	if m.PosterPath == "" {
		return ""
	}
	return imageBaseURL + size + m.PosterPath
}

// BackdropURL returns the full backdrop image URL.
func (m *Movie) BackdropURL(size string) string {
	if m.BackdropPath == "" {
		return ""
	}
	return imageBaseURL + size + m.BackdropPath
}
