// Package tmdb provides a client for The Movie Database API.
package tmdb

import "strconv"

// Movie is the TMDB movie detail payload, with images and credits appended.
type Movie struct {
	ID            int64    `json:"id"`
	IMDBID        string   `json:"imdb_id,omitempty"` // e.g., "tt0133093"
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Overview      string   `json:"overview"`
	Tagline       string   `json:"tagline"`
	Status        string   `json:"status"`       // "Released", "Post Production", ...
	ReleaseDate   string   `json:"release_date"` // "2024-03-01"
	PosterPath    string   `json:"poster_path"`  // "/abc123.jpg"
	BackdropPath  string   `json:"backdrop_path"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	Popularity    float64  `json:"popularity"`
	Budget        int64    `json:"budget"`
	Revenue       int64    `json:"revenue"`
	Runtime       int      `json:"runtime"` // minutes
	Genres        []Genre  `json:"genres"`
	Images        *Images  `json:"images,omitempty"`
	Credits       *Credits `json:"credits,omitempty"`
}

// Genre represents a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Images is the append_to_response=images block.
type Images struct {
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
}

// Image is one image entry.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	VoteAverage float64 `json:"vote_average"`
	Language    *string `json:"iso_639_1"`
}

// Credits is the append_to_response=credits block.
type Credits struct {
	Cast []CastCredit `json:"cast"`
	Crew []CrewCredit `json:"crew"`
}

// CastCredit is one acting credit. Order is the billing position, 0 first.
type CastCredit struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Character          string `json:"character"`
	Order              int    `json:"order"`
	ProfilePath        string `json:"profile_path"`
	KnownForDepartment string `json:"known_for_department"`
}

// CrewCredit is one crew credit.
type CrewCredit struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"` // "Director", "Screenplay", ...
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// GenreNames returns the genre names in TMDB order.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

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

// page is a paginated list response.
type page struct {
	Page         int         `json:"page"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
	Results      []listEntry `json:"results"`
}

type listEntry struct {
	ID int64 `json:"id"`
}

// IDPage is one page of a TMDB movie list reduced to ids.
type IDPage struct {
	IDs        []int64
	Page       int
	TotalPages int
}
