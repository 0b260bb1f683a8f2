package ingest

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/vmunix/marquee/internal/catalog"
	"github.com/vmunix/marquee/internal/tmdb"
)

// ScreenshotTemplate builds a screenshot URL from a size and an image id.
const ScreenshotTemplate = "https://image.tmdb.org/t/p/{size}{id}"

const (
	maxScreenshots = 10
	maxCast        = 10
)

// Normalize maps TMDB details onto a catalog record.
func Normalize(m *tmdb.Movie, importedAt time.Time) *catalog.Movie {
	rec := &catalog.Movie{
		TMDBID:         m.ID,
		IMDBID:         m.IMDBID,
		Title:          m.Title,
		OriginalTitle:  m.OriginalTitle,
		Overview:       m.Overview,
		Tagline:        m.Tagline,
		Status:         m.Status,
		ReleaseDate:    m.ReleaseDate,
		RuntimeMinutes: max(m.Runtime, 0),
		PosterPath:     m.PosterPath,
		BackdropPath:   m.BackdropPath,
		Genres:         m.GenreNames(),
		Rating:         math.Round(m.VoteAverage*10) / 10,
		VoteCount:      m.VoteCount,
		Popularity:     m.Popularity,
		Budget:         m.Budget,
		Revenue:        m.Revenue,
		ScreenshotIDs:  screenshotIDs(m),
		Directors:      directorIDs(m),
		Cast:           castIDs(m),
		ImportedAt:     importedAt,
	}
	if rec.Title == "" {
		rec.Title = m.OriginalTitle
	}
	if len(rec.ScreenshotIDs) > 0 {
		rec.ScreenshotURLTemplate = ScreenshotTemplate
	}
	return rec
}

// screenshotIDs takes backdrop stills other than the main backdrop.
func screenshotIDs(m *tmdb.Movie) []string {
	ids := []string{}
	if m.Images == nil {
		return ids
	}
	for _, img := range m.Images.Backdrops {
		if img.FilePath == "" || img.FilePath == m.BackdropPath {
			continue
		}
		ids = append(ids, img.FilePath)
		if len(ids) == maxScreenshots {
			break
		}
	}
	return ids
}

func directorIDs(m *tmdb.Movie) []int64 {
	ids := []int64{}
	if m.Credits == nil {
		return ids
	}
	for _, c := range m.Credits.Crew {
		if c.Job == "Director" && c.ID > 0 && !slices.Contains(ids, c.ID) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// topCast returns the first maxCast cast credits by billing order.
func topCast(m *tmdb.Movie) []tmdb.CastCredit {
	if m.Credits == nil {
		return nil
	}
	cast := slices.Clone(m.Credits.Cast)
	slices.SortStableFunc(cast, func(a, b tmdb.CastCredit) int { return cmp.Compare(a.Order, b.Order) })
	out := make([]tmdb.CastCredit, 0, maxCast)
	for _, c := range cast {
		if c.ID <= 0 || slices.ContainsFunc(out, func(o tmdb.CastCredit) bool { return o.ID == c.ID }) {
			continue
		}
		out = append(out, c)
		if len(out) == maxCast {
			break
		}
	}
	return out
}

func castIDs(m *tmdb.Movie) []int64 {
	ids := []int64{}
	for _, c := range topCast(m) {
		ids = append(ids, c.ID)
	}
	return ids
}

// People returns a record for every director and top-billed actor of m.
// Someone credited both ways appears once, with their acting role.
func People(m *tmdb.Movie) []*catalog.Person {
	if m.Credits == nil {
		return nil
	}
	var people []*catalog.Person
	byID := make(map[int64]*catalog.Person)
	for _, c := range m.Credits.Crew {
		if c.Job != "Director" || c.ID <= 0 || byID[c.ID] != nil {
			continue
		}
		dept := c.Department
		if dept == "" {
			dept = "Directing"
		}
		p := &catalog.Person{TMDBPersonID: c.ID, Name: c.Name, ProfilePath: c.ProfilePath, Department: dept}
		byID[c.ID] = p
		people = append(people, p)
	}
	for _, c := range topCast(m) {
		if p := byID[c.ID]; p != nil {
			p.Character = c.Character
			continue
		}
		dept := c.KnownForDepartment
		if dept == "" {
			dept = "Acting"
		}
		p := &catalog.Person{TMDBPersonID: c.ID, Name: c.Name, ProfilePath: c.ProfilePath, Department: dept, Character: c.Character}
		byID[c.ID] = p
		people = append(people, p)
	}
	return people
}
