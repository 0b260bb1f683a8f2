// Package moviefilter narrows a movie list by title, genre and count.
package moviefilter

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/marquee/internal/movie"
)

// FuzzyThreshold is the minimum Jaro-Winkler similarity for a fuzzy title
// match.
const FuzzyThreshold = 0.85

// Filter selects movies. Zero fields do not filter.
type Filter struct {
	Search string
	Genre  string
	Limit  int
}

type scored struct {
	movie movie.Movie
	score float64
	index int
}

// Apply returns the movies matching f. Title matches containing the query
// come first in list order, then fuzzy matches by similarity. A nil list
// stays nil so "not loaded yet" survives filtering.
func Apply(movies []movie.Movie, f Filter) []movie.Movie {
	if movies == nil {
		return nil
	}

	genre := strings.ToLower(strings.TrimSpace(f.Genre))
	query := Normalize(f.Search)

	matches := make([]scored, 0, len(movies))
	for i, m := range movies {
		if genre != "" && !hasGenre(m, genre) {
			continue
		}
		score := 1.0
		if query != "" {
			score = titleScore(Normalize(m.Title), query)
			if score < FuzzyThreshold {
				continue
			}
		}
		matches = append(matches, scored{movie: m, score: score, index: i})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].score != matches[b].score {
			return matches[a].score > matches[b].score
		}
		return matches[a].index < matches[b].index
	})

	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}
	out := make([]movie.Movie, len(matches))
	for i, s := range matches {
		out[i] = s.movie
	}
	return out
}

// titleScore is 1 for a substring hit, otherwise the Jaro-Winkler
// similarity of the whole title.
func titleScore(title, query string) float64 {
	if strings.Contains(title, query) {
		return 1
	}
	return float64(edlib.JaroWinklerSimilarity(title, query))
}

func hasGenre(m movie.Movie, genre string) bool {
	for _, g := range m.Genres {
		if strings.Contains(strings.ToLower(g), genre) {
			return true
		}
	}
	return false
}

// Genres lists the distinct genres in first-seen order.
func Genres(movies []movie.Movie) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, m := range movies {
		for _, g := range m.Genres {
			if !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}
	return out
}
