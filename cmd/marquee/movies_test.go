package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/marquee/internal/catalog"
)

func matrix() *catalog.Movie {
	return &catalog.Movie{TMDBID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31", Genres: []string{"Action", "Science Fiction"}, Rating: 8.2}
}

func fightClub() *catalog.Movie {
	return &catalog.Movie{TMDBID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", Genres: []string{"Drama"}, Rating: 8.4}
}

func amelie() *catalog.Movie {
	return &catalog.Movie{TMDBID: 194, Title: "Amélie", ReleaseDate: "2001-04-25", Genres: []string{"Comedy", "Romance"}, Rating: 7.9}
}

func decodeMovies(t *testing.T, out string) moviesOutput {
	t.Helper()
	var resp moviesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func TestMovies_Table(t *testing.T) {
	srv := newCatalogServer(t)
	srv.add(t, matrix())
	srv.add(t, fightClub())

	out, _, err := execute(t, "movies", "--server", srv.URL, "--cache", tempCache(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Movies (2 of 2, live)")
	assert.Contains(t, out, "The Matrix")
	assert.Contains(t, out, "Fight Club")
	assert.Contains(t, out, "1999")
	assert.Contains(t, out, "Action, Science Fiction")
}

func TestMovies_CachedOnSecondRun(t *testing.T) {
	srv := newCatalogServer(t)
	srv.add(t, matrix())
	cache := tempCache(t)

	out, _, err := execute(t, "movies", "--json", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	first := decodeMovies(t, out)
	assert.Len(t, first.Movies, 1)
	assert.False(t, first.IsUsingCache)

	out, _, err = execute(t, "movies", "--json", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	second := decodeMovies(t, out)
	assert.Len(t, second.Movies, 1)
	assert.True(t, second.IsUsingCache, "unchanged catalog is served from cache")
	assert.Equal(t, first.DataVersion, second.DataVersion)
}

func TestMovies_StaleCacheRefreshed(t *testing.T) {
	srv := newCatalogServer(t)
	srv.add(t, matrix())
	cache := tempCache(t)

	_, _, err := execute(t, "movies", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)

	srv.add(t, fightClub())

	out, _, err := execute(t, "movies", "--json", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	resp := decodeMovies(t, out)
	assert.Len(t, resp.Movies, 2)
	assert.False(t, resp.IsUsingCache)
}

func TestMovies_NoWaitServesCacheThenUpdatesIt(t *testing.T) {
	srv := newCatalogServer(t)
	srv.add(t, matrix())
	cache := tempCache(t)

	_, _, err := execute(t, "movies", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)

	srv.add(t, fightClub())

	out, _, err := execute(t, "movies", "--json", "--no-wait", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	resp := decodeMovies(t, out)
	assert.Len(t, resp.Movies, 1, "no-wait prints the cached list")
	assert.True(t, resp.IsUsingCache)

	// the background check finished before exit and rewrote the cache
	out, _, err = execute(t, "movies", "--json", "--no-wait", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	resp = decodeMovies(t, out)
	assert.Len(t, resp.Movies, 2)
}

func TestMovies_Filters(t *testing.T) {
	srv := newCatalogServer(t)
	srv.add(t, matrix())
	srv.add(t, fightClub())
	srv.add(t, amelie())
	cache := tempCache(t)

	out, _, err := execute(t, "movies", "--json", "-s", "amelie", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	resp := decodeMovies(t, out)
	require.Len(t, resp.Movies, 1)
	assert.Equal(t, "Amélie", resp.Movies[0].Title)
	assert.Equal(t, 3, resp.Total)

	out, _, err = execute(t, "movies", "--json", "-g", "DRAMA", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	resp = decodeMovies(t, out)
	require.Len(t, resp.Movies, 1)
	assert.Equal(t, "Fight Club", resp.Movies[0].Title)

	out, _, err = execute(t, "movies", "--json", "-l", "2", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	assert.Len(t, decodeMovies(t, out).Movies, 2)

	out, _, err = execute(t, "movies", "-s", "zzzzzz", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	assert.Contains(t, out, "No movies match.")
}

func TestMovies_EmptyCatalog(t *testing.T) {
	srv := newCatalogServer(t)

	out, _, err := execute(t, "movies", "--server", srv.URL, "--cache", tempCache(t))
	require.NoError(t, err)
	assert.Contains(t, out, "No movies in catalog.")
}

func TestMovies_ServerDownNoCache(t *testing.T) {
	_, _, err := execute(t, "movies", "--server", deadServer(t), "--cache", tempCache(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not load movies")
}

func TestMovies_ServerDownWithCache(t *testing.T) {
	srv := newCatalogServer(t)
	srv.add(t, matrix())
	cache := tempCache(t)

	_, _, err := execute(t, "movies", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)

	out, errOut, err := execute(t, "movies", "--server", deadServer(t), "--cache", cache)
	require.NoError(t, err)
	assert.Contains(t, out, "The Matrix")
	assert.Contains(t, out, "cached")
	assert.Contains(t, errOut, "warning: could not reach")
}

func TestGenres(t *testing.T) {
	srv := newCatalogServer(t)
	srv.add(t, matrix())
	srv.add(t, fightClub())

	out, _, err := execute(t, "genres", "--json", "--server", srv.URL, "--cache", tempCache(t))
	require.NoError(t, err)

	var genres []string
	require.NoError(t, json.Unmarshal([]byte(out), &genres))
	assert.ElementsMatch(t, []string{"Action", "Science Fiction", "Drama"}, genres)
}

func TestRefresh(t *testing.T) {
	srv := newCatalogServer(t)
	srv.add(t, matrix())
	srv.add(t, fightClub())
	cache := tempCache(t)

	out, _, err := execute(t, "refresh", "--server", srv.URL, "--cache", cache)
	require.NoError(t, err)
	assert.Contains(t, out, "Refreshed 2 movies")

	out, _, err = execute(t, "cache", "status", "--json", "--cache", cache)
	require.NoError(t, err)
	var st struct {
		HasCache bool `json:"has_cache"`
		Count    int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.True(t, st.HasCache)
	assert.Equal(t, 2, st.Count)
}

func TestRefresh_ServerDown(t *testing.T) {
	_, _, err := execute(t, "refresh", "--server", deadServer(t), "--cache", tempCache(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh failed")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "The Lord of...", truncate("The Lord of the Rings", 14))
	assert.Equal(t, "Amé...", truncate("Amélie Poulain", 6))
}
