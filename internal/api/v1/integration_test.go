package v1_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/marquee/internal/api/v1"
	"github.com/vmunix/marquee/internal/catalog"
	"github.com/vmunix/marquee/internal/migrations"
	"github.com/vmunix/marquee/internal/moviecache"
	"github.com/vmunix/marquee/internal/provider"
	"github.com/vmunix/marquee/internal/reconciler"
	"github.com/vmunix/marquee/internal/storeclient"
)

type harness struct {
	store  *catalog.Store
	client *storeclient.Client
	cache  *moviecache.Adapter
	log    *slog.Logger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	err = migrations.Apply(db)
	require.NoError(t, err)

	store := catalog.NewStore(db)
	srv, err := v1.New(v1.ServerDeps{Catalog: store}, v1.Config{Version: "test"}, log)
	require.NoError(t, err)
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return &harness{
		store:  store,
		client: storeclient.New(ts.URL),
		cache:  moviecache.NewMemory(log),
		log:    log,
	}
}

func (h *harness) add(t *testing.T, tmdbID int64, title string) {
	t.Helper()
	_, err := h.store.Upsert(context.Background(), &catalog.Movie{TMDBID: tmdbID, Title: title, Genres: []string{"Drama"}})
	require.NoError(t, err)
}

// session mounts a fresh provider over the shared cache, waits for it to
// settle and returns every published state in order.
func (h *harness) session(t *testing.T) (seen []provider.State, settled provider.State) {
	t.Helper()
	p := provider.New(h.cache, h.client, h.log)
	t.Cleanup(p.Close)
	sub := p.Subscribe(64)
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p.Mount(ctx)
	settled, err := p.WaitSettled(ctx)
	require.NoError(t, err)

	for {
		select {
		case st := <-sub.C():
			seen = append(seen, st)
		default:
			return seen, settled
		}
	}
}

// firstWithData returns the earliest state that served a collection.
func firstWithData(t *testing.T, seen []provider.State) provider.State {
	t.Helper()
	for _, st := range seen {
		if st.HasData() {
			return st
		}
	}
	t.Fatal("no state carried data")
	return provider.State{}
}

func TestIntegration_ColdStartThenWarmStart(t *testing.T) {
	h := newHarness(t)
	h.add(t, 550, "Fight Club")
	h.add(t, 603, "The Matrix")

	seen, settled := h.session(t)
	require.NotEmpty(t, seen)
	assert.True(t, seen[0].IsLoading, "cold start has nothing to show")
	first := firstWithData(t, seen)
	assert.False(t, first.IsUsingCache)
	require.Len(t, settled.Movies, 2)
	assert.False(t, settled.IsUsingCache)
	assert.Equal(t, reconciler.PhaseServingFresh, settled.Phase)

	status := h.cache.Status()
	assert.True(t, status.HasCache)
	assert.Equal(t, 2, status.Count)
	assert.Equal(t, settled.DataVersion, status.DataVersion)

	seen, settled = h.session(t)
	first = firstWithData(t, seen)
	require.Len(t, first.Movies, 2, "warm start serves the cache")
	assert.True(t, first.IsUsingCache)
	assert.False(t, first.IsLoading)
	assert.Equal(t, reconciler.PhaseConfirmedFresh, settled.Phase)
	assert.True(t, settled.IsUsingCache)
	assert.False(t, settled.Error)
}

func TestIntegration_StaleCacheIsReplaced(t *testing.T) {
	h := newHarness(t)
	h.add(t, 550, "Fight Club")
	_, settled := h.session(t)
	require.Len(t, settled.Movies, 1)
	oldVersion := settled.DataVersion

	h.add(t, 603, "The Matrix")

	seen, settled := h.session(t)
	first := firstWithData(t, seen)
	require.Len(t, first.Movies, 1)
	assert.True(t, first.IsUsingCache)

	require.Len(t, settled.Movies, 2)
	assert.False(t, settled.IsUsingCache)
	assert.Greater(t, settled.DataVersion, oldVersion)
	assert.Equal(t, 2, h.cache.Status().Count)
}

func TestIntegration_EmptyCatalog(t *testing.T) {
	h := newHarness(t)

	_, settled := h.session(t)
	require.NotNil(t, settled.Movies)
	assert.Empty(t, settled.Movies)
	assert.False(t, settled.IsLoading)
	assert.False(t, settled.Error)
}

func TestIntegration_ServerDown(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	p := provider.New(moviecache.NewMemory(log), storeclient.New(url), log)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p.Mount(ctx)
	st, err := p.WaitSettled(ctx)
	require.NoError(t, err)
	assert.Nil(t, st.Movies)
	assert.True(t, st.Error)
	assert.False(t, st.IsLoading)
}

func TestIntegration_ClientLookups(t *testing.T) {
	h := newHarness(t)
	h.add(t, 550, "Fight Club")
	ctx := context.Background()

	d, err := h.client.GetMovieByTMDBID(ctx, 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", d.Title)

	byID, err := h.client.GetMovie(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(550), byID.TMDBID)

	_, err = h.client.GetMovie(ctx, 9999)
	assert.True(t, errors.Is(err, storeclient.ErrNotFound), "got %v", err)

	status, err := h.client.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 1, status.Movies)
	assert.False(t, status.SyncEnabled)

	_, err = h.client.TriggerSync(ctx)
	var fe *storeclient.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
}

func TestIntegration_PeopleThroughCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.store.Upsert(ctx, &catalog.Movie{TMDBID: 550, Title: "Fight Club", Directors: []int64{7467}, Cast: []int64{819}})
	require.NoError(t, err)
	_, err = h.store.UpsertPeople(ctx, []*catalog.Person{
		{TMDBPersonID: 7467, Name: "David Fincher", Department: "Directing"},
		{TMDBPersonID: 819, Name: "Edward Norton", Character: "The Narrator"},
	})
	require.NoError(t, err)

	d, err := h.client.GetMovieByTMDBID(ctx, 550)
	require.NoError(t, err)
	require.Equal(t, []int64{7467}, d.Directors)
	require.Equal(t, []int64{819}, d.Cast)

	people, err := h.client.GetPeople(ctx, append(d.Directors, d.Cast...))
	require.NoError(t, err)
	require.Len(t, people, 2)
	h.cache.SavePeople(people)

	cached := h.cache.People([]int64{7467, 819})
	assert.Equal(t, "David Fincher", cached[7467].Name)
	assert.Equal(t, "The Narrator", cached[819].Character)

	_, err = h.client.Backfill(ctx, 0, 0)
	var fe *storeclient.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
}
