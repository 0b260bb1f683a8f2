package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/marquee/internal/api/v1/mocks"
	"github.com/vmunix/marquee/internal/catalog"
	"github.com/vmunix/marquee/internal/ingest"
)

func seedPeople(t *testing.T, store *catalog.Store) {
	t.Helper()
	_, err := store.UpsertPeople(context.Background(), []*catalog.Person{
		{TMDBPersonID: 7467, Name: "David Fincher", Department: "Directing"},
		{TMDBPersonID: 819, Name: "Edward Norton", Department: "Acting", Character: "The Narrator", ProfilePath: "/norton.jpg"},
		{TMDBPersonID: 287, Name: "Brad Pitt", Department: "Acting", Character: "Tyler Durden"},
	})
	require.NoError(t, err)
}

func decodePeople(t *testing.T, w *httptest.ResponseRecorder) peopleResponse {
	t.Helper()
	var resp peopleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetPeople_CommaSeparated(t *testing.T) {
	_, store, h := newTestServer(t, nil)
	seedPeople(t, store)

	w := do(t, h, http.MethodGet, "/api/v1/people?ids=287,7467")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodePeople(t, w)
	require.Len(t, resp.People, 2)
	assert.Equal(t, "Brad Pitt", resp.People[0].Name)
	assert.Equal(t, "Tyler Durden", resp.People[0].Character)
	assert.Equal(t, "David Fincher", resp.People[1].Name)
	assert.Equal(t, "Directing", resp.People[1].Department)
}

func TestGetPeople_RepeatedParamAndUnknownIDs(t *testing.T) {
	_, store, h := newTestServer(t, nil)
	seedPeople(t, store)

	w := do(t, h, http.MethodGet, "/api/v1/people?ids=819&ids=999999&ids=287")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodePeople(t, w)
	require.Len(t, resp.People, 2)
	assert.Equal(t, int64(819), resp.People[0].TMDBPersonID)
	assert.Equal(t, "/norton.jpg", resp.People[0].ProfilePath)
	assert.Equal(t, int64(287), resp.People[1].TMDBPersonID)
}

func TestGetPeople_NoIDs(t *testing.T) {
	_, _, h := newTestServer(t, nil)

	w := do(t, h, http.MethodGet, "/api/v1/people")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"people":[]}`, w.Body.String())
}

func TestGetPeople_InvalidID(t *testing.T) {
	_, _, h := newTestServer(t, nil)

	for _, q := range []string{"abc", "1,-2", "0"} {
		w := do(t, h, http.MethodGet, "/api/v1/people?ids="+q)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Equal(t, "INVALID_ID", decodeError(t, w).Code, q)
	}
}

func TestGetPeople_TooMany(t *testing.T) {
	_, _, h := newTestServer(t, nil)

	ids := make([]string, maxPeopleIDs+1)
	for i := range ids {
		ids[i] = "1"
	}
	w := do(t, h, http.MethodGet, "/api/v1/people?ids="+strings.Join(ids, ","))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "TOO_MANY_IDS", decodeError(t, w).Code)
}

func TestGetPeople_DBError(t *testing.T) {
	ctrl := gomock.NewController(t)
	cat := mocks.NewMockCatalog(ctrl)
	cat.EXPECT().GetPeopleByTMDBIDs(gomock.Any(), []int64{1, 2}).Return(nil, errors.New("database is locked"))

	srv, err := New(ServerDeps{Catalog: cat}, Config{}, testLogger())
	require.NoError(t, err)
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)

	w := do(t, mux, http.MethodGet, "/api/v1/people?ids=1,2")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DB_ERROR", decodeError(t, w).Code)
}

func TestBackfillPeople(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncer := mocks.NewMockSyncer(ctrl)
	syncer.EXPECT().Backfill(gomock.Any(), 50, 25).Return(&ingest.BackfillResult{
		TotalMovies: 60, Processed: 10, Succeeded: 9, Failed: 1, NextOffset: 60, Done: true,
	}, nil)

	_, _, h := newTestServer(t, syncer)

	w := do(t, h, http.MethodPost, "/api/v1/people/backfill?offset=50&limit=25")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ingest.BackfillResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Processed)
	assert.Equal(t, 9, resp.Succeeded)
	assert.Equal(t, 60, resp.NextOffset)
	assert.True(t, resp.Done)
}

func TestBackfillPeople_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncer := mocks.NewMockSyncer(ctrl)
	syncer.EXPECT().Backfill(gomock.Any(), 0, 0).Return(&ingest.BackfillResult{Done: true}, nil)

	_, _, h := newTestServer(t, syncer)

	w := do(t, h, http.MethodPost, "/api/v1/people/backfill")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBackfillPeople_InvalidParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncer := mocks.NewMockSyncer(ctrl)
	_, _, h := newTestServer(t, syncer)

	for _, q := range []string{"offset=-1", "limit=x"} {
		w := do(t, h, http.MethodPost, "/api/v1/people/backfill?"+q)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Equal(t, "INVALID_PARAM", decodeError(t, w).Code, q)
	}
}

func TestBackfillPeople_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"in progress", ingest.ErrInProgress, http.StatusConflict, "SYNC_IN_PROGRESS"},
		{"upstream", errors.New("tmdb unavailable"), http.StatusBadGateway, "SYNC_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			syncer := mocks.NewMockSyncer(ctrl)
			syncer.EXPECT().Backfill(gomock.Any(), 0, 0).Return(nil, tt.err)

			_, _, h := newTestServer(t, syncer)

			w := do(t, h, http.MethodPost, "/api/v1/people/backfill")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, w).Code)
		})
	}
}

func TestBackfillPeople_NotConfigured(t *testing.T) {
	_, _, h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/api/v1/people/backfill")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
