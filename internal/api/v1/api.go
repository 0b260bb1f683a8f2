// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/vmunix/marquee/internal/catalog"
	"github.com/vmunix/marquee/internal/ingest"
	"github.com/vmunix/marquee/internal/movie"
)

// maxPeopleIDs caps one people lookup.
const maxPeopleIDs = 500

// Config holds API server configuration.
type Config struct {
	Version string
}

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	cfg  Config
	log  *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps, cfg Config, logger *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Server{deps: deps, cfg: cfg, log: logger}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Movies
	mux.HandleFunc("GET /api/v1/movies", s.listMovies)
	mux.HandleFunc("GET /api/v1/movies/version", s.getVersion)
	mux.HandleFunc("GET /api/v1/movies/{id}", s.getMovie)
	mux.HandleFunc("GET /api/v1/movies/tmdb/{tmdbId}", s.getMovieByTMDBID)

	// People
	mux.HandleFunc("GET /api/v1/people", s.getPeople)
	mux.HandleFunc("POST /api/v1/people/backfill", s.requireSyncer(s.backfillPeople))

	// System
	mux.HandleFunc("POST /api/v1/sync", s.requireSyncer(s.triggerSync))
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts a positive integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}
	return id, nil
}

// queryIDs collects positive integer ids from every occurrence of a
// comma-separated query parameter.
func queryIDs(r *http.Request, name string) ([]int64, error) {
	var ids []int64
	for _, v := range r.URL.Query()[name] {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid %s: %q", name, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, v)
	}
	return n, nil
}

// listMovies returns the full collection and the version it was read at.
func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	col, total, err := s.deps.Catalog.Snapshot(r.Context())
	if err != nil {
		s.log.Error("snapshot failed", "error", err)
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listMoviesResponse{
		Movies:      col.Movies,
		DataVersion: col.DataVersion,
		TotalCount:  total,
	})
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	info, err := s.deps.Catalog.DataVersion(r.Context())
	if err != nil {
		s.log.Error("version read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	m, err := s.deps.Catalog.Get(r.Context(), id)
	s.writeMovie(w, m, err)
}

func (s *Server) getMovieByTMDBID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tmdbId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	m, err := s.deps.Catalog.GetByTMDBID(r.Context(), id)
	s.writeMovie(w, m, err)
}

func (s *Server) writeMovie(w http.ResponseWriter, m *catalog.Movie, err error) {
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m.Detail())
}

// getPeople returns the known people among the requested TMDB person ids, in
// request order. Unknown ids are left out.
func (s *Server) getPeople(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "ids")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if len(ids) > maxPeopleIDs {
		writeError(w, http.StatusBadRequest, "TOO_MANY_IDS", fmt.Sprintf("at most %d ids per request", maxPeopleIDs))
		return
	}

	resp := peopleResponse{People: []movie.Person{}}
	if len(ids) > 0 {
		people, err := s.deps.Catalog.GetPeopleByTMDBIDs(r.Context(), ids)
		if err != nil {
			s.log.Error("people lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
		for _, p := range people {
			resp.People = append(resp.People, p.Public())
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// backfillPeople re-imports one batch of existing movies to fill in credits.
func (s *Server) backfillPeople(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}

	res, err := s.deps.Syncer.Backfill(r.Context(), offset, limit)
	if err != nil {
		if errors.Is(err, ingest.ErrInProgress) {
			writeError(w, http.StatusConflict, "SYNC_IN_PROGRESS", "A sync is already running")
			return
		}
		if errors.Is(err, ingest.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
			return
		}
		s.log.Error("backfill failed", "error", err)
		writeError(w, http.StatusBadGateway, "SYNC_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// triggerSync runs one ingestion pass and reports its counters.
func (s *Server) triggerSync(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Syncer.Run(r.Context())
	if err != nil {
		if errors.Is(err, ingest.ErrInProgress) {
			writeError(w, http.StatusConflict, "SYNC_IN_PROGRESS", "A sync is already running")
			return
		}
		s.log.Error("sync failed", "error", err)
		writeError(w, http.StatusBadGateway, "SYNC_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	info, err := s.deps.Catalog.DataVersion(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	resp := statusResponse{
		Status:      "ok",
		Version:     s.cfg.Version,
		Movies:      info.TotalCount,
		DataVersion: info.DataVersion,
		SyncEnabled: s.deps.Syncer != nil,
	}
	if s.deps.Syncer != nil {
		resp.LastSync = s.deps.Syncer.Last()
	}
	writeJSON(w, http.StatusOK, resp)
}
