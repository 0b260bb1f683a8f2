package v1

import "net/http"

// requireSyncer wraps a handler and returns 503 if sync is not configured.
func (s *Server) requireSyncer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Syncer == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Sync not configured")
			return
		}
		next(w, r)
	}
}
