package reconciler

import "github.com/vmunix/marquee/internal/movie"

// Phase is a reconciler state.
type Phase string

const (
	PhaseInit           Phase = "init"
	PhaseCacheCheck     Phase = "cache_check"
	PhaseServingCache   Phase = "serving_cache"
	PhaseServingEmpty   Phase = "serving_empty"
	PhaseVersionCheck   Phase = "version_check"
	PhaseConfirmedFresh Phase = "cache_confirmed_fresh"
	PhaseRefetching     Phase = "refetching"
	PhaseServingFresh   Phase = "serving_fresh"
)

// State is what consumers of the movie list see.
//
// Movies is nil until data is available. An empty non-nil slice means the
// backend has no movies.
type State struct {
	Movies       []movie.Movie `json:"movies"`
	IsLoading    bool          `json:"is_loading"`
	Error        bool          `json:"error"`
	IsUsingCache bool          `json:"is_using_cache"`

	Phase       Phase  `json:"phase"`
	DataVersion string `json:"data_version,omitempty"`
	// Pending is set while a version check or collection fetch is outstanding.
	Pending bool `json:"pending"`
	// Revision increases by one with every published state.
	Revision uint64 `json:"revision"`
}

// HasData reports whether a collection, possibly empty, is being served.
func (s State) HasData() bool { return s.Movies != nil }
