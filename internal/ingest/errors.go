package ingest

import "errors"

var (
	// ErrInProgress is returned when an import is already running.
	ErrInProgress = errors.New("import already in progress")

	// ErrUnknownList indicates a list name TMDB does not offer.
	ErrUnknownList = errors.New("unknown movie list")

	// ErrInvalidRange indicates a backfill offset outside the catalog.
	ErrInvalidRange = errors.New("invalid backfill range")
)
