package storeclient

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a single-movie lookup gets a 404.
var ErrNotFound = errors.New("movie not found")

// FetchError is a failed call to the catalog API. StatusCode is zero for
// transport and decoding failures.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
