package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the catalog returned no hit for the query.
	ErrNotFound = errors.New("no catalog result")

	// ErrUnsupportedMediaType means the catalog found something, but it is
	// neither a movie nor a series.
	ErrUnsupportedMediaType = errors.New("result is not a movie or series")
)

// AmbiguousMatchError reports a store lookup that returned more than one
// candidate. Reconciliation never auto-picks; the caller needs a more
// specific query.
type AmbiguousMatchError struct {
	Query string
	Count int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("found %d records matching %q, need a more specific query", e.Count, e.Query)
}
