package search

import (
	"errors"
	"fmt"
)

var (
	// ErrIndex is wrapped by every failure reported by a search backend.
	ErrIndex = errors.New("search index failure")

	// ErrNotFound is returned when the index does not exist.
	ErrNotFound = errors.New("index not found")
)

// StatusError is returned when the search backend answers with an
// unexpected HTTP status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrIndex
}
