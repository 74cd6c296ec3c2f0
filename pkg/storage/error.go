package storage

import "errors"

// ErrNilMemory is returned when a nil memory is inserted.
var ErrNilMemory = errors.New("cannot insert nil memory")

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("transaction already committed or rolled back")

// NotFoundError is returned when a row doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "memory not found"
	}

	return "memory not found: " + e.ID
}
