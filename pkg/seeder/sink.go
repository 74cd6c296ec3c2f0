package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/papercomputeco/memseed/pkg/memory"
	"github.com/papercomputeco/memseed/pkg/search"
	"github.com/papercomputeco/memseed/pkg/storage"
)

// WriteState reports how far a dual write got.
type WriteState int

const (
	// WriteNone means nothing was written.
	WriteNone WriteState = iota

	// WriteRelationalStaged means the row is in the open transaction but the
	// search document was not confirmed. The row is kept and commits with
	// its batch.
	WriteRelationalStaged

	// WriteComplete means both the row and the document were written.
	WriteComplete
)

func (s WriteState) String() string {
	switch s {
	case WriteNone:
		return "none"
	case WriteRelationalStaged:
		return "relational staged, index not confirmed"
	case WriteComplete:
		return "complete"
	}
	return fmt.Sprintf("WriteState(%d)", int(s))
}

// WriteError is a failed dual write together with the state it reached.
type WriteError struct {
	ID    uuid.UUID
	State WriteState
	Err   error
}

func (e *WriteError) Error() string {
	if e.State == WriteRelationalStaged {
		return fmt.Sprintf("memory %s: %s: %v", e.ID, e.State, e.Err)
	}
	return fmt.Sprintf("memory %s: relational insert failed: %v", e.ID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Sink writes a memory to the relational table and the search index.
type Sink struct {
	index search.Index
}

// NewSink creates a Sink writing documents to index.
func NewSink(index search.Index) *Sink {
	return &Sink{index: index}
}

// Write inserts the row through tx, without committing, then upserts the
// search document. A failed index write does not undo the row.
func (s *Sink) Write(ctx context.Context, tx storage.Tx, m *memory.Persisted) (WriteState, error) {
	if err := tx.Insert(ctx, m); err != nil {
		return WriteNone, &WriteError{ID: m.ID, State: WriteNone, Err: err}
	}

	if err := s.index.Put(ctx, search.DocumentFromMemory(m)); err != nil {
		return WriteRelationalStaged, &WriteError{ID: m.ID, State: WriteRelationalStaged, Err: err}
	}

	return WriteComplete, nil
}
