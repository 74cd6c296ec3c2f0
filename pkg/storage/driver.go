// Package storage defines the relational side of the seeder: a memory_index
// table holding one row per seeded memory, written inside batched transactions.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/memseed/pkg/memory"
)

// TableName is the relational table that indexes seeded memories.
const TableName = "memory_index"

// Driver defines the interface for a relational memory_index backend.
// A Driver holds a single long-lived handle for the lifetime of a run.
type Driver interface {
	// EnsureSchema creates the memory_index table and its indexes if they
	// do not already exist.
	EnsureSchema(ctx context.Context) error

	// Begin opens a new transaction. Rows inserted through the returned Tx
	// are not visible until Commit.
	Begin(ctx context.Context) (Tx, error)

	// Get retrieves a committed row by id.
	Get(ctx context.Context, id uuid.UUID) (*Row, error)

	// DeleteAll removes every row and returns how many were deleted.
	DeleteAll(ctx context.Context) (int64, error)

	// Count returns the number of committed rows.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying handle.
	Close() error
}

// Tx is a relational transaction scoped to one commit batch.
type Tx interface {
	// Insert stages a memory_index row for the given memory. A failed Insert
	// leaves the rest of the transaction usable.
	Insert(ctx context.Context, m *memory.Persisted) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Row is a memory_index row as stored by a Driver.
type Row struct {
	ID              uuid.UUID
	UserID          *string
	Summary         string
	ImportanceScore float64
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RowFromMemory maps a persisted memory onto its memory_index row.
func RowFromMemory(m *memory.Persisted) Row {
	return Row{
		ID:              m.ID,
		UserID:          m.UserID,
		Summary:         m.Summary,
		ImportanceScore: m.Importance,
		Tags:            m.Tags,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
