// Package inmemory provides a map-backed storage.Driver for tests and dry runs.
package inmemory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/memseed/pkg/memory"
	"github.com/papercomputeco/memseed/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	// mu is a read write sync mutex for locking the mapping of rows
	mu sync.RWMutex

	// rows holds committed rows keyed by memory id
	rows map[uuid.UUID]storage.Row

	// FailInsert, when set, is consulted before each insert. A non-nil
	// return fails that insert.
	FailInsert func(m *memory.Persisted) error

	// FailBegin, when set, is returned from Begin.
	FailBegin error

	commits   int
	rollbacks int
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		rows: make(map[uuid.UUID]storage.Row),
	}
}

// EnsureSchema is a no-op for the in-memory driver.
func (d *Driver) EnsureSchema(context.Context) error {
	return nil
}

// Begin opens a transaction that stages rows until Commit.
func (d *Driver) Begin(context.Context) (storage.Tx, error) {
	if d.FailBegin != nil {
		return nil, d.FailBegin
	}
	return &tx{driver: d, staged: make(map[uuid.UUID]storage.Row)}, nil
}

// Get retrieves a committed row by id.
func (d *Driver) Get(_ context.Context, id uuid.UUID) (*storage.Row, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	row, ok := d.rows[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id.String()}
	}
	return &row, nil
}

// DeleteAll removes every committed row.
func (d *Driver) DeleteAll(context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := int64(len(d.rows))
	clear(d.rows)
	return n, nil
}

// Count returns the number of committed rows.
func (d *Driver) Count(context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.rows)), nil
}

// Commits returns how many transactions were committed.
func (d *Driver) Commits() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.commits
}

// Rollbacks returns how many transactions were rolled back.
func (d *Driver) Rollbacks() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rollbacks
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

type tx struct {
	driver *Driver
	staged map[uuid.UUID]storage.Row
	done   bool
}

func (t *tx) Insert(_ context.Context, m *memory.Persisted) error {
	if t.done {
		return storage.ErrTxDone
	}
	if m == nil {
		return storage.ErrNilMemory
	}
	if t.driver.FailInsert != nil {
		if err := t.driver.FailInsert(m); err != nil {
			return err
		}
	}

	t.driver.mu.RLock()
	_, committed := t.driver.rows[m.ID]
	t.driver.mu.RUnlock()
	if _, staged := t.staged[m.ID]; staged || committed {
		return errors.New("duplicate key value violates unique constraint on id " + m.ID.String())
	}

	t.staged[m.ID] = storage.RowFromMemory(m)
	return nil
}

func (t *tx) Commit(context.Context) error {
	if t.done {
		return storage.ErrTxDone
	}
	t.done = true

	t.driver.mu.Lock()
	defer t.driver.mu.Unlock()
	maps.Copy(t.driver.rows, t.staged)
	t.driver.commits++
	return nil
}

func (t *tx) Rollback(context.Context) error {
	if t.done {
		return storage.ErrTxDone
	}
	t.done = true

	t.driver.mu.Lock()
	defer t.driver.mu.Unlock()
	t.driver.rollbacks++
	return nil
}
