// Package sqlite provides a SQLite-backed storage driver for local seeding.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/memseed/pkg/memory"
	"github.com/papercomputeco/memseed/pkg/storage"
)

// SQLite has no array type, so tags are stored as a JSON array in TEXT.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS memory_index (
		id               TEXT PRIMARY KEY,
		user_id          TEXT,
		summary          TEXT,
		importance_score REAL NOT NULL DEFAULT 0.5,
		tags             TEXT NOT NULL DEFAULT '[]',
		created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_memory_index_user_id ON memory_index (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_memory_index_created_at ON memory_index (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_memory_index_importance ON memory_index (importance_score DESC)`,
}

const savepoint = "memseed_row"

// SQLiteDriver implements storage.Driver using SQLite.
type SQLiteDriver struct {
	db *sql.DB
}

// NewSQLiteDriver creates a new SQLite-backed driver.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDriver(dbPath string) (*SQLiteDriver, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteDriver{db: db}, nil
}

// EnsureSchema creates the memory_index table and its indexes.
func (d *SQLiteDriver) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Begin opens a transaction.
func (d *SQLiteDriver) Begin(ctx context.Context) (storage.Tx, error) {
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &tx{tx: sqlTx}, nil
}

// Get retrieves a committed row by id.
func (d *SQLiteDriver) Get(ctx context.Context, id uuid.UUID) (*storage.Row, error) {
	var (
		row     storage.Row
		rawID   string
		userID  sql.NullString
		summary sql.NullString
		tags    string
	)

	err := d.db.QueryRowContext(ctx,
		`SELECT id, user_id, summary, importance_score, tags, created_at, updated_at
		FROM memory_index WHERE id = ?`, id.String(),
	).Scan(&rawID, &userID, &summary, &row.ImportanceScore, &tags, &row.CreatedAt, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get memory %s: %w", id, err)
	}

	if row.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parse memory id %q: %w", rawID, err)
	}
	if userID.Valid {
		row.UserID = &userID.String
	}
	row.Summary = summary.String
	if err := json.Unmarshal([]byte(tags), &row.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for %s: %w", id, err)
	}
	row.CreatedAt = row.CreatedAt.UTC()
	row.UpdatedAt = row.UpdatedAt.UTC()
	return &row, nil
}

// DeleteAll removes every memory_index row.
func (d *SQLiteDriver) DeleteAll(ctx context.Context) (int64, error) {
	res, err := d.db.ExecContext(ctx, "DELETE FROM memory_index")
	if err != nil {
		return 0, fmt.Errorf("clear memory_index: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of committed memory_index rows.
func (d *SQLiteDriver) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.QueryRowContext(ctx, "SELECT count(*) FROM memory_index").Scan(&n); err != nil {
		return 0, fmt.Errorf("count memory_index: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (d *SQLiteDriver) Close() error {
	return d.db.Close()
}

type tx struct {
	tx *sql.Tx
}

func (t *tx) Insert(ctx context.Context, m *memory.Persisted) error {
	if m == nil {
		return storage.ErrNilMemory
	}

	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}

	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO memory_index
		(id, user_id, summary, importance_score, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.UserID, m.Summary, m.Importance, string(encoded), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		_, _ = t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
		_, _ = t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint)
		return fmt.Errorf("insert memory %s: %w", m.ID, err)
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func (t *tx) Commit(context.Context) error {
	if err := t.tx.Commit(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return storage.ErrTxDone
		}
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (t *tx) Rollback(context.Context) error {
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return storage.ErrTxDone
		}
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
