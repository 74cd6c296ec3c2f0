// Package storageutils selects a storage.Driver from seeder configuration.
package storageutils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/memseed/pkg/storage"
	"github.com/papercomputeco/memseed/pkg/storage/postgres"
	"github.com/papercomputeco/memseed/pkg/storage/sqlite"
)

// ErrNoBackend is returned when neither a SQLite path nor a PostgreSQL URL is set.
var ErrNoBackend = errors.New("no relational backend configured: set a postgres url or a sqlite path")

// Options selects and configures the relational backend.
type Options struct {
	// SQLitePath, when set, selects the SQLite backend over PostgreSQL.
	SQLitePath string

	// PostgresURL is the PostgreSQL connection string.
	PostgresURL string
}

// NewDriver opens the configured backend and ensures its schema exists.
func NewDriver(ctx context.Context, opts Options, logger *slog.Logger) (storage.Driver, error) {
	var (
		driver storage.Driver
		err    error
	)

	switch {
	case opts.SQLitePath != "":
		driver, err = sqlite.NewSQLiteDriver(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite driver: %w", err)
		}
		logger.Info("using SQLite storage", "path", opts.SQLitePath)
	case opts.PostgresURL != "":
		driver, err = postgres.NewDriver(ctx, opts.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		logger.Info("using PostgreSQL storage")
	default:
		return nil, ErrNoBackend
	}

	if err := driver.EnsureSchema(ctx); err != nil {
		driver.Close()
		return nil, err
	}
	return driver, nil
}
