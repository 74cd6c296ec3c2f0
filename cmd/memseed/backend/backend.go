// Package backend opens the relational store and search index that memseed
// commands operate on, from resolved configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/memseed/pkg/config"
	"github.com/papercomputeco/memseed/pkg/search"
	"github.com/papercomputeco/memseed/pkg/search/opensearch"
	"github.com/papercomputeco/memseed/pkg/storage"
	storageutils "github.com/papercomputeco/memseed/pkg/storage/utils"
)

// Settings are the connection parameters shared by every command.
type Settings struct {
	PostgresURL   string
	SQLitePath    string
	OpenSearchURL string
	Index         string
}

// SettingsFromViper reads Settings from a viper instance built by
// config.InitViper.
func SettingsFromViper(v *viper.Viper) Settings {
	return Settings{
		PostgresURL:   v.GetString("postgres.url"),
		SQLitePath:    v.GetString("sqlite.path"),
		OpenSearchURL: v.GetString("opensearch.url"),
		Index:         v.GetString("opensearch.index"),
	}
}

// LoadViper resolves configuration for cmd: the --config-dir flag selects the
// config directory and the registry flags named by keys override it.
func LoadViper(cmd *cobra.Command, keys ...string) (*viper.Viper, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, keys)
	return v, nil
}

// Kind names the relational backend the settings select.
func (s Settings) Kind() string {
	if s.SQLitePath != "" {
		return "sqlite"
	}
	return "postgres"
}

// Target describes the relational target without credentials.
func (s Settings) Target() string {
	if s.SQLitePath != "" {
		return s.SQLitePath
	}
	return RedactURL(s.PostgresURL)
}

// Backend bundles an open relational driver and search index.
type Backend struct {
	Storage storage.Driver
	Index   search.Index
}

// Open connects to the relational store, ensures its schema, and creates
// the search index client. The index itself is not contacted.
func Open(ctx context.Context, s Settings, logger *slog.Logger) (*Backend, error) {
	driver, err := storageutils.NewDriver(ctx, storageutils.Options{
		SQLitePath:  s.SQLitePath,
		PostgresURL: s.PostgresURL,
	}, logger)
	if err != nil {
		return nil, err
	}

	index, err := OpenIndex(s, logger)
	if err != nil {
		driver.Close()
		return nil, err
	}

	return &Backend{Storage: driver, Index: index}, nil
}

// OpenIndex creates only the search index client.
func OpenIndex(s Settings, logger *slog.Logger) (search.Index, error) {
	index, err := opensearch.NewDriver(opensearch.Config{
		URL:   s.OpenSearchURL,
		Index: s.Index,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating opensearch client: %w", err)
	}
	return index, nil
}

// Close releases both stores.
func (b *Backend) Close() error {
	return errors.Join(b.Storage.Close(), b.Index.Close())
}

// RedactURL masks the password in a connection URL. Strings that do not
// parse as URLs are returned as host-less placeholders.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	return u.Redacted()
}
