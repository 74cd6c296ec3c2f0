package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/papercomputeco/memseed/pkg/dotdir"
)

const envPrefix = "MEMSEED"

// legacyEnv maps config keys to the unprefixed variables the seeder has
// always honored.
var legacyEnv = map[string]string{
	"postgres.url":   "DATABASE_URL",
	"opensearch.url": "OPENSEARCH_URL",
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), loads .env files, reads the
// config.toml file (if found via dotdir resolution), and binds environment
// variables with the MEMSEED_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (MEMSEED_POSTGRES_URL, DATABASE_URL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. .env files never override variables already set in the process.
	envFiles := []string{".env"}
	if target != "" {
		envFiles = append(envFiles, filepath.Join(target, ".env"))
	}
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	// 4. Environment variables: MEMSEED_POSTGRES_URL, MEMSEED_SEED_COUNT, etc.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("binding %s: %w", legacy, err)
		}
	}

	return v, nil
}

// Brokers returns the configured Kafka brokers, accepting either a TOML list
// or a comma-separated string from a flag or environment variable.
func Brokers(v *viper.Viper) []string {
	return SplitList(strings.Join(v.GetStringSlice("events.brokers"), ","))
}

func loadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("postgres.url", d.Postgres.URL)
	v.SetDefault("sqlite.path", d.SQLite.Path)

	// OpenSearch
	v.SetDefault("opensearch.url", d.OpenSearch.URL)
	v.SetDefault("opensearch.index", d.OpenSearch.Index)

	// Quote feed
	v.SetDefault("quotes.url", d.Quotes.URL)
	v.SetDefault("quotes.timeout", d.Quotes.Timeout)

	// Seed
	v.SetDefault("seed.count", d.Seed.Count)
	v.SetDefault("seed.source", d.Seed.Source)
	v.SetDefault("seed.batch_size", d.Seed.BatchSize)

	// Events
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)
}
