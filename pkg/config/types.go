package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the persistent memseed configuration stored as config.toml
// in the .memseed/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Postgres   PostgresConfig   `toml:"postgres"`
	SQLite     SQLiteConfig     `toml:"sqlite"`
	OpenSearch OpenSearchConfig `toml:"opensearch"`
	Quotes     QuotesConfig     `toml:"quotes"`
	Seed       SeedConfig       `toml:"seed"`
	Events     EventsConfig     `toml:"events"`
}

// PostgresConfig holds the relational store connection.
type PostgresConfig struct {
	URL string `toml:"url,omitempty"`
}

// SQLiteConfig selects a local SQLite database instead of PostgreSQL.
type SQLiteConfig struct {
	Path string `toml:"path,omitempty"`
}

// OpenSearchConfig holds the search index settings.
type OpenSearchConfig struct {
	URL   string `toml:"url,omitempty"`
	Index string `toml:"index,omitempty"`
}

// QuotesConfig holds the remote quote feed settings. Timeout is a Go
// duration string such as "30s".
type QuotesConfig struct {
	URL     string `toml:"url,omitempty"`
	Timeout string `toml:"timeout,omitempty"`
}

// SeedConfig holds defaults for the seed command.
type SeedConfig struct {
	Count     int    `toml:"count,omitempty"`
	Source    string `toml:"source,omitempty"`
	BatchSize int    `toml:"batch_size,omitempty"`
}

// EventsConfig holds the optional Kafka event stream. Publishing is
// disabled when Brokers is empty.
type EventsConfig struct {
	Brokers []string `toml:"brokers,omitempty"`
	Topic   string   `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"postgres.url": {
		get: func(c *Config) string { return c.Postgres.URL },
		set: func(c *Config, v string) error { c.Postgres.URL = v; return nil },
	},
	"sqlite.path": {
		get: func(c *Config) string { return c.SQLite.Path },
		set: func(c *Config, v string) error { c.SQLite.Path = v; return nil },
	},
	"opensearch.url": {
		get: func(c *Config) string { return c.OpenSearch.URL },
		set: func(c *Config, v string) error { c.OpenSearch.URL = v; return nil },
	},
	"opensearch.index": {
		get: func(c *Config) string { return c.OpenSearch.Index },
		set: func(c *Config, v string) error { c.OpenSearch.Index = v; return nil },
	},
	"quotes.url": {
		get: func(c *Config) string { return c.Quotes.URL },
		set: func(c *Config, v string) error { c.Quotes.URL = v; return nil },
	},
	"quotes.timeout": {
		get: func(c *Config) string { return c.Quotes.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for quotes.timeout: %w", err)
			}
			c.Quotes.Timeout = v
			return nil
		},
	},
	"seed.count": {
		get: func(c *Config) string { return strconv.Itoa(c.Seed.Count) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for seed.count: %w", err)
			}
			if n < 0 {
				return fmt.Errorf("invalid value for seed.count: %d is negative", n)
			}
			c.Seed.Count = n
			return nil
		},
	},
	"seed.source": {
		get: func(c *Config) string { return c.Seed.Source },
		set: func(c *Config, v string) error {
			switch v {
			case "all", "quotes", "synthetic", "mixed":
				c.Seed.Source = v
				return nil
			}
			return fmt.Errorf("invalid value for seed.source: %q (available: all, quotes, synthetic, mixed)", v)
		},
	},
	"seed.batch_size": {
		get: func(c *Config) string { return strconv.Itoa(c.Seed.BatchSize) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for seed.batch_size: %w", err)
			}
			if n <= 0 {
				return fmt.Errorf("invalid value for seed.batch_size: %d must be positive", n)
			}
			c.Seed.BatchSize = n
			return nil
		},
	},
	"events.brokers": {
		get: func(c *Config) string { return strings.Join(c.Events.Brokers, ",") },
		set: func(c *Config, v string) error { c.Events.Brokers = SplitList(v); return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
