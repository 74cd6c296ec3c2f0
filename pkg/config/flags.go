package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --postgres-url
// on both "memseed seed" and "memseed clear").
type Flag struct {
	// Name is the long flag name (e.g. "postgres-url").
	Name string

	// Shorthand is the one-letter short flag (e.g. "c"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "postgres.url").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagCount         = "count"
	FlagSource        = "source"
	FlagBatchSize     = "batch-size"
	FlagPostgresURL   = "postgres-url"
	FlagSQLite        = "sqlite"
	FlagOpenSearchURL = "opensearch-url"
	FlagIndex         = "index"
	FlagQuotesURL     = "quotes-url"
	FlagQuotesTimeout = "quotes-timeout"
	FlagKafkaBrokers  = "kafka-brokers"
	FlagKafkaTopic    = "kafka-topic"
)

// Flags is the registry shared by every memseed command.
var Flags = FlagSet{
	FlagCount:         {Name: "count", Shorthand: "c", ViperKey: "seed.count", Description: "Number of memories to generate"},
	FlagSource:        {Name: "source", Shorthand: "s", ViperKey: "seed.source", Description: "Data source: all, quotes, synthetic, or mixed"},
	FlagBatchSize:     {Name: "batch-size", ViperKey: "seed.batch_size", Description: "Rows per relational transaction"},
	FlagPostgresURL:   {Name: "postgres-url", ViperKey: "postgres.url", Description: "PostgreSQL connection URL"},
	FlagSQLite:        {Name: "sqlite", ViperKey: "sqlite.path", Description: "Path to a SQLite database, used instead of PostgreSQL"},
	FlagOpenSearchURL: {Name: "opensearch-url", ViperKey: "opensearch.url", Description: "OpenSearch base URL"},
	FlagIndex:         {Name: "index", ViperKey: "opensearch.index", Description: "OpenSearch index name"},
	FlagQuotesURL:     {Name: "quotes-url", ViperKey: "quotes.url", Description: "URL of the JSON quote feed"},
	FlagQuotesTimeout: {Name: "quotes-timeout", ViperKey: "quotes.timeout", Description: "Timeout for downloading the quote feed"},
	FlagKafkaBrokers:  {Name: "kafka-brokers", ViperKey: "events.brokers", Description: "Comma-separated Kafka brokers for memory events (disabled when empty)"},
	FlagKafkaTopic:    {Name: "kafka-topic", ViperKey: "events.topic", Description: "Kafka topic for memory events"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *int) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultInt returns the default int value for a viper key from NewDefaultConfig.
func defaultInt(viperKey string) int {
	v := viper.New()
	setViperDefaults(v)
	return v.GetInt(viperKey)
}
