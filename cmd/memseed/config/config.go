// Package configcmder provides the config command for managing persistent
// memseed configuration stored in the .memseed/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent memseed configuration.

Configuration is stored as config.toml in the .memseed/ directory and provides
default values for command flags. Environment variables (MEMSEED_SEED_COUNT,
DATABASE_URL, ...) override the file, and CLI flags override both.

Keys use dotted notation matching the TOML section structure:
  postgres.url, sqlite.path,
  opensearch.url, opensearch.index,
  quotes.url, quotes.timeout,
  seed.count, seed.source, seed.batch_size,
  events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  memseed config set <key> <value>    Set a configuration value
  memseed config get <key>            Get a configuration value
  memseed config list                 List all configuration values

Examples:
  memseed config set opensearch.url http://search:9200
  memseed config set seed.source synthetic
  memseed config get postgres.url
  memseed config list`

const configShortDesc string = "Manage persistent memseed configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
