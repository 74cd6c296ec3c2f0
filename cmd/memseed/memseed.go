// Package memseedcmder
package memseedcmder

import (
	"github.com/spf13/cobra"

	clearcmder "github.com/papercomputeco/memseed/cmd/memseed/clear"
	configcmder "github.com/papercomputeco/memseed/cmd/memseed/config"
	searchcmder "github.com/papercomputeco/memseed/cmd/memseed/search"
	seedcmder "github.com/papercomputeco/memseed/cmd/memseed/seed"
	statuscmder "github.com/papercomputeco/memseed/cmd/memseed/status"
	versioncmder "github.com/papercomputeco/memseed/cmd/version"
)

const memseedLongDesc string = `memseed fills an OpenMemory deployment with realistic test memories.

Every memory is written to the memory_index table (PostgreSQL or SQLite) and
to an OpenSearch index, and can optionally be announced on a Kafka topic.

Commands:
  memseed seed      Generate and write memories
  memseed search    Query the search index
  memseed clear     Delete all memories and recreate the index
  memseed status    Show the last seed run
  memseed config    Manage persistent configuration`

const memseedShortDesc string = "memseed - OpenMemory data seeder"

func NewMemseedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "memseed",
		Short:         memseedShortDesc,
		Long:          memseedLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding config.toml (default ./.memseed or ~/.memseed)")

	// Add subcommands
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(clearcmder.NewClearCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
