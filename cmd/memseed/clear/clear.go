// Package clearcmder provides the clear command, which removes every seeded
// memory from the relational store and recreates the search index.
package clearcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/memseed/cmd/memseed/backend"
	"github.com/papercomputeco/memseed/pkg/cliui"
	"github.com/papercomputeco/memseed/pkg/config"
	"github.com/papercomputeco/memseed/pkg/dotdir"
	"github.com/papercomputeco/memseed/pkg/logger"
	"github.com/papercomputeco/memseed/pkg/seeder"
)

const clearLongDesc string = `Delete all memories.

Deletes every row from the memory_index table, then drops and recreates the
OpenSearch index. Requires --yes.

Examples:
  memseed clear --yes
  memseed clear --yes --sqlite ./memseed.db`

const clearShortDesc string = "Delete all memories"

// ErrNotConfirmed is returned when clear runs without --yes.
var ErrNotConfirmed = errors.New("refusing to delete memories without --yes")

var clearFlags = []string{
	config.FlagPostgresURL,
	config.FlagSQLite,
	config.FlagOpenSearchURL,
	config.FlagIndex,
}

type clearCommander struct {
	yes bool

	postgresURL   string
	sqlitePath    string
	openSearchURL string
	index         string

	debug     bool
	configDir string
	out       io.Writer
}

func NewClearCmd() *cobra.Command {
	cmder := &clearCommander{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: clearShortDesc,
		Long:  clearLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmder.yes {
				return ErrNotConfirmed
			}

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.out = cmd.OutOrStdout()

			v, err := backend.LoadViper(cmd, clearFlags...)
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), backend.SettingsFromViper(v))
		},
	}

	cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Confirm deletion")
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgresURL, &cmder.postgresURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagOpenSearchURL, &cmder.openSearchURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagIndex, &cmder.index)

	return cmd
}

func (c *clearCommander) run(ctx context.Context, s backend.Settings) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	b, err := backend.Open(ctx, s, log)
	if err != nil {
		return err
	}
	defer b.Close()

	sd, err := seeder.New(seeder.Config{}, b.Storage, b.Index, seeder.WithLogger(log))
	if err != nil {
		return err
	}

	var cr *seeder.ClearResult
	if err := cliui.Step(c.out, "Clearing "+s.Kind()+" and index "+s.Index, func() error {
		var clearErr error
		cr, clearErr = sd.Clear(ctx)
		return clearErr
	}); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Deleted %s memories\n", cliui.SuccessMark, cliui.NameStyle.Render(fmt.Sprint(cr.Rows)))
	if !cr.IndexCleared {
		fmt.Fprintf(c.out, "  %s Search index %q could not be recreated\n", cliui.WarnMark, s.Index)
	}
	fmt.Fprintln(c.out)

	if err := dotdir.NewManager().ClearRunState(c.configDir); err != nil {
		log.Warn("failed to clear run state", "error", err)
	}
	return nil
}
