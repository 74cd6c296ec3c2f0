// Package searchcmder provides the search command for querying seeded
// memories in the OpenSearch index.
package searchcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/memseed/cmd/memseed/backend"
	"github.com/papercomputeco/memseed/pkg/cliui"
	"github.com/papercomputeco/memseed/pkg/config"
	"github.com/papercomputeco/memseed/pkg/logger"
	"github.com/papercomputeco/memseed/pkg/search"
)

const searchLongDesc string = `Search seeded memories.

Runs a relevance query over memory content and tags in the OpenSearch index
and prints the best matches with their importance score.

Use --quiet to output only memory ids, one per line.

Examples:
  memseed search programming
  memseed search "database indexing" --top 10
  memseed search coffee --quiet`

const searchShortDesc string = "Search seeded memories"

var searchFlags = []string{
	config.FlagOpenSearchURL,
	config.FlagIndex,
}

type searchCommander struct {
	query string
	topK  int
	quiet bool

	openSearchURL string
	index         string

	debug bool
	out   io.Writer
}

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]
			cmder.out = cmd.OutOrStdout()

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			v, err := backend.LoadViper(cmd, searchFlags...)
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), backend.SettingsFromViper(v))
		},
	}

	cmd.Flags().IntVarP(&cmder.topK, "top", "k", 5, "Number of results to return")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only memory ids, one per line")
	config.AddStringFlag(cmd, config.Flags, config.FlagOpenSearchURL, &cmder.openSearchURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagIndex, &cmder.index)

	return cmd
}

func (c *searchCommander) run(ctx context.Context, s backend.Settings) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	index, err := backend.OpenIndex(s, log)
	if err != nil {
		return err
	}
	defer index.Close()

	hits, err := index.Search(ctx, c.query, c.topK)
	if err != nil {
		if errors.Is(err, search.ErrNotFound) {
			return fmt.Errorf("index %q does not exist, run memseed seed first", s.Index)
		}
		return err
	}

	if c.quiet {
		for _, h := range hits {
			fmt.Fprintln(c.out, h.ID)
		}
		return nil
	}

	if len(hits) == 0 {
		fmt.Fprintln(c.out, "No results found.")
		return nil
	}

	fmt.Fprintf(c.out, "\n%s %s\n\n",
		cliui.HeaderStyle.Render("Search Results for:"),
		cliui.KeyStyle.Render(fmt.Sprintf("%q", c.query)),
	)
	for i, h := range hits {
		c.printHit(i+1, h)
	}
	return nil
}

func (c *searchCommander) printHit(rank int, h search.Hit) {
	fmt.Fprintf(c.out, "  %s  %s  %s\n",
		cliui.NameStyle.Render(fmt.Sprintf("#%d", rank)),
		cliui.ScoreStyle.Render(fmt.Sprintf("[%.1f]", h.ImportanceScore)),
		cliui.DimStyle.Render(fmt.Sprintf("score %.2f  %s", h.Score, h.ID)),
	)
	fmt.Fprintf(c.out, "      %s\n", cliui.ValueStyle.Render(cliui.Preview(h.Content, 100)))
	if len(h.Tags) > 0 {
		fmt.Fprintf(c.out, "      %s\n", cliui.DimStyle.Render(strings.Join(h.Tags, ", ")))
	}
	fmt.Fprintln(c.out)
}
