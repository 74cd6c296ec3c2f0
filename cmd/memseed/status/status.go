// Package statuscmder provides the status command for displaying the most
// recent seed run recorded in the .memseed directory.
package statuscmder

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/memseed/pkg/cliui"
	"github.com/papercomputeco/memseed/pkg/dotdir"
)

const statusLongDesc string = `Show the last seed run.

Reads the local .memseed/ directory (or ~/.memseed/) and prints what the most
recent seed run wrote, including memories whose relational row was committed
without a search document.

Examples:
  memseed status`

const statusShortDesc string = "Show the last seed run"

const maxListedUnindexed = 10

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStatus(cmd.OutOrStdout(), configDir)
		},
	}

	return cmd
}

func runStatus(out io.Writer, configDir string) error {
	state, err := dotdir.NewManager().LoadRunState(configDir)
	if err != nil {
		return fmt.Errorf("loading run state: %w", err)
	}

	if state == nil {
		fmt.Fprintf(out, "  %s No seed run recorded.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	md := Markdown(state)
	if cliui.IsTerminal(out) {
		if rendered, err := cliui.RenderMarkdown(md); err == nil {
			md = rendered
		}
	}
	fmt.Fprint(out, md)
	return nil
}

// Markdown formats a run state as a markdown report.
func Markdown(state *dotdir.RunState) string {
	var b strings.Builder

	b.WriteString("# Last seed run\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Finished | %s |\n", state.FinishedAt.Local().Format(time.DateTime))
	fmt.Fprintf(&b, "| Source | %s |\n", state.Mode)
	fmt.Fprintf(&b, "| Backend | %s |\n", state.Backend)
	fmt.Fprintf(&b, "| Index | %s |\n", state.Index)
	fmt.Fprintf(&b, "| Inserted | %d of %d |\n", state.Inserted, state.Requested)
	fmt.Fprintf(&b, "| Errors | %d |\n", state.Errors)

	if n := len(state.Unindexed); n > 0 {
		fmt.Fprintf(&b, "\n## Missing from the search index (%d)\n\n", n)
		for _, id := range state.Unindexed[:min(n, maxListedUnindexed)] {
			fmt.Fprintf(&b, "- `%s`\n", id)
		}
		if n > maxListedUnindexed {
			fmt.Fprintf(&b, "- and %d more\n", n-maxListedUnindexed)
		}
	}

	return b.String()
}
