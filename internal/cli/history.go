package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/wsbump/internal/config"
	clierrors "github.com/ariel-frischer/wsbump/internal/errors"
	"github.com/ariel-frischer/wsbump/internal/history"
)

var (
	historyRoot   string
	historyModule string
	historyLimit  int
	historyClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the releases written by apply",
	Long: `List the releases written by 'wsbump apply', oldest first.

The log lives in .wsbump/releases.yml under the workspace root and keeps the
most recent 100 releases.`,
	Example: `  # All recorded releases
  wsbump history

  # The last 5 releases that changed @std/http
  wsbump history --module @std/http --limit 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 0 {
			return withExit(ExitInvalidArguments, clierrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("limit must be positive, got %d", historyLimit),
				"wsbump history --limit <n>",
			))
		}

		root, err := resolveRoot(historyRoot)
		if err != nil {
			return withExit(ExitInvalidArguments, clierrors.Wrap(err, clierrors.Argument))
		}
		dir := stateDir(root)
		out := cmd.OutOrStdout()

		if historyClear {
			if err := history.ClearHistory(dir); err != nil {
				return withExit(ExitFailure, clierrors.Wrap(err, clierrors.Runtime))
			}
			fmt.Fprintln(out, "History cleared.")
			return nil
		}

		h, err := history.LoadHistory(dir)
		if err != nil {
			return withExit(ExitFailure, clierrors.Wrap(err, clierrors.Runtime))
		}

		entries := history.Filter(h.Entries, historyModule, historyLimit)
		if len(entries) == 0 {
			if historyModule != "" {
				fmt.Fprintf(out, "No releases changed %s.\n", historyModule)
			} else {
				fmt.Fprintln(out, "No releases recorded.")
			}
			return nil
		}

		displayEntries(cmd, entries)
		return nil
	},
}

func init() {
	historyCmd.GroupID = GroupInfo
	historyCmd.Flags().StringVar(&historyRoot, "root", "", "Workspace directory (default: current directory)")
	historyCmd.Flags().StringVarP(&historyModule, "module", "m", "", "Only releases that changed this module")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Limit to last N releases (most recent)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Remove the release log")
	rootCmd.AddCommand(historyCmd)
}

// stateDir is where wsbump keeps state for the workspace at root.
func stateDir(root string) string {
	return filepath.Join(root, config.ProjectConfigDir())
}

func displayEntries(cmd *cobra.Command, entries []history.ReleaseEntry) {
	out := cmd.OutOrStdout()

	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, e := range entries {
		start := e.Start
		if start == "" {
			start = "(root)"
		}
		fmt.Fprintf(out, "%s  %s\n", cyan(e.Timestamp.Format("2006-01-02 15:04:05")), dim(start+".."+e.Base))

		changes := make([]string, 0, len(e.Modules))
		for _, m := range e.Modules {
			changes = append(changes, fmt.Sprintf("%s %s -> %s", m.Module, m.From, green(m.To)))
		}
		fmt.Fprintf(out, "  %s\n", strings.Join(changes, "\n  "))
	}
}
