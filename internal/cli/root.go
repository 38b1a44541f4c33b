// Package cli implements the wsbump command line: cobra commands that load the
// workspace and its git history, build a release plan and print or apply it.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/wsbump/internal/errors"
	"github.com/ariel-frischer/wsbump/internal/git"
	"github.com/ariel-frischer/wsbump/internal/output"
	"github.com/ariel-frischer/wsbump/internal/workspace"
)

// Command groups shown in help output.
const (
	GroupRelease       = "release"
	GroupConfiguration = "configuration"
	GroupInfo          = "info"
)

var (
	configPath string
	debug      bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "wsbump",
	Short: "Plan version bumps for multi-module workspaces from conventional commits",
	Long: `wsbump reads the conventional commits made since the last release, works out which
workspace modules they touch and computes the next semantic version of each module.

Commit subjects follow <kind>(<module>[,<module>...]): <description>, where kind is one
of BREAKING, feat, deprecation, fix, perf, docs, style, refactor, test or chore and
module names either the full module name or its last path segment. Versions edited by
hand since the last release are kept as they are.

Source: https://github.com/ariel-frischer/wsbump`,
	Example: `  # Show what the next release would contain
  wsbump plan

  # Plan against an explicit range and print JSON
  wsbump plan --start v0.224.0 --base main --format json

  # Write the new versions into the member manifests
  wsbump apply`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			output.SetColor(false)
		}
		if debug {
			enableDebugLogging(cmd.ErrOrStderr())
		}
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
		&cobra.Group{ID: GroupInfo, Title: "Information Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to project config file (default: .wsbump/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// enableDebugLogging routes the package debug loggers to w.
func enableDebugLogging(w io.Writer) {
	logger := func(format string, args ...any) {
		fmt.Fprintf(w, "[debug] "+format+"\n", args...)
	}
	git.SetDebugLogger(logger)
	workspace.SetDebugLogger(logger)
}

// Execute runs the root command and returns the process exit code.
// Errors are printed to stderr before returning.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	clierrors.FprintAny(rootCmd.ErrOrStderr(), err)
	return ExitCode(err)
}

// Main is the entry point used by cmd/wsbump.
func Main() {
	os.Exit(Execute())
}
