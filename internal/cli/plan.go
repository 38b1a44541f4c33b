package cli

import (
	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/wsbump/internal/errors"
	"github.com/ariel-frischer/wsbump/internal/report"
)

var planOpts planFlags

var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"p"},
	Short:   "Show the version bumps the commits since the last release call for (p)",
	Long: `Show the version bumps the commits since the last release call for.

The plan compares the workspace at --base with the manifests at --start, classifies every
commit in between and prints the next version of each affected module. Commits that
cannot be attributed to a module are listed as diagnostics.

Nothing is written; use 'wsbump apply' to update the manifests.`,
	Example: `  # Plan from the latest tag to the working tree
  wsbump plan

  # Include the commits behind every module
  wsbump plan --verbose

  # Machine-readable output for CI, failing on unusable commits
  wsbump plan --format json --fail-on-diagnostics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := computePlan(cmd, &planOpts)
		if err != nil {
			return err
		}

		if err := report.Write(cmd.OutOrStdout(), run.cfg.Format, run.plan, reportOptions(run, planOpts.verbose)); err != nil {
			return withExit(ExitFailure, clierrors.Wrap(err, clierrors.Runtime))
		}
		return checkDiagnostics(run)
	},
}

func init() {
	planCmd.GroupID = GroupRelease
	addPlanFlags(planCmd, &planOpts)
	rootCmd.AddCommand(planCmd)
}
