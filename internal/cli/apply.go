package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/wsbump/internal/errors"
	"github.com/ariel-frischer/wsbump/internal/history"
	"github.com/ariel-frischer/wsbump/internal/output"
	"github.com/ariel-frischer/wsbump/internal/report"
)

var (
	applyOpts   planFlags
	applyDryRun bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Write the planned versions into the member manifests",
	Long: `Compute the same plan as 'wsbump plan' and write every new version into the
manifest of its module. Only the version field is changed; formatting and comments
are kept.

Every release that changed a manifest is recorded in .wsbump/releases.yml; list
them with 'wsbump history'.

Modules whose manifest already holds the planned version are left untouched. When
--fail-on-diagnostics is set and a commit could not be used, nothing is written.`,
	Example: `  # Preview the manifest updates
  wsbump apply --dry-run

  # Update the manifests
  wsbump apply`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := computePlan(cmd, &applyOpts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := report.Write(out, run.cfg.Format, run.plan, reportOptions(run, applyOpts.verbose)); err != nil {
			return withExit(ExitFailure, clierrors.Wrap(err, clierrors.Runtime))
		}
		if err := checkDiagnostics(run); err != nil {
			return err
		}

		// Status lines go to stderr when stdout carries a document.
		status := out
		if run.cfg.Format != "text" {
			status = cmd.ErrOrStderr()
		}

		writer := history.NewWriter(stateDir(run.ws.Root), history.DefaultMaxEntries)
		writer.Warnings = cmd.ErrOrStderr()

		var changes []history.ModuleChange
		for _, r := range run.plan.Changed() {
			m, ok := run.ws.Module(r.Module)
			if !ok || m.Version == r.To {
				continue
			}
			if applyDryRun {
				output.PrintDryRun(status, fmt.Sprintf("set %s to %s in %s", r.Module, r.To, filepath.FromSlash(m.Path)))
				continue
			}
			file, err := run.ws.WriteVersion(r.Module, r.To)
			if err != nil {
				// Manifests written so far stay changed on disk.
				writer.LogRelease(run.start, run.base, changes)
				return withExit(ExitFailure, clierrors.WriteFailed(r.Module, err))
			}
			output.PrintSuccess(status, fmt.Sprintf("%s %s -> %s (%s)", r.Module, r.From, r.To, file))
			changes = append(changes, history.ModuleChange{Module: r.Module, From: r.From, To: r.To})
		}

		if applyDryRun {
			return nil
		}
		fmt.Fprintf(status, "Updated %d manifest(s)\n", len(changes))
		writer.LogRelease(run.start, run.base, changes)
		return nil
	},
}

func init() {
	applyCmd.GroupID = GroupRelease
	addPlanFlags(applyCmd, &applyOpts)
	applyCmd.Flags().BoolVarP(&applyDryRun, "dry-run", "n", false, "Show what would be written without changing any file")
	rootCmd.AddCommand(applyCmd)
}
