package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/wsbump/internal/bump"
	"github.com/ariel-frischer/wsbump/internal/config"
	clierrors "github.com/ariel-frischer/wsbump/internal/errors"
	"github.com/ariel-frischer/wsbump/internal/git"
	"github.com/ariel-frischer/wsbump/internal/output"
	"github.com/ariel-frischer/wsbump/internal/progress"
	"github.com/ariel-frischer/wsbump/internal/report"
	"github.com/ariel-frischer/wsbump/internal/semver"
	"github.com/ariel-frischer/wsbump/internal/workspace"
)

// defaultBase is the base revision that reads manifests from the working tree.
const defaultBase = "HEAD"

// planFlags holds the flags shared by plan and apply.
type planFlags struct {
	root              string
	start             string
	base              string
	format            string
	failOnDiagnostics bool
	verbose           bool
}

func addPlanFlags(cmd *cobra.Command, f *planFlags) {
	cmd.Flags().StringVar(&f.root, "root", "", "Workspace directory (default: current directory)")
	cmd.Flags().StringVar(&f.start, "start", "", "Revision of the previous release (default: latest tag)")
	cmd.Flags().StringVar(&f.base, "base", "", "Revision being released (default: HEAD, read from the working tree)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&f.failOnDiagnostics, "fail-on-diagnostics", false, "Exit 1 when a commit could not be attributed to a module")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "List the commits behind every module")
}

// planRun is a computed plan together with what it was computed from.
type planRun struct {
	cfg   *config.Configuration
	ws    *workspace.Workspace
	plan  *bump.Plan
	start string
	base  string
}

// loadConfig loads the configuration and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command, f *planFlags) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, withExit(ExitConfig, clierrors.ConfigLoadFailed(err))
	}

	if f == nil {
		return cfg, nil
	}
	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = f.root
	}
	if flags.Changed("start") {
		cfg.Start = f.start
	}
	if flags.Changed("base") {
		cfg.Base = f.base
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("fail-on-diagnostics") {
		cfg.FailOnDiagnostics = f.failOnDiagnostics
	}

	if !slices.Contains(report.Formats, cfg.Format) {
		return nil, withExit(ExitInvalidArguments, clierrors.InvalidFormat(cfg.Format))
	}
	return cfg, nil
}

// computePlan loads the workspace at base and the versions at start, walks the commits
// in between and builds the plan.
func computePlan(cmd *cobra.Command, f *planFlags) (*planRun, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stderr := cmd.ErrOrStderr()

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}

	root, err := resolveRoot(cfg.Root)
	if err != nil {
		return nil, withExit(ExitInvalidArguments, clierrors.Wrap(err, clierrors.Argument))
	}

	repo, err := git.Open(root)
	if err != nil {
		return nil, withExit(ExitFailure, clierrors.NotAGitRepository(root, err))
	}
	rel, err := repo.RelPath(root)
	if err != nil {
		return nil, withExit(ExitFailure, clierrors.Wrap(err, clierrors.History))
	}

	ws, err := loadWorkspace(ctx, repo, root, rel, cfg)
	if err != nil {
		return nil, err
	}

	start := cfg.Start
	if start == "" {
		start, err = repo.LatestTag()
		switch {
		case errors.Is(err, git.ErrNoTags):
			output.PrintWarning(stderr, "no release tag found; planning from the first commit and treating every module as new")
			start = ""
		case err != nil:
			return nil, withExit(ExitFailure, clierrors.Wrap(err, clierrors.History))
		}
	}

	previous := map[string]string{}
	if start != "" {
		reader, err := repo.FileAt(start, rel)
		if err != nil {
			return nil, withExit(ExitInvalidArguments, clierrors.InvalidRevision("start", start, err))
		}
		previous, err = workspace.LoadSnapshot(ctx, ws, reader)
		if err != nil {
			return nil, withExit(ExitFailure, clierrors.InvalidManifest(err))
		}
	}

	commits, err := readCommits(ctx, stderr, repo, start, cfg.Base)
	if err != nil {
		return nil, err
	}

	plan, err := bump.BuildPlan(bump.PlanInput{
		Commits:  commits,
		Modules:  ws.Modules,
		Previous: previous,
	})
	if err != nil {
		if errors.Is(err, semver.ErrInconsistentVersion) {
			return nil, withExit(ExitInconsistentVersion, clierrors.InconsistentVersion(err))
		}
		return nil, withExit(ExitFailure, clierrors.Wrap(err, clierrors.Version))
	}

	return &planRun{cfg: cfg, ws: ws, plan: plan, start: start, base: cfg.Base}, nil
}

// loadWorkspace reads the modules at base. The default base reads the working tree so
// that uncommitted manual edits are taken into account.
func loadWorkspace(ctx context.Context, repo *git.Repository, root, rel string, cfg *config.Configuration) (*workspace.Workspace, error) {
	opts := cfg.WorkspaceOptions()

	var (
		ws  *workspace.Workspace
		err error
	)
	if cfg.Base == defaultBase {
		ws, err = workspace.Load(ctx, root, opts)
	} else {
		reader, rerr := repo.FileAt(cfg.Base, rel)
		if rerr != nil {
			return nil, withExit(ExitInvalidArguments, clierrors.InvalidRevision("base", cfg.Base, rerr))
		}
		ws, err = workspace.LoadFrom(ctx, root, reader, opts)
	}
	if err == nil {
		return ws, nil
	}

	var manifestErr *workspace.ManifestError
	if errors.As(err, &manifestErr) && manifestErr.Path != opts.RootManifest {
		return nil, withExit(ExitFailure, clierrors.InvalidManifest(err))
	}
	return nil, withExit(ExitFailure, clierrors.WorkspaceNotFound(root, cfg.RootManifest, err))
}

func readCommits(ctx context.Context, stderr io.Writer, repo *git.Repository, start, base string) ([]bump.Commit, error) {
	caps := progress.TerminalCapabilities{}
	if f, ok := stderr.(*os.File); ok {
		caps = progress.DetectTerminalCapabilities(f)
	}

	ind := progress.Start(stderr, caps, fmt.Sprintf("Reading commits %s..%s", rangeLabel(start), base))
	commits, err := repo.CommitsBetween(ctx, start, base)
	if err != nil {
		ind.Fail("Reading commits failed")
		if _, rerr := repo.ResolveRevision(base); rerr != nil {
			return nil, withExit(ExitInvalidArguments, clierrors.InvalidRevision("base", base, rerr))
		}
		if start != "" {
			if _, rerr := repo.ResolveRevision(start); rerr != nil {
				return nil, withExit(ExitInvalidArguments, clierrors.InvalidRevision("start", start, rerr))
			}
		}
		return nil, withExit(ExitFailure, clierrors.Wrap(err, clierrors.History))
	}
	ind.Succeed(fmt.Sprintf("Read %d commits", len(commits)))
	return commits, nil
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		return os.Getwd()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving --root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace root %s is not a directory", abs)
	}
	return abs, nil
}

func rangeLabel(start string) string {
	if start == "" {
		return "(root)"
	}
	return start
}

// reportOptions returns the rendering options for a run.
func reportOptions(run *planRun, verbose bool) report.Options {
	return report.Options{
		Start:   run.start,
		Base:    run.base,
		Plain:   noColor,
		Verbose: verbose,
		Width:   output.GetTerminalWidth(),
	}
}

// checkDiagnostics fails the command when fail_on_diagnostics is set and commits
// could not be used.
func checkDiagnostics(run *planRun) error {
	if !run.cfg.FailOnDiagnostics || !run.plan.HasErrors() {
		return nil
	}
	count := 0
	for _, d := range run.plan.Diagnostics {
		if d.IsError() {
			count++
		}
	}
	return withExit(ExitDiagnostics, clierrors.DiagnosticsPresent(count))
}
