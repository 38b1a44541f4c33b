// Package cli tests shared helpers: a fixture repository holding a deno workspace and
// a runner that executes the root command with captured output.
// Related: internal/cli/root.go, internal/cli/pipeline.go
// Tags: cli, fixtures, git

package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ariel-frischer/wsbump/internal/git"
	"github.com/ariel-frischer/wsbump/internal/testutil"
	"github.com/ariel-frischer/wsbump/internal/workspace"
)

// fixture is a git repository holding a deno workspace.
type fixture struct {
	*testutil.GitRepo
}

// newFixture creates a repository holding three modules, commits them and tags the
// commit 0.1.0. HOME and the working directory are isolated.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := newEmptyFixture(t)
	initial := f.Commit("chore: initial import", map[string]string{
		"deno.json":       `{"workspace": ["./cli", "./http", "./log"]}` + "\n",
		"cli/deno.json":   "{\n  \"name\": \"@std/cli\",\n  \"version\": \"1.0.0\",\n  \"exports\": \"./mod.ts\"\n}\n",
		"http/deno.jsonc": "{\n  // served over HTTP\n  \"name\": \"@std/http\",\n  \"version\": \"0.5.0\"\n}\n",
		"log/deno.json":   "{\n  \"name\": \"@std/log\",\n  \"version\": \"2.1.0\"\n}\n",
	})
	f.Tag("0.1.0", initial, false)
	return f
}

func newEmptyFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{GitRepo: testutil.NewGitRepo(t)}
	testutil.IsolateHome(t, f.Dir)
	return f
}

// result is the captured outcome of one CLI invocation.
type result struct {
	stdout string
	stderr string
	code   int
}

// runCLI executes the root command with args. Flag values left over from earlier
// invocations are reset first.
func runCLI(t *testing.T, args ...string) result {
	t.Helper()

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		git.SetDebugLogger(nil)
		workspace.SetDebugLogger(nil)
	})

	code := Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
