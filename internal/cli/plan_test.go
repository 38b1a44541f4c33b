// Package cli tests the plan command end to end against a real repository.
// Related: internal/cli/plan.go, internal/cli/pipeline.go
// Tags: cli, plan, git, workspace

package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/wsbump/internal/report"
	"github.com/ariel-frischer/wsbump/internal/testutil"
)

// withReleaseCommits adds one commit per module plus one unusable commit.
func withReleaseCommits(f *fixture) {
	f.Commit("feat(cli): add prompt helper", nil)
	f.Commit("fix(http): handle empty body", nil)
	f.Commit("refactor(log): tidy handlers", nil)
	f.Commit("update readme", nil)
}

func decodeJSONPlan(t *testing.T, out string) report.Document {
	t.Helper()

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	return doc
}

func byModule(doc report.Document) map[string]report.Resolution {
	out := make(map[string]report.Resolution, len(doc.Resolutions))
	for _, r := range doc.Resolutions {
		out[r.Module] = r
	}
	return out
}

func TestPlan_JSON(t *testing.T) {
	f := newFixture(t)
	withReleaseCommits(f)

	res := runCLI(t, "plan", "--format", "json")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	doc := decodeJSONPlan(t, res.stdout)
	assert.Equal(t, "0.1.0", doc.Start)
	assert.Equal(t, "HEAD", doc.Base)

	got := byModule(doc)
	assert.Equal(t, report.Resolution{Module: "@std/cli", From: "1.0.0", To: "1.1.0", Magnitude: "minor"}, got["@std/cli"])
	assert.Equal(t, report.Resolution{Module: "@std/http", From: "0.5.0", To: "0.5.1", Magnitude: "patch"}, got["@std/http"])
	assert.Equal(t, report.Resolution{Module: "@std/log", From: "2.1.0", To: "2.1.1", Magnitude: "patch"}, got["@std/log"])

	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, "unknown_commit", doc.Diagnostics[0].Kind)
	assert.Equal(t, "update readme", doc.Diagnostics[0].Subject)
}

func TestPlan_YAML(t *testing.T) {
	f := newFixture(t)
	withReleaseCommits(f)

	res := runCLI(t, "plan", "--format", "yaml")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var doc report.Document
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, "1.1.0", byModule(doc)["@std/cli"].To)
}

func TestPlan_Text(t *testing.T) {
	f := newFixture(t)
	withReleaseCommits(f)

	res := runCLI(t, "--no-color", "plan", "--verbose")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Release plan 0.1.0..HEAD")
	assert.Contains(t, res.stdout, "@std/cli")
	assert.Contains(t, res.stdout, "1.1.0")
	assert.Contains(t, res.stdout, "add prompt helper")
	assert.Contains(t, res.stdout, "unknown_commit")
	assert.Contains(t, res.stderr, "Read 4 commits")
}

func TestPlan_ExplicitRange(t *testing.T) {
	f := newFixture(t)
	withReleaseCommits(f)

	// HEAD~1 leaves out the unusable commit and reads manifests from the tree.
	res := runCLI(t, "plan", "--format", "json", "--start", "0.1.0", "--base", "HEAD~1")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	doc := decodeJSONPlan(t, res.stdout)
	assert.Equal(t, "HEAD~1", doc.Base)
	assert.Empty(t, doc.Diagnostics)
	assert.Len(t, doc.Resolutions, 3)
}

func TestPlan_ManualEdit(t *testing.T) {
	f := newFixture(t)
	withReleaseCommits(f)
	f.Write("log/deno.json", "{\n  \"name\": \"@std/log\",\n  \"version\": \"3.0.0\"\n}\n")

	res := runCLI(t, "plan", "--format", "json")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	got := byModule(decodeJSONPlan(t, res.stdout))
	assert.Equal(t, report.Resolution{Module: "@std/log", From: "2.1.0", To: "3.0.0", Magnitude: "major"}, got["@std/log"])
}

func TestPlan_NoTags(t *testing.T) {
	f := newEmptyFixture(t)
	f.Commit("chore: initial import", map[string]string{
		"deno.json":     `{"workspace": ["./cli"]}`,
		"cli/deno.json": `{"name": "@std/cli", "version": "0.1.0"}`,
	})
	f.Commit("feat(cli): first feature", nil)

	res := runCLI(t, "plan", "--format", "json")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "no release tag found")

	doc := decodeJSONPlan(t, res.stdout)
	assert.Empty(t, doc.Start)
	assert.Equal(t, report.Resolution{Module: "@std/cli", From: "0.0.0", To: "0.1.0", Magnitude: "minor"}, byModule(doc)["@std/cli"])
}

func TestPlan_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		setup      func(f *fixture)
		args       []string
		wantCode   int
		wantStderr string
	}{
		"diagnostics with fail flag": {
			setup:      withReleaseCommits,
			args:       []string{"plan", "--fail-on-diagnostics"},
			wantCode:   ExitDiagnostics,
			wantStderr: "1 commit(s) could not be attributed",
		},
		"skipped commits do not fail": {
			setup: func(f *fixture) {
				f.Commit("chore: bump deps", nil)
			},
			args:     []string{"plan", "--fail-on-diagnostics"},
			wantCode: ExitSuccess,
		},
		"unknown start revision": {
			args:       []string{"plan", "--start", "v9.9.9"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "cannot resolve start revision",
		},
		"unknown base revision": {
			args:       []string{"plan", "--base", "no-such-branch"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "cannot resolve base revision",
		},
		"unsupported format": {
			args:       []string{"plan", "--format", "xml"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "unsupported output format",
		},
		"metadata-only edit": {
			setup: func(f *fixture) {
				f.Commit("fix(log): guard nil writer", nil)
				f.Write("log/deno.json", `{"name": "@std/log", "version": "2.1.0+build.7"}`)
			},
			args:       []string{"plan"},
			wantCode:   ExitInconsistentVersion,
			wantStderr: "cannot reconcile manually edited version",
		},
		"broken member manifest": {
			setup: func(f *fixture) {
				f.Write("http/deno.jsonc", `{"name": "@std/http"}`)
			},
			args:       []string{"plan"},
			wantCode:   ExitFailure,
			wantStderr: "missing version",
		},
		"missing config file": {
			args:       []string{"--config", "nope.yml", "plan"},
			wantCode:   ExitConfig,
			wantStderr: "loading configuration",
		},
		"positional argument": {
			args:     []string{"plan", "extra"},
			wantCode: ExitInvalidArguments,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			if tc.setup != nil {
				tc.setup(f)
			}

			res := runCLI(t, tc.args...)
			assert.Equal(t, tc.wantCode, res.code, "stderr: %s", res.stderr)
			if tc.wantStderr != "" {
				assert.Contains(t, res.stderr, tc.wantStderr)
			}
		})
	}
}

func TestPlan_NotAGitRepository(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateHome(t, dir)

	res := runCLI(t, "plan", "--root", dir)
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "is not inside a git repository")
}

func TestPlan_RootFlag(t *testing.T) {
	f := newFixture(t)
	withReleaseCommits(f)
	t.Chdir(t.TempDir())

	res := runCLI(t, "plan", "--format", "json", "--root", f.Dir)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Len(t, decodeJSONPlan(t, res.stdout).Resolutions, 3)
}

func TestPlan_Debug(t *testing.T) {
	f := newFixture(t)
	withReleaseCommits(f)

	res := runCLI(t, "--debug", "plan")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "[debug] [git]")
	assert.Contains(t, res.stderr, "[debug] [workspace]")
}
