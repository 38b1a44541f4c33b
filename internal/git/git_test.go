// Package git tests history walking, tag discovery and file reads at a revision.
// Related: internal/git/git.go
// Tags: git, history, tags, tree

package git

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/wsbump/internal/testutil"
)

func subjects(t *testing.T, repo *Repository, start, end string) []string {
	t.Helper()

	commits, err := repo.CommitsBetween(context.Background(), start, end)
	require.NoError(t, err)

	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.Subject
	}
	return out
}

func TestOpen_DetectsRootFromSubdirectory(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	tr.Commit("chore: init", map[string]string{"pkg/a/deno.json": "{}"})

	repo, err := Open(filepath.Join(tr.Dir, "pkg", "a"))
	require.NoError(t, err)

	rel, err := repo.RelPath(filepath.Join(tr.Dir, "pkg"))
	require.NoError(t, err)
	assert.Equal(t, "pkg", rel)

	rel, err = repo.RelPath(tr.Dir)
	require.NoError(t, err)
	assert.Equal(t, "", rel)

	_, err = repo.RelPath(t.TempDir())
	assert.Error(t, err)
}

func TestOpen_NotARepository(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestCommitsBetween(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	first := tr.Commit("chore: init", nil)
	tr.Tag("v0.1.0", first, false)
	tr.Commit("feat(a): add thing\n\nWith a body.\n", nil)
	tr.Commit("fix(b): repair", nil)

	repo, err := Open(tr.Dir)
	require.NoError(t, err)

	tests := map[string]struct {
		start string
		end   string
		want  []string
	}{
		"since tag": {
			start: "v0.1.0",
			end:   "HEAD",
			want:  []string{"feat(a): add thing", "fix(b): repair"},
		},
		"whole history": {
			start: "",
			end:   "HEAD",
			want:  []string{"chore: init", "feat(a): add thing", "fix(b): repair"},
		},
		"relative revision": {
			start: "HEAD~1",
			end:   "HEAD",
			want:  []string{"fix(b): repair"},
		},
		"empty range": {
			start: "HEAD",
			end:   "HEAD",
			want:  []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, subjects(t, repo, tt.start, tt.end))
		})
	}

	commits, err := repo.CommitsBetween(context.Background(), "v0.1.0", "HEAD")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "With a body.", commits[0].Body)
	assert.Len(t, commits[0].ID, 40)
}

func TestCommitsBetween_AnnotatedStartTag(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	base := tr.Commit("chore: init", nil)
	tr.Tag("v1.0.0", base, true)
	tr.Commit("fix(a): after tag", nil)

	repo, err := Open(tr.Dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"fix(a): after tag"}, subjects(t, repo, "v1.0.0", "HEAD"))
}

func TestCommitsBetween_Errors(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	tr.Commit("chore: init", nil)

	repo, err := Open(tr.Dir)
	require.NoError(t, err)

	_, err = repo.CommitsBetween(context.Background(), "does-not-exist", "HEAD")
	assert.ErrorContains(t, err, "does-not-exist")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.CommitsBetween(ctx, "", "HEAD")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLatestTag(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	c1 := tr.Commit("chore: one", nil)
	tr.Tag("v0.1.0", c1, false)
	c2 := tr.Commit("chore: two", nil)
	tr.Tag("v0.2.0", c2, true)
	tr.Commit("fix(a): three", nil)

	repo, err := Open(tr.Dir)
	require.NoError(t, err)

	tag, err := repo.LatestTag()
	require.NoError(t, err)
	assert.Equal(t, "v0.2.0", tag)
}

func TestLatestTag_NoTags(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	tr.Commit("chore: init", nil)

	repo, err := Open(tr.Dir)
	require.NoError(t, err)

	_, err = repo.LatestTag()
	assert.ErrorIs(t, err, ErrNoTags)
}

func TestFileAt(t *testing.T) {
	t.Parallel()

	tr := testutil.NewGitRepo(t)
	tr.Commit("chore: init", map[string]string{"ws/a/deno.json": `{"version":"0.1.0"}`})
	tr.Commit("chore: bump", map[string]string{"ws/a/deno.json": `{"version":"0.2.0"}`})

	repo, err := Open(tr.Dir)
	require.NoError(t, err)

	old, err := repo.FileAt("HEAD~1", "ws")
	require.NoError(t, err)
	data, err := old.ReadFile("a/deno.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"0.1.0"}`, string(data))

	cur, err := repo.FileAt("HEAD", "")
	require.NoError(t, err)
	data, err = cur.ReadFile("ws/a/deno.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"0.2.0"}`, string(data))

	_, err = cur.ReadFile("ws/b/deno.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = repo.FileAt("nope", "")
	assert.Error(t, err)
}

func TestSetDebugLogger(t *testing.T) {
	var lines []string
	SetDebugLogger(func(format string, args ...any) {
		lines = append(lines, format)
	})
	defer SetDebugLogger(nil)

	tr := testutil.NewGitRepo(t)
	tr.Commit("chore: init", nil)
	_, err := Open(tr.Dir)
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
}
