// Package testutil tests the git fixture helpers.
// Related: internal/testutil/gitrepo.go
// Tags: testutil, git, fixtures

package testutil

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitRepo_CommitAndTag(t *testing.T) {
	t.Parallel()

	r := NewGitRepo(t)
	first := r.Commit("chore: init", map[string]string{"a/deno.json": `{"version":"1.0.0"}`})
	second := r.Commit("fix(a): empty", nil)
	r.Tag("v1.0.0", first, false)
	r.Tag("v1.0.1", second, true)

	c1, err := r.Repo.CommitObject(first)
	require.NoError(t, err)
	c2, err := r.Repo.CommitObject(second)
	require.NoError(t, err)
	assert.True(t, c2.Author.When.After(c1.Author.When))
	assert.Equal(t, []string{first.String()}, parentHashes(t, r, second))

	tags, err := r.Repo.Tags()
	require.NoError(t, err)
	count := 0
	require.NoError(t, tags.ForEach(func(_ *plumbing.Reference) error {
		count++
		return nil
	}))
	assert.Equal(t, 2, count)

	assert.Equal(t, `{"version":"1.0.0"}`, r.Read("a/deno.json"))
}

func TestGitRepo_WriteDoesNotStage(t *testing.T) {
	t.Parallel()

	r := NewGitRepo(t)
	r.Commit("chore: init", map[string]string{"x.txt": "one"})
	r.Write("x.txt", "two")

	wt, err := r.Repo.Worktree()
	require.NoError(t, err)
	status, err := wt.Status()
	require.NoError(t, err)
	assert.False(t, status.IsClean())
	assert.Equal(t, "two", r.Read("x.txt"))
}

func parentHashes(t *testing.T, r *GitRepo, hash plumbing.Hash) []string {
	t.Helper()

	c, err := r.Repo.CommitObject(hash)
	require.NoError(t, err)
	var out []string
	for _, p := range c.ParentHashes {
		out = append(out, p.String())
	}
	return out
}
