// Package testutil provides test utilities and helpers for wsbump tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepo is a throwaway repository in a temp directory with a deterministic commit
// clock: every commit is one minute after the previous one.
type GitRepo struct {
	t    *testing.T
	Dir  string
	Repo *git.Repository
	when time.Time
}

// NewGitRepo initializes an empty repository in a temp directory removed after the test.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("initializing repository: %v", err)
	}

	return &GitRepo{
		t:    t,
		Dir:  dir,
		Repo: repo,
		when: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Commit writes files, stages them and commits with message. A nil files map makes
// an empty commit.
func (r *GitRepo) Commit(message string, files map[string]string) plumbing.Hash {
	r.t.Helper()

	wt, err := r.Repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}

	for name, content := range files {
		r.Write(name, content)
		if _, err := wt.Add(filepath.ToSlash(name)); err != nil {
			r.t.Fatalf("staging %s: %v", name, err)
		}
	}

	r.when = r.when.Add(time.Minute)
	hash, err := wt.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author:            r.signature(),
	})
	if err != nil {
		r.t.Fatalf("committing %q: %v", message, err)
	}
	return hash
}

// Tag creates a lightweight tag, or an annotated one when annotated is set.
func (r *GitRepo) Tag(name string, hash plumbing.Hash, annotated bool) {
	r.t.Helper()

	var opts *git.CreateTagOptions
	if annotated {
		opts = &git.CreateTagOptions{
			Message: "release " + name,
			Tagger:  r.signature(),
		}
	}
	if _, err := r.Repo.CreateTag(name, hash, opts); err != nil {
		r.t.Fatalf("tagging %s: %v", name, err)
	}
}

// Write changes a file in the working tree without staging it.
func (r *GitRepo) Write(name, content string) {
	r.t.Helper()

	full := filepath.Join(r.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("writing %s: %v", name, err)
	}
}

// Read returns the working tree contents of name.
func (r *GitRepo) Read(name string) string {
	r.t.Helper()

	data, err := os.ReadFile(filepath.Join(r.Dir, filepath.FromSlash(name)))
	if err != nil {
		r.t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func (r *GitRepo) signature() *object.Signature {
	return &object.Signature{Name: "Test", Email: "test@test.com", When: r.when}
}

// IsolateHome points HOME and XDG_CONFIG_HOME at a fresh temp directory, disables
// colors and changes into dir, so no real user or project configuration is read.
// Tests using it cannot run in parallel.
func IsolateHome(t *testing.T, dir string) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "1")
	t.Chdir(dir)
}
