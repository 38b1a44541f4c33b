// Package git reads the history wsbump plans from. It uses go-git to open the
// repository, resolve the start and base revisions, walk the commits between them and
// read manifest files as they were at a given revision. The package never writes to
// the repository.
package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/ariel-frischer/wsbump/internal/bump"
)

// ErrNoTags is returned by LatestTag when no tag points into the history of HEAD.
var ErrNoTags = errors.New("no tag reachable from HEAD")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repository is an opened git repository.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing path, walking up the directory tree to find
// the .git directory. If path is empty, the current working directory is used.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] repository root: %s", root)
	return &Repository{repo: repo, root: root}, nil
}

// RelPath returns dir relative to the repository root in slash form, as used inside
// trees. The repository root itself is returned as "".
func (r *Repository) RelPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	root, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		root = r.root
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s against %s: %w", dir, r.root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside repository %s", dir, r.root)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

// ResolveRevision resolves a branch, tag, hash or expression such as HEAD~2 to a commit hash.
func (r *Repository) ResolveRevision(rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	logDebug("[git] ResolveRevision: %s -> %s", rev, hash)
	return *hash, nil
}

// LatestTag returns the name of the tag on the most recent commit reachable from HEAD.
// Annotated tags are peeled to their commit. ErrNoTags is returned when none exists.
func (r *Repository) LatestTag() (string, error) {
	tagged, err := r.tagsByCommit()
	if err != nil {
		return "", err
	}
	if len(tagged) == 0 {
		return "", ErrNoTags
	}

	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("walking history from HEAD: %w", err)
	}
	defer iter.Close()

	var found string
	err = iter.ForEach(func(c *object.Commit) error {
		if name, ok := tagged[c.Hash]; ok {
			found = name
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history from HEAD: %w", err)
	}
	if found == "" {
		return "", ErrNoTags
	}

	logDebug("[git] LatestTag: %s", found)
	return found, nil
}

// tagsByCommit maps commit hashes to a tag pointing at them. When several tags point
// at one commit the lexically greatest name wins, so the result is deterministic.
func (r *Repository) tagsByCommit() (map[plumbing.Hash]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	tagged := make(map[plumbing.Hash]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tag, err := r.repo.TagObject(hash); err == nil {
			c, err := tag.Commit()
			if err != nil {
				logDebug("[git] skipping tag %s: %v", ref.Name().Short(), err)
				return nil
			}
			hash = c.Hash
		}

		name := ref.Name().Short()
		if existing, ok := tagged[hash]; !ok || name > existing {
			tagged[hash] = name
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tagged, nil
}

// CommitsBetween returns the commits reachable from end but not from start, oldest
// first. An empty start returns the whole history of end.
func (r *Repository) CommitsBetween(ctx context.Context, start, end string) ([]bump.Commit, error) {
	endHash, err := r.ResolveRevision(end)
	if err != nil {
		return nil, err
	}

	exclude := make(map[plumbing.Hash]bool)
	if start != "" {
		startHash, err := r.ResolveRevision(start)
		if err != nil {
			return nil, err
		}
		if err := r.walk(ctx, startHash, func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		}); err != nil {
			return nil, fmt.Errorf("walking history of %s: %w", start, err)
		}
	}

	var commits []bump.Commit
	err = r.walk(ctx, endHash, func(c *object.Commit) error {
		if exclude[c.Hash] {
			return nil
		}
		commits = append(commits, bump.NewCommit(c.Hash.String(), c.Message))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history of %s: %w", end, err)
	}

	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}

	logDebug("[git] CommitsBetween: %d commits in %s..%s", len(commits), start, end)
	return commits, nil
}

// walk visits every commit reachable from hash, newest first, checking ctx between commits.
func (r *Repository) walk(ctx context.Context, hash plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := r.repo.Log(&git.LogOptions{From: hash, Order: git.LogOrderCommitterTime})
	if err != nil {
		return err
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(c)
	})
}

// FileAt returns a reader over the tree of rev. Paths passed to the reader are
// relative to dir, itself relative to the repository root ("" for the root).
func (r *Repository) FileAt(rev, dir string) (*TreeReader, error) {
	hash, err := r.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading tree of %s: %w", hash, err)
	}

	return &TreeReader{tree: tree, dir: dir, rev: rev}, nil
}

// TreeReader reads files from a committed tree.
type TreeReader struct {
	tree *object.Tree
	dir  string
	rev  string
}

// ReadFile returns the contents of name at the reader's revision.
// Missing files report an error matching fs.ErrNotExist.
func (t *TreeReader) ReadFile(name string) ([]byte, error) {
	p := path.Join(t.dir, filepath.ToSlash(name))

	f, err := t.tree.File(p)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
			return nil, fmt.Errorf("%s at %s: %w", p, t.rev, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("reading %s at %s: %w", p, t.rev, err)
	}

	contents, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading %s at %s: %w", p, t.rev, err)
	}

	logDebug("[git] read %s at %s (%d bytes)", p, t.rev, len(contents))
	return []byte(contents), nil
}
