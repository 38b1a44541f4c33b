// Package workspace discovers the modules of a multi-module repository and reads or
// writes their versions. The root manifest lists member directories; every member
// directory holds a manifest with the module's name and version.
//
// All reads go through a FileReader so that the same code loads the working tree and
// historic revisions.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/wsbump/internal/bump"
)

// ErrNotExist is the error FileReaders report for missing files.
var ErrNotExist = fs.ErrNotExist

// DefaultRootManifest is the root manifest read when none is configured.
const DefaultRootManifest = "deno.json"

// DefaultMemberManifests are the member manifest names tried in order.
var DefaultMemberManifests = []string{"deno.json", "deno.jsonc", "package.json", "module.yaml"}

// DefaultMaxParallel bounds concurrent manifest reads.
const DefaultMaxParallel = 8

var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for workspace operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// FileReader reads files by slash-separated path relative to the workspace root.
// Missing files must report an error matching ErrNotExist.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// DirReader reads files from a directory on disk.
type DirReader string

// ReadFile implements FileReader.
func (d DirReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), filepath.FromSlash(name)))
}

// Options controls where manifests are looked up.
type Options struct {
	RootManifest    string
	MemberManifests []string
	MaxParallel     int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		RootManifest:    DefaultRootManifest,
		MemberManifests: append([]string(nil), DefaultMemberManifests...),
		MaxParallel:     DefaultMaxParallel,
	}
}

func (o Options) withDefaults() Options {
	if o.RootManifest == "" {
		o.RootManifest = DefaultRootManifest
	}
	if len(o.MemberManifests) == 0 {
		o.MemberManifests = DefaultMemberManifests
	}
	if o.MaxParallel < 1 {
		o.MaxParallel = DefaultMaxParallel
	}
	return o
}

// Workspace is a loaded workspace.
type Workspace struct {
	// Root is the workspace directory on disk.
	Root string
	// Modules in the order the root manifest lists them. Module.Path is the manifest
	// path relative to Root.
	Modules []bump.Module
	opts    Options
}

// Names returns the module names in workspace order.
func (w *Workspace) Names() []string {
	names := make([]string, len(w.Modules))
	for i, m := range w.Modules {
		names[i] = m.Name
	}
	return names
}

// Module looks up a module by its canonical name.
func (w *Workspace) Module(name string) (bump.Module, bool) {
	for _, m := range w.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return bump.Module{}, false
}

// Load reads the workspace rooted at the directory root from disk.
func Load(ctx context.Context, root string, opts Options) (*Workspace, error) {
	return LoadFrom(ctx, root, DirReader(root), opts)
}

// LoadFrom reads the workspace through reader. root is recorded on the result so
// that versions can later be written back with SetVersion.
func LoadFrom(ctx context.Context, root string, reader FileReader, opts Options) (*Workspace, error) {
	opts = opts.withDefaults()

	data, err := reader.ReadFile(opts.RootManifest)
	if err != nil {
		return nil, fmt.Errorf("reading root manifest %s: %w", opts.RootManifest, err)
	}
	dirs, err := parseRootManifest(opts.RootManifest, data)
	if err != nil {
		return nil, err
	}
	logDebug("[workspace] %s lists %d members", opts.RootManifest, len(dirs))

	modules := make([]bump.Module, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxParallel)

	for i, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := loadMember(reader, dir, opts.MemberManifests)
			if err != nil {
				return err
			}
			modules[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(modules))
	for _, m := range modules {
		if other, ok := seen[m.Name]; ok {
			return nil, fmt.Errorf("duplicate module name %s in %s and %s", m.Name, other, m.Path)
		}
		seen[m.Name] = m.Path
	}

	ws := &Workspace{Root: root, Modules: modules, opts: opts}
	logDebug("[workspace] modules: %s", strings.Join(ws.Names(), ", "))
	return ws, nil
}

// loadMember reads the first manifest that exists in dir.
func loadMember(reader FileReader, dir string, candidates []string) (bump.Module, error) {
	for _, name := range candidates {
		p := path.Join(dir, name)
		data, err := reader.ReadFile(p)
		if errors.Is(err, ErrNotExist) {
			continue
		}
		if err != nil {
			return bump.Module{}, fmt.Errorf("reading %s: %w", p, err)
		}

		m, err := parseMemberManifest(p, data)
		if err != nil {
			return bump.Module{}, err
		}
		logDebug("[workspace] loaded %s@%s from %s", m.Name, m.Version, p)
		return bump.Module{Name: m.Name, Version: m.Version, Path: p}, nil
	}
	return bump.Module{}, &ManifestError{Path: dir, Err: fmt.Errorf("no manifest found (tried %v)", candidates)}
}

// LoadSnapshot reads the version every module of ws had in another revision, keyed by
// the module's current name. Modules whose manifest does not exist in reader are left
// out, marking them as new.
func LoadSnapshot(ctx context.Context, ws *Workspace, reader FileReader) (map[string]string, error) {
	var mu sync.Mutex
	versions := make(map[string]string, len(ws.Modules))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ws.opts.withDefaults().MaxParallel)

	for _, m := range ws.Modules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := reader.ReadFile(m.Path)
			if errors.Is(err, ErrNotExist) {
				logDebug("[workspace] %s has no previous manifest", m.Name)
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading previous %s: %w", m.Path, err)
			}

			prev, err := parseMemberManifest(m.Path, data)
			if err != nil {
				return err
			}

			mu.Lock()
			versions[m.Name] = prev.Version
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return versions, nil
}
