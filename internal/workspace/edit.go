package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/ariel-frischer/wsbump/internal/semver"
	"github.com/ariel-frischer/wsbump/internal/yaml"
)

// SetVersion rewrites the version of the manifest at file, leaving the rest of the
// file as it was. JSON manifests are edited through the HuJSON syntax tree, which
// keeps comments and whitespace; YAML manifests through the YAML node tree.
func SetVersion(file, version string) error {
	if !semver.IsValid(version) {
		return fmt.Errorf("refusing to write invalid version %q", version)
	}

	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	var out []byte
	if isYAML(file) {
		out, err = yaml.SetTopLevelScalar(data, "version", version)
		if err != nil {
			return &ManifestError{Path: file, Err: err}
		}
	} else {
		out, err = setJSONVersion(data, version)
		if err != nil {
			return &ManifestError{Path: file, Err: err}
		}
	}

	if err := os.WriteFile(file, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	logDebug("[workspace] wrote version %s to %s", version, file)
	return nil
}

// WriteVersion sets the version of the named module on disk and returns the path written.
func (w *Workspace) WriteVersion(name, version string) (string, error) {
	m, ok := w.Module(name)
	if !ok {
		return "", fmt.Errorf("module %s not found in workspace", name)
	}
	file := filepath.Join(w.Root, filepath.FromSlash(m.Path))
	if err := SetVersion(file, version); err != nil {
		return "", err
	}
	return file, nil
}

// setJSONVersion replaces the top-level "version" member. Members of nested objects,
// strings and comments are never touched.
func setJSONVersion(data []byte, version string) ([]byte, error) {
	root, err := hujson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	obj, ok := root.Value.(*hujson.Object)
	if !ok {
		return nil, fmt.Errorf("expected an object at the document root")
	}

	found := false
	for i := range obj.Members {
		member := &obj.Members[i]
		var name string
		if err := json.Unmarshal(member.Name.Value.(hujson.Literal), &name); err != nil || name != "version" {
			continue
		}
		member.Value.Value = hujson.String(version)
		found = true
	}
	if !found {
		return nil, fmt.Errorf("no top-level version field")
	}
	return root.Pack(), nil
}
