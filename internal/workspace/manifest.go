package workspace

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/wsbump/internal/semver"
)

// ManifestError describes a manifest that could not be used.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// rootManifest lists the member directories of a workspace. Deno uses "workspace",
// npm and friends use "workspaces".
type rootManifest struct {
	Workspace  []string `json:"workspace" yaml:"workspace"`
	Workspaces []string `json:"workspaces" yaml:"workspaces"`
}

// memberManifest is the part of a member manifest wsbump reads.
type memberManifest struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

func isYAML(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// decodeManifest decodes YAML or JSON depending on the file name. JSON manifests may
// carry comments and trailing commas (deno.jsonc).
func decodeManifest(name string, data []byte, v any) error {
	if isYAML(name) {
		return yaml.Unmarshal(data, v)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(std, v)
}

func parseRootManifest(name string, data []byte) ([]string, error) {
	var m rootManifest
	if err := decodeManifest(name, data, &m); err != nil {
		return nil, &ManifestError{Path: name, Err: err}
	}

	members := m.Workspace
	if len(members) == 0 {
		members = m.Workspaces
	}
	if len(members) == 0 {
		return nil, &ManifestError{Path: name, Err: fmt.Errorf("no workspace members listed")}
	}

	dirs := make([]string, 0, len(members))
	for _, member := range members {
		dir := path.Clean(strings.TrimSpace(member))
		if dir == "." || dir == "" || strings.HasPrefix(dir, "../") || path.IsAbs(dir) {
			return nil, &ManifestError{Path: name, Err: fmt.Errorf("invalid workspace member %q", member)}
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

func parseMemberManifest(name string, data []byte) (memberManifest, error) {
	var m memberManifest
	if err := decodeManifest(name, data, &m); err != nil {
		return m, &ManifestError{Path: name, Err: err}
	}
	if m.Name == "" {
		return m, &ManifestError{Path: name, Err: fmt.Errorf("missing name")}
	}
	if m.Version == "" {
		return m, &ManifestError{Path: name, Err: fmt.Errorf("missing version")}
	}
	if _, err := semver.Parse(m.Version); err != nil {
		return m, &ManifestError{Path: name, Err: err}
	}
	return m, nil
}
