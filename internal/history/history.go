// Package history keeps a log of the releases 'wsbump apply' wrote, stored as YAML
// next to the project configuration.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the release log inside the state directory.
const FileName = "releases.yml"

// DefaultMaxEntries is the number of releases kept when no limit is given.
const DefaultMaxEntries = 100

// ModuleChange is one version written by a release.
type ModuleChange struct {
	Module string `yaml:"module"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
}

// ReleaseEntry records one apply run.
type ReleaseEntry struct {
	Timestamp time.Time      `yaml:"timestamp"`
	Start     string         `yaml:"start"`
	Base      string         `yaml:"base"`
	Modules   []ModuleChange `yaml:"modules"`
}

// HistoryFile is the on-disk release log, oldest entry first.
type HistoryFile struct {
	Entries []ReleaseEntry `yaml:"entries"`
}

// Path returns the release log path inside stateDir.
func Path(stateDir string) string {
	return filepath.Join(stateDir, FileName)
}

// LoadHistory reads the release log. A missing file yields an empty log.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	data, err := os.ReadFile(Path(stateDir))
	if errors.Is(err, os.ErrNotExist) {
		return &HistoryFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading release log: %w", err)
	}

	var h HistoryFile
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parsing release log %s: %w", Path(stateDir), err)
	}
	return &h, nil
}

// SaveHistory writes the release log through a temp file and rename.
func SaveHistory(stateDir string, h *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding release log: %w", err)
	}

	tmp, err := os.CreateTemp(stateDir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing release log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing release log: %w", err)
	}
	if err := os.Rename(tmp.Name(), Path(stateDir)); err != nil {
		return fmt.Errorf("replacing release log: %w", err)
	}
	return nil
}

// ClearHistory removes the release log.
func ClearHistory(stateDir string) error {
	err := os.Remove(Path(stateDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing release log: %w", err)
	}
	return nil
}

// Filter returns the entries that changed module, limited to the last limit entries.
// An empty module or a limit of zero disables the respective filter.
func Filter(entries []ReleaseEntry, module string, limit int) []ReleaseEntry {
	var result []ReleaseEntry
	for _, e := range entries {
		if module == "" || e.touches(module) {
			result = append(result, e)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}

func (e ReleaseEntry) touches(module string) bool {
	for _, m := range e.Modules {
		if m.Module == module {
			return true
		}
	}
	return false
}
