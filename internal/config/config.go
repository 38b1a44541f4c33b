// Package config provides hierarchical configuration for wsbump using koanf.
// Configuration is loaded with priority: environment variables (WSBUMP_*) > project config
// (.wsbump/config.yml) > user config (~/.config/wsbump/config.yml) > defaults. Legacy JSON
// config files are still read, with a warning pointing at 'wsbump config migrate'.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/wsbump/internal/workspace"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "WSBUMP_"

// Configuration represents the wsbump configuration.
type Configuration struct {
	// Root is the workspace directory. Empty means the current directory.
	Root string `koanf:"root" yaml:"root"`
	// RootManifest is the file listing the workspace members, relative to Root.
	RootManifest string `koanf:"root_manifest" yaml:"root_manifest" validate:"required"`
	// MemberManifests are the manifest names tried in each member directory, in order.
	MemberManifests []string `koanf:"member_manifests" yaml:"member_manifests" validate:"min=1,dive,required"`
	// Start is the revision of the previous release. Empty means the latest tag.
	Start string `koanf:"start" yaml:"start"`
	// Base is the revision being released.
	Base string `koanf:"base" yaml:"base" validate:"required"`
	// Format selects the plan output: text, json or yaml.
	Format string `koanf:"format" yaml:"format" validate:"oneof=text json yaml"`
	// FailOnDiagnostics makes plan and apply exit non-zero when a commit could not be used.
	FailOnDiagnostics bool `koanf:"fail_on_diagnostics" yaml:"fail_on_diagnostics"`
	// MaxParallel bounds concurrent manifest reads.
	MaxParallel int `koanf:"max_parallel" yaml:"max_parallel" validate:"min=1,max=64"`
}

// WorkspaceOptions returns the workspace loading options described by the configuration.
func (c *Configuration) WorkspaceOptions() workspace.Options {
	return workspace.Options{
		RootManifest:    c.RootManifest,
		MemberManifests: c.MemberManifests,
		MaxParallel:     c.MaxParallel,
	}
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath replaces .wsbump/config.yml; the file must exist.
	ProjectConfigPath string
	// WarningWriter receives legacy config warnings (default: os.Stderr).
	WarningWriter io.Writer
	SkipWarnings  bool
	// SkipUserConfig ignores the user-level config file.
	SkipUserConfig bool
}

// Load loads configuration from user, project, and environment sources.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions merges defaults, the file layers and the environment, then validates.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	l := &loader{k: koanf.New("."), warn: opts.WarningWriter, quiet: opts.SkipWarnings}
	if l.warn == nil {
		l.warn = os.Stderr
	}

	for key, value := range GetDefaults() {
		l.k.Set(key, value)
	}

	var layers []fileLayer
	if !opts.SkipUserConfig {
		layers = append(layers, userLayer())
	}
	layers = append(layers, projectLayer(opts.ProjectConfigPath))

	for _, layer := range layers {
		if err := l.loadLayer(layer); err != nil {
			return nil, err
		}
	}

	if err := loadEnvironmentConfig(l.k); err != nil {
		return nil, err
	}
	return finalizeConfig(l.k)
}

// fileLayer is one config file location: a YAML file with a legacy JSON fallback.
type fileLayer struct {
	name       string
	yamlPath   string
	legacyPath string
	// required makes a missing YAML file an error instead of falling back.
	required bool
	// migrateFlag is the 'wsbump config migrate' flag that converts the legacy file.
	migrateFlag string
}

func userLayer() fileLayer {
	yamlPath, _ := UserConfigPath()
	legacyPath, _ := LegacyUserConfigPath()
	return fileLayer{name: "user", yamlPath: yamlPath, legacyPath: legacyPath, migrateFlag: "--user"}
}

// projectLayer returns the project layer; a custom path replaces the YAML location.
func projectLayer(customPath string) fileLayer {
	layer := fileLayer{
		name:        "project",
		yamlPath:    ProjectConfigPath(),
		legacyPath:  LegacyProjectConfigPath(),
		migrateFlag: "--project",
	}
	if customPath != "" {
		layer.yamlPath = customPath
		layer.required = true
	}
	return layer
}

type loader struct {
	k     *koanf.Koanf
	warn  io.Writer
	quiet bool
}

func (l *loader) loadLayer(layer fileLayer) error {
	switch {
	case fileExists(layer.yamlPath) && strings.HasSuffix(layer.yamlPath, ".json"):
		return l.loadJSON(layer, layer.yamlPath)
	case fileExists(layer.yamlPath):
		if err := ValidateYAMLSyntax(layer.yamlPath); err != nil {
			return fmt.Errorf("validating YAML syntax for %s config: %w", layer.name, err)
		}
		if err := l.k.Load(file.Provider(layer.yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading %s config %s: %w", layer.name, layer.yamlPath, err)
		}
		if fileExists(layer.legacyPath) {
			l.warnf("Warning: Legacy JSON config found at %s (ignored, using %s)\n", layer.legacyPath, layer.yamlPath)
			l.warnf("  Run 'wsbump config migrate %s' to remove the legacy file.\n\n", layer.migrateFlag)
		}
		return nil
	case layer.required:
		return fmt.Errorf("config file %s: %w", layer.yamlPath, os.ErrNotExist)
	case fileExists(layer.legacyPath):
		return l.loadJSON(layer, layer.legacyPath)
	}
	return nil
}

func (l *loader) loadJSON(layer fileLayer, path string) error {
	if err := l.k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("loading legacy %s config %s: %w", layer.name, path, err)
	}
	l.warnf("Warning: Using deprecated JSON config at %s\n", path)
	l.warnf("  Run 'wsbump config migrate %s' to migrate to YAML format.\n\n", layer.migrateFlag)
	return nil
}

func (l *loader) warnf(format string, args ...any) {
	if !l.quiet {
		fmt.Fprintf(l.warn, format, args...)
	}
}

// loadEnvironmentConfig loads environment variable overrides. List values are comma separated.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	provider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = envKey(key)
		if schema, ok := KnownKeys[key]; ok && schema.Type == TypeList {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading environment config: %w", err)
	}
	return nil
}

func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.Root = expandHomePath(cfg.Root)
	return &cfg, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// envKey maps WSBUMP_MAX_PARALLEL to max_parallel.
func envKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandHomePath replaces a leading ~/ with the home directory.
func expandHomePath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
