// Package cli tests the config subcommands.
// Related: internal/cli/config.go, internal/config/
// Tags: cli, config

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/wsbump/internal/config"
	"github.com/ariel-frischer/wsbump/internal/testutil"
)

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateHome(t, dir)
	t.Setenv("WSBUMP_FORMAT", "json")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".wsbump"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".wsbump", "config.yml"), []byte("start: v1.0.0\n"), 0o644))

	res := runCLI(t, "config", "show")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var cfg config.Configuration
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &cfg))
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "v1.0.0", cfg.Start)
	assert.Equal(t, "HEAD", cfg.Base)
}

func TestConfigShow_InvalidValue(t *testing.T) {
	testutil.IsolateHome(t, t.TempDir())
	t.Setenv("WSBUMP_FORMAT", "xml")

	res := runCLI(t, "config", "show")
	assert.Equal(t, ExitConfig, res.code)
	assert.Contains(t, res.stderr, "loading configuration")
}

func TestConfigKeys(t *testing.T) {
	testutil.IsolateHome(t, t.TempDir())

	res := runCLI(t, "config", "keys")
	require.Equal(t, ExitSuccess, res.code)

	for _, key := range config.SortedKeys() {
		assert.Contains(t, res.stdout, key)
	}
	assert.Contains(t, res.stdout, "WSBUMP_FAIL_ON_DIAGNOSTICS")
	assert.Contains(t, res.stdout, "text|json|yaml")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateHome(t, dir)
	path := filepath.Join(dir, ".wsbump", "config.yml")

	res := runCLI(t, "--no-color", "config", "init")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Created")
	assert.FileExists(t, path)

	require.NoError(t, os.WriteFile(path, []byte("format: yaml\n"), 0o644))
	res = runCLI(t, "--no-color", "config", "init")
	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "already exists")

	res = runCLI(t, "--no-color", "config", "init", "--force")
	require.Equal(t, ExitSuccess, res.code)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))
}

func TestConfigMigrate_Project(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateHome(t, dir)
	legacy := config.LegacyProjectConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, legacy)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, legacy), []byte(`{"format": "json"}`), 0o644))

	res := runCLI(t, "--no-color", "config", "migrate", "--project", "--dry-run")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Would migrate")
	assert.NoFileExists(t, filepath.Join(dir, config.ProjectConfigPath()))

	res = runCLI(t, "--no-color", "config", "migrate", "--project")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Migrated")
	assert.FileExists(t, filepath.Join(dir, config.ProjectConfigPath()))
	assert.FileExists(t, filepath.Join(dir, legacy+".bak"))
}
