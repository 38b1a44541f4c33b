package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MigrationResult describes the outcome of a migration operation
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
}

// MigrateJSONToYAML converts a legacy JSON config file to YAML. It never overwrites an
// existing YAML file, and in dry-run mode only reports what it would do. The legacy
// file is renamed to .bak after a successful write.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: jsonPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
			return result, nil
		}
		return nil, fmt.Errorf("reading JSON config: %w", err)
	}

	var values map[string]interface{}
	if err := json.Unmarshal(jsonData, &values); err != nil {
		return nil, fmt.Errorf("parsing JSON config: %w", err)
	}
	for key := range values {
		if _, err := GetKeySchema(key); err != nil {
			return nil, fmt.Errorf("migrating %s: %w", jsonPath, err)
		}
	}

	if fileExists(yamlPath) {
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	}

	if dryRun {
		result.Success = true
		result.Message = fmt.Sprintf("Would migrate %s -> %s", jsonPath, yamlPath)
		return result, nil
	}

	yamlData, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("converting to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(yamlPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	header := "# wsbump configuration\n# Migrated from JSON format\n\n"
	if err := os.WriteFile(yamlPath, []byte(header+string(yamlData)), 0o644); err != nil {
		return nil, fmt.Errorf("writing YAML config: %w", err)
	}

	if err := os.Rename(jsonPath, jsonPath+".bak"); err != nil {
		return nil, fmt.Errorf("backing up legacy config: %w", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Migrated %s -> %s (original kept as %s.bak)", jsonPath, yamlPath, jsonPath)
	return result, nil
}

// MigrateUserConfig migrates the user-level config from JSON to YAML.
func MigrateUserConfig(dryRun bool) (*MigrationResult, error) {
	jsonPath, err := LegacyUserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting legacy user config path: %w", err)
	}

	yamlPath, err := UserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting user config path: %w", err)
	}

	return MigrateJSONToYAML(jsonPath, yamlPath, dryRun)
}

// MigrateProjectConfig migrates the project-level config from JSON to YAML.
func MigrateProjectConfig(dryRun bool) (*MigrationResult, error) {
	return MigrateJSONToYAML(LegacyProjectConfigPath(), ProjectConfigPath(), dryRun)
}

// WriteTemplate writes the commented default config to path unless a file already exists.
// It reports whether the file was written.
func WriteTemplate(path string, force bool) (bool, error) {
	if fileExists(path) && !force {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GetDefaultConfigTemplate()), 0o644); err != nil {
		return false, fmt.Errorf("writing config template: %w", err)
	}
	return true, nil
}
