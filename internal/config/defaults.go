package config

import "github.com/ariel-frischer/wsbump/internal/workspace"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# wsbump configuration
# See 'wsbump config keys' for all options. Environment variables (WSBUMP_<KEY>) override this file.

# Workspace layout
root: ""                              # Workspace directory (empty = current directory)
root_manifest: deno.json              # File listing workspace members, relative to root
member_manifests:                     # Manifest names tried in each member directory
  - deno.json
  - deno.jsonc
  - package.json
  - module.yaml

# History range
start: ""                             # Previous release revision (empty = latest tag)
base: HEAD                            # Revision being released

# Output
format: text                          # text | json | yaml
fail_on_diagnostics: false            # Exit 1 when a commit could not be used

# Performance
max_parallel: 8                       # Concurrent manifest reads (1-64)
`
}

// GetDefaults returns the default configuration values keyed by config key.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"root":                "",
		"root_manifest":       workspace.DefaultRootManifest,
		"member_manifests":    append([]string(nil), workspace.DefaultMemberManifests...),
		"start":               "",
		"base":                "HEAD",
		"format":              "text",
		"fail_on_diagnostics": false,
		"max_parallel":        workspace.DefaultMaxParallel,
	}
}
