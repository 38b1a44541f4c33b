package config

import (
	"fmt"
	"sort"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeEnum
	TypeList
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeList:
		return "list"
	default:
		return "unknown"
	}
}

// ConfigKeySchema describes a known configuration key.
type ConfigKeySchema struct {
	Path          string          // Key name as written in config files
	Type          ConfigValueType // Expected value type
	AllowedValues []string        // Valid values for enum types
	Description   string          // Human-readable description for help text
}

// KnownKeys is the registry of all known configuration keys.
var KnownKeys = map[string]ConfigKeySchema{
	"root": {
		Path:        "root",
		Type:        TypeString,
		Description: "Workspace directory (empty = current directory)",
	},
	"root_manifest": {
		Path:        "root_manifest",
		Type:        TypeString,
		Description: "File listing workspace members, relative to root",
	},
	"member_manifests": {
		Path:        "member_manifests",
		Type:        TypeList,
		Description: "Manifest names tried in each member directory, in order",
	},
	"start": {
		Path:        "start",
		Type:        TypeString,
		Description: "Revision of the previous release (empty = latest tag)",
	},
	"base": {
		Path:        "base",
		Type:        TypeString,
		Description: "Revision being released",
	},
	"format": {
		Path:          "format",
		Type:          TypeEnum,
		AllowedValues: []string{"text", "json", "yaml"},
		Description:   "Plan output format",
	},
	"fail_on_diagnostics": {
		Path:        "fail_on_diagnostics",
		Type:        TypeBool,
		Description: "Exit 1 when a commit could not be used",
	},
	"max_parallel": {
		Path:        "max_parallel",
		Type:        TypeInt,
		Description: "Concurrent manifest reads (1-64)",
	},
}

// ErrUnknownKey is returned when a key is not in KnownKeys.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return fmt.Sprintf("unknown configuration key %q", e.Key)
}

// GetKeySchema returns the schema of a known key.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the known key names in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
