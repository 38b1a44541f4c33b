// Package yaml holds the YAML helpers shared by config loading and manifest editing:
// streaming syntax validation and in-place edits of top-level scalar values.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrKeyNotFound is returned by SetTopLevelScalar when the document has no such key.
var ErrKeyNotFound = errors.New("key not found")

// ValidateSyntax validates YAML syntax by streaming through every document in r.
// Returns nil if the YAML is syntactically valid, or an error with line information.
func ValidateSyntax(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	for {
		var n yaml.Node
		if err := dec.Decode(&n); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// ValidateFile validates the YAML syntax of the file at path.
func ValidateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := ValidateSyntax(f); err != nil {
		return fmt.Errorf("YAML syntax error in %s: %w", path, err)
	}
	return nil
}

// SetTopLevelScalar replaces the value of key in the top-level mapping of a single
// document and returns the re-encoded document. Comments and key order are kept;
// indentation is normalized to two spaces.
func SetTopLevelScalar(data []byte, key, value string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping at the document root")
	}

	mapping := doc.Content[0]
	found := false
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != key {
			continue
		}
		node := mapping.Content[i+1]
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%s is not a scalar", key)
		}
		node.Value = value
		node.Tag = "!!str"
		node.Style = 0
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", key, ErrKeyNotFound)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}
