// Package manifest reads and rewrites the plugin manifest (plugin.json),
// touching only its semantic version field.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn2flow/flowdev/pkg/safeio"
	"github.com/conn2flow/flowdev/pkg/versioning"
	"github.com/xeipuuv/gojsonschema"
)

// FileName is the plugin manifest filename inside a plugin root.
const FileName = "plugin.json"

const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string"},
    "version": {"type": "string", "minLength": 1}
  }
}`

// Manifest is a loaded plugin manifest. Fields other than version are kept
// opaque so a rewrite never drops data it does not understand.
type Manifest struct {
	Path    string
	Version string

	raw map[string]json.RawMessage
}

// Load reads the manifest from the given plugin root.
func Load(pluginRoot string) (*Manifest, error) {
	path := filepath.Join(pluginRoot, FileName)
	data, err := safeio.ReadFileContained(pluginRoot, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin manifest: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("plugin manifest is not valid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid plugin manifest %s: %s", path, strings.Join(msgs, "; "))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse plugin manifest: %w", err)
	}

	var version string
	if err := json.Unmarshal(raw["version"], &version); err != nil {
		return nil, fmt.Errorf("plugin manifest version is not a string: %w", err)
	}

	return &Manifest{Path: path, Version: version, raw: raw}, nil
}

// Bump applies a semver bump ("patch", "minor", "major") and writes the
// manifest back. Returns the new version string.
func (m *Manifest) Bump(kind string) (string, error) {
	v, err := versioning.Parse(m.Version)
	if err != nil {
		return "", fmt.Errorf("manifest version %q is not valid semver: %w", m.Version, err)
	}
	bumped, err := v.Bump(kind)
	if err != nil {
		return "", err
	}
	if err := m.Set(bumped.String()); err != nil {
		return "", err
	}
	return bumped.String(), nil
}

// Set writes the given version into the manifest file. All other fields are
// carried through untouched.
func (m *Manifest) Set(version string) error {
	if err := versioning.Validate(version); err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	encoded, err := json.Marshal(version)
	if err != nil {
		return err
	}
	m.raw["version"] = encoded
	m.Version = version

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m.raw); err != nil {
		return fmt.Errorf("failed to serialize plugin manifest: %w", err)
	}

	if err := safeio.WriteFilePreservePerms(m.Path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write plugin manifest: %w", err)
	}
	return nil
}

// Exists reports whether a plugin root carries a manifest.
func Exists(pluginRoot string) bool {
	st, err := os.Stat(filepath.Join(pluginRoot, FileName))
	return err == nil && !st.IsDir()
}
