// Package env locates and loads the Conn2Flow project environment
// descriptor (conn2flow-env.json), which maps plugin ids to their source
// and deploy paths and names the plugin currently under development.
package env

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// DescriptorName is the environment descriptor filename searched for upward
// from the working directory.
const DescriptorName = "conn2flow-env.json"

// Plugin describes one plugin entry in the environment descriptor.
type Plugin struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	DeployPath string `json:"deployPath,omitempty"`
}

// Descriptor is the parsed environment descriptor.
type Descriptor struct {
	Version      string   `json:"version,omitempty"`
	ActivePlugin string   `json:"activePlugin"`
	Plugins      []Plugin `json:"plugins"`

	// Dir is the directory the descriptor was loaded from. Relative plugin
	// paths resolve against it.
	Dir string `json:"-"`
}

const descriptorSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["activePlugin", "plugins"],
  "properties": {
    "version": {"type": "string"},
    "activePlugin": {"type": "string", "minLength": 1},
    "plugins": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "path"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "path": {"type": "string", "minLength": 1},
          "deployPath": {"type": "string"}
        }
      }
    }
  }
}`

// Locate searches for the environment descriptor starting at dir and walking
// up to the filesystem root.
func Locate(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, DescriptorName)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("environment descriptor %s not found (searched upward from %s)", DescriptorName, dir)
		}
		abs = parent
	}
}

// Load reads and validates a descriptor file.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from Locate or an explicit flag
	if err != nil {
		return nil, fmt.Errorf("failed to read environment descriptor: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(descriptorSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("environment descriptor is not valid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid environment descriptor %s: %s", path, strings.Join(msgs, "; "))
	}

	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse environment descriptor: %w", err)
	}
	desc.Dir = filepath.Dir(path)
	return &desc, nil
}

// Discover locates and loads the descriptor from the working directory.
func Discover() (*Descriptor, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := Locate(cwd)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Plugin returns the entry for the given plugin id.
func (d *Descriptor) Plugin(id string) (*Plugin, error) {
	for i := range d.Plugins {
		if d.Plugins[i].ID == id {
			return &d.Plugins[i], nil
		}
	}
	return nil, fmt.Errorf("plugin %q not present in environment descriptor", id)
}

// Active returns the entry for the active plugin.
func (d *Descriptor) Active() (*Plugin, error) {
	if d.ActivePlugin == "" {
		return nil, fmt.Errorf("environment descriptor has no active plugin")
	}
	p, err := d.Plugin(d.ActivePlugin)
	if err != nil {
		return nil, fmt.Errorf("active plugin mapping missing: %w", err)
	}
	return p, nil
}

// Resolve returns the plugin's source path, made absolute against the
// descriptor directory when relative.
func (d *Descriptor) Resolve(p *Plugin) string {
	if filepath.IsAbs(p.Path) {
		return p.Path
	}
	return filepath.Join(d.Dir, p.Path)
}
