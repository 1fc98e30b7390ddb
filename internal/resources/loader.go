package resources

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Body holds the optional HTML and CSS text of a resource. A nil part means
// the corresponding file does not exist.
type Body struct {
	HTML *string
	CSS  *string
}

// LoadGlobalFragments reads the per-language fragment list for a kind from
// the global resource tree. A missing list file yields an empty list.
func LoadGlobalFragments(pluginRoot string, lang Language, kind Kind) ([]Fragment, error) {
	path := filepath.Join(pluginRoot, "resources", lang.Code, lang.FileFor(kind))
	return readFragmentList(path)
}

func readFragmentList(path string) ([]Fragment, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the configured plugin root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read fragment list %s: %w", path, err)
	}
	var fragments []Fragment
	if err := json.Unmarshal(data, &fragments); err != nil {
		return nil, fmt.Errorf("invalid fragment list %s: %w", path, err)
	}
	return fragments, nil
}

// moduleManifest is the embedded resource structure of a module:
// resources.<language>.<kind> holds the fragment list.
type moduleManifest struct {
	Resources map[string]map[string][]Fragment `json:"resources"`
}

// ListModules returns the module ids found under <pluginRoot>/modules,
// sorted for deterministic processing. A missing modules directory yields an
// empty list.
func ListModules(pluginRoot string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(pluginRoot, "modules"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read modules directory: %w", err)
	}
	var modules []string
	for _, entry := range entries {
		if entry.IsDir() {
			modules = append(modules, entry.Name())
		}
	}
	sort.Strings(modules)
	return modules, nil
}

// LoadModuleFragments reads a module's fragment list for one language and
// kind from its embedded manifest (modules/<id>/<id>.json). A missing
// manifest or an absent language/kind entry yields an empty list.
func LoadModuleFragments(pluginRoot, moduleID string, lang Language, kind Kind) ([]Fragment, error) {
	path := filepath.Join(pluginRoot, "modules", moduleID, moduleID+".json")
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the configured plugin root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read module manifest %s: %w", path, err)
	}
	var m moduleManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid module manifest %s: %w", path, err)
	}
	return m.Resources[lang.Code][string(kind)], nil
}

// LoadBody reads the HTML and CSS files of a resource from the global tree.
// Missing files yield nil parts, never an error.
func LoadBody(pluginRoot string, lang Language, kind Kind, id string) Body {
	base := filepath.Join(pluginRoot, "resources", lang.Code, kind.DirName(), id)
	return readBody(base, id)
}

// LoadModuleBody reads the HTML and CSS files of a module-owned resource.
func LoadModuleBody(pluginRoot, moduleID string, lang Language, kind Kind, id string) Body {
	base := filepath.Join(pluginRoot, "modules", moduleID, lang.Code, kind.DirName(), id)
	return readBody(base, id)
}

func readBody(base, id string) Body {
	var body Body
	if data, err := os.ReadFile(filepath.Join(base, id+".html")); err == nil { // #nosec G304
		text := string(data)
		body.HTML = &text
	}
	if data, err := os.ReadFile(filepath.Join(base, id+".css")); err == nil { // #nosec G304
		text := string(data)
		body.CSS = &text
	}
	return body
}
