package resources

import (
	"encoding/json"
	"fmt"
	"os"
)

// Language is one entry of the language map file: a language code plus the
// per-kind fragment list filenames for that language.
type Language struct {
	Code  string            `json:"code"`
	Files map[string]string `json:"files,omitempty"`
}

// FileFor returns the fragment list filename for a kind, falling back to the
// kind's default when the map does not override it.
func (l Language) FileFor(kind Kind) string {
	if name, ok := l.Files[string(kind)]; ok && name != "" {
		return name
	}
	return kindPolicies[kind].defaultFile
}

type languageMap struct {
	Languages []Language `json:"languages"`
}

// LoadLanguages reads the language map file. A missing or invalid map is a
// fatal configuration error; an empty language list is as well, since the
// aggregation would silently do nothing.
func LoadLanguages(path string) ([]Language, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the configured plugin root
	if err != nil {
		return nil, fmt.Errorf("language map file not found: %s", path)
	}

	var m languageMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid language map file %s: %w", path, err)
	}
	if len(m.Languages) == 0 {
		return nil, fmt.Errorf("language map file %s lists no languages", path)
	}
	for i, lang := range m.Languages {
		if lang.Code == "" {
			return nil, fmt.Errorf("language map file %s: entry %d has no code", path, i)
		}
	}
	return m.Languages, nil
}
