package resources

import (
	"encoding/json"
	"strings"
)

// looseString unmarshals from either a JSON string or a JSON number, since
// hand-edited fragment files carry version fields both ways.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

// Fragment is one raw resource item from a per-language source file, before
// merging. Language is filled in from the tree position during aggregation;
// Module is forced to the owning module id for module-tree fragments.
type Fragment struct {
	ID       string      `json:"id"`
	Language string      `json:"language,omitempty"`
	Name     string      `json:"name,omitempty"`
	Status   string      `json:"status,omitempty"`
	Module   string      `json:"module,omitempty"`
	Type     string      `json:"type,omitempty"`
	Version  looseString `json:"version,omitempty"`
	Path     string      `json:"path,omitempty"`  // pages only
	Group    string      `json:"group,omitempty"` // variables only
	Value    string      `json:"value,omitempty"` // variables only
}

// Record is a merged output entry: the fragment, its bodies, the computed
// checksum triple and the content-change version counter. FileVersion is the
// fragment's own version field carried over verbatim; Version is the counter
// maintained by the aggregation across runs.
type Record struct {
	ID          string   `json:"id"`
	Language    string   `json:"language,omitempty"`
	Name        string   `json:"name,omitempty"`
	Status      string   `json:"status,omitempty"`
	Module      string   `json:"module,omitempty"`
	Type        string   `json:"type,omitempty"`
	Path        string   `json:"path,omitempty"`
	Group       string   `json:"group,omitempty"`
	Value       string   `json:"value,omitempty"`
	HTML        *string  `json:"html"`
	CSS         *string  `json:"css"`
	Checksum    Checksum `json:"checksum"`
	Version     int      `json:"version"`
	FileVersion string   `json:"fileVersion,omitempty"`
}

// Orphan is a fragment rejected during aggregation, preserved for inspection
// with the reason it was excluded.
type Orphan struct {
	Fragment
	Reason string `json:"reason"`
}

// Orphan reason codes.
const (
	ReasonMissingID      = "missing id"
	ReasonDuplicateID    = "duplicate id"
	ReasonDuplicatePath  = "duplicate path"
	ReasonDuplicateGroup = "duplicate group"
)

func newRecord(frag *Fragment, html, css *string, sum Checksum, version int) Record {
	return Record{
		ID:          frag.ID,
		Language:    frag.Language,
		Name:        frag.Name,
		Status:      frag.Status,
		Module:      frag.Module,
		Type:        frag.Type,
		Path:        frag.Path,
		Group:       frag.Group,
		Value:       frag.Value,
		HTML:        html,
		CSS:         css,
		Checksum:    sum,
		Version:     version,
		FileVersion: string(frag.Version),
	}
}

// fragment reconstructs the key-relevant fragment fields from a previously
// written record so version keys can be rebuilt across runs.
func (r *Record) fragment() Fragment {
	return Fragment{
		ID:       r.ID,
		Language: r.Language,
		Module:   r.Module,
		Group:    r.Group,
	}
}

// NormalizePath canonicalizes a page path for uniqueness comparison:
// lowercase with leading and trailing slashes removed.
func NormalizePath(p string) string {
	return strings.Trim(strings.ToLower(p), "/")
}
