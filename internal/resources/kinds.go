// Package resources implements the resource-aggregation build step: it
// merges per-language layout, page, component and variable fragments plus
// their on-disk HTML/CSS bodies into four canonical JSON collections with
// content-addressed version counters and duplicate/orphan detection.
package resources

// Kind identifies one of the four aggregated resource kinds.
type Kind string

const (
	KindLayouts    Kind = "layouts"
	KindComponents Kind = "components"
	KindPages      Kind = "pages"
	KindVariables  Kind = "variables"
)

// Kinds lists all kinds in processing order.
var Kinds = []Kind{KindLayouts, KindComponents, KindPages, KindVariables}

// kindPolicy captures the per-kind wiring: where fragments and bodies live
// and which output file the collection lands in. Uniqueness semantics are
// kind-specific and live in the indexer.
type kindPolicy struct {
	dirName     string // subdirectory for bodies, and language-map file key
	defaultFile string // default per-language fragment list filename
	outputFile  string // collection filename under the data and orphans dirs
}

var kindPolicies = map[Kind]kindPolicy{
	KindLayouts:    {dirName: "layouts", defaultFile: "layouts.json", outputFile: "LayoutsData.json"},
	KindComponents: {dirName: "components", defaultFile: "components.json", outputFile: "ComponentesData.json"},
	KindPages:      {dirName: "pages", defaultFile: "pages.json", outputFile: "PaginasData.json"},
	KindVariables:  {dirName: "variables", defaultFile: "variables.json", outputFile: "VariaveisData.json"},
}

// DirName returns the on-disk subdirectory for a kind's bodies.
func (k Kind) DirName() string {
	return kindPolicies[k].dirName
}

// OutputFile returns the collection filename for a kind.
func (k Kind) OutputFile() string {
	return kindPolicies[k].outputFile
}

// versionKey builds the key used to match a record against the previously
// written collection when deciding version counters. It coincides with the
// primary uniqueness key (variables additionally carry the group tag).
func versionKey(kind Kind, r *Fragment) string {
	switch kind {
	case KindComponents:
		return r.Language + "|" + r.Module + "|" + r.ID
	case KindVariables:
		return r.Language + "|" + r.Module + "|" + r.ID + "|" + r.Group
	default: // layouts, pages
		return r.Language + "|" + r.ID
	}
}
