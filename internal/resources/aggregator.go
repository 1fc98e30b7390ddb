package resources

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn2flow/flowdev/pkg/logger"
)

// Options configures one aggregation run.
type Options struct {
	PluginRoot   string
	DataDir      string // output collections, relative to PluginRoot unless absolute
	OrphansDir   string // orphan collections, relative to PluginRoot unless absolute
	LanguagesMap string // language map file, relative to PluginRoot unless absolute
	Indent       string // JSON indent for output files
}

// Result is the outcome of an aggregation run.
type Result struct {
	Records map[Kind][]Record
	Orphans map[Kind][]Orphan
}

// OrphanTotal returns the number of orphans across all kinds.
func (r *Result) OrphanTotal() int {
	total := 0
	for _, kind := range Kinds {
		total += len(r.Orphans[kind])
	}
	return total
}

// Aggregator runs the Load -> Index -> Checksum -> Write pipeline. One
// instance owns all indices and collections for the duration of a single
// run; nothing is shared across runs except the written output files.
type Aggregator struct {
	opts     Options
	index    *indexer
	previous *previousStore
	result   *Result
}

// NewAggregator validates the source tree and prepares a run.
func NewAggregator(opts Options) (*Aggregator, error) {
	if st, err := os.Stat(opts.PluginRoot); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("plugin root is not a directory: %s", opts.PluginRoot)
	}
	if st, err := os.Stat(filepath.Join(opts.PluginRoot, "resources")); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("missing resources directory under %s", opts.PluginRoot)
	}
	if opts.Indent == "" {
		opts.Indent = "    "
	}
	opts.DataDir = resolveDir(opts.PluginRoot, opts.DataDir, "db/data")
	opts.OrphansDir = resolveDir(opts.PluginRoot, opts.OrphansDir, "db/orphans")
	opts.LanguagesMap = resolveDir(opts.PluginRoot, opts.LanguagesMap, "resources/languages.json")

	result := &Result{
		Records: make(map[Kind][]Record),
		Orphans: make(map[Kind][]Orphan),
	}
	for _, kind := range Kinds {
		result.Records[kind] = []Record{}
		result.Orphans[kind] = []Orphan{}
	}

	return &Aggregator{
		opts:   opts,
		index:  newIndexer(),
		result: result,
	}, nil
}

func resolveDir(root, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(root, value)
}

// Run executes the full aggregation: for every language, all four kinds at
// the global scope, then the same for every module directory, with module
// records sharing the global uniqueness namespace. The output collections
// are written once at the end.
func (a *Aggregator) Run() (*Result, error) {
	languages, err := LoadLanguages(a.opts.LanguagesMap)
	if err != nil {
		return nil, err
	}

	a.previous = loadPrevious(a.opts.DataDir)

	modules, err := ListModules(a.opts.PluginRoot)
	if err != nil {
		return nil, err
	}

	for _, lang := range languages {
		for _, kind := range Kinds {
			fragments, err := LoadGlobalFragments(a.opts.PluginRoot, lang, kind)
			if err != nil {
				return nil, err
			}
			a.process(fragments, lang, kind, "")
		}
		for _, moduleID := range modules {
			for _, kind := range Kinds {
				fragments, err := LoadModuleFragments(a.opts.PluginRoot, moduleID, lang, kind)
				if err != nil {
					return nil, err
				}
				a.process(fragments, lang, kind, moduleID)
			}
		}
	}

	if err := a.write(); err != nil {
		return nil, err
	}
	return a.result, nil
}

// process merges one fragment list into the run: orphan or index each
// fragment, load its bodies, compute checksums and resolve the version
// counter. moduleID is empty for the global pass.
func (a *Aggregator) process(fragments []Fragment, lang Language, kind Kind, moduleID string) {
	for i := range fragments {
		frag := fragments[i]
		frag.Language = lang.Code
		if moduleID != "" {
			frag.Module = moduleID
		}

		// A fragment without its primary identifier is orphaned before any
		// indexing or checksum work.
		if frag.ID == "" {
			a.orphan(kind, frag, ReasonMissingID)
			continue
		}

		if reason := a.index.claim(kind, &frag); reason != "" {
			a.orphan(kind, frag, reason)
			continue
		}

		var body Body
		if moduleID != "" {
			body = LoadModuleBody(a.opts.PluginRoot, moduleID, lang, kind, frag.ID)
		} else {
			body = LoadBody(a.opts.PluginRoot, lang, kind, frag.ID)
		}

		sum := ComputeChecksum(body.HTML, body.CSS)
		version := a.previous.resolveVersion(kind, &frag, sum)
		a.result.Records[kind] = append(a.result.Records[kind], newRecord(&frag, body.HTML, body.CSS, sum, version))
	}
}

func (a *Aggregator) orphan(kind Kind, frag Fragment, reason string) {
	logger.Debug("orphaned fragment",
		logger.String("kind", string(kind)),
		logger.String("id", frag.ID),
		logger.String("language", frag.Language),
		logger.String("reason", reason))
	a.result.Orphans[kind] = append(a.result.Orphans[kind], Orphan{Fragment: frag, Reason: reason})
}
