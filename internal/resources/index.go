package resources

// indexer tracks, per kind, the uniqueness keys already claimed during one
// aggregation run. The namespace is shared across the global pass and all
// module passes: a module resource colliding with a global one is a
// duplicate.
type indexer struct {
	ids    map[Kind]map[string]struct{} // primary key sets
	paths  map[string]struct{}          // page path keys
	groups map[string]map[string]bool   // variables: (lang,module,id) -> claimed groups ("" = absent group)
}

func newIndexer() *indexer {
	idx := &indexer{
		ids:    make(map[Kind]map[string]struct{}),
		paths:  make(map[string]struct{}),
		groups: make(map[string]map[string]bool),
	}
	for _, kind := range Kinds {
		idx.ids[kind] = make(map[string]struct{})
	}
	return idx
}

// claim attempts to register the fragment's uniqueness keys for its kind.
// It returns an empty string on success, or the orphan reason on collision.
// Nothing is registered when the fragment is rejected.
func (idx *indexer) claim(kind Kind, frag *Fragment) string {
	switch kind {
	case KindLayouts:
		return idx.claimID(kind, frag.Language+"|"+frag.ID)
	case KindComponents:
		return idx.claimID(kind, frag.Language+"|"+frag.Module+"|"+frag.ID)
	case KindPages:
		return idx.claimPage(frag)
	case KindVariables:
		return idx.claimVariable(frag)
	}
	return ""
}

func (idx *indexer) claimID(kind Kind, key string) string {
	if _, taken := idx.ids[kind][key]; taken {
		return ReasonDuplicateID
	}
	idx.ids[kind][key] = struct{}{}
	return ""
}

// claimPage requires both the id key and the normalized path key to be free.
// A page rejected for its path leaves its id unclaimed as well.
func (idx *indexer) claimPage(frag *Fragment) string {
	idKey := frag.Language + "|" + frag.ID
	if _, taken := idx.ids[KindPages][idKey]; taken {
		return ReasonDuplicateID
	}
	pathKey := frag.Language + "|" + NormalizePath(frag.Path)
	if _, taken := idx.paths[pathKey]; taken {
		return ReasonDuplicatePath
	}
	idx.ids[KindPages][idKey] = struct{}{}
	idx.paths[pathKey] = struct{}{}
	return ""
}

// claimVariable enforces the group rule: fragments may share
// (language, module, id) across distinct non-empty groups, but the
// absent-group slot is exclusive. Whichever shape arrives first wins: an
// early absent-group entry blocks all grouped ones, and any grouped entry
// blocks a later absent-group one.
func (idx *indexer) claimVariable(frag *Fragment) string {
	baseKey := frag.Language + "|" + frag.Module + "|" + frag.ID
	claimed := idx.groups[baseKey]

	if frag.Group == "" {
		if len(claimed) > 0 {
			return ReasonDuplicateGroup
		}
		idx.groups[baseKey] = map[string]bool{"": true}
		return ""
	}

	if claimed[""] || claimed[frag.Group] {
		return ReasonDuplicateGroup
	}
	if claimed == nil {
		claimed = make(map[string]bool)
		idx.groups[baseKey] = claimed
	}
	claimed[frag.Group] = true
	return ""
}
