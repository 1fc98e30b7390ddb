package resources

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/conn2flow/flowdev/pkg/logger"
)

// previousRecord holds the slice of an earlier output record that version
// resolution needs.
type previousRecord struct {
	Version  int
	Checksum Checksum
}

// previousStore carries forward version counters from the previously written
// collections. It is the only cross-run state of the aggregation.
type previousStore struct {
	records map[Kind]map[string]previousRecord
}

// loadPrevious reads the existing output collections. A missing file is the
// normal first-run case; an unreadable or corrupt one is treated as absent
// so a damaged collection never blocks a rebuild.
func loadPrevious(dataDir string) *previousStore {
	store := &previousStore{records: make(map[Kind]map[string]previousRecord)}
	for _, kind := range Kinds {
		store.records[kind] = make(map[string]previousRecord)
		path := filepath.Join(dataDir, kind.OutputFile())
		data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the configured output directory
		if err != nil {
			continue
		}
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			logger.Warn("ignoring unreadable previous collection", logger.String("file", path), logger.Err(err))
			continue
		}
		for i := range records {
			frag := records[i].fragment()
			store.records[kind][versionKey(kind, &frag)] = previousRecord{
				Version:  records[i].Version,
				Checksum: records[i].Checksum,
			}
		}
	}
	return store
}

// resolveVersion decides the version counter for a record: 1 when the key
// was never seen, the previous counter when content is unchanged, previous+1
// otherwise. Re-running without content changes never bumps a counter.
func (s *previousStore) resolveVersion(kind Kind, frag *Fragment, sum Checksum) int {
	prev, ok := s.records[kind][versionKey(kind, frag)]
	if !ok {
		return 1
	}
	if prev.Checksum.Equal(sum) {
		return prev.Version
	}
	return prev.Version + 1
}
