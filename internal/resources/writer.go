package resources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn2flow/flowdev/pkg/logger"
	"github.com/conn2flow/flowdev/pkg/safeio"
)

// legacyCombinedFile is the retired single-file output; it is removed when
// still present so stale data cannot shadow the split collections.
const legacyCombinedFile = "ResourcesData.json"

// write serializes the four output collections and the four orphan
// collections to their fixed paths, overwriting in full.
func (a *Aggregator) write() error {
	if err := os.MkdirAll(a.opts.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(a.opts.OrphansDir, 0o755); err != nil {
		return fmt.Errorf("failed to create orphans directory: %w", err)
	}

	for _, kind := range Kinds {
		if err := a.writeJSON(filepath.Join(a.opts.DataDir, kind.OutputFile()), a.result.Records[kind]); err != nil {
			return err
		}
		if err := a.writeJSON(filepath.Join(a.opts.OrphansDir, kind.OutputFile()), a.result.Orphans[kind]); err != nil {
			return err
		}
	}

	legacy := filepath.Join(a.opts.DataDir, legacyCombinedFile)
	if _, err := os.Stat(legacy); err == nil {
		if err := os.Remove(legacy); err != nil {
			return fmt.Errorf("failed to remove legacy combined file %s: %w", legacy, err)
		}
		logger.Info("removed legacy combined collection", logger.String("file", legacy))
	}

	return nil
}

func (a *Aggregator) writeJSON(path string, value interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", a.opts.Indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	if err := safeio.WriteFilePreservePerms(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
