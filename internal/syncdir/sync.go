package syncdir

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/conn2flow/flowdev/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Options configures one sync run.
type Options struct {
	Source      string
	Dest        string
	Rules       *Rules
	DryRun      bool
	Concurrency int
}

// Result reports what a sync run did (or would do, for dry runs).
type Result struct {
	FilesCopied  int
	FilesRemoved int
	Planned      []string // dry-run only: relative paths that would be copied
	Errors       []error  // per-file failures, non-fatal
}

// PerformSync copies every rule-matched file from Source into Dest,
// optionally pruning destination files that no longer exist in the source.
func PerformSync(opts Options) (*Result, error) {
	if opts.Rules == nil {
		opts.Rules = defaultRules()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 8
	}
	if st, err := os.Stat(opts.Source); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("sync source is not a directory: %s", opts.Source)
	}
	if opts.Dest == "" {
		return nil, fmt.Errorf("sync destination not configured")
	}

	files, err := collectFiles(opts.Source, opts.Rules)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	if opts.DryRun {
		result.Planned = files
		for _, rel := range files {
			logger.Info(fmt.Sprintf("[DRY RUN] Would copy %s", rel))
		}
		if opts.Rules.Prune {
			stale, err := collectStale(opts.Dest, files)
			if err != nil {
				return nil, err
			}
			for _, rel := range stale {
				logger.Info(fmt.Sprintf("[DRY RUN] Would remove %s", rel))
			}
		}
		return result, nil
	}

	if err := os.MkdirAll(opts.Dest, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(opts.Concurrency)

	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			src := filepath.Join(opts.Source, filepath.FromSlash(rel))
			dst := filepath.Join(opts.Dest, filepath.FromSlash(rel))
			if err := copyFile(src, dst); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", rel, err))
				mu.Unlock()
				return nil // per-file failures do not abort the run
			}
			mu.Lock()
			result.FilesCopied++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Rules.Prune {
		stale, err := collectStale(opts.Dest, files)
		if err != nil {
			return nil, err
		}
		for _, rel := range stale {
			if err := os.Remove(filepath.Join(opts.Dest, filepath.FromSlash(rel))); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("prune %s: %w", rel, err))
				continue
			}
			result.FilesRemoved++
			logger.Debug("pruned stale file", logger.String("path", rel))
		}
	}

	return result, nil
}

// collectFiles walks the source tree and returns the sorted slash-relative
// paths matching the include patterns and none of the exclude patterns.
func collectFiles(source string, rules *Rules) ([]string, error) {
	var files []string
	err := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matchAny(rules.Include, rel) && !matchAny(rules.Exclude, rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source tree: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// collectStale returns destination files that are not part of the current
// source file set.
func collectStale(dest string, files []string) ([]string, error) {
	current := make(map[string]struct{}, len(files))
	for _, rel := range files {
		current[rel] = struct{}{}
	}

	var stale []string
	err := filepath.WalkDir(dest, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dest, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if _, ok := current[rel]; !ok {
			stale = append(stale, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk destination tree: %w", err)
	}
	sort.Strings(stale)
	return stale, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// copyFile copies a single file from src to dst, preserving the source mode.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src) // #nosec G304 - caller validates paths
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() {
		if cerr := srcFile.Close(); cerr != nil {
			logger.Warn(fmt.Sprintf("Failed to close source file %s: %v", src, cerr))
		}
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode()) // #nosec G304 - caller validates paths
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if cerr := dstFile.Close(); cerr != nil {
			logger.Warn(fmt.Sprintf("Failed to close destination file %s: %v", dst, cerr))
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	return nil
}
