package syncdir

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPerformSyncCopiesMatchingFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{
		"plugin.json":                  `{"version": "1.0.0"}`,
		"resources/en/layouts.json":    "[]",
		".git/config":                  "nope",
		"db/orphans/LayoutsData.json":  "[]",
		"resources/en/pages/P1/P1.css": "p{}",
	})

	result, err := PerformSync(Options{Source: src, Dest: dst})
	if err != nil {
		t.Fatalf("PerformSync failed: %v", err)
	}
	if result.FilesCopied != 3 {
		t.Errorf("expected 3 files copied, got %d", result.FilesCopied)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	if _, err := os.Stat(filepath.Join(dst, "plugin.json")); err != nil {
		t.Error("plugin.json not copied")
	}
	if _, err := os.Stat(filepath.Join(dst, ".git/config")); !os.IsNotExist(err) {
		t.Error("excluded .git file was copied")
	}
	if _, err := os.Stat(filepath.Join(dst, "db/orphans/LayoutsData.json")); !os.IsNotExist(err) {
		t.Error("excluded orphans file was copied")
	}
}

func TestPerformSyncDryRun(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "x", "b.txt": "y"})

	result, err := PerformSync(Options{Source: src, Dest: dst, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Planned) != 2 {
		t.Errorf("expected 2 planned copies, got %v", result.Planned)
	}
	if result.FilesCopied != 0 {
		t.Errorf("dry run must not copy, got %d", result.FilesCopied)
	}
	if _, err := os.Stat(filepath.Join(dst, "a.txt")); !os.IsNotExist(err) {
		t.Error("dry run wrote a file")
	}
}

func TestPerformSyncPrune(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"keep.txt": "x"})
	writeTree(t, dst, map[string]string{"keep.txt": "old", "stale.txt": "remove me"})

	rules := &Rules{Include: []string{"**"}, Prune: true}
	result, err := PerformSync(Options{Source: src, Dest: dst, Rules: rules})
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesRemoved != 1 {
		t.Errorf("expected 1 file removed, got %d", result.FilesRemoved)
	}
	if _, err := os.Stat(filepath.Join(dst, "stale.txt")); !os.IsNotExist(err) {
		t.Error("stale file not pruned")
	}
	data, err := os.ReadFile(filepath.Join(dst, "keep.txt"))
	if err != nil || string(data) != "x" {
		t.Errorf("kept file not refreshed: %q, %v", data, err)
	}
}

func TestPerformSyncMissingSource(t *testing.T) {
	if _, err := PerformSync(Options{Source: filepath.Join(t.TempDir(), "ghost"), Dest: t.TempDir()}); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestPerformSyncMissingDest(t *testing.T) {
	if _, err := PerformSync(Options{Source: t.TempDir()}); err == nil {
		t.Error("expected error for empty destination")
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sync.yaml")
	content := "include:\n  - \"resources/**\"\nexclude:\n  - \"**/*.bak\"\nprune: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules.Include) != 1 || rules.Include[0] != "resources/**" {
		t.Errorf("unexpected include: %v", rules.Include)
	}
	if !rules.Prune {
		t.Error("expected prune to be set")
	}
}

func TestLoadRulesMissingFileUsesDefaults(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rules.Include) == 0 {
		t.Error("expected default include patterns")
	}
	if rules.Prune {
		t.Error("default rules must not prune")
	}
}

func TestLoadRulesInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sync.yaml")
	if err := os.WriteFile(path, []byte("include: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
