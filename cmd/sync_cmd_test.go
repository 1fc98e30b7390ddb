package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSyncFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"plugin.json":        `{"version": "1.0.0"}`,
		"resources/en/a.txt": "alpha",
		".git/HEAD":          "ref: refs/heads/main",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestSyncCommand(t *testing.T) {
	root := writeSyncFixture(t)
	dest := t.TempDir()
	out, err := execRoot(t, []string{"sync", "--plugin-root", root, "--dest", dest})
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}

	if _, err := os.Stat(filepath.Join(dest, "resources/en/a.txt")); err != nil {
		t.Errorf("expected synced file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, ".git/HEAD")); err == nil {
		t.Error(".git must be excluded by the default rules")
	}
}

func TestSyncCommandDryRun(t *testing.T) {
	root := writeSyncFixture(t)
	dest := t.TempDir()
	out, err := execRoot(t, []string{"sync", "--plugin-root", root, "--dest", dest, "--dry-run"})
	if err != nil {
		t.Fatalf("sync --dry-run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "would copy") {
		t.Errorf("expected planned actions in output, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(dest, "plugin.json")); err == nil {
		t.Error("dry run must not copy files")
	}
}

func TestSyncCommandRejectsTraversalDest(t *testing.T) {
	root := writeSyncFixture(t)
	if err := syncCmd.Flags().Set("dry-run", "false"); err != nil {
		t.Fatal(err)
	}
	if _, err := execRoot(t, []string{"sync", "--plugin-root", root, "--dest", "../outside"}); err == nil {
		t.Error("expected traversal destination to be rejected")
	}
}

func TestSyncCommandNoDestination(t *testing.T) {
	root := writeSyncFixture(t)
	if err := syncCmd.Flags().Set("dest", ""); err != nil {
		t.Fatal(err)
	}
	if err := syncCmd.Flags().Set("dry-run", "false"); err != nil {
		t.Fatal(err)
	}
	if _, err := execRoot(t, []string{"sync", "--plugin-root", root}); err == nil {
		t.Error("expected error when no destination is available")
	}
}
