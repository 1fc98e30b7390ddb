package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePluginFixture(t *testing.T, version string) string {
	t.Helper()
	root := t.TempDir()
	manifest := `{"id": "test-plugin", "name": "Test Plugin", "version": "` + version + `"}`
	if err := os.WriteFile(filepath.Join(root, "plugin.json"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestVersionShow(t *testing.T) {
	root := writePluginFixture(t, "1.2.3")
	out, err := execRoot(t, []string{"version", "--plugin-root", root})
	if err != nil {
		t.Fatalf("version failed: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("expected 1.2.3, got %q", out)
	}
}

func TestVersionBumpPatch(t *testing.T) {
	root := writePluginFixture(t, "1.2.3")
	out, err := execRoot(t, []string{"version", "bump", "patch", "--plugin-root", root})
	if err != nil {
		t.Fatalf("version bump failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1.2.4") {
		t.Errorf("expected bumped version 1.2.4 in output, got %q", out)
	}

	data, err := os.ReadFile(filepath.Join(root, "plugin.json"))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest is not valid JSON after bump: %v", err)
	}
	if m["version"] != "1.2.4" {
		t.Errorf("manifest version = %v, want 1.2.4", m["version"])
	}
	if m["name"] != "Test Plugin" {
		t.Errorf("unrelated manifest field was not preserved: %v", m["name"])
	}
}

func TestVersionBumpNoOp(t *testing.T) {
	root := writePluginFixture(t, "2.0.0")
	out, err := execRoot(t, []string{"version", "bump", "minor", "--plugin-root", root, "--no-op"})
	if err != nil {
		t.Fatalf("version bump --no-op failed: %v\n%s", err, out)
	}

	data, _ := os.ReadFile(filepath.Join(root, "plugin.json"))
	if !strings.Contains(string(data), "2.0.0") {
		t.Errorf("no-op bump must not modify the manifest: %s", data)
	}
}

func TestVersionSet(t *testing.T) {
	root := writePluginFixture(t, "1.0.0")
	out, err := execRoot(t, []string{"version", "set", "3.1.0", "--plugin-root", root})
	if err != nil {
		t.Fatalf("version set failed: %v\n%s", err, out)
	}
	data, _ := os.ReadFile(filepath.Join(root, "plugin.json"))
	if !strings.Contains(string(data), "3.1.0") {
		t.Errorf("expected manifest to carry 3.1.0: %s", data)
	}
}

func TestVersionValidate(t *testing.T) {
	out, err := execRoot(t, []string{"version", "validate", "1.0.0"})
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "valid") {
		t.Errorf("expected valid confirmation, got %q", out)
	}
}

func TestVersionValidateRejectsGarbage(t *testing.T) {
	if _, err := execRoot(t, []string{"version", "validate", "not-a-version"}); err == nil {
		t.Error("expected error for invalid version string")
	}
}
