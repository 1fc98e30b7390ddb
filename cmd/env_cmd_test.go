package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chdirEnvFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	descriptor := `{
  "activePlugin": "site-base",
  "plugins": [
    {"id": "site-base", "path": "plugins/site-base"},
    {"id": "extras", "path": "plugins/extras", "deployPath": "/var/www/html/plugins/extras"}
  ]
}`
	if err := os.WriteFile(filepath.Join(root, "conn2flow-env.json"), []byte(descriptor), 0o644); err != nil {
		t.Fatal(err)
	}
	pluginDir := filepath.Join(root, "plugins", "site-base")
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte(`{"version": "1.0.0"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	return root
}

func TestEnvCommand(t *testing.T) {
	chdirEnvFixture(t)
	out, err := execRoot(t, []string{"env"})
	if err != nil {
		t.Fatalf("env failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "* site-base") {
		t.Errorf("expected active plugin marker, got %q", out)
	}
	if !strings.Contains(out, "extras") {
		t.Errorf("expected all plugins listed, got %q", out)
	}
	if !strings.Contains(out, "(v1.0.0)") {
		t.Errorf("expected manifest version, got %q", out)
	}
}

func TestEnvCommandJSON(t *testing.T) {
	chdirEnvFixture(t)
	out, err := execRoot(t, []string{"env", "--json"})
	if err != nil {
		t.Fatalf("env --json failed: %v\n%s", err, out)
	}
	var report envReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("env output is not valid JSON: %v\n%s", err, out)
	}
	if len(report.Plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(report.Plugins))
	}
	if !report.Plugins[0].Active || report.Plugins[1].Active {
		t.Error("expected only site-base marked active")
	}
}

func TestEnvCommandMissingDescriptor(t *testing.T) {
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	if _, err := execRoot(t, []string{"env"}); err == nil {
		t.Error("expected error when no descriptor exists")
	}
}
