package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeResourceFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"resources/languages.json":            `{"languages": [{"code": "en"}]}`,
		"resources/en/layouts.json":           `[{"id": "base", "version": "1.0.0"}]`,
		"resources/en/layouts/base/base.html": "<main></main>",
		"resources/en/pages.json":             `[{"id": "home", "path": "/"}]`,
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

func TestResourcesCommand(t *testing.T) {
	root := writeResourceFixture(t)
	out, err := execRoot(t, []string{"resources", "--plugin-root", root})
	if err != nil {
		t.Fatalf("resources failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Resource aggregation complete") {
		t.Errorf("expected summary box in output, got %q", out)
	}

	for _, rel := range []string{"db/data/LayoutsData.json", "db/data/PaginasData.json"} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("expected output collection %s: %v", rel, err)
		}
	}
}

func TestResourcesCommandDeployOutput(t *testing.T) {
	root := writeResourceFixture(t)
	deploy := t.TempDir()
	out, err := execRoot(t, []string{"resources", "--plugin-root", root, "--deploy-plugin-root", deploy})
	if err != nil {
		t.Fatalf("resources failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(deploy, "db/data/LayoutsData.json")); err != nil {
		t.Errorf("expected collections under the deploy root: %v", err)
	}
}

func TestResourcesCommandMissingRoot(t *testing.T) {
	if _, err := execRoot(t, []string{"resources", "--plugin-root", "/nonexistent/plugin"}); err == nil {
		t.Error("expected error for missing plugin root")
	}
}

func TestResourcesCommandRelativeRoot(t *testing.T) {
	root := writeResourceFixture(t)
	chdir(t, filepath.Dir(root))
	resetResourcesFlags(t)

	out, err := execRoot(t, []string{"resources", "--plugin-root", filepath.Base(root)})
	if err != nil {
		t.Fatalf("resources with relative root failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(root, "db/data/LayoutsData.json")); err != nil {
		t.Errorf("expected collections under the fixture root: %v", err)
	}
}

func TestResourcesCommandRelativeDeployRoot(t *testing.T) {
	root := writeResourceFixture(t)
	deploy := t.TempDir()
	chdir(t, filepath.Dir(deploy))
	resetResourcesFlags(t)

	out, err := execRoot(t, []string{"resources", "--plugin-root", root, "--deploy-plugin-root", filepath.Base(deploy)})
	if err != nil {
		t.Fatalf("resources with relative deploy root failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(deploy, "db/data/LayoutsData.json")); err != nil {
		t.Errorf("expected collections under the deploy root, not nested in the plugin tree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, filepath.Base(deploy))); err == nil {
		t.Error("deploy root must not resolve against the plugin root")
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
}

// flags on the shared command tree are sticky between execRoot runs
func resetResourcesFlags(t *testing.T) {
	t.Helper()
	for _, name := range []string{"deploy-plugin-root", "test-plugin"} {
		if err := resourcesCmd.Flags().Set(name, ""); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResourcesTestPluginAlias(t *testing.T) {
	root := writeResourceFixture(t)
	deploy := t.TempDir()
	// reset the primary flag so the alias is the one that takes effect
	if err := resourcesCmd.Flags().Set("deploy-plugin-root", ""); err != nil {
		t.Fatal(err)
	}
	out, err := execRoot(t, []string{"resources", "--plugin-root", root, "--test-plugin", deploy})
	if err != nil {
		t.Fatalf("resources failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(deploy, "db/data/LayoutsData.json")); err != nil {
		t.Errorf("expected collections under the alias deploy root: %v", err)
	}
}
