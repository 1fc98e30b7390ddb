package ascii

import (
	"strings"
	"testing"
)

func TestBoxAlignment(t *testing.T) {
	out := Box([]string{"short", "a longer line"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (border + 2 content + border), got %d: %q", len(lines), out)
	}

	width := StringWidth(lines[0])
	for i, line := range lines {
		if StringWidth(line) != width {
			t.Errorf("line %d width %d != border width %d: %q", i, StringWidth(line), width, line)
		}
	}
	if !strings.Contains(lines[1], "short") {
		t.Errorf("expected first content line to contain 'short': %q", lines[1])
	}
}

func TestBoxEmpty(t *testing.T) {
	if out := Box(nil); out != "" {
		t.Errorf("expected empty output for no lines, got %q", out)
	}
}

func TestBoxWideRunes(t *testing.T) {
	out := Box([]string{"日本語", "ok"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := StringWidth(lines[0])
	for i, line := range lines {
		if StringWidth(line) != width {
			t.Errorf("line %d misaligned with wide runes: %q", i, line)
		}
	}
}
