package ansimark

import (
	"strings"
	"testing"
)

func TestPrintableWidthIgnoresEscapes(t *testing.T) {
	if got := PrintableWidth("\x1b[1m\x1b[38;5;196mhello\x1b[22m\x1b[39m"); got != 5 {
		t.Fatalf("width=%d want 5", got)
	}
	if got := PrintableWidth("日本"); got != 4 {
		t.Fatalf("wide runes width=%d want 4", got)
	}
}

func TestWrap(t *testing.T) {
	if got := Wrap("short", 80); got != "short" {
		t.Fatalf("short text changed: %q", got)
	}
	if got := Wrap("no width given", 0); got != "no width given" {
		t.Fatalf("zero width changed text: %q", got)
	}
	doc := mustParse(t, "the \x02c bold\x03quick brown\x02c/\x03 fox jumps")
	rendered := doc.Render(true, false, false)
	wrapped := Wrap(rendered, 10)
	lines := strings.Split(wrapped, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least three lines, got %q", wrapped)
	}
	for _, line := range lines {
		if PrintableWidth(line) > 10 {
			t.Fatalf("line %q wider than 10", line)
		}
	}
	if !strings.Contains(wrapped, "\x1b[1m") || !strings.Contains(wrapped, "\x1b[22m") {
		t.Fatalf("escape sequences lost: %q", wrapped)
	}
}
