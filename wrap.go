package ansimark

import (
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
)

// PrintableWidth returns the display width of s, ignoring ANSI sequences.
func PrintableWidth(s string) int {
	return ansi.PrintableRuneWidth(s)
}

// Wrap word-wraps ANSI-rendered text at width columns. Escape sequences do
// not count towards the width.
func Wrap(s string, width int) string {
	if width <= 0 || PrintableWidth(s) <= width {
		return s
	}
	return wordwrap.String(s, width)
}
