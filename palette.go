package ansimark

import (
	"strings"

	"pkt.systems/ansimark/internal/palette"
)

// RGB is a 24-bit color.
type RGB = palette.RGB

// Palette resolves named colors (the "+name" color form) to RGB values.
type Palette interface {
	LookupNamedColor(name string) (RGB, bool)
}

// PaletteFunc adapts a function to the Palette interface.
type PaletteFunc func(name string) (RGB, bool)

// LookupNamedColor calls f(name).
func (f PaletteFunc) LookupNamedColor(name string) (RGB, bool) {
	return f(name)
}

// DefaultPalette returns the built-in CSS/X11 color names.
func DefaultPalette() Palette {
	return PaletteFunc(palette.Named)
}

// MapPalette resolves names from a fixed table before consulting a fallback.
type MapPalette struct {
	colors   map[string]RGB
	fallback Palette
}

// NewMapPalette returns a MapPalette. Names are matched case-insensitively;
// fallback may be nil.
func NewMapPalette(colors map[string]RGB, fallback Palette) *MapPalette {
	m := &MapPalette{colors: make(map[string]RGB, len(colors)), fallback: fallback}
	for name, c := range colors {
		m.colors[normalizeColorName(name)] = c
	}
	return m
}

// LookupNamedColor implements Palette.
func (m *MapPalette) LookupNamedColor(name string) (RGB, bool) {
	if c, ok := m.colors[normalizeColorName(name)]; ok {
		return c, true
	}
	if m.fallback != nil {
		return m.fallback.LookupNamedColor(name)
	}
	return RGB{}, false
}

func normalizeColorName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
