// Package palette holds the terminal color tables used to map arbitrary RGB
// values onto the 16- and 256-color ANSI code sets.
package palette

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// xterm holds the default RGB value of each 256-color palette entry.
var xterm [256]RGB

func init() {
	for i := range xterm {
		r, g, b := tcell.PaletteColor(i).RGB()
		xterm[i] = RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
	}
}

// Xterm returns the default RGB value of palette entry i.
func Xterm(i uint8) RGB {
	return xterm[i]
}

// Nearest16 returns the index (0-15) of the base color closest to c.
func Nearest16(c RGB) uint8 {
	return nearest(c, 0, 16)
}

// Nearest256 returns the extended palette index closest to c. Only the
// color cube and grayscale ramp (16-255) are considered since the first
// sixteen entries are commonly redefined by terminal themes.
func Nearest256(c RGB) uint8 {
	return nearest(c, 16, 256)
}

func nearest(c RGB, from, to int) uint8 {
	target := c.colorful()
	best := from
	bestDist := -1.0
	for i := from; i < to; i++ {
		if xterm[i] == c {
			return uint8(i)
		}
		d := target.DistanceLab(xterm[i].colorful())
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

// Named looks up a CSS/X11 color name, case-insensitively.
func Named(name string) (RGB, bool) {
	c, ok := tcell.ColorNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok || !c.Valid() {
		return RGB{}, false
	}
	r, g, b := c.RGB()
	if r < 0 {
		return RGB{}, false
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, true
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(expandShortHex(strings.TrimSpace(s)))
	if err != nil {
		return RGB{}, err
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

func expandShortHex(s string) string {
	if len(s) != 4 || s[0] != '#' {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}
