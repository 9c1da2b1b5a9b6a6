package ansimark

import (
	"strconv"

	"pkt.systems/ansimark/internal/palette"
)

const (
	sgrReset     = "\x1b[0m"
	sgrDefaultFg = "\x1b[39m"
	sgrDefaultBg = "\x1b[49m"
)

var attrOnCodes = map[Attr]string{
	AttrBold:      "\x1b[1m",
	AttrItalic:    "\x1b[3m",
	AttrUnderline: "\x1b[4m",
	AttrBlink:     "\x1b[5m",
	AttrReverse:   "\x1b[7m",
	AttrStrike:    "\x1b[9m",
}

var attrOffCodes = map[Attr]string{
	AttrBold:      "\x1b[22m",
	AttrItalic:    "\x1b[23m",
	AttrUnderline: "\x1b[24m",
	AttrBlink:     "\x1b[25m",
	AttrReverse:   "\x1b[27m",
	AttrStrike:    "\x1b[29m",
}

// AttrSequence returns the SGR sequences switching the attributes in mask on
// (or off).
func AttrSequence(mask Attr, on bool) string {
	codes := attrOffCodes
	if on {
		codes = attrOnCodes
	}
	var out string
	for _, bit := range attrOrder {
		if mask&bit != 0 {
			out += codes[bit]
		}
	}
	return out
}

// ColorSequence derives the escape sequence for one directive on ground g.
// With xterm unset only the 16-color code set is used and RGB values snap to
// the nearest base color; with xterm set palette indexes pass through and
// RGB values snap to the nearest 256-color entry. Named colors resolve
// through pal and degrade to a full reset when unknown.
func ColorSequence(d ColorDirective, g Ground, xterm bool, pal Palette) string {
	switch d.Kind {
	case DirectiveNone, DirectiveNamedAttributes:
		return ""
	case DirectiveClear:
		return sgrReset
	case DirectivePalette:
		if xterm {
			return extendedSequence(d.Index, g)
		}
		idx := d.Index
		if idx >= 16 {
			idx = palette.Nearest16(palette.Xterm(idx))
		}
		return baseSequence(idx, g)
	case DirectiveNamedColor:
		if pal == nil {
			return sgrReset
		}
		c, ok := pal.LookupNamedColor(d.Name)
		if !ok {
			return sgrReset
		}
		return rgbSequence(c, g, xterm)
	default:
		c, ok := directiveRGB(d)
		if !ok {
			return ""
		}
		return rgbSequence(c, g, xterm)
	}
}

func directiveRGB(d ColorDirective) (RGB, bool) {
	switch d.Kind {
	case DirectiveRGB, DirectiveLongHex:
		return RGB{R: d.R, G: d.G, B: d.B}, true
	case DirectiveShortHex:
		return RGB{R: d.R * 17, G: d.G * 17, B: d.B * 17}, true
	default:
		return RGB{}, false
	}
}

func rgbSequence(c RGB, g Ground, xterm bool) string {
	if xterm {
		return extendedSequence(palette.Nearest256(c), g)
	}
	return baseSequence(palette.Nearest16(c), g)
}

func baseSequence(idx uint8, g Ground) string {
	code := 30
	if g == GroundBackground {
		code = 40
	}
	if idx >= 8 {
		code += 60
		idx -= 8
	}
	return "\x1b[" + strconv.Itoa(code+int(idx)) + "m"
}

func extendedSequence(idx uint8, g Ground) string {
	prefix := "\x1b[38;5;"
	if g == GroundBackground {
		prefix = "\x1b[48;5;"
	}
	return prefix + strconv.Itoa(int(idx)) + "m"
}
