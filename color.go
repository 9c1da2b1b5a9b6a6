package ansimark

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Ground selects which channel a color directive targets.
type Ground uint8

const (
	GroundUnset Ground = iota
	GroundForeground
	GroundBackground
)

func (g Ground) String() string {
	switch g {
	case GroundForeground:
		return "fg"
	case GroundBackground:
		return "bg"
	default:
		return "unset"
	}
}

// DirectiveKind tags the variant held by a ColorDirective.
type DirectiveKind uint8

const (
	DirectiveNone DirectiveKind = iota
	DirectiveClear
	DirectiveNamedAttributes
	DirectivePalette
	DirectiveRGB
	DirectiveShortHex
	DirectiveLongHex
	DirectiveNamedColor
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveClear:
		return "clear"
	case DirectiveNamedAttributes:
		return "attributes"
	case DirectivePalette:
		return "palette"
	case DirectiveRGB:
		return "rgb"
	case DirectiveShortHex:
		return "short-hex"
	case DirectiveLongHex:
		return "long-hex"
	case DirectiveNamedColor:
		return "named"
	default:
		return "none"
	}
}

// ColorDirective is one color instruction. Which fields are meaningful
// depends on Kind: Words for NamedAttributes, Index for Palette, R/G/B for
// Rgb, LongHex and ShortHex (nibbles 0-15 for the latter), Name for
// NamedColor.
type ColorDirective struct {
	Kind    DirectiveKind
	Words   []string
	Index   uint8
	R, G, B uint8
	Name    string
}

// IsSet reports whether the directive does anything.
func (d ColorDirective) IsSet() bool {
	return d.Kind != DirectiveNone
}

func (d ColorDirective) String() string {
	switch d.Kind {
	case DirectiveNamedAttributes:
		return "attributes(" + strings.Join(d.Words, " ") + ")"
	case DirectivePalette:
		return fmt.Sprintf("palette(%d)", d.Index)
	case DirectiveRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", d.R, d.G, d.B)
	case DirectiveShortHex:
		return fmt.Sprintf("#%x%x%x", d.R, d.G, d.B)
	case DirectiveLongHex:
		return fmt.Sprintf("#%02x%02x%02x", d.R, d.G, d.B)
	case DirectiveNamedColor:
		return "+" + d.Name
	default:
		return d.Kind.String()
	}
}

// GroundedDirective pairs a directive with the channel it applies to.
type GroundedDirective struct {
	Directive ColorDirective
	Ground    Ground
}

type colorForm struct {
	re    *regexp.Regexp
	build func(spec string, offset int, m []string) (ColorDirective, error)
}

// colorForms are tried in order at every token boundary; the first match wins.
var colorForms = []colorForm{
	{regexp.MustCompile(`^[A-Za-z]+(?:[ \t]+[A-Za-z]+)*\b`), buildLetters},
	{regexp.MustCompile(`^(\d+)\b`), buildNumber},
	{regexp.MustCompile(`^<\s*(\d{1,3})\s+(\d{1,3})\s+(\d{1,3})\s*>`), buildRGB},
	{regexp.MustCompile(`^#([0-9A-Fa-f]{6})\b`), buildLongHex},
	{regexp.MustCompile(`^<#([0-9A-Fa-f]{6})>`), buildLongHex},
	{regexp.MustCompile(`^#([0-9A-Fa-f]{3})\b`), buildShortHex},
	{regexp.MustCompile(`^<#([0-9A-Fa-f]{3})>`), buildShortHex},
	{regexp.MustCompile(`^\+(\w+)\b`), buildName},
}

// ParseColorSpec parses a color specification into grounded directives.
//
// Directives start on the foreground; a "/" token moves every later
// directive to the background. A "clear" or "reset" word anywhere in the
// spec replaces the result with a single ClearAll directive.
func ParseColorSpec(spec string) ([]GroundedDirective, error) {
	var out []GroundedDirective
	ground := GroundForeground
	switched := false
	reset := false
	i := 0
	for {
		for i < len(spec) && isSpecSpace(spec[i]) {
			i++
		}
		if i >= len(spec) {
			break
		}
		if spec[i] == '/' {
			if switched {
				return nil, &ColorSpecError{Spec: spec, Offset: i, Detail: "repeated ground separator"}
			}
			switched = true
			ground = GroundBackground
			i++
			continue
		}
		rest := spec[i:]
		matched := false
		for _, form := range colorForms {
			m := form.re.FindStringSubmatch(rest)
			if m == nil {
				continue
			}
			d, err := form.build(spec, i, m)
			if err != nil {
				return nil, err
			}
			if d.Kind == DirectiveNamedAttributes && hasClearWord(d.Words) {
				reset = true
			}
			out = append(out, GroundedDirective{Directive: d, Ground: ground})
			i += len(m[0])
			matched = true
			break
		}
		if !matched {
			return nil, &ColorSpecError{Spec: spec, Offset: i}
		}
	}
	if reset {
		return []GroundedDirective{{Directive: ColorDirective{Kind: DirectiveClear}, Ground: GroundUnset}}, nil
	}
	return out, nil
}

func isSpecSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func hasClearWord(words []string) bool {
	for _, w := range words {
		if w == "clear" || w == "reset" {
			return true
		}
	}
	return false
}

func buildLetters(_ string, _ int, m []string) (ColorDirective, error) {
	words := strings.Fields(strings.ToLower(m[0]))
	return ColorDirective{Kind: DirectiveNamedAttributes, Words: words}, nil
}

func buildNumber(spec string, offset int, m []string) (ColorDirective, error) {
	n, err := byteComponent(spec, offset, m[1])
	if err != nil {
		return ColorDirective{}, err
	}
	return ColorDirective{Kind: DirectivePalette, Index: n}, nil
}

func buildRGB(spec string, offset int, m []string) (ColorDirective, error) {
	var rgb [3]uint8
	for i := range rgb {
		n, err := byteComponent(spec, offset, m[i+1])
		if err != nil {
			return ColorDirective{}, err
		}
		rgb[i] = n
	}
	return ColorDirective{Kind: DirectiveRGB, R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

func buildLongHex(_ string, _ int, m []string) (ColorDirective, error) {
	v, _ := strconv.ParseUint(m[1], 16, 32)
	return ColorDirective{Kind: DirectiveLongHex, R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func buildShortHex(_ string, _ int, m []string) (ColorDirective, error) {
	v, _ := strconv.ParseUint(m[1], 16, 16)
	return ColorDirective{Kind: DirectiveShortHex, R: uint8(v>>8) & 0xf, G: uint8(v>>4) & 0xf, B: uint8(v) & 0xf}, nil
}

func buildName(_ string, _ int, m []string) (ColorDirective, error) {
	return ColorDirective{Kind: DirectiveNamedColor, Name: strings.ToLower(m[1])}, nil
}

func byteComponent(spec string, offset int, digits string) (uint8, error) {
	n, err := strconv.Atoi(digits)
	if err != nil || n > 255 {
		return 0, &ColorSpecError{Spec: spec, Offset: offset, Detail: fmt.Sprintf("%s exceeds 255", digits)}
	}
	return uint8(n), nil
}
