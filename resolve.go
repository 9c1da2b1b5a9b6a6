package ansimark

import (
	"fmt"
	"strings"
)

var attrWords = map[string]Attr{
	"bold":          AttrBold,
	"underline":     AttrUnderline,
	"underscore":    AttrUnderline,
	"blink":         AttrBlink,
	"reverse":       AttrReverse,
	"inverse":       AttrReverse,
	"italic":        AttrItalic,
	"strike":        AttrStrike,
	"strikethrough": AttrStrike,
}

var baseColorWords = map[string]uint8{
	"black":   0,
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"cyan":    6,
	"white":   7,
	"gray":    8,
	"grey":    8,
}

// resolveNode fills the kind-specific fields of n from its raw payload.
// It only reads n and may be run any number of times.
func resolveNode(n *Node) error {
	n.OpenMarkup, n.CloseMarkup = "", ""
	n.AttrOn, n.AttrOff = AttrNone, AttrNone
	n.Foreground, n.Background = ColorDirective{}, ColorDirective{}
	n.ForcesReset = false
	switch n.Kind {
	case KindHTML:
		return resolveHTML(n)
	case KindColor:
		return resolveColor(n)
	default:
		return fmt.Errorf("%w: kind %d", ErrMalformedTag, n.Kind)
	}
}

func resolveHTML(n *Node) error {
	payload := strings.TrimSpace(n.RawOpen)
	if payload == "" {
		return fmt.Errorf("%w: empty html tag", ErrMalformedTag)
	}
	name := payload
	if i := strings.IndexFunc(payload, isTagSpace); i >= 0 {
		name = payload[:i]
	}
	n.OpenMarkup = "<" + payload + ">"
	n.CloseMarkup = "</" + name + ">"
	return nil
}

func isTagSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func resolveColor(n *Node) error {
	directives, err := ParseColorSpec(n.RawOpen)
	if err != nil {
		return err
	}
	for _, gd := range directives {
		d := gd.Directive
		switch d.Kind {
		case DirectiveClear:
			n.ForcesReset = true
		case DirectiveNamedAttributes:
			attrs, color, ok := wordsToStyle(d.Words)
			n.AttrOn |= attrs
			if ok {
				setGround(n, gd.Ground, color)
			}
		case DirectiveNone:
		default:
			setGround(n, gd.Ground, d)
		}
	}
	n.AttrOff = n.AttrOn
	return nil
}

func setGround(n *Node, g Ground, d ColorDirective) {
	if g == GroundBackground {
		n.Background = d
		return
	}
	n.Foreground = d
}

// wordsToStyle folds attribute words into a mask and the last color word
// into a palette directive. "bright" or "light" lifts the following color
// word into the 8-15 range. Unknown words are ignored.
func wordsToStyle(words []string) (Attr, ColorDirective, bool) {
	var (
		attrs  Attr
		color  ColorDirective
		found  bool
		bright bool
	)
	for _, w := range words {
		if a, ok := attrWords[w]; ok {
			attrs |= a
			continue
		}
		if w == "bright" || w == "light" {
			bright = true
			continue
		}
		if idx, ok := baseColorWords[w]; ok {
			if bright && idx < 8 {
				idx += 8
			}
			color = ColorDirective{Kind: DirectivePalette, Index: idx}
			found = true
		}
		bright = false
	}
	return attrs, color, found
}
