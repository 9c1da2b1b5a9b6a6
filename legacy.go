package ansimark

import "fmt"

// LegacyDefault is the code for uncolored text in a legacy code stream.
const LegacyDefault rune = ' '

var legacyCodes = map[rune]string{
	'd': "black",
	'r': "red",
	'g': "green",
	'y': "yellow",
	'b': "blue",
	'm': "magenta",
	'c': "cyan",
	'w': "white",
	'D': "bold black",
	'R': "bold red",
	'G': "bold green",
	'Y': "bold yellow",
	'B': "bold blue",
	'M': "bold magenta",
	'C': "bold cyan",
	'W': "bold white",
	'x': "clear",
}

// LegacyOption configures FromCodes.
type LegacyOption func(*legacyConfig)

type legacyConfig struct {
	codes map[rune]string
}

// WithLegacyCode maps code to a color spec, adding to or replacing the
// built-in table.
func WithLegacyCode(code rune, spec string) LegacyOption {
	return func(cfg *legacyConfig) {
		cfg.codes[code] = spec
	}
}

// LegacyCodes returns a copy of the built-in code table.
func LegacyCodes() map[rune]string {
	out := make(map[rune]string, len(legacyCodes))
	for k, v := range legacyCodes {
		out[k] = v
	}
	return out
}

// FromCodes builds a Document from plain text and a code stream holding one
// code rune per text rune. Every run of equal non-default codes becomes one
// top-level color node.
func FromCodes(text, codes string, opts ...LegacyOption) (*Document, error) {
	cfg := legacyConfig{codes: LegacyCodes()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if _, ok := cfg.codes[LegacyDefault]; ok {
		return nil, &LegacyError{Code: LegacyDefault, Detail: "default code cannot carry a color"}
	}
	for code, spec := range cfg.codes {
		if _, err := ParseColorSpec(spec); err != nil {
			return nil, &LegacyError{Code: code, Detail: fmt.Sprintf("code %q: %v", code, err)}
		}
	}

	runes := []rune(text)
	codeRunes := []rune(codes)
	if len(runes) != len(codeRunes) {
		return nil, &LegacyError{Detail: fmt.Sprintf("code stream has %d codes for %d characters", len(codeRunes), len(runes))}
	}

	var nodes []Node
	ownership := make([]NodeID, len(runes))
	current := NoNode
	prev := LegacyDefault
	for i, code := range codeRunes {
		if r := runes[i]; r == TagOpen || r == TagClose {
			return nil, &ParseError{Err: ErrMalformedTag, Offset: i, Detail: "tag marker in legacy text"}
		}
		spec, ok := cfg.codes[code]
		if code != LegacyDefault && !ok {
			return nil, &LegacyError{Position: i, Code: code}
		}
		if code != prev {
			if current != NoNode {
				nodes[current].End = i
				current = NoNode
			}
			if code != LegacyDefault {
				current = NodeID(len(nodes))
				nodes = append(nodes, Node{
					ID:      current,
					Parent:  NoNode,
					Kind:    KindColor,
					RawOpen: " " + spec,
					Start:   i,
				})
			}
			prev = code
		}
		ownership[i] = current
	}
	if current != NoNode {
		nodes[current].End = len(runes)
	}
	return newDocument(runes, nodes, ownership)
}
