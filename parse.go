package ansimark

import (
	"fmt"
	"strings"
)

type scanState uint8

const (
	stateOutside scanState = iota
	stateKind
	stateMarker
	stateOpenBody
	stateCloseBody
)

type parser struct {
	state     scanState
	kind      MarkupKind
	tagOffset int
	body      strings.Builder
	runes     []rune
	nodes     []Node
	ownership []NodeID
	stack     []NodeID
}

// Parse scans tagged text into a resolved Document.
//
// Tags are TagOpen, a kind letter (c/C for color, p/P for MXP html), then
// either the tag payload or "/" for a closing tag, then TagClose. The whole
// input is rejected on the first error.
func Parse(src string) (*Document, error) {
	p := &parser{
		runes:     make([]rune, 0, len(src)),
		ownership: make([]NodeID, 0, len(src)),
	}
	for off, r := range src {
		if err := p.feed(off, r); err != nil {
			return nil, err
		}
	}
	if err := p.finish(len(src)); err != nil {
		return nil, err
	}
	return newDocument(p.runes, p.nodes, p.ownership)
}

// ParseBytes validates src with ValidateInput and parses it.
func ParseBytes(src []byte) (*Document, error) {
	if err := ValidateInput(src); err != nil {
		return nil, err
	}
	return Parse(string(src))
}

func (p *parser) current() NodeID {
	if len(p.stack) == 0 {
		return NoNode
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) feed(off int, r rune) error {
	switch p.state {
	case stateOutside:
		switch r {
		case TagOpen:
			p.tagOffset = off
			p.state = stateKind
		case TagClose:
			return &ParseError{Err: ErrMalformedTag, Offset: off, Detail: "close marker outside tag"}
		default:
			p.runes = append(p.runes, r)
			p.ownership = append(p.ownership, p.current())
		}
	case stateKind:
		kind, ok := kindFromLetter(r)
		if !ok {
			return &ParseError{Err: ErrMalformedTag, Offset: off, Detail: fmt.Sprintf("unknown kind %q", r)}
		}
		p.kind = kind
		p.state = stateMarker
	case stateMarker:
		switch r {
		case '/':
			if len(p.stack) == 0 {
				return &ParseError{Err: ErrUnbalancedTag, Offset: p.tagOffset}
			}
			p.body.Reset()
			p.state = stateCloseBody
		case TagOpen:
			return &ParseError{Err: ErrMalformedTag, Offset: off, Detail: "open marker inside tag"}
		case TagClose:
			p.open()
			p.state = stateOutside
		default:
			p.open()
			p.body.WriteRune(r)
			p.state = stateOpenBody
		}
	case stateOpenBody:
		switch r {
		case TagClose:
			p.nodes[p.current()].RawOpen = p.body.String()
			p.state = stateOutside
		case TagOpen:
			return &ParseError{Err: ErrMalformedTag, Offset: off, Detail: "open marker inside tag"}
		default:
			p.body.WriteRune(r)
		}
	case stateCloseBody:
		switch r {
		case TagClose:
			if err := p.close(); err != nil {
				return err
			}
			p.state = stateOutside
		case TagOpen:
			return &ParseError{Err: ErrMalformedTag, Offset: off, Detail: "open marker inside tag"}
		default:
			p.body.WriteRune(r)
		}
	}
	return nil
}

func (p *parser) open() {
	id := NodeID(len(p.nodes))
	p.nodes = append(p.nodes, Node{
		ID:     id,
		Parent: p.current(),
		Kind:   p.kind,
		Start:  len(p.runes),
		End:    len(p.runes),
	})
	p.stack = append(p.stack, id)
	p.body.Reset()
}

func (p *parser) close() error {
	id := p.current()
	n := &p.nodes[id]
	if n.Kind != p.kind {
		return &ParseError{
			Err:    ErrMalformedTag,
			Offset: p.tagOffset,
			Detail: fmt.Sprintf("closing %s tag inside %s tag %d", p.kind, n.Kind, id),
		}
	}
	n.RawClose = p.body.String()
	n.End = len(p.runes)
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func (p *parser) finish(end int) error {
	if len(p.stack) > 0 {
		open := p.nodes[p.current()]
		return &ParseError{Err: ErrUnclosedTag, Offset: end, Detail: fmt.Sprintf("%s tag %d still open", open.Kind, open.ID)}
	}
	if p.state != stateOutside {
		return &ParseError{Err: ErrMalformedTag, Offset: p.tagOffset, Detail: "unterminated tag"}
	}
	return nil
}

func newDocument(runes []rune, nodes []Node, ownership []NodeID) (*Document, error) {
	for i := range nodes {
		if err := resolveNode(&nodes[i]); err != nil {
			return nil, &ResolveError{Node: nodes[i].ID, Err: err}
		}
	}
	d := &Document{
		text:      string(runes),
		runes:     runes,
		nodes:     nodes,
		ownership: ownership,
	}
	d.indexEmpties()
	return d, nil
}
