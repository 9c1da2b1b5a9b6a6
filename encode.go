package ansimark

import "strings"

// Encode reconstructs tagged text that parses back to the same plain text
// and node structure. Kind letters are written in lower case and payloads
// verbatim.
func (d *Document) Encode() string {
	e := &encoder{}
	e.out.Grow(len(d.text) + len(d.nodes)*8)
	d.walk(e)
	return e.out.String()
}

type encoder struct {
	out strings.Builder
}

func (e *encoder) text(s string) {
	e.out.WriteString(s)
}

func (e *encoder) open(n *Node) {
	e.out.WriteRune(TagOpen)
	e.out.WriteRune(n.Kind.Letter())
	e.out.WriteString(n.RawOpen)
	e.out.WriteRune(TagClose)
}

func (e *encoder) close(n *Node) {
	e.out.WriteRune(TagOpen)
	e.out.WriteRune(n.Kind.Letter())
	e.out.WriteByte('/')
	e.out.WriteString(n.RawClose)
	e.out.WriteRune(TagClose)
}
