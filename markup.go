package ansimark

import "strings"

// Tag markers delimiting markup in tagged source text.
const (
	TagOpen  rune = '\x02'
	TagClose rune = '\x03'
)

// MarkupKind selects how a node is resolved and rendered.
type MarkupKind uint8

const (
	// KindColor is an ANSI color/attribute directive.
	KindColor MarkupKind = iota
	// KindHTML is an MXP pseudo-HTML tag.
	KindHTML
)

func (k MarkupKind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindHTML:
		return "html"
	default:
		return "unknown"
	}
}

// Letter returns the canonical kind letter used in tagged text.
func (k MarkupKind) Letter() rune {
	if k == KindHTML {
		return 'p'
	}
	return 'c'
}

func kindFromLetter(r rune) (MarkupKind, bool) {
	switch r {
	case 'c', 'C':
		return KindColor, true
	case 'p', 'P':
		return KindHTML, true
	default:
		return 0, false
	}
}

// NodeID indexes a node in a Document's arena.
type NodeID int

// NoNode marks positions outside any tag and top-level parents.
const NoNode NodeID = -1

// Attr is a bitmask of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrItalic
	AttrStrike
	AttrNone Attr = 0
)

// attrOrder fixes emission order of attribute codes.
var attrOrder = [...]Attr{AttrBold, AttrItalic, AttrUnderline, AttrBlink, AttrReverse, AttrStrike}

func (a Attr) String() string {
	if a == AttrNone {
		return "none"
	}
	names := make([]string, 0, len(attrOrder))
	for _, bit := range attrOrder {
		if a&bit != 0 {
			names = append(names, attrNames[bit])
		}
	}
	return strings.Join(names, "|")
}

var attrNames = map[Attr]string{
	AttrBold:      "bold",
	AttrUnderline: "underline",
	AttrBlink:     "blink",
	AttrReverse:   "reverse",
	AttrItalic:    "italic",
	AttrStrike:    "strike",
}

// Node is one parsed tag occurrence.
//
// Start and End are rune offsets into the plain text; Start == End for a node
// that covers no characters. Resolved fields are filled once during
// construction and never change afterwards.
type Node struct {
	ID       NodeID
	Parent   NodeID
	Kind     MarkupKind
	RawOpen  string
	RawClose string
	Start    int
	End      int

	// Html
	OpenMarkup  string
	CloseMarkup string

	// Color
	AttrOn      Attr
	AttrOff     Attr
	Foreground  ColorDirective
	Background  ColorDirective
	ForcesReset bool
}

// Empty reports whether the node covers zero characters.
func (n Node) Empty() bool {
	return n.Start == n.End
}

// Document is tagged text split into its plain-text projection, the node
// arena and the per-rune ownership map. A Document is immutable once
// returned and safe for concurrent reads.
type Document struct {
	text      string
	runes     []rune
	nodes     []Node
	ownership []NodeID
	// empties lists empty-span nodes by parent, in id order.
	empties map[NodeID][]NodeID
	emptyAt map[int]struct{}
}

// Text returns the plain text with all tag syntax stripped.
func (d *Document) Text() string {
	return d.text
}

// Len returns the number of runes in the plain text.
func (d *Document) Len() int {
	return len(d.runes)
}

// Runes returns a copy of the plain text as runes.
func (d *Document) Runes() []rune {
	out := make([]rune, len(d.runes))
	copy(out, d.runes)
	return out
}

// Nodes returns a copy of the node arena ordered by id.
func (d *Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Node returns the node with the given id.
func (d *Document) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(d.nodes) {
		return Node{}, false
	}
	return d.nodes[id], true
}

// Owner returns the innermost node covering rune i, or NoNode.
func (d *Document) Owner(i int) NodeID {
	if i < 0 || i >= len(d.ownership) {
		return NoNode
	}
	return d.ownership[i]
}

// Ownership returns a copy of the ownership map.
func (d *Document) Ownership() []NodeID {
	out := make([]NodeID, len(d.ownership))
	copy(out, d.ownership)
	return out
}

// Chain returns id and its ancestors, outermost first.
func (d *Document) Chain(id NodeID) []NodeID {
	return d.appendChain(nil, id)
}

func (d *Document) appendChain(dst []NodeID, id NodeID) []NodeID {
	dst = dst[:0]
	for id != NoNode {
		dst = append(dst, id)
		id = d.nodes[id].Parent
	}
	for i, j := 0, len(dst)-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}

func (d *Document) indexEmpties() {
	d.empties, d.emptyAt = nil, nil
	for _, n := range d.nodes {
		if !n.Empty() {
			continue
		}
		if d.empties == nil {
			d.empties = make(map[NodeID][]NodeID)
			d.emptyAt = make(map[int]struct{})
		}
		d.empties[n.Parent] = append(d.empties[n.Parent], n.ID)
		d.emptyAt[n.Start] = struct{}{}
	}
}
