package ansimark

import (
	"errors"
	"reflect"
	"testing"
)

func mustParse(t testing.TB, src string) *Document {
	t.Helper()
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return doc
}

func TestParseSingleColorNode(t *testing.T) {
	doc := mustParse(t, "\x02c bold red\x03hi\x02c/\x03")
	if doc.Text() != "hi" {
		t.Fatalf("text=%q want hi", doc.Text())
	}
	nodes := doc.Nodes()
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes want 1", len(nodes))
	}
	n := nodes[0]
	if n.ID != 0 || n.Parent != NoNode || n.Kind != KindColor {
		t.Fatalf("unexpected node header: %+v", n)
	}
	if n.RawOpen != " bold red" || n.RawClose != "" {
		t.Fatalf("unexpected payloads: open=%q close=%q", n.RawOpen, n.RawClose)
	}
	if n.Start != 0 || n.End != 2 {
		t.Fatalf("span=[%d,%d) want [0,2)", n.Start, n.End)
	}
	if got := doc.Ownership(); !reflect.DeepEqual(got, []NodeID{0, 0}) {
		t.Fatalf("ownership=%v", got)
	}
}

func TestParseNestedNodes(t *testing.T) {
	doc := mustParse(t, "a\x02c red\x03b\x02P u\x03c\x02p/\x03\x02C/\x03d")
	if doc.Text() != "abcd" {
		t.Fatalf("text=%q", doc.Text())
	}
	if got := doc.Ownership(); !reflect.DeepEqual(got, []NodeID{NoNode, 0, 1, NoNode}) {
		t.Fatalf("ownership=%v", got)
	}
	inner, ok := doc.Node(1)
	if !ok {
		t.Fatalf("node 1 missing")
	}
	if inner.Parent != 0 || inner.Kind != KindHTML || inner.Start != 2 || inner.End != 3 {
		t.Fatalf("unexpected inner node: %+v", inner)
	}
	if got := doc.Chain(1); !reflect.DeepEqual(got, []NodeID{0, 1}) {
		t.Fatalf("chain=%v", got)
	}
	if got := doc.Chain(NoNode); len(got) != 0 {
		t.Fatalf("chain of NoNode=%v", got)
	}
	if doc.Owner(-1) != NoNode || doc.Owner(4) != NoNode || doc.Owner(2) != 1 {
		t.Fatalf("unexpected Owner results")
	}
	if _, ok := doc.Node(2); ok {
		t.Fatalf("node 2 should not exist")
	}
}

func TestParseAncestorsCoverDescendants(t *testing.T) {
	doc := mustParse(t, "\x02c red\x03a\x02c blue\x03b\x02c 5\x03c\x02c/\x03\x02c/\x03d\x02c/\x03e")
	for i := 0; i < doc.Len(); i++ {
		for _, id := range doc.Chain(doc.Owner(i)) {
			n, _ := doc.Node(id)
			if i < n.Start || i >= n.End {
				t.Fatalf("position %d outside ancestor %d span [%d,%d)", i, id, n.Start, n.End)
			}
		}
	}
	for _, n := range doc.Nodes() {
		if n.Parent != NoNode && n.Parent >= n.ID {
			t.Fatalf("node %d parent %d not earlier", n.ID, n.Parent)
		}
	}
}

func TestParseEmptySpanNode(t *testing.T) {
	doc := mustParse(t, "a\x02c bold\x03\x02c/\x03b")
	n, _ := doc.Node(0)
	if !n.Empty() || n.Start != 1 {
		t.Fatalf("expected empty node at 1, got %+v", n)
	}
	if got := doc.Ownership(); !reflect.DeepEqual(got, []NodeID{NoNode, NoNode}) {
		t.Fatalf("ownership=%v", got)
	}
}

func TestParseEmptyPayloads(t *testing.T) {
	doc := mustParse(t, "\x02c\x03x\x02c/\x03")
	n, _ := doc.Node(0)
	if n.RawOpen != "" || n.AttrOn != AttrNone || n.Foreground.IsSet() {
		t.Fatalf("empty color payload should resolve to nothing: %+v", n)
	}
	doc = mustParse(t, "\x02p b\x03x\x02p/b\x03")
	n, _ = doc.Node(0)
	if n.RawClose != "b" {
		t.Fatalf("close payload=%q want b", n.RawClose)
	}
}

func TestParsePlainText(t *testing.T) {
	doc := mustParse(t, "héllo wörld")
	if doc.Text() != "héllo wörld" || doc.Len() != 11 {
		t.Fatalf("text=%q len=%d", doc.Text(), doc.Len())
	}
	if len(doc.Nodes()) != 0 {
		t.Fatalf("expected no nodes")
	}
	empty := mustParse(t, "")
	if empty.Len() != 0 || len(empty.Ownership()) != 0 {
		t.Fatalf("empty input should give empty document")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"stray close marker", "a\x03", ErrMalformedTag},
		{"unknown kind", "\x02x red\x03a\x02x/\x03", ErrMalformedTag},
		{"open marker inside tag", "\x02c red\x02", ErrMalformedTag},
		{"open marker inside close tag", "\x02c red\x03a\x02c/\x02", ErrMalformedTag},
		{"unterminated kind", "abc\x02c", ErrMalformedTag},
		{"mismatched close kind", "\x02p b\x03a\x02c/\x03", ErrMalformedTag},
		{"empty html payload", "\x02p \x03a\x02p/\x03", ErrMalformedTag},
		{"close without open", "ab\x02c/\x03", ErrUnbalancedTag},
		{"extra close", "\x02c red\x03a\x02c/\x03\x02c/\x03", ErrUnbalancedTag},
		{"unclosed", "\x02c red\x03hi", ErrUnclosedTag},
		{"unclosed inner", "\x02c red\x03\x02c blue\x03hi\x02c/\x03", ErrUnclosedTag},
		{"index over 255", "\x02c 300\x03a\x02c/\x03", ErrInvalidColorSpec},
		{"bad spec", "\x02c red !\x03a\x02c/\x03", ErrInvalidColorSpec},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse(tc.src)
			if err == nil {
				t.Fatalf("expected error, got document %q", doc.Text())
			}
			if doc != nil {
				t.Fatalf("partial document returned with error")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
		})
	}
}

func TestParseErrorOffsets(t *testing.T) {
	_, err := Parse("ab\x02c/\x03")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Offset != 2 {
		t.Fatalf("offset=%d want 2", perr.Offset)
	}

	_, err = Parse("\x02c red\x03a\x02c/\x03\x02c 256\x03b\x02c/\x03")
	var rerr *ResolveError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *ResolveError, got %T", err)
	}
	if rerr.Node != 1 {
		t.Fatalf("resolve error node=%d want 1", rerr.Node)
	}
	var cerr *ColorSpecError
	if !errors.As(err, &cerr) || cerr.Spec != " 256" {
		t.Fatalf("expected ColorSpecError for \" 256\", got %v", err)
	}
}

func TestParseBytesValidates(t *testing.T) {
	if _, err := ParseBytes([]byte{0xff, 0xfe}); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	doc, err := ParseBytes([]byte("\x02c red\x03x\x02c/\x03"))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if doc.Text() != "x" {
		t.Fatalf("text=%q", doc.Text())
	}
}

func TestDocumentAccessorsReturnCopies(t *testing.T) {
	doc := mustParse(t, "\x02c red\x03hi\x02c/\x03")
	nodes := doc.Nodes()
	nodes[0].RawOpen = "changed"
	own := doc.Ownership()
	own[0] = NoNode
	runes := doc.Runes()
	runes[0] = 'X'
	n, _ := doc.Node(0)
	if n.RawOpen != " red" || doc.Owner(0) != 0 || doc.Text() != "hi" || doc.Runes()[0] != 'h' {
		t.Fatalf("document mutated through accessor copies")
	}
}
