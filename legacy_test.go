package ansimark

import (
	"errors"
	"reflect"
	"testing"
)

func TestFromCodesRuns(t *testing.T) {
	doc, err := FromCodes("hello world", "rrrrr WWWWW")
	if err != nil {
		t.Fatalf("FromCodes: %v", err)
	}
	nodes := doc.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes want 2", len(nodes))
	}
	if nodes[0].Start != 0 || nodes[0].End != 5 || nodes[0].Parent != NoNode {
		t.Fatalf("first node %+v", nodes[0])
	}
	if nodes[1].Start != 6 || nodes[1].End != 11 || nodes[1].AttrOn != AttrBold || nodes[1].Foreground.Index != 7 {
		t.Fatalf("second node %+v", nodes[1])
	}
	want := []NodeID{0, 0, 0, 0, 0, NoNode, 1, 1, 1, 1, 1}
	if got := doc.Ownership(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ownership=%v", got)
	}
	if got, want := doc.Render(true, false, false), "\x1b[31mhello\x1b[39m \x1b[1m\x1b[37mworld\x1b[22m\x1b[39m"; got != want {
		t.Fatalf("render=%q want %q", got, want)
	}
}

func TestFromCodesAdjacentRunsAndClear(t *testing.T) {
	doc, err := FromCodes("abcd", "rgxx")
	if err != nil {
		t.Fatalf("FromCodes: %v", err)
	}
	nodes := doc.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes want 3", len(nodes))
	}
	if !nodes[2].ForcesReset || nodes[2].Start != 2 || nodes[2].End != 4 {
		t.Fatalf("clear node %+v", nodes[2])
	}
	if got, want := doc.Render(true, false, false), "\x1b[31ma\x1b[39m\x1b[32mb\x1b[39mcd\x1b[0m"; got != want {
		t.Fatalf("render=%q want %q", got, want)
	}
}

func TestFromCodesCustomCode(t *testing.T) {
	doc, err := FromCodes("ab", "zr", WithLegacyCode('z', "+orange / 4"), WithLegacyCode('r', "underline"))
	if err != nil {
		t.Fatalf("FromCodes: %v", err)
	}
	nodes := doc.Nodes()
	if nodes[0].Foreground.Kind != DirectiveNamedColor || nodes[0].Background.Index != 4 {
		t.Fatalf("custom node %+v", nodes[0])
	}
	if nodes[1].AttrOn != AttrUnderline || nodes[1].Foreground.IsSet() {
		t.Fatalf("overridden node %+v", nodes[1])
	}
	if LegacyCodes()['r'] != "red" {
		t.Fatalf("built-in table mutated by option")
	}
}

func TestFromCodesErrors(t *testing.T) {
	cases := []struct {
		name        string
		text, codes string
		opts        []LegacyOption
		want        error
	}{
		{"length mismatch", "abc", "rr", nil, ErrInvalidLegacyCode},
		{"unknown code", "abc", "r?r", nil, ErrInvalidLegacyCode},
		{"bad custom spec", "a", "z", []LegacyOption{WithLegacyCode('z', "300")}, ErrInvalidLegacyCode},
		{"default code override", "a", " ", []LegacyOption{WithLegacyCode(LegacyDefault, "red")}, ErrInvalidLegacyCode},
		{"tag marker in text", "a\x02", "rr", nil, ErrMalformedTag},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromCodes(tc.text, tc.codes, tc.opts...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
		})
	}

	_, err := FromCodes("abc", "r?r")
	var lerr *LegacyError
	if !errors.As(err, &lerr) || lerr.Position != 1 || lerr.Code != '?' {
		t.Fatalf("expected LegacyError at 1 for '?', got %v", err)
	}
}

func TestFromCodesCountsRunes(t *testing.T) {
	doc, err := FromCodes("héé", "rgg")
	if err != nil {
		t.Fatalf("FromCodes: %v", err)
	}
	if doc.Len() != 3 || len(doc.Nodes()) != 2 {
		t.Fatalf("len=%d nodes=%d", doc.Len(), len(doc.Nodes()))
	}
}
