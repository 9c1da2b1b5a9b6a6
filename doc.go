// Package ansimark renders text carrying inline color and MXP markup for
// terminals of varying capability.
//
// Tagged text marks tags with two control characters, TagOpen (\x02) and
// TagClose (\x03). A tag is TagOpen, a kind letter, a payload and TagClose;
// a closing tag puts "/" in front of its payload:
//
//	"\x02c bold red\x03alert\x02c/\x03"   color node
//	"\x02p b\x03bold\x02p/\x03"           MXP node, renders as <b>bold</b>
//
// Parsing produces an immutable Document holding the plain text, an arena of
// nodes (parents referenced by id) and a per-character ownership map. The
// same Document can be rendered for any combination of capabilities:
//
//	doc, err := ansimark.Parse(src)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(doc.Render(true, true, false)) // 256-color ANSI, no MXP
//
// Color payloads accept attribute and color words ("bold red"), palette
// indexes ("196"), RGB triples ("<255 0 0>"), hex ("#ff0000", "<#ff0000>",
// "#f00") and named colors ("+orange") resolved through a Palette. A "/"
// moves subsequent colors to the background and "clear" resets everything.
//
// Documents can also be built from legacy per-character code streams with
// FromCodes, and turned back into tagged text with Encode.
package ansimark
