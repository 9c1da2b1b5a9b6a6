package ansimark

import (
	"fmt"
	"io"
	"strings"
)

// Render flattens the document for a terminal with the given capabilities:
// ansi enables color nodes, xterm selects the 256-color code set for them,
// and mxp enables html nodes. With every flag off the plain text is
// returned unchanged.
func (d *Document) Render(ansi, xterm, mxp bool, opts ...RenderOption) string {
	return d.RenderCaps(Capabilities{ANSI: ansi, Xterm: xterm, MXP: mxp}, opts...)
}

// RenderCaps is Render with the capability flags grouped.
func (d *Document) RenderCaps(caps Capabilities, opts ...RenderOption) string {
	if !caps.ANSI && !caps.MXP {
		return d.text
	}
	cfg := newRenderConfig(opts)
	r := &renderer{caps: caps, palette: cfg.palette, nodes: d.nodes}
	r.out.Grow(len(d.text) + len(d.nodes)*16)
	d.walk(r)
	return r.out.String()
}

type renderer struct {
	caps    Capabilities
	palette Palette
	nodes   []Node
	out     strings.Builder
}

func (r *renderer) text(s string) {
	r.out.WriteString(s)
}

func (r *renderer) open(n *Node) {
	switch n.Kind {
	case KindHTML:
		if r.caps.MXP {
			r.out.WriteString(n.OpenMarkup)
		}
	case KindColor:
		if !r.caps.ANSI || n.ForcesReset {
			return
		}
		r.out.WriteString(AttrSequence(n.AttrOn, true))
		r.out.WriteString(ColorSequence(n.Foreground, GroundForeground, r.caps.Xterm, r.palette))
		r.out.WriteString(ColorSequence(n.Background, GroundBackground, r.caps.Xterm, r.palette))
	}
}

func (r *renderer) close(n *Node) {
	switch n.Kind {
	case KindHTML:
		if r.caps.MXP {
			r.out.WriteString(n.CloseMarkup)
		}
	case KindColor:
		if !r.caps.ANSI {
			return
		}
		if n.ForcesReset {
			r.out.WriteString(sgrReset)
			return
		}
		attrs, fg, bg := r.inherited(n)
		r.out.WriteString(AttrSequence(n.AttrOff&^attrs, false))
		if n.Foreground.IsSet() {
			r.restore(fg, GroundForeground, sgrDefaultFg)
		}
		if n.Background.IsSet() {
			r.restore(bg, GroundBackground, sgrDefaultBg)
		}
	}
}

// inherited collects what the open Color ancestors of n still have in
// force: the union of their attributes and the innermost color per ground.
// Every ancestor of a closing node is open, so the parent chain is enough.
func (r *renderer) inherited(n *Node) (Attr, ColorDirective, ColorDirective) {
	var (
		attrs  Attr
		fg, bg ColorDirective
	)
	for id := n.Parent; id != NoNode; id = r.nodes[id].Parent {
		a := &r.nodes[id]
		if a.Kind != KindColor || a.ForcesReset {
			continue
		}
		attrs |= a.AttrOn
		if !fg.IsSet() {
			fg = a.Foreground
		}
		if !bg.IsSet() {
			bg = a.Background
		}
	}
	return attrs, fg, bg
}

// restore hands channel g back to an ancestor's color, or to the terminal
// default when no ancestor set one. An ancestor color that only degrades
// to a reset is treated as unset.
func (r *renderer) restore(d ColorDirective, g Ground, def string) {
	seq := ColorSequence(d, g, r.caps.Xterm, r.palette)
	if seq == "" || seq == sgrReset {
		seq = def
	}
	r.out.WriteString(seq)
}

// RenderRequest configures the io-based Render.
type RenderRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Caps    Capabilities
	Width   int
	Options []RenderOption
}

// RenderStream reads tagged text from req.Reader and writes the rendering to
// req.Writer. A positive Width word-wraps ANSI output; it is ignored when MXP
// is enabled since markup would be counted as printable text.
func RenderStream(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("render: read: %w", err)
	}
	doc, err := ParseBytes(src)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	out := doc.RenderCaps(req.Caps, req.Options...)
	if req.Width > 0 && !req.Caps.MXP {
		out = Wrap(out, req.Width)
	}
	if _, err := io.WriteString(req.Writer, out); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return nil
}
