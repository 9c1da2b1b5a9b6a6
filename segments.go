package ansimark

// Segment is a maximal run of plain text sharing one innermost owner.
type Segment struct {
	Text  string
	Owner NodeID
	Start int
	End   int
}

// Segments splits the plain text into runs of equal ownership. Empty-span
// nodes do not produce segments.
func (d *Document) Segments() []Segment {
	var out []Segment
	start := 0
	for i := 1; i <= len(d.runes); i++ {
		if i < len(d.runes) && d.ownership[i] == d.ownership[start] {
			continue
		}
		out = append(out, Segment{
			Text:  string(d.runes[start:i]),
			Owner: d.ownership[start],
			Start: start,
			End:   i,
		})
		start = i
	}
	return out
}
