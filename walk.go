package ansimark

// visitor receives the flattened tag stream of a Document.
type visitor interface {
	open(n *Node)
	close(n *Node)
	text(s string)
}

// walk replays the document as nested open/close events around text runs.
//
// At each boundary i the ownership chains of runes i-1 and i are compared:
// nodes below their common prefix close innermost-first, then new nodes
// open outermost-first. Empty-span nodes sitting at i are replayed while
// their parent is open.
func (d *Document) walk(v visitor) {
	var prev, next []NodeID
	runStart := 0
	owner := NoNode
	n := len(d.runes)
	for i := 0; i <= n; i++ {
		nextOwner := NoNode
		if i < n {
			nextOwner = d.ownership[i]
		}
		if i > 0 && i < n && nextOwner == owner && !d.hasEmptyAt(i) {
			continue
		}
		if runStart < i {
			v.text(string(d.runes[runStart:i]))
		}
		runStart = i
		prev = d.appendChain(prev, owner)
		next = d.appendChain(next, nextOwner)
		d.transition(v, i, prev, next)
		owner = nextOwner
	}
}

func (d *Document) transition(v visitor, i int, prev, next []NodeID) {
	k := 0
	for k < len(prev) && k < len(next) && prev[k] == next[k] {
		k++
	}
	for j := len(prev) - 1; j >= k; j-- {
		d.replayEmpties(v, prev[j], i)
		v.close(&d.nodes[prev[j]])
	}
	top := NoNode
	if k > 0 {
		top = prev[k-1]
	}
	d.replayEmpties(v, top, i)
	for j := k; j < len(next); j++ {
		v.open(&d.nodes[next[j]])
		d.replayEmpties(v, next[j], i)
	}
}

func (d *Document) replayEmpties(v visitor, parent NodeID, i int) {
	for _, id := range d.empties[parent] {
		n := &d.nodes[id]
		if n.Start != i {
			continue
		}
		v.open(n)
		d.replayEmpties(v, id, i)
		v.close(n)
	}
}

func (d *Document) hasEmptyAt(i int) bool {
	_, ok := d.emptyAt[i]
	return ok
}
