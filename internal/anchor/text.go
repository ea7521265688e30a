package anchor

import (
	"strings"

	"github.com/dgallion1/docanchor/internal/doctree"
)

// Segment is the part of one text node covered by a range, in UTF-16 offsets.
type Segment struct {
	Node  doctree.Node
	Start int
	End   int
}

func (s Segment) Text() string {
	return doctree.SliceUTF16(s.Node.Text(), s.Start, s.End)
}

// point is a boundary mapped onto the document-order list of text nodes.
type point struct {
	text   int
	offset int
	found  bool
}

// Segments lists the text covered by r in document order. Empty pieces are
// skipped, and a range whose end precedes its start covers nothing.
func Segments(r LiveRange) []Segment {
	if r.StartNode == nil || r.EndNode == nil {
		return nil
	}

	var texts []doctree.Node
	var start, end point

	var visit func(n doctree.Node)
	visit = func(n doctree.Node) {
		if n.Kind() == doctree.KindText {
			idx := len(texts)
			texts = append(texts, n)
			if n == r.StartNode {
				start = point{text: idx, offset: r.StartOffset, found: true}
			}
			if n == r.EndNode {
				end = point{text: idx, offset: r.EndOffset, found: true}
			}
			return
		}
		// An element boundary (n, i) sits just before the first text node of child i.
		children := n.Children()
		for i := 0; i <= len(children); i++ {
			if n == r.StartNode && clampInt(r.StartOffset, 0, len(children)) == i {
				start = point{text: len(texts), found: true}
			}
			if n == r.EndNode && clampInt(r.EndOffset, 0, len(children)) == i {
				end = point{text: len(texts), found: true}
			}
			if i < len(children) {
				visit(children[i])
			}
		}
	}
	visit(doctree.Root(r.StartNode))

	if !start.found || !end.found {
		return nil
	}

	var segs []Segment
	for i := start.text; i <= end.text && i < len(texts); i++ {
		n := texts[i]
		from, to := 0, n.TextLength()
		if i == start.text {
			from = clampInt(start.offset, 0, to)
		}
		if i == end.text {
			to = clampInt(end.offset, 0, to)
		}
		if from < to {
			segs = append(segs, Segment{Node: n, Start: from, End: to})
		}
	}
	return segs
}

// Text returns the characters covered by r, like a browser selection's string form.
func Text(r LiveRange) string {
	var b strings.Builder
	for _, seg := range Segments(r) {
		b.WriteString(seg.Text())
	}
	return b.String()
}
