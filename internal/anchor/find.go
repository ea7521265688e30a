package anchor

import (
	"errors"
	"strings"

	"github.com/dgallion1/docanchor/internal/doctree"
)

// ErrTextNotFound is returned by Find when the text does not occur often enough.
var ErrTextNotFound = errors.New("text not found in document")

// Find returns a live range over the nth (zero-based) non-overlapping
// occurrence of text in the mounted document. A match may span text nodes.
func (s *Surface) Find(text string, nth int) (LiveRange, error) {
	container, gen, err := s.Current()
	if err != nil {
		return LiveRange{}, err
	}
	if text == "" || nth < 0 {
		return LiveRange{}, ErrTextNotFound
	}

	var nodes []doctree.Node
	var starts []int
	var full strings.Builder
	pos := 0
	_ = doctree.Walk(container, func(n doctree.Node, _ int) error {
		if n.Kind() == doctree.KindText {
			nodes = append(nodes, n)
			starts = append(starts, pos)
			full.WriteString(n.Text())
			pos += n.TextLength()
		}
		return nil
	})

	hay := full.String()
	at, from := -1, 0
	// Each pass consumes text, so a huge nth ends at ErrTextNotFound.
	for i := 0; i <= nth; i++ {
		j := strings.Index(hay[from:], text)
		if j < 0 {
			return LiveRange{}, ErrTextNotFound
		}
		at = from + j
		from = at + len(text)
	}

	begin := doctree.UTF16Len(hay[:at])
	end := begin + doctree.UTF16Len(text)

	r := LiveRange{generation: gen}
	for i, n := range nodes {
		lo, hi := starts[i], starts[i]+n.TextLength()
		if r.StartNode == nil && begin >= lo && begin < hi {
			r.StartNode, r.StartOffset = n, begin-lo
		}
		if end > lo && end <= hi {
			r.EndNode, r.EndOffset = n, end-lo
			break
		}
	}
	return r, nil
}
