package anchor

import "github.com/dgallion1/docanchor/internal/doctree"

// MaxOffset is the largest valid boundary offset in n: its text length for a
// text node, its child count otherwise.
func MaxOffset(n doctree.Node) int {
	if n.Kind() == doctree.KindText {
		return n.TextLength()
	}
	return len(n.Children())
}

// Clamp bounds offset to [0, MaxOffset(n)]. Drift is absorbed silently.
func Clamp(offset int, n doctree.Node) int {
	return clampInt(offset, 0, MaxOffset(n))
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
