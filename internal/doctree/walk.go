package doctree

// WalkFunc is called for each node with its depth below the walk root.
// Return a non-nil error to stop the walk.
type WalkFunc func(n Node, depth int) error

// Walk performs a pre-order traversal starting at root.
func Walk(root Node, fn WalkFunc) error {
	if root == nil {
		return nil
	}
	return walk(root, 0, fn)
}

func walk(n Node, depth int, fn WalkFunc) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Root follows parent links to the top of n's tree.
func Root(n Node) Node {
	if n == nil {
		return nil
	}
	for p := n.Parent(); p != nil; p = n.Parent() {
		n = p
	}
	return n
}

// Label is a short human-readable name for n, used in diagnostics.
func Label(n Node) string {
	switch v := n.(type) {
	case *Element:
		return "<" + v.Tag + ">"
	case *Text:
		return "#text"
	case htmlNode:
		return v.label()
	}
	if n != nil && n.Kind() == KindText {
		return "#text"
	}
	return "#node"
}
