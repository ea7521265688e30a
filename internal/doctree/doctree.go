// Package doctree defines the rendered document tree that highlights are anchored in.
//
// Any host tree can take part by satisfying Node. Two implementations ship with the
// package: a small synthetic tree (Element/Text) and an adapter over golang.org/x/net/html
// nodes, which is what the render package produces.
package doctree

// Kind distinguishes text nodes from everything else.
type Kind uint8

const (
	KindElement Kind = iota
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	default:
		return "element"
	}
}

// Node is the capability the anchoring code needs from a tree node.
//
// Implementations must be comparable, and two Node values must compare equal
// exactly when they denote the same node of the same tree instance. Parent
// returns a nil interface (not a typed nil) at the root.
type Node interface {
	Parent() Node
	// Children returns the ordered children. Callers must not modify the slice.
	Children() []Node
	Kind() Kind
	// TextLength is the length of a text node in UTF-16 code units; 0 otherwise.
	TextLength() int
	// Text is the character data of a text node; "" otherwise.
	Text() string
}

// Element is a synthetic element node.
type Element struct {
	Tag      string
	parent   *Element
	children []Node
}

// Text is a synthetic text node.
type Text struct {
	Data   string
	parent *Element
}

// NewElement builds an element and adopts the given children.
func NewElement(tag string, children ...Node) *Element {
	e := &Element{Tag: tag}
	e.Append(children...)
	return e
}

// NewText builds a text node.
func NewText(data string) *Text {
	return &Text{Data: data}
}

// Append adopts children, moving any that already have a parent. Only *Element
// and *Text children are accepted; other Node implementations cannot be
// re-parented and are skipped.
func (e *Element) Append(children ...Node) {
	for _, c := range children {
		switch c := c.(type) {
		case *Element:
			c.parent.detach(c)
			c.parent = e
		case *Text:
			c.parent.detach(c)
			c.parent = e
		default:
			continue
		}
		e.children = append(e.children, c)
	}
}

// detach drops child from e's children. A nil e is a no-op.
func (e *Element) detach(child Node) {
	if e == nil {
		return
	}
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

// RemoveChild detaches the child at index i. It reports false when i is out of range.
func (e *Element) RemoveChild(i int) bool {
	if i < 0 || i >= len(e.children) {
		return false
	}
	switch c := e.children[i].(type) {
	case *Element:
		c.parent = nil
	case *Text:
		c.parent = nil
	}
	e.children = append(e.children[:i], e.children[i+1:]...)
	return true
}

func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Children() []Node { return e.children }
func (e *Element) Kind() Kind       { return KindElement }
func (e *Element) TextLength() int  { return 0 }
func (e *Element) Text() string     { return "" }

func (t *Text) Parent() Node {
	if t.parent == nil {
		return nil
	}
	return t.parent
}

func (t *Text) Children() []Node { return nil }
func (t *Text) Kind() Kind       { return KindText }
func (t *Text) TextLength() int  { return UTF16Len(t.Data) }
func (t *Text) Text() string     { return t.Data }
