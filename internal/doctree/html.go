package doctree

import (
	"golang.org/x/net/html"
)

// htmlNode adapts an x/net/html node. It is a value type holding the pointer, so
// two adapters for the same *html.Node compare equal.
type htmlNode struct {
	n *html.Node
}

// FromHTML wraps an x/net/html node. A nil node yields a nil Node.
func FromHTML(n *html.Node) Node {
	if n == nil {
		return nil
	}
	return htmlNode{n: n}
}

// HTML unwraps a Node created by FromHTML.
func HTML(n Node) (*html.Node, bool) {
	h, ok := n.(htmlNode)
	if !ok {
		return nil, false
	}
	return h.n, true
}

func (h htmlNode) Parent() Node {
	return FromHTML(h.n.Parent)
}

func (h htmlNode) Children() []Node {
	var children []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, htmlNode{n: c})
	}
	return children
}

// Kind maps only html.TextNode to KindText. Comments and doctypes behave as
// childless elements, the way DOM offsets treat them.
func (h htmlNode) Kind() Kind {
	if h.n.Type == html.TextNode {
		return KindText
	}
	return KindElement
}

func (h htmlNode) TextLength() int {
	if h.n.Type != html.TextNode {
		return 0
	}
	return UTF16Len(h.n.Data)
}

func (h htmlNode) Text() string {
	if h.n.Type != html.TextNode {
		return ""
	}
	return h.n.Data
}

// FindElement returns the first element with the given tag in pre-order, or nil.
func FindElement(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func (h htmlNode) label() string {
	switch h.n.Type {
	case html.TextNode:
		return "#text"
	case html.DocumentNode:
		return "#document"
	case html.ElementNode:
		return "<" + h.n.Data + ">"
	case html.CommentNode:
		return "#comment"
	case html.DoctypeNode:
		return "#doctype"
	default:
		return "#node"
	}
}
