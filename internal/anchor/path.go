// Package anchor converts selections in a rendered document tree to structural
// descriptors and back.
//
// A descriptor is a pair of child-index paths from a container plus two offsets.
// It holds no reference to any tree instance, so it can be stored and resolved
// against a later render of the same document.
package anchor

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docanchor/internal/doctree"
)

// Path is a sequence of child indices from a container down to a node.
// The empty path denotes the container itself.
type Path []int

// MarshalJSON always writes an array; a nil Path is written as [].
func (p Path) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(p))
}

// MarshalYAML writes a flow sequence, [] for a nil Path.
func (p Path) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, idx := range p {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(idx)})
	}
	return n, nil
}

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, idx := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(idx))
	}
	return b.String()
}

// Encode returns the path from container down to node.
//
// The caller must guarantee that node is container or one of its descendants.
// If the parent chain ends (or node is missing from its parent's children)
// before container is reached, the indices collected so far are returned.
func Encode(node, container doctree.Node) Path {
	path := Path{}
	for cur := node; cur != nil && cur != container; {
		parent := cur.Parent()
		if parent == nil {
			break
		}
		idx := childIndex(parent, cur)
		if idx < 0 {
			break
		}
		path = append(path, idx)
		cur = parent
	}
	slices.Reverse(path)
	return path
}

// Resolve replays path from container. It returns a *ResolutionError wrapping
// ErrPathNotFound when an index is out of range at some level.
func Resolve(path Path, container doctree.Node) (doctree.Node, error) {
	node := container
	for depth, idx := range path {
		children := node.Children()
		if idx < 0 || idx >= len(children) {
			return nil, &ResolutionError{
				Path:       path,
				Depth:      depth,
				Index:      idx,
				ChildCount: len(children),
			}
		}
		node = children[idx]
	}
	return node, nil
}

// childIndex scans parent's children for child by identity.
func childIndex(parent, child doctree.Node) int {
	for i, c := range parent.Children() {
		if c == child {
			return i
		}
	}
	return -1
}
