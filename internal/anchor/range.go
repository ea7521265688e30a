package anchor

import (
	"errors"

	"github.com/dgallion1/docanchor/internal/doctree"
)

// SerializedRange is the persisted, tree-independent form of a selection.
// Offsets are UTF-16 code units for text nodes and child counts otherwise.
type SerializedRange struct {
	StartPath   Path `json:"startContainerPath" yaml:"startContainerPath"`
	StartOffset int  `json:"startOffset" yaml:"startOffset"`
	EndPath     Path `json:"endContainerPath" yaml:"endContainerPath"`
	EndOffset   int  `json:"endOffset" yaml:"endOffset"`
}

// LiveRange references nodes of one mounted tree. It must not be kept across a
// re-render; ranges issued through a Surface carry the generation they belong to.
type LiveRange struct {
	StartNode   doctree.Node
	StartOffset int
	EndNode     doctree.Node
	EndOffset   int

	generation uint64
}

// Generation is the render generation that issued r, or 0 if r was built directly.
func (r LiveRange) Generation() uint64 {
	return r.generation
}

// Collapsed reports whether start and end are the same point.
func (r LiveRange) Collapsed() bool {
	return r.StartNode == r.EndNode && r.StartOffset == r.EndOffset
}

// Serialize encodes both boundaries of r relative to container. Offsets are
// copied unchanged.
func Serialize(r LiveRange, container doctree.Node) SerializedRange {
	return SerializedRange{
		StartPath:   Encode(r.StartNode, container),
		StartOffset: r.StartOffset,
		EndPath:     Encode(r.EndNode, container),
		EndOffset:   r.EndOffset,
	}
}

// Deserialize resolves both boundaries of sr against container and clamps the
// offsets. If either path fails to resolve the whole range fails; the error is
// a *ResolutionError naming the boundary.
func Deserialize(sr SerializedRange, container doctree.Node) (LiveRange, error) {
	start, err := Resolve(sr.StartPath, container)
	if err != nil {
		return LiveRange{}, withBoundary(err, "start")
	}
	end, err := Resolve(sr.EndPath, container)
	if err != nil {
		return LiveRange{}, withBoundary(err, "end")
	}
	return LiveRange{
		StartNode:   start,
		StartOffset: Clamp(sr.StartOffset, start),
		EndNode:     end,
		EndOffset:   Clamp(sr.EndOffset, end),
	}, nil
}

func withBoundary(err error, boundary string) error {
	var re *ResolutionError
	if errors.As(err, &re) {
		re.Boundary = boundary
	}
	return err
}
