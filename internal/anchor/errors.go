package anchor

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound indicates that a structural path no longer fits the tree.
	ErrPathNotFound = errors.New("path not found in tree")

	// ErrStaleRange indicates that a live range belongs to a tree that has been replaced.
	ErrStaleRange = errors.New("live range is from a previous render")

	// ErrNotMounted indicates that no container has been mounted on a surface.
	ErrNotMounted = errors.New("no document mounted")
)

// ResolutionError reports where a path stopped matching the tree.
type ResolutionError struct {
	Boundary   string // "start" or "end"; empty when resolving a bare path
	Path       Path
	Depth      int // position in Path of the failing index
	Index      int
	ChildCount int
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("resolve %s: index %d at depth %d out of range (%d children)",
		e.Path, e.Index, e.Depth, e.ChildCount)
	if e.Boundary != "" {
		msg = e.Boundary + " boundary: " + msg
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return ErrPathNotFound
}
