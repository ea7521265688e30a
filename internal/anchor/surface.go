package anchor

import (
	"sync"

	"github.com/dgallion1/docanchor/internal/doctree"
)

// Surface tracks the container of the current render pass.
//
// The host calls Mount once per tree replacement. Every Mount starts a new
// generation, and live ranges issued by an earlier generation are rejected with
// ErrStaleRange. Surface keeps no subscriptions; the host drives it.
type Surface struct {
	mu         sync.RWMutex
	container  doctree.Node
	generation uint64
}

func NewSurface() *Surface {
	return &Surface{}
}

// Mount installs container as the current tree and returns the new generation.
func (s *Surface) Mount(container doctree.Node) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.container = container
	s.generation++
	return s.generation
}

// Current returns the mounted container and its generation.
func (s *Surface) Current() (doctree.Node, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.container == nil {
		return nil, 0, ErrNotMounted
	}
	return s.container, s.generation, nil
}

// Range builds a live range in the current generation, e.g. from a host selection.
// Offsets are taken as given.
func (s *Surface) Range(startNode doctree.Node, startOffset int, endNode doctree.Node, endOffset int) (LiveRange, error) {
	_, gen, err := s.Current()
	if err != nil {
		return LiveRange{}, err
	}
	return LiveRange{
		StartNode:   startNode,
		StartOffset: startOffset,
		EndNode:     endNode,
		EndOffset:   endOffset,
		generation:  gen,
	}, nil
}

// Check reports ErrStaleRange if r was not issued by the current generation.
func (s *Surface) Check(r LiveRange) error {
	_, gen, err := s.Current()
	if err != nil {
		return err
	}
	if r.generation != gen {
		return ErrStaleRange
	}
	return nil
}

// Serialize encodes r against the mounted container after checking it is current.
func (s *Surface) Serialize(r LiveRange) (SerializedRange, error) {
	container, gen, err := s.Current()
	if err != nil {
		return SerializedRange{}, err
	}
	if r.generation != gen {
		return SerializedRange{}, ErrStaleRange
	}
	return Serialize(r, container), nil
}

// Deserialize anchors sr in the mounted container and stamps the result with
// the current generation.
func (s *Surface) Deserialize(sr SerializedRange) (LiveRange, error) {
	container, gen, err := s.Current()
	if err != nil {
		return LiveRange{}, err
	}
	r, err := Deserialize(sr, container)
	if err != nil {
		return LiveRange{}, err
	}
	r.generation = gen
	return r, nil
}
