package anchor_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docanchor/internal/anchor"
)

func TestSurface_NotMounted(t *testing.T) {
	t.Parallel()

	s := anchor.NewSurface()

	_, _, err := s.Current()
	require.ErrorIs(t, err, anchor.ErrNotMounted)

	_, err = s.Deserialize(anchor.SerializedRange{})
	require.ErrorIs(t, err, anchor.ErrNotMounted)

	_, err = s.Range(nil, 0, nil, 0)
	require.ErrorIs(t, err, anchor.ErrNotMounted)
}

func TestSurface_GenerationInvalidatesRanges(t *testing.T) {
	t.Parallel()

	s := anchor.NewSurface()
	div, txt := helloTree()
	gen := s.Mount(div)
	assert.Equal(t, uint64(1), gen)

	lr, err := s.Range(txt, 0, txt, 5)
	require.NoError(t, err)
	assert.Equal(t, gen, lr.Generation())
	require.NoError(t, s.Check(lr))

	sr, err := s.Serialize(lr)
	require.NoError(t, err)
	assert.Equal(t, anchor.Path{0, 0}, sr.StartPath)

	// Font change: the host re-renders and mounts a new tree.
	div2, txt2 := helloTree()
	assert.Equal(t, uint64(2), s.Mount(div2))

	require.ErrorIs(t, s.Check(lr), anchor.ErrStaleRange)
	_, err = s.Serialize(lr)
	require.ErrorIs(t, err, anchor.ErrStaleRange)

	fresh, err := s.Deserialize(sr)
	require.NoError(t, err)
	assert.Same(t, txt2, fresh.StartNode)
	assert.Equal(t, uint64(2), fresh.Generation())
	require.NoError(t, s.Check(fresh))
}

func TestSurface_DirectRangesAreNeverCurrent(t *testing.T) {
	t.Parallel()

	s := anchor.NewSurface()
	div, txt := helloTree()
	s.Mount(div)

	lr := anchor.LiveRange{StartNode: txt, EndNode: txt, EndOffset: 1}
	require.ErrorIs(t, s.Check(lr), anchor.ErrStaleRange)
}

func TestSurface_DeserializeFailure(t *testing.T) {
	t.Parallel()

	s := anchor.NewSurface()
	div, _ := helloTree()
	s.Mount(div)

	_, err := s.Deserialize(anchor.SerializedRange{StartPath: anchor.Path{4}, EndPath: anchor.Path{0}})
	require.ErrorIs(t, err, anchor.ErrPathNotFound)
}

func TestSurface_ConcurrentMountAndResolve(t *testing.T) {
	t.Parallel()

	s := anchor.NewSurface()
	div, _ := helloTree()
	s.Mount(div)
	sr := anchor.SerializedRange{StartPath: anchor.Path{0, 0}, EndPath: anchor.Path{0, 0}, EndOffset: 5}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				d, _ := helloTree()
				s.Mount(d)
				return
			}
			lr, err := s.Deserialize(sr)
			assert.NoError(t, err)
			assert.Equal(t, "hello", anchor.Text(lr))
		}()
	}
	wg.Wait()

	_, gen, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), gen)
}
