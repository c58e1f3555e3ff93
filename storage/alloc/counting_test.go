package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCounting_TracksEvents tests allocation and deallocation accounting.
func TestCounting_TracksEvents(t *testing.T) {
	c := NewCounting[byte](Heap[byte]{})

	a, err := c.Allocate(8)
	require.NoError(t, err)
	b, err := c.Allocate(16)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Allocations())
	assert.Equal(t, 24, c.InUse())

	c.Deallocate(a)
	c.Deallocate(b)

	assert.Equal(t, 2, c.Deallocations())
	assert.Zero(t, c.InUse())
}

// TestCounting_EmptyBlocksAreNotEvents tests that zero-size requests are invisible.
func TestCounting_EmptyBlocksAreNotEvents(t *testing.T) {
	c := NewCounting[byte](Heap[byte]{})

	mem, err := c.Allocate(0)
	require.NoError(t, err)
	c.Deallocate(mem)

	assert.Zero(t, c.Allocations())
	assert.Zero(t, c.Deallocations())
}

// TestCounting_FailuresAreNotEvents tests that failed allocations are not counted.
func TestCounting_FailuresAreNotEvents(t *testing.T) {
	c := NewCounting[byte](NewLimit[byte](Heap[byte]{}, 4))

	_, err := c.Allocate(5)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Zero(t, c.Allocations())
	assert.Equal(t, 4, c.MaxElems())
}

// TestCounting_GrowInPlaceForwards tests forwarding to an in-place capable upstream.
func TestCounting_GrowInPlaceForwards(t *testing.T) {
	c := NewCounting[int](NewBump[int](16))

	mem, err := c.Allocate(4)
	require.NoError(t, err)

	grown, ok := c.GrowInPlace(mem, 8)
	require.True(t, ok)
	assert.Len(t, grown, 8)
	assert.Equal(t, 1, c.Allocations())
	assert.Equal(t, 1, c.GrownInPlace())
	assert.Equal(t, 8, c.InUse())

	heapOnly := NewCounting[int](Heap[int]{})
	mem, err = heapOnly.Allocate(4)
	require.NoError(t, err)
	_, ok = heapOnly.GrowInPlace(mem, 8)
	assert.False(t, ok, "heap cannot grow in place")
}
