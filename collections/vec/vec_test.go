package vec

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c00t/storage-poc/internal/testutil"
	"github.com/c00t/storage-poc/storage"
	"github.com/c00t/storage-poc/storage/alloc"
)

type (
	inline4 = storage.Inline[int, [4]int]
	heapInt = storage.Allocated[int]
)

// TestVec_PushDoublesCapacity tests amortized growth and allocation counts.
func TestVec_PushDoublesCapacity(t *testing.T) {
	spy := testutil.Spy[int]()
	v := New[int](storage.NewAllocated[int](spy))

	var caps []int
	for i := range 100 {
		require.NoError(t, v.Push(i))
		if len(caps) == 0 || caps[len(caps)-1] != v.Cap() {
			caps = append(caps, v.Cap())
		}
	}

	assert.Equal(t, []int{1, 2, 4, 8, 16, 32, 64, 128}, caps)
	assert.Equal(t, 8, spy.Allocations())
	assert.Equal(t, 7, spy.Deallocations())

	v.Release()
	testutil.AssertBalanced(t, spy)
}

// TestVec_CapacityInvariant tests Len <= Cap <= MaxCap and content under random operations.
func TestVec_CapacityInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	spy := testutil.Spy[int]()
	v := New[int](storage.NewAllocated[int](alloc.NewLimit[int](spy, 1<<16)))
	defer v.Release()

	var model []int
	for range 2000 {
		switch rng.IntN(5) {
		case 0, 1:
			x := rng.Int()
			require.NoError(t, v.Push(x))
			model = append(model, x)
		case 2:
			xs := make([]int, rng.IntN(9))
			for i := range xs {
				xs[i] = rng.Int()
			}
			require.NoError(t, v.Extend(xs))
			model = append(model, xs...)
		case 3:
			x, ok := v.Pop()
			if len(model) == 0 {
				assert.False(t, ok)
				continue
			}
			require.True(t, ok)
			assert.Equal(t, model[len(model)-1], x)
			model = model[:len(model)-1]
		case 4:
			if rng.IntN(10) == 0 {
				require.NoError(t, v.ShrinkToFit())
			}
		}

		require.LessOrEqual(t, v.Len(), v.Cap())
		require.LessOrEqual(t, v.Cap(), v.MaxCap())
	}
	assert.Equal(t, model, slices.Clone(v.Slice()))
}

// TestVec_InlineNeverAllocates tests inline storage filled to its bound.
func TestVec_InlineNeverAllocates(t *testing.T) {
	v := New[int](inline4{})

	for i := range 4 {
		require.NoError(t, v.Push(i*10))
	}
	assert.Equal(t, []int{0, 10, 20, 30}, v.Slice())
	assert.Equal(t, 4, v.Cap())
}

// TestVec_InlineOverflowPanics tests that exceeding an inline bound is fatal.
func TestVec_InlineOverflowPanics(t *testing.T) {
	v := New[int](inline4{})
	require.NoError(t, v.Extend([]int{1, 2, 3, 4}))

	testutil.PanicsWithErrorIs(t, storage.ErrCapacityExceeded, func() {
		_ = v.Push(5)
	})
	assert.Equal(t, []int{1, 2, 3, 4}, v.Slice())
}

// TestVec_AllocationFailureIsRecoverable tests that a failed growth leaves the Vec unchanged.
func TestVec_AllocationFailureIsRecoverable(t *testing.T) {
	v := New[int](storage.NewAllocated[int](alloc.NewLimit[int](alloc.Heap[int]{}, 6)))
	defer v.Release()

	require.NoError(t, v.Extend([]int{1, 2, 3, 4}))
	require.Equal(t, 4, v.Cap())

	err := v.Push(5)
	require.ErrorIs(t, err, storage.ErrAllocationFailed)
	require.ErrorIs(t, err, alloc.ErrOutOfMemory)
	assert.Equal(t, []int{1, 2, 3, 4}, v.Slice())
	assert.Equal(t, 4, v.Cap())

	v.Truncate(1)
	require.NoError(t, v.ShrinkToFit())
	require.NoError(t, v.Push(5), "budget freed by the shrink")
	assert.Equal(t, []int{1, 5}, v.Slice())
}

// TestVec_GrowthClampedToMaxCap tests that a bounded storage can be filled to its ceiling.
func TestVec_GrowthClampedToMaxCap(t *testing.T) {
	v := New[int](storage.NewAllocated[int](alloc.NewBump[int](5)))
	defer v.Release()

	for i := range 5 {
		require.NoError(t, v.Push(i))
	}
	assert.Equal(t, 5, v.Cap())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, v.Slice())
}

// TestWithCapacity tests pre-sizing and its failure path.
func TestWithCapacity(t *testing.T) {
	t.Run("reserves up front", func(t *testing.T) {
		spy := testutil.Spy[int]()
		v, err := WithCapacity[int](storage.NewAllocated[int](spy), 10)
		require.NoError(t, err)

		for i := range 10 {
			require.NoError(t, v.Push(i))
		}
		assert.Equal(t, 1, spy.Allocations())
		v.Release()
		testutil.AssertBalanced(t, spy)
	})

	t.Run("releases the storage on failure", func(t *testing.T) {
		spy := alloc.NewCounting[int](alloc.NewLimit[int](alloc.Heap[int]{}, 10))
		s := storage.NewAllocated[int](spy)
		require.NoError(t, s.Grow(2))

		_, err := WithCapacity[int](s, 100)
		require.ErrorIs(t, err, storage.ErrAllocationFailed)
		testutil.AssertBalanced(t, spy)
	})

	t.Run("inline overflow panics", func(t *testing.T) {
		testutil.PanicsWithErrorIs(t, storage.ErrCapacityExceeded, func() {
			_, _ = WithCapacity[int](inline4{}, 5)
		})
	})
}

// TestVec_ExtendSelf tests appending a Vec's own elements across a reallocation.
func TestVec_ExtendSelf(t *testing.T) {
	v := New[int](heapInt{})
	defer v.Release()

	require.NoError(t, v.Extend([]int{1, 2, 3}))
	require.NoError(t, v.ShrinkToFit())
	require.Equal(t, 3, v.Cap())

	require.NoError(t, v.Extend(v.Slice()))
	assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, v.Slice())
}

// TestVec_DropOrder tests that discarded elements are dropped front to back.
func TestVec_DropOrder(t *testing.T) {
	var drops testutil.Drops[string]
	v := New[string](storage.Allocated[string]{})
	v.SetDropFunc(drops.Drop)

	require.NoError(t, v.Extend([]string{"a", "b", "c", "d", "e"}))

	v.Truncate(3)
	assert.Equal(t, []string{"d", "e"}, drops.Values())

	x, ok := v.Pop()
	require.True(t, ok)
	assert.Equal(t, "c", x)
	assert.Equal(t, []string{"d", "e"}, drops.Values(), "popped values are not dropped")

	v.Release()
	assert.Equal(t, []string{"d", "e", "a", "b"}, drops.Values())
	assert.Zero(t, v.Len())
}

// TestVec_TruncateZeroesSlots tests that discarded slots no longer hold values.
func TestVec_TruncateZeroesSlots(t *testing.T) {
	var s storage.Inline[*int, [3]*int]
	v := New[*int](s)
	one, two := 1, 2
	require.NoError(t, v.Extend([]*int{&one, &two}))

	v.Truncate(1)
	assert.Nil(t, v.ps().Elems()[1])
	assert.Same(t, &one, v.At(0))
}

// TestVec_Iterators tests All and Backward, including early exit.
func TestVec_Iterators(t *testing.T) {
	v := New[int](inline4{})
	require.NoError(t, v.Extend([]int{5, 6, 7}))
	v.Set(1, 60)

	var fwd, bwd []int
	for i, x := range v.All() {
		fwd = append(fwd, i, x)
	}
	for i, x := range v.Backward() {
		bwd = append(bwd, i, x)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 5, 1, 60, 2, 7}, fwd)
	assert.Equal(t, []int{2, 7, 1, 60}, bwd)
}

// TestVec_ReleaseTwice tests release-exactly-once accounting through the container.
func TestVec_ReleaseTwice(t *testing.T) {
	spy := testutil.Spy[int]()
	v := New[int](storage.NewAllocated[int](spy))
	require.NoError(t, v.Push(1))

	v.Release()
	v.Release()
	assert.Equal(t, 1, spy.Deallocations())

	require.NoError(t, v.Push(2), "a released Vec is empty and reusable")
	assert.Equal(t, []int{2}, v.Slice())
	v.Release()
	testutil.AssertBalanced(t, spy)
}

// TestOverlaps tests the aliasing check used by Extend.
func TestOverlaps(t *testing.T) {
	a := make([]int, 4, 8)
	assert.True(t, overlaps(a, a[2:]))
	assert.True(t, overlaps(a, a[5:6]), "slack counts as the same block")
	assert.False(t, overlaps(a, make([]int, 2)))
	assert.False(t, overlaps(a, nil))
}

// TestVec_CopyCheck tests that a used Vec cannot be modified or released through a copy.
func TestVec_CopyCheck(t *testing.T) {
	const msg = "vec: illegal use of non-zero vec copied by value"

	spy := testutil.Spy[int]()
	v := New[int](storage.NewAllocated[int](spy))
	require.NoError(t, v.Push(1))

	w := v
	assert.PanicsWithValue(t, msg, func() { _ = w.Push(2) })
	assert.PanicsWithValue(t, msg, func() { w.Release() })
	assert.PanicsWithValue(t, msg, func() { w.Set(0, 9) })
	assert.Equal(t, []int{1}, w.Slice(), "reads through a copy are allowed")

	v.Release()
	assert.Equal(t, 1, spy.Deallocations(), "the block is freed once")
	testutil.AssertBalanced(t, spy)

	u := v
	require.NoError(t, u.Push(3), "a released Vec may be copied")
	u.Release()
	testutil.AssertBalanced(t, spy)
}

// TestVec_ZeroValueCopy tests that an unused Vec may be copied freely.
func TestVec_ZeroValueCopy(t *testing.T) {
	v := New[int](inline4{})
	w := v
	require.NoError(t, w.Push(1))
	require.NoError(t, v.Push(2))
	assert.Equal(t, []int{1}, w.Slice())
	assert.Equal(t, []int{2}, v.Slice())
}

// TestFrom tests construction from a slice and its failure path.
func TestFrom(t *testing.T) {
	t.Run("sized to input", func(t *testing.T) {
		spy := testutil.Spy[int]()
		v, err := From(storage.NewAllocated[int](spy), []int{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, v.Slice())
		assert.Equal(t, 3, v.Cap())
		assert.Equal(t, 1, spy.Allocations())

		require.NoError(t, v.Push(4), "the result is not armed against its first use")
		v.Release()
		testutil.AssertBalanced(t, spy)
	})

	t.Run("allocation failure", func(t *testing.T) {
		spy := testutil.Spy[int]()
		_, err := From(storage.NewAllocated[int](alloc.NewLimit[int](spy, 2)), []int{1, 2, 3})
		require.ErrorIs(t, err, storage.ErrAllocationFailed)
		testutil.AssertBalanced(t, spy)
	})

	t.Run("inline overflow panics", func(t *testing.T) {
		testutil.PanicsWithErrorIs(t, storage.ErrCapacityExceeded, func() {
			_, _ = From(inline4{}, []int{1, 2, 3, 4, 5})
		})
	})
}

// TestVec_CheckIndex tests the descriptive index check used by debug builds.
func TestVec_CheckIndex(t *testing.T) {
	v := New[int](inline4{})
	require.NoError(t, v.Extend([]int{1, 2}))

	assert.NotPanics(t, func() { v.checkIndex(1) })
	assert.PanicsWithValue(t, "vec: index 2: bounds: end=3 > len=2", func() { v.checkIndex(2) })
	assert.PanicsWithValue(t, "vec: index -1: negative offset: -1", func() { v.checkIndex(-1) })
}
