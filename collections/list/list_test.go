package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c00t/storage-poc/internal/testutil"
	"github.com/c00t/storage-poc/storage"
	"github.com/c00t/storage-poc/storage/alloc"
)

type (
	paged   = storage.PagedNodes[Node[int]]
	inline4 = storage.InlineNodes[Node[int], [4]storage.Slot[Node[int]]]
)

func values[T any, S any, PS storage.NodePtr[Node[T], S]](l *List[T, S, PS]) (fwd, bwd []T) {
	for _, v := range l.All() {
		fwd = append(fwd, v)
	}
	for _, v := range l.Backward() {
		bwd = append(bwd, v)
	}
	return fwd, bwd
}

// TestList_PushPop tests both ends of the list.
func TestList_PushPop(t *testing.T) {
	l := New[int](paged{})
	defer l.Release()

	for i := range 3 {
		_, err := l.PushBack(i)
		require.NoError(t, err)
	}
	_, err := l.PushFront(-1)
	require.NoError(t, err)

	fwd, bwd := values(&l)
	assert.Equal(t, []int{-1, 0, 1, 2}, fwd)
	assert.Equal(t, []int{2, 1, 0, -1}, bwd)
	assert.Equal(t, 4, l.Len())

	v, ok := l.PopFront()
	require.True(t, ok)
	assert.Equal(t, -1, v)
	v, ok = l.PopBack()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	fwd, _ = values(&l)
	assert.Equal(t, []int{0, 1}, fwd)

	_, _ = l.PopBack()
	_, _ = l.PopBack()
	_, ok = l.PopFront()
	assert.False(t, ok)
	assert.Equal(t, storage.NilHandle, l.Front())
	assert.Equal(t, storage.NilHandle, l.Back())
}

// TestList_AddressStability tests that removing a neighbour leaves other nodes in place.
func TestList_AddressStability(t *testing.T) {
	l := New[int](storage.NewPagedNodes[Node[int]](nil, 2))
	defer l.Release()

	a, err := l.PushBack(1)
	require.NoError(t, err)
	b, err := l.PushBack(2)
	require.NoError(t, err)
	c, err := l.PushBack(3)
	require.NoError(t, err)

	pa, pc := l.Value(a), l.Value(c)

	v, err := l.Remove(b)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Nil(t, l.Value(b))

	for i := range 10 {
		_, err := l.PushBack(10 + i)
		require.NoError(t, err)
	}

	assert.Same(t, pa, l.Value(a))
	assert.Same(t, pc, l.Value(c))
	assert.Equal(t, c, l.Next(a))
	assert.Equal(t, a, l.Prev(c))
	assert.Equal(t, 1, *l.Value(a))
	assert.Equal(t, 3, *l.Value(c))
}

// TestList_InsertAroundHandles tests insertion next to existing handles.
func TestList_InsertAroundHandles(t *testing.T) {
	l := New[int](paged{})
	defer l.Release()

	mid, err := l.PushBack(5)
	require.NoError(t, err)
	_, err = l.InsertAfter(mid, 6)
	require.NoError(t, err)
	_, err = l.InsertBefore(mid, 4)
	require.NoError(t, err)
	last, err := l.InsertAfter(l.Back(), 7)
	require.NoError(t, err)

	fwd, bwd := values(&l)
	assert.Equal(t, []int{4, 5, 6, 7}, fwd)
	assert.Equal(t, []int{7, 6, 5, 4}, bwd)
	assert.Equal(t, last, l.Back())

	_, err = l.InsertAfter(storage.Handle(99), 0)
	require.ErrorIs(t, err, storage.ErrBadHandle)
	_, err = l.InsertBefore(storage.NilHandle, 0)
	require.ErrorIs(t, err, storage.ErrBadHandle)
}

// TestList_RemoveStaleHandle tests removing an already removed handle.
func TestList_RemoveStaleHandle(t *testing.T) {
	l := New[int](paged{})
	defer l.Release()

	h, err := l.PushBack(1)
	require.NoError(t, err)
	_, err = l.Remove(h)
	require.NoError(t, err)

	_, err = l.Remove(h)
	require.ErrorIs(t, err, storage.ErrBadHandle)
	assert.Zero(t, l.Len())
}

// TestList_RemoveWhileIterating tests removing the yielded element inside All.
func TestList_RemoveWhileIterating(t *testing.T) {
	l := New[int](paged{})
	defer l.Release()
	for i := range 6 {
		_, err := l.PushBack(i)
		require.NoError(t, err)
	}

	for h, v := range l.All() {
		if v%2 == 1 {
			_, err := l.Remove(h)
			require.NoError(t, err)
		}
	}

	fwd, _ := values(&l)
	assert.Equal(t, []int{0, 2, 4}, fwd)
}

// TestList_InlineFullPanics tests that a full inline node storage is fatal.
func TestList_InlineFullPanics(t *testing.T) {
	l := New[int](inline4{})

	for i := range 4 {
		_, err := l.PushBack(i)
		require.NoError(t, err)
	}
	testutil.PanicsWithErrorIs(t, storage.ErrCapacityExceeded, func() {
		_, _ = l.PushFront(-1)
	})

	fwd, _ := values(&l)
	assert.Equal(t, []int{0, 1, 2, 3}, fwd)

	_, _ = l.PopFront()
	_, err := l.PushFront(-1)
	require.NoError(t, err, "freed slot is reused")
}

// TestList_AllocationFailureIsRecoverable tests a page allocation failure.
func TestList_AllocationFailureIsRecoverable(t *testing.T) {
	spy := alloc.NewCounting[storage.Slot[Node[int]]](alloc.NewLimit[storage.Slot[Node[int]]](alloc.Heap[storage.Slot[Node[int]]]{}, 4))
	l := New[int](storage.NewPagedNodes[Node[int]](spy, 2))

	for i := range 4 {
		_, err := l.PushBack(i)
		require.NoError(t, err)
	}

	_, err := l.PushBack(4)
	require.ErrorIs(t, err, storage.ErrAllocationFailed)
	require.ErrorIs(t, err, alloc.ErrOutOfMemory)
	assert.Equal(t, 4, l.Len())

	fwd, bwd := values(&l)
	assert.Equal(t, []int{0, 1, 2, 3}, fwd)
	assert.Equal(t, []int{3, 2, 1, 0}, bwd)

	l.Release()
	testutil.AssertBalanced(t, spy)
}

// TestList_ReleaseDropsInOrder tests the drop hook and the emptied list.
func TestList_ReleaseDropsInOrder(t *testing.T) {
	var drops testutil.Drops[string]
	l := New[string](storage.PagedNodes[Node[string]]{})
	l.SetDropFunc(drops.Drop)

	for _, s := range []string{"b", "c"} {
		_, err := l.PushBack(s)
		require.NoError(t, err)
	}
	_, err := l.PushFront("a")
	require.NoError(t, err)

	l.Release()
	assert.Equal(t, []string{"a", "b", "c"}, drops.Values())
	assert.Zero(t, l.Len())
	fwd, _ := values(&l)
	assert.Empty(t, fwd)
}

// TestList_CopyCheck tests that a used List cannot be modified or released through a copy.
func TestList_CopyCheck(t *testing.T) {
	const msg = "list: illegal use of non-zero list copied by value"

	spy := testutil.Spy[storage.Slot[Node[int]]]()
	l := New[int](storage.NewPagedNodes[Node[int]](spy, 2))
	_, err := l.PushBack(1)
	require.NoError(t, err)

	c := l
	assert.PanicsWithValue(t, msg, func() { _, _ = c.PushBack(2) })
	assert.PanicsWithValue(t, msg, func() { c.PopFront() })
	assert.PanicsWithValue(t, msg, func() { c.Release() })

	fwd, _ := values(&l)
	assert.Equal(t, []int{1}, fwd)

	l.Release()
	testutil.AssertBalanced(t, spy)

	u := l
	_, err = u.PushFront(3)
	require.NoError(t, err, "a released List may be copied")
	u.Release()
	testutil.AssertBalanced(t, spy)
}
