package alloc

// Allocator hands out blocks of T.
type Allocator[T any] interface {
	// Allocate returns a zeroed block with len(mem) == n.
	// n == 0 returns an empty block and counts as no allocation.
	Allocate(n int) ([]T, error)

	// Deallocate returns a block obtained from Allocate (or GrowInPlace) on the
	// same allocator. Passing an empty block is a no-op.
	Deallocate(mem []T)
}

// InPlaceGrower is implemented by allocators that can extend a block without
// moving it. On success the returned block shares mem's backing memory, has
// len n and must be used in place of mem from then on.
type InPlaceGrower[T any] interface {
	GrowInPlace(mem []T, n int) ([]T, bool)
}

// Bounded is implemented by allocators with a hard ceiling on the number of
// elements they can hand out at once.
type Bounded interface {
	MaxElems() int
}
