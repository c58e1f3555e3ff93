package alloc

import "fmt"

// Heap allocates from the Go heap. The zero value is ready to use.
type Heap[T any] struct{}

var _ Allocator[int] = Heap[int]{}

// Allocate returns make([]T, n).
func (Heap[T]) Allocate(n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	if n == 0 {
		return nil, nil
	}
	return make([]T, n), nil
}

// Deallocate drops the block; the garbage collector reclaims it.
func (Heap[T]) Deallocate([]T) {}
