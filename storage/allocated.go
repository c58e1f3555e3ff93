package storage

import (
	"fmt"

	"github.com/c00t/storage-poc/internal/logger"
	"github.com/c00t/storage-poc/storage/alloc"
)

// Allocated is a storage whose range comes from an alloc.Allocator.
// The zero value allocates from the Go heap.
type Allocated[T any] struct {
	a   alloc.Allocator[T]
	mem []T
}

var _ SingleRange[int] = (*Allocated[int])(nil)

// NewAllocated returns an empty storage drawing from a. Nothing is allocated
// until the first Grow.
func NewAllocated[T any](a alloc.Allocator[T]) Allocated[T] {
	return Allocated[T]{a: a}
}

// Allocator returns the allocator the storage draws from.
func (s *Allocated[T]) Allocator() alloc.Allocator[T] {
	if s.a == nil {
		return alloc.Heap[T]{}
	}
	return s.a
}

// MaxCap returns the allocator's bound, or Unbounded.
func (s *Allocated[T]) MaxCap() int {
	if b, ok := s.Allocator().(alloc.Bounded); ok {
		return b.MaxElems()
	}
	return Unbounded
}

// Cap returns the length of the current block.
func (s *Allocated[T]) Cap() int { return len(s.mem) }

// Elems returns the current block, capped so appends cannot reach past it.
func (s *Allocated[T]) Elems() []T { return s.mem[:len(s.mem):len(s.mem)] }

// Grow ensures a block of at least n elements. It first asks the allocator to
// extend the block in place; otherwise it allocates a new block of exactly n,
// copies the old content over and returns the old block.
func (s *Allocated[T]) Grow(n int) error {
	old := len(s.mem)
	if n <= old {
		return nil
	}
	a := s.Allocator()

	if g, ok := a.(alloc.InPlaceGrower[T]); ok && old > 0 {
		if grown, ok := g.GrowInPlace(s.mem, n); ok {
			s.mem = grown
			logger.Debug("storage: grow", "kind", "allocated", "from", old, "to", n, "in_place", true)
			return nil
		}
	}

	mem, err := a.Allocate(n)
	if err != nil {
		return fmt.Errorf("%w: grow %d -> %d: %w", ErrAllocationFailed, old, n, err)
	}
	s.replace(mem, old)
	logger.Debug("storage: grow", "kind", "allocated", "from", old, "to", n, "in_place", false)
	return nil
}

// Shrink reallocates to exactly n elements, keeping the first n.
// Shrinking to zero returns the block without allocating.
func (s *Allocated[T]) Shrink(n int) error {
	n = max(n, 0)
	old := len(s.mem)
	if n >= old {
		return nil
	}
	if n == 0 {
		s.Release()
		return nil
	}

	mem, err := s.Allocator().Allocate(n)
	if err != nil {
		return fmt.Errorf("%w: shrink %d -> %d: %w", ErrAllocationFailed, old, n, err)
	}
	s.replace(mem, n)
	logger.Debug("storage: shrink", "kind", "allocated", "from", old, "to", n)
	return nil
}

// replace moves the first keep elements into mem and returns the old block.
func (s *Allocated[T]) replace(mem []T, keep int) {
	copy(mem, s.mem[:keep])
	if len(s.mem) > 0 {
		clear(s.mem)
		s.Allocator().Deallocate(s.mem)
	}
	s.mem = mem
}

// Release returns the block to the allocator.
func (s *Allocated[T]) Release() {
	if len(s.mem) == 0 {
		s.mem = nil
		return
	}
	clear(s.mem)
	s.Allocator().Deallocate(s.mem)
	s.mem = nil
}
