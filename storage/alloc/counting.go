package alloc

import (
	"math"
	"sync/atomic"
)

// Counting decorates an allocator with event counters. Tests use it to assert
// allocation accounting: one allocation per storage growth, one deallocation
// per release, none at all for inline storage.
//
// Counting is used through a pointer so the caller can keep reading the
// counters while a storage owns the allocator.
type Counting[T any] struct {
	upstream Allocator[T]

	allocations   atomic.Int64
	deallocations atomic.Int64
	grownInPlace  atomic.Int64
	inuse         atomic.Int64
}

var (
	_ Allocator[int]     = (*Counting[int])(nil)
	_ InPlaceGrower[int] = (*Counting[int])(nil)
	_ Bounded            = (*Counting[int])(nil)
)

// NewCounting wraps upstream.
func NewCounting[T any](upstream Allocator[T]) *Counting[T] {
	return &Counting[T]{upstream: upstream}
}

// Allocate forwards to the upstream allocator and counts non-empty blocks.
func (c *Counting[T]) Allocate(n int) ([]T, error) {
	mem, err := c.upstream.Allocate(n)
	if err != nil {
		return nil, err
	}
	if len(mem) > 0 {
		c.allocations.Add(1)
		c.inuse.Add(int64(len(mem)))
	}
	return mem, nil
}

// Deallocate forwards to the upstream allocator and counts non-empty blocks.
func (c *Counting[T]) Deallocate(mem []T) {
	if len(mem) == 0 {
		return
	}
	c.deallocations.Add(1)
	c.inuse.Add(-int64(len(mem)))
	c.upstream.Deallocate(mem)
}

// GrowInPlace forwards when the upstream allocator can grow in place.
func (c *Counting[T]) GrowInPlace(mem []T, n int) ([]T, bool) {
	g, ok := c.upstream.(InPlaceGrower[T])
	if !ok {
		return nil, false
	}
	grown, ok := g.GrowInPlace(mem, n)
	if !ok {
		return nil, false
	}
	c.grownInPlace.Add(1)
	c.inuse.Add(int64(len(grown) - len(mem)))
	return grown, true
}

// MaxElems reports the upstream bound, or math.MaxInt when it has none.
func (c *Counting[T]) MaxElems() int {
	if b, ok := c.upstream.(Bounded); ok {
		return b.MaxElems()
	}
	return math.MaxInt
}

// Allocations returns the number of non-empty blocks handed out.
func (c *Counting[T]) Allocations() int { return int(c.allocations.Load()) }

// Deallocations returns the number of non-empty blocks returned.
func (c *Counting[T]) Deallocations() int { return int(c.deallocations.Load()) }

// GrownInPlace returns the number of successful in-place growths.
func (c *Counting[T]) GrownInPlace() int { return int(c.grownInPlace.Load()) }

// InUse returns the number of elements currently handed out.
func (c *Counting[T]) InUse() int { return int(c.inuse.Load()) }
