package alloc

import (
	"fmt"
	"sync"
)

// Limit fails allocations once the elements in use would exceed a budget.
// A budget of zero yields an allocator that refuses every non-empty request.
type Limit[T any] struct {
	upstream Allocator[T]
	max      int

	mu    sync.Mutex
	inuse int
}

var (
	_ Allocator[int]     = (*Limit[int])(nil)
	_ InPlaceGrower[int] = (*Limit[int])(nil)
	_ Bounded            = (*Limit[int])(nil)
)

// NewLimit wraps upstream with a budget of maxElems elements in use.
func NewLimit[T any](upstream Allocator[T], maxElems int) *Limit[T] {
	if maxElems < 0 {
		maxElems = 0
	}
	return &Limit[T]{upstream: upstream, max: maxElems}
}

func (l *Limit[T]) reserve(n int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > l.max-l.inuse {
		return fmt.Errorf("%w: %d elements requested, %d of %d in use", ErrOutOfMemory, n, l.inuse, l.max)
	}
	l.inuse += n
	return nil
}

func (l *Limit[T]) unreserve(n int) {
	l.mu.Lock()
	l.inuse -= n
	l.mu.Unlock()
}

// Allocate reserves n elements from the budget before asking upstream.
func (l *Limit[T]) Allocate(n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	if n == 0 {
		return nil, nil
	}
	if err := l.reserve(n); err != nil {
		return nil, err
	}
	mem, err := l.upstream.Allocate(n)
	if err != nil {
		l.unreserve(n)
		return nil, err
	}
	return mem, nil
}

// Deallocate returns the block's elements to the budget.
func (l *Limit[T]) Deallocate(mem []T) {
	if len(mem) == 0 {
		return
	}
	l.unreserve(len(mem))
	l.upstream.Deallocate(mem)
}

// GrowInPlace charges the extra elements to the budget and forwards upstream.
func (l *Limit[T]) GrowInPlace(mem []T, n int) ([]T, bool) {
	g, ok := l.upstream.(InPlaceGrower[T])
	if !ok || n <= len(mem) {
		return nil, false
	}
	extra := n - len(mem)
	if l.reserve(extra) != nil {
		return nil, false
	}
	grown, ok := g.GrowInPlace(mem, n)
	if !ok {
		l.unreserve(extra)
		return nil, false
	}
	return grown, true
}

// MaxElems returns the budget.
func (l *Limit[T]) MaxElems() int { return l.max }

// InUse returns the elements currently charged to the budget.
func (l *Limit[T]) InUse() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inuse
}
