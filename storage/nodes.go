package storage

import (
	"fmt"
	"math"
)

// Slot is one node slot. Arrays of Slot[T] back InlineNodes, and allocators
// of Slot[T] back PagedNodes.
type Slot[T any] struct {
	val  T
	next Handle // free-list link while the slot is free
	live bool
}

// freeList hands out slot indices: recycled slots first, then never-used
// slots from the high-water mark. The zero value is an empty list.
type freeList struct {
	head Handle // most recently freed slot
	hw   int    // slots [0, hw) have been handed out at least once
	live int
}

func indexOf(h Handle) int { return int(h) - 1 }

// claim stores v in the next free slot among the first capacity slots.
// ok is false when all of them are live.
func claim[T any](f *freeList, at func(int) *Slot[T], capacity int, v T) (h Handle, ok bool, err error) {
	var i int
	switch {
	case f.head != NilHandle:
		i = indexOf(f.head)
		f.head = at(i).next
	case f.hw < capacity:
		if f.hw >= math.MaxUint32 {
			return NilHandle, false, fmt.Errorf("%w: node handles exhausted", ErrCapacityExceeded)
		}
		i = f.hw
		f.hw++
	default:
		return NilHandle, false, nil
	}

	s := at(i)
	s.val, s.next, s.live = v, NilHandle, true
	f.live++
	return Handle(i + 1), true, nil
}

// unclaim frees the slot behind h and returns its value.
func unclaim[T any](f *freeList, at func(int) *Slot[T], h Handle) (T, error) {
	var zero T
	s := lookupSlot(f, at, h)
	if s == nil {
		return zero, fmt.Errorf("%w: %d", ErrBadHandle, h)
	}
	v := s.val
	s.val, s.live, s.next = zero, false, f.head
	f.head = h
	f.live--
	return v, nil
}

// lookupSlot returns the live slot behind h, or nil.
func lookupSlot[T any](f *freeList, at func(int) *Slot[T], h Handle) *Slot[T] {
	if h == NilHandle || indexOf(h) >= f.hw {
		return nil
	}
	s := at(indexOf(h))
	if !s.live {
		return nil
	}
	return s
}
