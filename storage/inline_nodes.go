package storage

import (
	"fmt"
	"unsafe"
)

// InlineNodes is a fixed-capacity node storage embedded in its own value.
// A must be [N]Slot[T]; N is the number of slots. The zero value is ready
// to use:
//
//	var s storage.InlineNodes[list.Node[int], [16]storage.Slot[list.Node[int]]]
//
// InlineNodes never allocates. Allocating a slot while all N are live fails
// with ErrCapacityExceeded.
type InlineNodes[T any, A any] struct {
	arr  A
	free freeList
}

var _ NodeStorage[int] = (*InlineNodes[int, [4]Slot[int]])(nil)

// NewInlineNodes returns an empty storage, panicking if A is not [N]Slot[T].
func NewInlineNodes[T any, A any]() InlineNodes[T, A] {
	checkArray[Slot[T], A]("InlineNodes")
	return InlineNodes[T, A]{}
}

func inlineSlots[T any, A any]() int {
	return arrayLen[Slot[T], A]("InlineNodes")
}

func (s *InlineNodes[T, A]) slot(i int) *Slot[T] {
	return &unsafe.Slice((*Slot[T])(unsafe.Pointer(&s.arr)), inlineSlots[T, A]())[i]
}

// MaxCap returns the number of slots.
func (s *InlineNodes[T, A]) MaxCap() int { return inlineSlots[T, A]() }

// Cap returns the number of slots.
func (s *InlineNodes[T, A]) Cap() int { return inlineSlots[T, A]() }

// Len returns the number of live slots.
func (s *InlineNodes[T, A]) Len() int { return s.free.live }

// Alloc stores v in a free slot.
func (s *InlineNodes[T, A]) Alloc(v T) (Handle, error) {
	h, ok, err := claim(&s.free, s.slot, s.Cap(), v)
	if err != nil {
		return NilHandle, err
	}
	if !ok {
		return NilHandle, fmt.Errorf("%w: all %d inline node slots are live", ErrCapacityExceeded, s.Cap())
	}
	return h, nil
}

// Free releases the slot behind h and returns its value.
func (s *InlineNodes[T, A]) Free(h Handle) (T, error) {
	return unclaim(&s.free, s.slot, h)
}

// Get returns a pointer to the value in a live slot, or nil.
func (s *InlineNodes[T, A]) Get(h Handle) *T {
	if sl := lookupSlot(&s.free, s.slot, h); sl != nil {
		return &sl.val
	}
	return nil
}

// Release zeroes every slot.
func (s *InlineNodes[T, A]) Release() {
	var zero A
	s.arr = zero
	s.free = freeList{}
}
