package storage

import "math"

// Unbounded is the MaxCap of storages limited only by available memory.
const Unbounded = math.MaxInt

// Capacity reports the most elements a storage can ever hold.
type Capacity interface {
	MaxCap() int
}

// SingleRange is a storage providing one contiguous range of slots.
type SingleRange[T any] interface {
	Capacity

	// Cap returns the number of slots usable without further growth.
	Cap() int

	// Elems returns all Cap() slots. Slots past the owning container's
	// length hold zero values and are not live elements.
	Elems() []T

	// Grow ensures Cap() >= n, preserving the content of existing slots.
	// On failure the storage and its content are unchanged.
	Grow(n int) error

	// Shrink requests Cap() <= max(n, 0). Storages that cannot shrink
	// succeed without doing anything.
	Shrink(n int) error

	// Release zeroes the slots and returns any allocated memory.
	// Calling Release again is a no-op.
	Release()
}

// RangePtr constrains a pointer to a SingleRange storage value S. Containers
// hold S by value and call its methods through PS, so inline arrays are
// embedded without indirection.
type RangePtr[T, S any] interface {
	*S
	SingleRange[T]
}

// Handle addresses one slot in a NodeStorage. The zero Handle is nil.
type Handle uint32

// NilHandle is the Handle that addresses no slot.
const NilHandle Handle = 0

// NodeStorage is a storage of individually allocated slots. A Handle returned
// by Alloc stays valid, and the slot stays at the same address, until that
// Handle is passed to Free.
type NodeStorage[T any] interface {
	Capacity

	// Cap returns the number of slots usable without further growth.
	Cap() int

	// Len returns the number of live slots.
	Len() int

	// Alloc stores v in a free slot.
	Alloc(v T) (Handle, error)

	// Free releases the slot and returns its value.
	// Freeing a nil, unknown or already free Handle returns ErrBadHandle.
	Free(h Handle) (T, error)

	// Get returns a pointer to a live slot's value, or nil.
	Get(h Handle) *T

	// Release zeroes every slot and returns any allocated memory.
	// All handles become invalid. Calling Release again is a no-op.
	Release()
}

// NodePtr constrains a pointer to a NodeStorage value S.
type NodePtr[T, S any] interface {
	*S
	NodeStorage[T]
}
