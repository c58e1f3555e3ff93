// Package storage defines the capability contracts through which containers
// obtain, grow, shrink and release their backing memory, and the storages
// that implement them.
//
// # Overview
//
// A container owns exactly one storage, received by value at construction.
// Every capacity decision (push, extend, reserve) flows through the storage's
// capability methods, and the storage is released exactly once when the
// container is released. The container logic never depends on where the
// memory comes from.
//
// # Contracts
//
//   - Capacity: MaxCap reports the hard ceiling (Unbounded for allocator-backed storage)
//   - SingleRange: one contiguous range of slots with Grow, Shrink and Release
//   - NodeStorage: individually addressed slots with handles that stay valid
//     until the slot is freed
//
// # Implementations
//
// Inline: a fixed array embedded in the storage value itself. The capacity is
// the array length, fixed by the type:
//
//	var s storage.Inline[byte, [32]byte]
//
// Inline never allocates; it holds no allocator, so none can be reached.
// Growing past the array length fails with ErrCapacityExceeded.
//
// Allocated: a range obtained from an alloc.Allocator. Growth reallocates,
// copies the prefix and returns the old block; allocator failures surface as
// ErrAllocationFailed and leave the content untouched.
//
// InlineNodes and PagedNodes: node-slot storages for linked structures.
// Slots are never moved, so a Handle stays valid across other slots'
// allocation and release.
//
// # Failure Semantics
//
// ErrCapacityExceeded is a programming error: the caller picked an inline
// capacity too small for its data. Containers pass every storage error through
// FailFast, which panics on ErrCapacityExceeded and returns everything else.
// ErrAllocationFailed is an ordinary recoverable error.
//
// # Thread Safety
//
// Storages are single-owner and not safe for concurrent use.
package storage
