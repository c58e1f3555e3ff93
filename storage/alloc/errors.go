package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the allocator could not satisfy a request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrBadSize indicates a negative or otherwise unrepresentable request size.
	ErrBadSize = errors.New("alloc: invalid allocation size")
)
