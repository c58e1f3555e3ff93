package alloc

import (
	"fmt"

	"github.com/c00t/storage-poc/internal/logger"
	"github.com/c00t/storage-poc/internal/mmap"
)

// Mmap allocates byte blocks from anonymous memory mappings. Each block is
// its own mapping, rounded up to the page size; the slack past len is used by
// GrowInPlace before asking the kernel to extend the mapping.
//
// Mmap is restricted to bytes: mapped memory is invisible to the garbage
// collector, so it must never hold Go pointers.
type Mmap struct{}

var (
	_ Allocator[byte]     = Mmap{}
	_ InPlaceGrower[byte] = Mmap{}
)

// Allocate maps a fresh zeroed block of n bytes.
func (Mmap) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	if n == 0 {
		return nil, nil
	}
	data, err := mmap.Map(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return data[:n], nil
}

// Deallocate unmaps the block.
func (Mmap) Deallocate(mem []byte) {
	if cap(mem) == 0 {
		return
	}
	if err := mmap.Unmap(mem); err != nil {
		logger.Warn("alloc: munmap failed", "bytes", cap(mem), "error", err)
	}
}

// GrowInPlace uses the mapping's page slack, then tries to extend the mapping
// without moving it.
func (Mmap) GrowInPlace(mem []byte, n int) ([]byte, bool) {
	if cap(mem) == 0 || n < len(mem) {
		return nil, false
	}
	if n <= cap(mem) {
		return mem[:n], true
	}
	grown, ok := mmap.Remap(mem, n)
	if !ok {
		return nil, false
	}
	return grown[:n], true
}
