package alloc

import "fmt"

// Bump is an append-only arena over a single pre-sized chunk.
//
// Key characteristics:
//   - O(1) allocation: blocks are carved from the front of the free tail
//   - Deallocate reclaims only the most recent block; anything else becomes
//     dead space until Reset
//   - GrowInPlace extends the most recent block while the chunk has room
//
// This makes a single growing buffer on a Bump arena reallocation-free until
// the chunk is exhausted.
type Bump[T any] struct {
	chunk []T

	// off is the bump pointer: the index where the next block starts.
	off int

	// last is the start of the most recent live block, or -1.
	last int
}

var (
	_ Allocator[int]     = (*Bump[int])(nil)
	_ InPlaceGrower[int] = (*Bump[int])(nil)
	_ Bounded            = (*Bump[int])(nil)
)

// NewBump creates an arena holding n elements. The chunk is the arena's only
// heap allocation.
func NewBump[T any](n int) *Bump[T] {
	if n < 0 {
		n = 0
	}
	return &Bump[T]{chunk: make([]T, n), last: -1}
}

// Allocate carves n elements off the free tail.
func (b *Bump[T]) Allocate(n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	if n == 0 {
		return nil, nil
	}
	if n > len(b.chunk)-b.off {
		return nil, fmt.Errorf("%w: bump arena has %d of %d elements free, need %d",
			ErrOutOfMemory, len(b.chunk)-b.off, len(b.chunk), n)
	}
	start := b.off
	b.off += n
	b.last = start
	return b.chunk[start:b.off:b.off], nil
}

// Deallocate rolls the bump pointer back when mem is the most recent block.
func (b *Bump[T]) Deallocate(mem []T) {
	if !b.isLast(mem) {
		return
	}
	clear(mem)
	b.off = b.last
	b.last = -1
}

// GrowInPlace extends the most recent block when the chunk has room.
func (b *Bump[T]) GrowInPlace(mem []T, n int) ([]T, bool) {
	if !b.isLast(mem) || n < len(mem) || n > len(b.chunk)-b.last {
		return nil, false
	}
	b.off = b.last + n
	return b.chunk[b.last:b.off:b.off], true
}

func (b *Bump[T]) isLast(mem []T) bool {
	if len(mem) == 0 || b.last < 0 {
		return false
	}
	return &mem[0] == &b.chunk[b.last] && b.last+len(mem) == b.off
}

// Reset discards every block at once. Blocks handed out earlier must not be
// used afterwards.
func (b *Bump[T]) Reset() {
	clear(b.chunk[:b.off])
	b.off = 0
	b.last = -1
}

// MaxElems returns the chunk size.
func (b *Bump[T]) MaxElems() int { return len(b.chunk) }

// Used returns the number of elements between the chunk start and the bump pointer.
func (b *Bump[T]) Used() int { return b.off }
