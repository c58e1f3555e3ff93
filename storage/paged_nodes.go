package storage

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring"

	"github.com/c00t/storage-poc/internal/logger"
	"github.com/c00t/storage-poc/storage/alloc"
)

// DefaultPageSize is the number of slots per page when none is given.
const DefaultPageSize = 64

// PagedNodes is a node storage that obtains fixed-size pages of slots from an
// allocator. Pages are never moved or returned before Release, so handles and
// value addresses stay stable while other slots come and go.
//
// Obtaining a page is one allocation event; failure surfaces as
// ErrAllocationFailed. Live handles are indexed in a roaring bitmap, which
// backs Handles and per-page occupancy.
type PagedNodes[T any] struct {
	a        alloc.Allocator[Slot[T]]
	pageSize int
	pages    [][]Slot[T]
	free     freeList
	live     *roaring.Bitmap
}

var _ NodeStorage[int] = (*PagedNodes[int])(nil)

// NewPagedNodes returns an empty storage drawing pages of pageSize slots
// from a. A nil allocator uses the Go heap; pageSize <= 0 uses DefaultPageSize.
func NewPagedNodes[T any](a alloc.Allocator[Slot[T]], pageSize int) PagedNodes[T] {
	return PagedNodes[T]{a: a, pageSize: pageSize}
}

func (s *PagedNodes[T]) allocator() alloc.Allocator[Slot[T]] {
	if s.a == nil {
		return alloc.Heap[Slot[T]]{}
	}
	return s.a
}

// PageSize returns the number of slots per page.
func (s *PagedNodes[T]) PageSize() int {
	if s.pageSize <= 0 {
		return DefaultPageSize
	}
	return s.pageSize
}

func (s *PagedNodes[T]) slot(i int) *Slot[T] {
	ps := s.PageSize()
	return &s.pages[i/ps][i%ps]
}

// MaxCap returns the slots in as many whole pages as a bounded allocator can
// hand out, or Unbounded.
func (s *PagedNodes[T]) MaxCap() int {
	if b, ok := s.allocator().(alloc.Bounded); ok {
		ps := s.PageSize()
		return b.MaxElems() / ps * ps
	}
	return Unbounded
}

// Cap returns the number of slots in the pages obtained so far.
func (s *PagedNodes[T]) Cap() int { return len(s.pages) * s.PageSize() }

// Len returns the number of live slots.
func (s *PagedNodes[T]) Len() int { return s.free.live }

// Pages returns the number of pages obtained so far.
func (s *PagedNodes[T]) Pages() int { return len(s.pages) }

// Alloc stores v in a free slot, obtaining a new page when every slot is live.
func (s *PagedNodes[T]) Alloc(v T) (Handle, error) {
	h, ok, err := claim(&s.free, s.slot, s.Cap(), v)
	if err != nil {
		return NilHandle, err
	}
	if !ok {
		if err := s.addPage(); err != nil {
			return NilHandle, err
		}
		if h, _, err = claim(&s.free, s.slot, s.Cap(), v); err != nil {
			return NilHandle, err
		}
	}
	if s.live == nil {
		s.live = roaring.New()
	}
	s.live.Add(uint32(h))
	return h, nil
}

func (s *PagedNodes[T]) addPage() error {
	ps := s.PageSize()
	page, err := s.allocator().Allocate(ps)
	if err != nil {
		return fmt.Errorf("%w: node page %d of %d slots: %w", ErrAllocationFailed, len(s.pages), ps, err)
	}
	s.pages = append(s.pages, page)
	logger.Debug("storage: node page", "kind", "paged", "pages", len(s.pages), "slots", s.Cap())
	return nil
}

// Free releases the slot behind h and returns its value.
func (s *PagedNodes[T]) Free(h Handle) (T, error) {
	v, err := unclaim(&s.free, s.slot, h)
	if err != nil {
		return v, err
	}
	s.live.Remove(uint32(h))
	return v, nil
}

// Get returns a pointer to the value in a live slot, or nil.
func (s *PagedNodes[T]) Get(h Handle) *T {
	if sl := lookupSlot(&s.free, s.slot, h); sl != nil {
		return &sl.val
	}
	return nil
}

// Handles yields the live handles in ascending order.
func (s *PagedNodes[T]) Handles() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		if s.live == nil {
			return
		}
		it := s.live.Iterator()
		for it.HasNext() {
			if !yield(Handle(it.Next())) {
				return
			}
		}
	}
}

// PageOccupancy returns the number of live slots in each page.
func (s *PagedNodes[T]) PageOccupancy() []int {
	occ := make([]int, len(s.pages))
	if s.live == nil {
		return occ
	}
	ps := uint64(s.PageSize())
	for i := range occ {
		// Handles are 1-based: page i holds [i*ps+1, (i+1)*ps+1).
		lo := uint64(i)*ps + 1
		occ[i] = int(s.live.Rank(uint32(lo+ps-1)) - s.live.Rank(uint32(lo-1)))
	}
	return occ
}

// Release zeroes and returns every page.
func (s *PagedNodes[T]) Release() {
	a := s.allocator()
	for _, page := range s.pages {
		clear(page)
		a.Deallocate(page)
	}
	s.pages = nil
	s.free = freeList{}
	if s.live != nil {
		s.live.Clear()
	}
}
