// Package box implements Box, a container holding at most one value in a
// pluggable storage.
package box

import (
	"fmt"

	"github.com/c00t/storage-poc/internal/nocopy"
	"github.com/c00t/storage-poc/storage"
)

// Box holds zero or one value of type T in slot 0 of a storage S.
// Storages with more than one slot are accepted; only the first is used.
//
// A Box must not be copied after first use; modifying or releasing a copy of
// a modified Box panics.
type Box[T any, S any, PS storage.RangePtr[T, S]] struct {
	addr     *Box[T, S, PS] // of receiver, to detect copies by value
	store    S
	occupied bool
	drop     func(*T)
}

// New places v in s. The storage is grown to one slot if it has none.
//
// A storage that can never hold a value yields ErrInvalidConstruction. On any
// failure s is released before New returns.
func New[T any, S any, PS storage.RangePtr[T, S]](s S, v T) (Box[T, S, PS], error) {
	ps := PS(&s)
	if ps.MaxCap() < 1 {
		ps.Release()
		return Box[T, S, PS]{}, fmt.Errorf("%w: box storage has no room for a value", storage.ErrInvalidConstruction)
	}
	if ps.Cap() < 1 {
		if err := ps.Grow(1); err != nil {
			ps.Release()
			return Box[T, S, PS]{}, storage.FailFast(err)
		}
	}
	ps.Elems()[0] = v
	return Box[T, S, PS]{store: s, occupied: true}, nil
}

func (b *Box[T, S, PS]) copyCheck() {
	nocopy.Check(&b.addr, b, "box")
}

func (b *Box[T, S, PS]) slot() *T {
	return &PS(&b.store).Elems()[0]
}

// SetDropFunc installs a hook run on the held value when Release discards it.
func (b *Box[T, S, PS]) SetDropFunc(fn func(*T)) {
	b.copyCheck()
	b.drop = fn
}

// Occupied reports whether the box holds a value.
func (b *Box[T, S, PS]) Occupied() bool { return b.occupied }

// Get returns the held value. ok is false when the box is empty.
func (b *Box[T, S, PS]) Get() (v T, ok bool) {
	if !b.occupied {
		return v, false
	}
	return *b.slot(), true
}

// Ptr returns a pointer to the held value, or nil when the box is empty.
// The pointer is valid until Take, Release, or a move of an inline Box.
func (b *Box[T, S, PS]) Ptr() *T {
	if !b.occupied {
		return nil
	}
	return b.slot()
}

// Replace installs v and returns the previous value. ok is false when the
// box was empty; the box holds v either way.
func (b *Box[T, S, PS]) Replace(v T) (old T, ok bool) {
	b.copyCheck()
	if PS(&b.store).Cap() < 1 {
		panic("box: Replace on a released box")
	}
	p := b.slot()
	old, ok = *p, b.occupied
	*p = v
	b.occupied = true
	return old, ok
}

// Take removes and returns the held value, leaving the box empty.
// The drop hook is not run.
func (b *Box[T, S, PS]) Take() (v T, ok bool) {
	b.copyCheck()
	if !b.occupied {
		return v, false
	}
	p := b.slot()
	v = *p
	var zero T
	*p = zero
	b.occupied = false
	return v, true
}

// Release drops the held value, if any, and releases the storage.
func (b *Box[T, S, PS]) Release() {
	b.copyCheck()
	if b.occupied {
		p := b.slot()
		if b.drop != nil {
			b.drop(p)
		}
		var zero T
		*p = zero
		b.occupied = false
	}
	PS(&b.store).Release()
	b.addr = nil
}
