// Package vec implements Vec, a growable contiguous buffer over a pluggable
// storage.
//
// Vec keeps the logical length; the storage owns the memory and decides how
// much of it there is. The same Vec code runs over a fixed inline array or an
// allocator-backed range:
//
//	var s storage.Inline[int, [8]int]
//	v := vec.New[int](s)
//	defer v.Release()
//	_ = v.Push(1)
//
// Growth doubles the capacity, or jumps straight to the needed length when
// that is larger, and never exceeds the storage's MaxCap when the needed
// length fits under it.
//
// Exceeding an inline storage's capacity panics with
// storage.ErrCapacityExceeded. Allocation failures are returned as errors
// wrapping storage.ErrAllocationFailed and leave the Vec unchanged.
//
// A Vec owns its storage and is not safe for concurrent use. Like
// strings.Builder it must not be copied after first use: a Vec that has been
// modified panics when a copy of it is modified or released. A released Vec
// may be copied again.
package vec

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/c00t/storage-poc/internal/buf"
	"github.com/c00t/storage-poc/internal/nocopy"
	"github.com/c00t/storage-poc/storage"
)

// Vec is a growable buffer of T held in a storage S.
//
// For every i in [0, Len()) slot i holds a live element; slots in
// [Len(), Cap()) hold zero values and are never handed out as elements.
type Vec[T any, S any, PS storage.RangePtr[T, S]] struct {
	addr  *Vec[T, S, PS] // of receiver, to detect copies by value
	store S
	n     int
	drop  func(*T)
}

// New returns an empty Vec that takes ownership of s.
func New[T any, S any, PS storage.RangePtr[T, S]](s S) Vec[T, S, PS] {
	return Vec[T, S, PS]{store: s}
}

// WithCapacity returns an empty Vec over s with room for at least n elements.
// If the storage cannot provide n slots it is released before the failure
// surfaces, so no partially constructed Vec escapes.
func WithCapacity[T any, S any, PS storage.RangePtr[T, S]](s S, n int) (Vec[T, S, PS], error) {
	ps := PS(&s)
	if err := ps.Grow(n); err != nil {
		ps.Release()
		return Vec[T, S, PS]{}, storage.FailFast(err)
	}
	return Vec[T, S, PS]{store: s}, nil
}

// From returns a Vec over s holding a copy of xs. The storage is sized to
// len(xs) first; on failure it is released, as in WithCapacity.
func From[T any, S any, PS storage.RangePtr[T, S]](s S, xs []T) (Vec[T, S, PS], error) {
	ps := PS(&s)
	if err := ps.Grow(len(xs)); err != nil {
		ps.Release()
		return Vec[T, S, PS]{}, storage.FailFast(err)
	}
	copy(ps.Elems(), xs)
	return Vec[T, S, PS]{store: s, n: len(xs)}, nil
}

func (v *Vec[T, S, PS]) ps() PS { return PS(&v.store) }

func (v *Vec[T, S, PS]) copyCheck() {
	nocopy.Check(&v.addr, v, "vec")
}

// SetDropFunc installs a hook run on every element discarded by Truncate,
// Clear or Release, in index order, before its slot is zeroed.
func (v *Vec[T, S, PS]) SetDropFunc(fn func(*T)) {
	v.copyCheck()
	v.drop = fn
}

// Len returns the number of live elements.
func (v *Vec[T, S, PS]) Len() int { return v.n }

// Cap returns the number of elements the storage holds without growing.
func (v *Vec[T, S, PS]) Cap() int { return v.ps().Cap() }

// MaxCap returns the storage's hard ceiling.
func (v *Vec[T, S, PS]) MaxCap() int { return v.ps().MaxCap() }

// Reserve ensures room for at least additional more elements.
func (v *Vec[T, S, PS]) Reserve(additional int) error {
	v.copyCheck()
	additional = max(additional, 0)
	ps := v.ps()
	need, ok := buf.AddOverflowSafe(v.n, additional)
	if !ok {
		return storage.FailFast(fmt.Errorf("%w: length %d + %d overflows", storage.ErrCapacityExceeded, v.n, additional))
	}
	cur := ps.Cap()
	if need <= cur {
		return nil
	}
	if err := ps.Grow(buf.GrowTarget(cur, need, ps.MaxCap())); err != nil {
		return storage.FailFast(err)
	}
	return nil
}

// Push appends x, growing the storage if needed.
func (v *Vec[T, S, PS]) Push(x T) error {
	if err := v.Reserve(1); err != nil {
		return err
	}
	v.ps().Elems()[v.n] = x
	v.n++
	return nil
}

// Extend appends a copy of xs, growing the storage at most once.
// xs may alias the Vec's own elements.
func (v *Vec[T, S, PS]) Extend(xs []T) error {
	v.copyCheck()
	if len(xs) == 0 {
		return nil
	}
	if v.n+len(xs) > v.Cap() && overlaps(v.ps().Elems(), xs) {
		xs = append([]T(nil), xs...)
	}
	if err := v.Reserve(len(xs)); err != nil {
		return err
	}
	copy(v.ps().Elems()[v.n:], xs)
	v.n += len(xs)
	return nil
}

// overlaps reports whether b points into a's backing array.
func overlaps[T any](a, b []T) bool {
	if cap(a) == 0 || cap(b) == 0 {
		return false
	}
	size := unsafe.Sizeof(a[:1][0])
	if size == 0 {
		return false
	}
	lo := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	hi := lo + uintptr(cap(a))*size
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return p >= lo && p < hi
}

// Slice returns the live elements. The slice aliases the storage and is
// valid until the next call that changes the Vec's length or capacity.
func (v *Vec[T, S, PS]) Slice() []T {
	return v.ps().Elems()[:v.n:v.n]
}

// At returns element i. It panics if i is outside [0, Len()).
func (v *Vec[T, S, PS]) At(i int) T {
	if buf.Debug {
		v.checkIndex(i)
	}
	return v.Slice()[i]
}

// Set replaces element i. It panics if i is outside [0, Len()).
func (v *Vec[T, S, PS]) Set(i int, x T) {
	if buf.Debug {
		v.checkIndex(i)
	}
	v.copyCheck()
	v.Slice()[i] = x
}

// checkIndex panics with a descriptive message when i is not a live index.
// Builds with the storagedebug tag run it before every At and Set; otherwise
// the slice bounds check reports the violation.
func (v *Vec[T, S, PS]) checkIndex(i int) {
	if err := buf.CheckRange(v.n, i, 1); err != nil {
		panic(fmt.Sprintf("vec: index %d: %v", i, err))
	}
}

// All yields index/element pairs in order.
func (v *Vec[T, S, PS]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range v.Slice() {
			if !yield(i, x) {
				return
			}
		}
	}
}

// Backward yields index/element pairs from the last element to the first.
func (v *Vec[T, S, PS]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		s := v.Slice()
		for i := len(s) - 1; i >= 0; i-- {
			if !yield(i, s[i]) {
				return
			}
		}
	}
}

// Pop removes and returns the last element. The drop hook is not run; the
// element now belongs to the caller.
func (v *Vec[T, S, PS]) Pop() (T, bool) {
	v.copyCheck()
	var zero T
	if v.n == 0 {
		return zero, false
	}
	v.n--
	e := v.ps().Elems()
	x := e[v.n]
	e[v.n] = zero
	return x, true
}

// Truncate drops elements [n, Len()). It does nothing when n >= Len().
func (v *Vec[T, S, PS]) Truncate(n int) {
	v.copyCheck()
	n = max(n, 0)
	if n >= v.n {
		return
	}
	dead := v.ps().Elems()[n:v.n]
	if v.drop != nil {
		for i := range dead {
			v.drop(&dead[i])
		}
	}
	clear(dead)
	v.n = n
}

// Clear drops every element. Capacity is kept.
func (v *Vec[T, S, PS]) Clear() { v.Truncate(0) }

// ShrinkToFit asks the storage to give back capacity beyond Len().
// Storages that cannot shrink keep their capacity.
func (v *Vec[T, S, PS]) ShrinkToFit() error {
	v.copyCheck()
	return storage.FailFast(v.ps().Shrink(v.n))
}

// Release drops every element in order and then releases the storage.
// The Vec is empty afterwards and may be reused or copied; calling Release
// again is a no-op for the storage.
func (v *Vec[T, S, PS]) Release() {
	v.Clear()
	v.ps().Release()
	v.addr = nil
}
