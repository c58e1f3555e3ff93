package storage

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/c00t/storage-poc/internal/buf"
)

// Inline is a fixed-capacity storage embedded in its own value. A must be an
// array type [N]T; N is the capacity. The zero value is ready to use:
//
//	var s storage.Inline[byte, [32]byte]
//
// Inline never allocates and holds no allocator.
//
// The capacity is derived from the sizes of A and T without reflection. The
// full array type check runs in NewInline, on Grow and, in builds with the
// storagedebug tag, on every access.
type Inline[T any, A any] struct {
	arr A
}

var _ SingleRange[int] = (*Inline[int, [4]int])(nil)

// NewInline returns an empty inline storage, panicking if A is not [N]T.
func NewInline[T any, A any]() Inline[T, A] {
	checkArray[T, A]("Inline")
	return Inline[T, A]{}
}

// inlineLen returns N for A = [N]T.
func inlineLen[T any, A any]() int {
	return arrayLen[T, A]("Inline")
}

// arrayLen returns N for A = [N]E. An array's size is exactly N element
// sizes, so the division is exact; reflection is only needed for zero-size
// elements, sizes that do not divide, and debug builds.
func arrayLen[E any, A any](kind string) int {
	sa, se := unsafe.Sizeof(*new(A)), unsafe.Sizeof(*new(E))
	if buf.Debug || se == 0 || sa%se != 0 {
		return checkArray[E, A](kind)
	}
	return int(sa / se)
}

// checkArray returns N for A = [N]E and panics for any other A.
func checkArray[E any, A any](kind string) int {
	at := reflect.TypeFor[A]()
	if at.Kind() != reflect.Array || at.Elem() != reflect.TypeFor[E]() {
		panic(fmt.Sprintf("storage: %s array type %v does not hold %v", kind, at, reflect.TypeFor[E]()))
	}
	return at.Len()
}

// MaxCap returns the array length.
func (s *Inline[T, A]) MaxCap() int { return inlineLen[T, A]() }

// Cap returns the array length; inline capacity never changes.
func (s *Inline[T, A]) Cap() int { return inlineLen[T, A]() }

// Elems views the embedded array as a slice. The view points into s and is
// only valid while s stays where it is.
func (s *Inline[T, A]) Elems() []T {
	n := inlineLen[T, A]()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&s.arr)), n)
}

// Grow succeeds when n fits in the array and fails with ErrCapacityExceeded otherwise.
func (s *Inline[T, A]) Grow(n int) error {
	if limit := checkArray[T, A]("Inline"); n > limit {
		return fmt.Errorf("%w: inline storage holds %d, requested %d", ErrCapacityExceeded, limit, n)
	}
	return nil
}

// Shrink is a no-op; the array is part of the value.
func (s *Inline[T, A]) Shrink(int) error { return nil }

// Release zeroes the array so no references outlive the owner.
func (s *Inline[T, A]) Release() {
	var zero A
	s.arr = zero
}
