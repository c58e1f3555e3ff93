// Package list implements List, a doubly linked list whose nodes live in a
// node storage.
//
// Nodes refer to each other by storage.Handle. The storage owns every node;
// a Handle stays valid, and the value behind it stays at the same address,
// until that node is removed. Removing one node never disturbs another.
//
//	var s storage.PagedNodes[list.Node[string]]
//	l := list.New[string](s)
//	defer l.Release()
//	a, _ := l.PushBack("a")
//	_, _ = l.InsertAfter(a, "b")
//
// Node allocation failures follow the same rules as contiguous growth:
// a full inline node storage panics with storage.ErrCapacityExceeded, while
// allocator failures are returned and leave the list unchanged.
package list

import (
	"fmt"
	"iter"

	"github.com/c00t/storage-poc/internal/nocopy"
	"github.com/c00t/storage-poc/storage"
)

// Node is one list element as stored in the node storage.
type Node[T any] struct {
	Value      T
	prev, next storage.Handle
}

// List is a doubly linked list of T over a node storage S.
// It is not safe for concurrent use. It must not be copied after first use;
// modifying or releasing a copy of a modified List panics.
type List[T any, S any, PS storage.NodePtr[Node[T], S]] struct {
	addr       *List[T, S, PS] // of receiver, to detect copies by value
	store      S
	head, tail storage.Handle
	drop       func(*T)
}

// New returns an empty list that takes ownership of s.
func New[T any, S any, PS storage.NodePtr[Node[T], S]](s S) List[T, S, PS] {
	return List[T, S, PS]{store: s}
}

func (l *List[T, S, PS]) ps() PS { return PS(&l.store) }

// Storage returns the node storage for inspection. Allocating or freeing
// through it corrupts the list.
func (l *List[T, S, PS]) Storage() PS { return l.ps() }

func (l *List[T, S, PS]) copyCheck() {
	nocopy.Check(&l.addr, l, "list")
}

// node returns the live node behind h or panics.
func (l *List[T, S, PS]) node(h storage.Handle) *Node[T] {
	n := l.ps().Get(h)
	if n == nil {
		panic(fmt.Errorf("%w: %d", storage.ErrBadHandle, h))
	}
	return n
}

// SetDropFunc installs a hook run on each value discarded by Release, front
// to back.
func (l *List[T, S, PS]) SetDropFunc(fn func(*T)) {
	l.copyCheck()
	l.drop = fn
}

// Len returns the number of elements.
func (l *List[T, S, PS]) Len() int { return l.ps().Len() }

// Front returns the first element's handle, or storage.NilHandle.
func (l *List[T, S, PS]) Front() storage.Handle { return l.head }

// Back returns the last element's handle, or storage.NilHandle.
func (l *List[T, S, PS]) Back() storage.Handle { return l.tail }

// Next returns the handle after h, or storage.NilHandle at the end or when h
// is not live.
func (l *List[T, S, PS]) Next(h storage.Handle) storage.Handle {
	if n := l.ps().Get(h); n != nil {
		return n.next
	}
	return storage.NilHandle
}

// Prev returns the handle before h, or storage.NilHandle at the front or when
// h is not live.
func (l *List[T, S, PS]) Prev(h storage.Handle) storage.Handle {
	if n := l.ps().Get(h); n != nil {
		return n.prev
	}
	return storage.NilHandle
}

// Value returns a pointer to the value behind h, or nil when h is not live.
// For inline node storages the pointer is valid only while the list stays
// where it is.
func (l *List[T, S, PS]) Value(h storage.Handle) *T {
	if n := l.ps().Get(h); n != nil {
		return &n.Value
	}
	return nil
}

// alloc stores a node linked between prev and next.
func (l *List[T, S, PS]) alloc(v T, prev, next storage.Handle) (storage.Handle, error) {
	l.copyCheck()
	h, err := l.ps().Alloc(Node[T]{Value: v, prev: prev, next: next})
	if err != nil {
		return storage.NilHandle, storage.FailFast(err)
	}
	if prev != storage.NilHandle {
		l.node(prev).next = h
	} else {
		l.head = h
	}
	if next != storage.NilHandle {
		l.node(next).prev = h
	} else {
		l.tail = h
	}
	return h, nil
}

// PushFront inserts v at the front.
func (l *List[T, S, PS]) PushFront(v T) (storage.Handle, error) {
	return l.alloc(v, storage.NilHandle, l.head)
}

// PushBack inserts v at the back.
func (l *List[T, S, PS]) PushBack(v T) (storage.Handle, error) {
	return l.alloc(v, l.tail, storage.NilHandle)
}

// InsertAfter inserts v right after the live element at.
func (l *List[T, S, PS]) InsertAfter(at storage.Handle, v T) (storage.Handle, error) {
	n := l.ps().Get(at)
	if n == nil {
		return storage.NilHandle, fmt.Errorf("%w: %d", storage.ErrBadHandle, at)
	}
	return l.alloc(v, at, n.next)
}

// InsertBefore inserts v right before the live element at.
func (l *List[T, S, PS]) InsertBefore(at storage.Handle, v T) (storage.Handle, error) {
	n := l.ps().Get(at)
	if n == nil {
		return storage.NilHandle, fmt.Errorf("%w: %d", storage.ErrBadHandle, at)
	}
	return l.alloc(v, n.prev, at)
}

// Remove unlinks h and returns its value. Other handles are unaffected.
func (l *List[T, S, PS]) Remove(h storage.Handle) (T, error) {
	l.copyCheck()
	n := l.ps().Get(h)
	if n == nil {
		var zero T
		return zero, fmt.Errorf("%w: %d", storage.ErrBadHandle, h)
	}
	prev, next := n.prev, n.next
	if prev != storage.NilHandle {
		l.node(prev).next = next
	} else {
		l.head = next
	}
	if next != storage.NilHandle {
		l.node(next).prev = prev
	} else {
		l.tail = prev
	}
	nd, err := l.ps().Free(h)
	return nd.Value, err
}

// PopFront removes and returns the first element.
func (l *List[T, S, PS]) PopFront() (T, bool) {
	return l.pop(l.head)
}

// PopBack removes and returns the last element.
func (l *List[T, S, PS]) PopBack() (T, bool) {
	return l.pop(l.tail)
}

func (l *List[T, S, PS]) pop(h storage.Handle) (T, bool) {
	if h == storage.NilHandle {
		var zero T
		return zero, false
	}
	v, err := l.Remove(h)
	if err != nil {
		panic(err)
	}
	return v, true
}

// All yields handles and values front to back. The element just yielded may
// be removed during iteration.
func (l *List[T, S, PS]) All() iter.Seq2[storage.Handle, T] {
	return func(yield func(storage.Handle, T) bool) {
		for h := l.head; h != storage.NilHandle; {
			n := l.node(h)
			after := n.next
			if !yield(h, n.Value) {
				return
			}
			h = after
		}
	}
}

// Backward yields handles and values back to front.
func (l *List[T, S, PS]) Backward() iter.Seq2[storage.Handle, T] {
	return func(yield func(storage.Handle, T) bool) {
		for h := l.tail; h != storage.NilHandle; {
			n := l.node(h)
			after := n.prev
			if !yield(h, n.Value) {
				return
			}
			h = after
		}
	}
}

// Release drops every value front to back and releases the node storage.
// All handles become invalid.
func (l *List[T, S, PS]) Release() {
	l.copyCheck()
	if l.drop != nil {
		for h := l.head; h != storage.NilHandle; {
			n := l.node(h)
			l.drop(&n.Value)
			h = n.next
		}
	}
	l.ps().Release()
	l.head, l.tail = storage.NilHandle, storage.NilHandle
	l.addr = nil
}
