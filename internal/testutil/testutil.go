// Package testutil holds helpers shared by the container tests.
package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c00t/storage-poc/storage/alloc"
)

// Drops records the values passed to a container's drop hook, in call order.
type Drops[T any] struct {
	got []T
}

// Drop is a drop hook.
func (d *Drops[T]) Drop(p *T) { d.got = append(d.got, *p) }

// Values returns the recorded values.
func (d *Drops[T]) Values() []T { return d.got }

// Spy returns a counting allocator over the Go heap.
func Spy[T any]() *alloc.Counting[T] {
	return alloc.NewCounting[T](alloc.Heap[T]{})
}

// AssertBalanced checks that every block c handed out was returned.
func AssertBalanced[T any](t *testing.T, c *alloc.Counting[T]) {
	t.Helper()
	assert.Equal(t, c.Allocations(), c.Deallocations(), "allocations and deallocations differ")
	assert.Zero(t, c.InUse(), "elements still in use")
}

// PanicsWithErrorIs checks that f panics with an error matching target.
func PanicsWithErrorIs(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("expected a panic matching %v", target)
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Errorf("panic value %v does not match %v", r, target)
		}
	}()
	f()
}
