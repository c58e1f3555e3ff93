// Package nocopy supports the copy check used by the containers: a container
// records its own address on first mutation and panics when a later mutation
// runs on a different address, like strings.Builder.
package nocopy

import (
	"fmt"
	"unsafe"
)

// Hide returns p unchanged. Escape analysis cannot follow the result, so a
// container storing its own address does not move itself to the heap.
//
//go:nosplit
//go:nocheckptr
func Hide[T any](p *T) *T {
	x := uintptr(unsafe.Pointer(p))
	return (*T)(unsafe.Pointer(x ^ 0))
}

// Check arms *addr with self on first use and panics if a different self
// shows up later. name is used in the panic message.
func Check[T any](addr **T, self *T, name string) {
	if *addr == nil {
		*addr = Hide(self)
	} else if *addr != self {
		panic(fmt.Sprintf("%s: illegal use of non-zero %s copied by value", name, name))
	}
}
