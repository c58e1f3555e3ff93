//go:build !unix

// Package mmap provides platform-specific helpers for anonymous memory mappings.
package mmap

import (
	"fmt"
	"os"
)

// PageSize is the granularity mappings are rounded to.
var PageSize = os.Getpagesize()

// Map allocates from the Go heap when anonymous mappings are not available.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mmap: invalid length %d", n)
	}
	return make([]byte, n), nil
}

// Unmap is a no-op; heap memory is reclaimed by the garbage collector.
func Unmap(data []byte) error { return nil }

// Remap never grows in place on this platform.
func Remap(data []byte, n int) ([]byte, bool) {
	if cap(data) == 0 || n > cap(data) {
		return nil, false
	}
	return data[:cap(data)], true
}
