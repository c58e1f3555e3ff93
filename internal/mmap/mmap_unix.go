//go:build unix

// Package mmap provides platform-specific helpers for anonymous memory mappings.
package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// PageSize is the granularity mappings are rounded to.
var PageSize = os.Getpagesize()

// Map returns a private anonymous read-write mapping of at least n bytes.
// len and cap of the result equal the page-rounded mapping length.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mmap: invalid length %d", n)
	}
	size, err := roundToPage(n)
	if err != nil {
		return nil, err
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap: map %d bytes: %w", size, err)
	}
	return data, nil
}

// Unmap releases a mapping returned by Map or Remap. Only the full mapping may
// be passed; sub-slices are extended to their capacity first. Errors from the
// kernel, such as a slice that does not start on a page boundary, are returned.
func Unmap(data []byte) error {
	if cap(data) == 0 {
		return nil
	}
	return unix.Munmap(data[:cap(data)])
}

func roundToPage(n int) (int, error) {
	rem := n % PageSize
	if rem == 0 {
		return n, nil
	}
	pad := PageSize - rem
	if n > int(^uint(0)>>1)-pad {
		return 0, fmt.Errorf("mmap: length %d too large to map", n)
	}
	return n + pad, nil
}
