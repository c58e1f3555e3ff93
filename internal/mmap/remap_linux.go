//go:build linux

package mmap

import "golang.org/x/sys/unix"

// Remap extends a mapping to at least n bytes without moving it.
// It reports false when the kernel cannot grow the mapping in place.
func Remap(data []byte, n int) ([]byte, bool) {
	if cap(data) == 0 {
		return nil, false
	}
	size, err := roundToPage(n)
	if err != nil {
		return nil, false
	}
	if size <= cap(data) {
		return data[:size], true
	}
	grown, err := unix.Mremap(data[:cap(data)], size, 0)
	if err != nil {
		return nil, false
	}
	return grown, true
}
