//go:build unix && !linux

package mmap

// Remap extends a mapping within its existing page slack only; mappings
// never grow in place on this platform.
func Remap(data []byte, n int) ([]byte, bool) {
	if cap(data) == 0 || n > cap(data) {
		return nil, false
	}
	return data[:cap(data)], true
}
