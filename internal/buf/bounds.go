// Package buf contains overflow-safe arithmetic shared by the storage layer
// and the containers built on top of it.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false when
// the result would overflow int or either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// GrowTarget returns the capacity to request when a buffer of capacity cur
// must hold need elements under a ceiling of limit.
//
// The result is max(2*cur, need). When need fits under limit the result is
// clamped to limit, so a bounded storage can still be filled to its ceiling.
// When need itself exceeds limit, need is returned unchanged and the storage
// is left to report the failure.
func GrowTarget(cur, need, limit int) int {
	if need <= cur {
		return cur
	}
	doubled, ok := MulOverflowSafe(cur, 2)
	if !ok {
		doubled = math.MaxInt
	}
	target := max(doubled, need)
	if need <= limit && target > limit {
		target = limit
	}
	return target
}

// CheckRange validates that [off, off+n) lies within [0, length).
//
//	if err := buf.CheckRange(v.Len(), i, 1); err != nil {
//	    panic(err)
//	}
func CheckRange(length, off, n int) error {
	if off < 0 {
		return fmt.Errorf("negative offset: %d", off)
	}
	if n < 0 {
		return fmt.Errorf("negative count: %d", n)
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok {
		return fmt.Errorf("overflow: offset=%d + count=%d", off, n)
	}
	if end > length {
		return fmt.Errorf("bounds: end=%d > len=%d", end, length)
	}
	return nil
}
