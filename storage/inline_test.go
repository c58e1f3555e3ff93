package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInline_CapacityIsArrayLength tests the type-level capacity.
func TestInline_CapacityIsArrayLength(t *testing.T) {
	var s Inline[byte, [31]byte]

	assert.Equal(t, 31, s.Cap())
	assert.Equal(t, 31, s.MaxCap())
	assert.Len(t, s.Elems(), 31)
}

// TestInline_GrowWithinBound tests that growth up to the bound succeeds.
func TestInline_GrowWithinBound(t *testing.T) {
	var s Inline[int, [5]int]

	require.NoError(t, s.Grow(0))
	require.NoError(t, s.Grow(5))
	assert.Equal(t, 5, s.Cap())
}

// TestInline_GrowBeyondBound tests the capacity-exceeded signal.
func TestInline_GrowBeyondBound(t *testing.T) {
	var s Inline[byte, [5]byte]
	copy(s.Elems(), "hello")

	err := s.Grow(6)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, "hello", string(s.Elems()), "failed growth must leave content untouched")
}

// TestInline_ElemsAliasesArray tests that the slice view writes into the embedded array.
func TestInline_ElemsAliasesArray(t *testing.T) {
	var s Inline[int, [3]int]

	s.Elems()[1] = 42
	assert.Equal(t, [3]int{0, 42, 0}, s.arr)
}

// TestInline_ShrinkIsNoop tests that inline shrink always succeeds without change.
func TestInline_ShrinkIsNoop(t *testing.T) {
	var s Inline[int, [4]int]
	s.Elems()[3] = 7

	require.NoError(t, s.Shrink(1))
	assert.Equal(t, 4, s.Cap())
	assert.Equal(t, 7, s.Elems()[3])
}

// TestInline_ReleaseZeroes tests that Release drops references held in the array.
func TestInline_ReleaseZeroes(t *testing.T) {
	var s Inline[*int, [2]*int]
	v := 1
	s.Elems()[0] = &v

	s.Release()
	assert.Nil(t, s.Elems()[0])
	s.Release()
}

// TestInline_ZeroLength tests the degenerate zero-capacity storage.
func TestInline_ZeroLength(t *testing.T) {
	var s Inline[int, [0]int]

	assert.Zero(t, s.Cap())
	assert.Nil(t, s.Elems())
	require.ErrorIs(t, s.Grow(1), ErrCapacityExceeded)
}

// TestNewInline_RejectsMismatchedArray tests the array type check.
func TestNewInline_RejectsMismatchedArray(t *testing.T) {
	assert.Panics(t, func() { NewInline[int, [4]byte]() })
	assert.Panics(t, func() { NewInline[int, []int]() })
	assert.NotPanics(t, func() { NewInline[int, [4]int]() })
}

// TestArrayLen tests capacity derivation from type sizes.
func TestArrayLen(t *testing.T) {
	type padded struct {
		a int64
		b byte
	}

	assert.Equal(t, 31, arrayLen[byte, [31]byte]("Inline"))
	assert.Equal(t, 3, arrayLen[padded, [3]padded]("Inline"))
	assert.Equal(t, 5, arrayLen[struct{}, [5]struct{}]("Inline"), "zero-size elements fall back to the type check")
	assert.Equal(t, 0, arrayLen[int, [0]int]("Inline"))
	assert.Equal(t, 4, arrayLen[Slot[int], [4]Slot[int]]("InlineNodes"))
}

// TestInline_MismatchedZeroValue tests that a mismatched array type is caught without NewInline.
func TestInline_MismatchedZeroValue(t *testing.T) {
	t.Run("sizes do not divide", func(t *testing.T) {
		var s Inline[int64, [3]int32]
		assert.Panics(t, func() { s.Cap() })
	})

	t.Run("caught on grow", func(t *testing.T) {
		var s Inline[int32, [4]int64]
		assert.PanicsWithValue(t, "storage: Inline array type [4]int64 does not hold int32", func() {
			_ = s.Grow(1)
		})
	})
}
