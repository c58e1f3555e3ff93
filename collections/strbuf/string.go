// Package strbuf implements String, a growable UTF-8 string over a pluggable
// byte storage.
//
// The bytes of a String are valid UTF-8 at all times. Nothing checks this at
// read time: every mutator takes a Go string or a rune, which are UTF-8 by
// construction, or validates its input before anything is appended. No method
// accepts raw bytes of unknown validity.
package strbuf

import (
	"errors"
	"slices"
	"strconv"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding"

	"github.com/c00t/storage-poc/collections/vec"
	"github.com/c00t/storage-poc/storage"
)

// ErrInvalidUTF8 is returned when decoded input is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("strbuf: invalid UTF-8")

// String is a growable UTF-8 string held in a byte storage S.
//
// Pass a *String to fmt: both the %v and %#v forms match those of a native
// string with the same content.
//
// A String must not be copied after first use; modifying or releasing a copy
// of a modified String panics.
type String[S any, PS storage.RangePtr[byte, S]] struct {
	vec vec.Vec[byte, S, PS]
}

// New returns an empty String over s.
func New[S any, PS storage.RangePtr[byte, S]](s S) String[S, PS] {
	return String[S, PS]{vec: vec.New[byte, S, PS](s)}
}

// WithCapacity returns an empty String over s with room for n bytes.
func WithCapacity[S any, PS storage.RangePtr[byte, S]](s S, n int) (String[S, PS], error) {
	v, err := vec.WithCapacity[byte, S, PS](s, n)
	if err != nil {
		return String[S, PS]{}, err
	}
	return String[S, PS]{vec: v}, nil
}

// FromString returns a String over s holding a copy of text. The storage is
// sized to len(text) before the bytes are copied.
func FromString[S any, PS storage.RangePtr[byte, S]](s S, text string) (String[S, PS], error) {
	v, err := vec.From[byte, S, PS](s, unsafe.Slice(unsafe.StringData(text), len(text)))
	if err != nil {
		return String[S, PS]{}, err
	}
	return String[S, PS]{vec: v}, nil
}

// PushString appends text.
func (s *String[S, PS]) PushString(text string) error {
	return s.vec.Extend(unsafe.Slice(unsafe.StringData(text), len(text)))
}

// PushRune appends the UTF-8 encoding of r. Invalid runes are appended as
// utf8.RuneError.
func (s *String[S, PS]) PushRune(r rune) error {
	var b [utf8.UTFMax]byte
	n := utf8.EncodeRune(b[:], r)
	return s.vec.Extend(b[:n])
}

// AppendDecoded transcodes src with dec and appends the result. Nothing is
// appended unless the whole output is valid UTF-8.
func (s *String[S, PS]) AppendDecoded(dec *encoding.Decoder, src []byte) error {
	out, err := dec.Bytes(src)
	if err != nil {
		return err
	}
	if !utf8.Valid(out) {
		return ErrInvalidUTF8
	}
	return s.vec.Extend(out)
}

// String returns the content without copying or validating it.
//
// The result shares memory with the buffer. It stays intact until the next
// call that modifies s, and must not be used after Release. Use Clone for an
// independent copy.
func (s *String[S, PS]) String() string {
	b := s.vec.Slice()
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Clone returns a heap copy of the content.
func (s *String[S, PS]) Clone() string {
	return string(slices.Clone(s.vec.Slice()))
}

// GoString returns the content as a quoted Go string literal.
func (s *String[S, PS]) GoString() string {
	return strconv.Quote(s.String())
}

// Len returns the length in bytes.
func (s *String[S, PS]) Len() int { return s.vec.Len() }

// Cap returns the byte capacity.
func (s *String[S, PS]) Cap() int { return s.vec.Cap() }

// Truncate keeps the first n bytes. It panics if n falls inside a UTF-8
// sequence.
func (s *String[S, PS]) Truncate(n int) {
	n = max(n, 0)
	if n < s.Len() && !utf8.RuneStart(s.vec.At(n)) {
		panic("strbuf: Truncate not on a rune boundary")
	}
	s.vec.Truncate(n)
}

// Clear empties the string and keeps its capacity.
func (s *String[S, PS]) Clear() { s.vec.Clear() }

// Release empties the string and releases the storage.
func (s *String[S, PS]) Release() { s.vec.Release() }
