package arena

import (
	"errors"
	"fmt"
	"unicode/utf8"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrNoCapacity is returned by String writers when the text does not fit.
	ErrNoCapacity = errors.New("arena: not enough string capacity")
	// ErrInvalidUTF8 is returned by String writers for text that is not UTF-8.
	ErrInvalidUTF8 = errors.New("arena: invalid UTF-8")
)

// String is a fixed-capacity UTF-8 text buffer stored in an Arena.
//
// Its bytes are valid UTF-8 at all times: the only mutations are appends of
// validated text and Clear.
type String struct {
	buf Array[byte]
}

// NewString returns an empty String with room for capacity bytes.
func NewString(a *Arena, capacity int) String {
	return String{buf: NewArray[byte](a, capacity)}
}

// NewStringFrom copies s into a String of exactly len(s) bytes.
// Panics if s is not valid UTF-8.
func NewStringFrom(a *Arena, s string) String {
	str := NewString(a, len(s))
	str.PushStr(s)
	return str
}

// PushStr appends s. Panics if s is not valid UTF-8 or does not fit.
func (s *String) PushStr(str string) {
	if !utf8.ValidString(str) {
		panic(fmt.Sprintf("arena: invalid UTF-8 %q", str))
	}
	s.buf.ExtendFromSlice(unsafe.Slice(unsafe.StringData(str), len(str)))
}

// WriteString implements io.StringWriter. Text that does not fit or is not
// UTF-8 is rejected whole.
func (s *String) WriteString(str string) (int, error) {
	return s.Write(unsafe.Slice(unsafe.StringData(str), len(str)))
}

// Write implements io.Writer with the same rules as WriteString.
func (s *String) Write(p []byte) (int, error) {
	if !utf8.Valid(p) {
		return 0, ErrInvalidUTF8
	}
	if s.buf.Cap()-s.buf.Len() < len(p) {
		return 0, ErrNoCapacity
	}
	s.buf.ExtendFromSlice(p)
	return len(p), nil
}

// Appendf formats according to format and appends the result.
func (s *String) Appendf(format string, args ...any) error {
	_, err := fmt.Fprintf(s, format, args...)
	return err
}

// Clear empties the string. The capacity is unchanged.
func (s *String) Clear() { s.buf.Clear() }

// ShrinkToFit gives unused capacity back to the arena when possible.
func (s *String) ShrinkToFit() { s.buf.ShrinkToFit() }

// Len returns the length in bytes.
func (s *String) Len() int { return s.buf.Len() }

// Cap returns the capacity in bytes.
func (s *String) Cap() int { return s.buf.Cap() }

// String returns the text without copying. The result aliases arena memory:
// it is only valid while the arena region is, and it changes if the String is
// cleared and written again.
func (s *String) String() string {
	b := s.buf.Slice()
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Bytes returns the text as bytes aliasing arena memory. Callers must not
// modify them.
func (s *String) Bytes() []byte { return s.buf.Slice() }

// Equal reports whether s and other hold the same text.
func (s *String) Equal(other *String) bool {
	return s.String() == other.String()
}

// Hash returns the xxhash of the text.
func (s *String) Hash() uint64 {
	return xxhash.Sum64(s.buf.Slice())
}
