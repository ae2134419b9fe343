package arena

import (
	"io"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ io.Writer       = (*String)(nil)
	_ io.StringWriter = (*String)(nil)
)

func TestStringPushStr(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	s := NewString(a, 16)
	s.PushStr("héllo")
	s.PushStr(", ")
	s.PushStr("wörld")
	assert.Equal(t, "héllo, wörld", s.String())
	assert.Equal(t, len("héllo, wörld"), s.Len())

	require.Panics(t, func() { s.PushStr("too long for the rest") })
	require.Panics(t, func() { s.PushStr("\xff") })
	assert.Equal(t, "héllo, wörld", s.String())
}

func TestNewStringFrom(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	s := NewStringFrom(a, "größe")
	assert.Equal(t, "größe", s.String())
	assert.Equal(t, s.Len(), s.Cap())

	empty := NewStringFrom(a, "")
	assert.Empty(t, empty.String())
}

func TestStringWriters(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	s := NewString(a, 8)
	n, err := s.WriteString("abc")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.Write([]byte{0xc3, 0x28})
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Zero(t, n)

	n, err = s.WriteString("defghi")
	assert.ErrorIs(t, err, ErrNoCapacity)
	assert.Zero(t, n)
	assert.Equal(t, "abc", s.String(), "rejected writes leave no partial text")
}

func TestStringAppendf(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	s := NewString(a, 32)
	require.NoError(t, s.Appendf("%s=%d", "size", 42))
	assert.Equal(t, "size=42", s.String())

	assert.ErrorIs(t, s.Appendf("%s", []byte{0xff}), ErrInvalidUTF8)
	assert.ErrorIs(t, s.Appendf("%64d", 1), ErrNoCapacity)
	assert.Equal(t, "size=42", s.String())
}

func TestStringClearShrink(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	s := NewString(a, 64)
	s.PushStr("abc")
	s.ShrinkToFit()
	assert.Equal(t, 3, s.Cap())
	assert.Equal(t, 3, a.Offset())

	s.Clear()
	assert.Zero(t, s.Len())
	s.PushStr("xyz")
	assert.Equal(t, "xyz", string(s.Bytes()))
}

func TestStringEqualAndHash(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	x := NewStringFrom(a, "wasm")
	y := NewString(a, 10)
	y.PushStr("wa")
	y.PushStr("sm")

	assert.True(t, x.Equal(&y))
	assert.Equal(t, x.Hash(), y.Hash())
	assert.Equal(t, xxhash.Sum64String("wasm"), x.Hash())

	z := NewStringFrom(a, "dwarf")
	assert.False(t, x.Equal(&z))
}
