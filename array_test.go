package arena

import (
	"hash/maphash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayPushWithinCapacity(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	arr := NewArray[int32](a, 4)
	assert.True(t, arr.IsEmpty())
	assert.Equal(t, 4, arr.Cap())

	for i := int32(1); i <= 4; i++ {
		arr.Push(i * 10)
	}
	assert.Equal(t, []int32{10, 20, 30, 40}, arr.Slice())
	assert.Equal(t, 4, arr.Len())

	require.PanicsWithValue(t, "arena: not enough capacity 4", func() { arr.Push(50) })
	assert.Equal(t, []int32{10, 20, 30, 40}, arr.Slice(), "a failed push leaves the contents alone")
}

func TestArrayPushPopInverse(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	arr := NewArray[uint16](a, 8)
	arr.ExtendFromSlice([]uint16{1, 2, 3})
	before := append([]uint16(nil), arr.Slice()...)

	arr.Push(99)
	got, ok := arr.Pop()
	require.True(t, ok)
	assert.Equal(t, uint16(99), got)
	assert.Equal(t, before, arr.Slice())

	for range 3 {
		_, ok = arr.Pop()
		require.True(t, ok)
	}
	got, ok = arr.Pop()
	assert.False(t, ok, "popping an empty array is not an error")
	assert.Zero(t, got)
}

func TestArrayExtendFromSlice(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	arr := NewArray[int](a, 4)
	arr.ExtendFromSlice([]int{1, 2, 3})
	assert.Equal(t, []int{1, 2, 3}, arr.Slice())

	arr.ExtendFromSlice([]int{4})
	assert.Equal(t, []int{1, 2, 3, 4}, arr.Slice(), "filling the remaining capacity exactly succeeds")

	require.Panics(t, func() { arr.ExtendFromSlice([]int{5}) })
	arr.ExtendFromSlice(nil)
	assert.Equal(t, 4, arr.Len())

	other := NewArray[int](a, 2)
	require.Panics(t, func() { other.ExtendFromSlice([]int{1, 2, 3}) })
	assert.Zero(t, other.Len(), "an oversized extend copies nothing")
}

func TestArrayClear(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	arr := NewArray[int](a, 3)
	arr.ExtendFromSlice([]int{1, 2, 3})
	arr.Clear()
	assert.True(t, arr.IsEmpty())
	assert.Equal(t, 3, arr.Cap())
	arr.Push(7)
	assert.Equal(t, []int{7}, arr.Slice())
}

func TestArrayShrinkToFit(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	first := NewArray[int64](a, 8)
	first.Push(1)
	last := NewArray[int64](a, 8)
	last.ExtendFromSlice([]int64{1, 2})

	last.ShrinkToFit()
	assert.Equal(t, 2, last.Cap())
	assert.Equal(t, 64+16, a.Offset(), "the newest array hands its tail back")

	first.ShrinkToFit()
	assert.Equal(t, 1, first.Cap())
	assert.Equal(t, 64+16, a.Offset(), "an older array cannot give memory back")
	require.Panics(t, func() { first.Push(2) })

	// A shrunk array stays usable after a rewind to its new end.
	a.AllocRaw(8, 8)
	a.Reset(64 + 16)
	assert.Equal(t, []int64{1, 2}, last.Slice())
}

func TestArrayIndexing(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	arr := NewArray[float64](a, 4)
	arr.ExtendFromSlice([]float64{1.5, 2.5})

	assert.Equal(t, 2.5, arr.At(1))
	arr.Set(0, 9)
	*arr.Ptr(1) += 1
	assert.Equal(t, []float64{9, 3.5}, arr.Slice())

	require.Panics(t, func() { arr.At(2) }, "indexing is bounded by the length, not the capacity")
	require.Panics(t, func() { arr.Set(-1, 0) })

	s := arr.Slice()
	assert.Equal(t, 2, cap(s))
	s[0] = 4
	assert.Equal(t, 4.0, arr.At(0), "the slice view aliases the array")

	var seen []float64
	for i, v := range arr.All() {
		assert.Equal(t, len(seen), i)
		seen = append(seen, v)
	}
	assert.Equal(t, []float64{4, 3.5}, seen)
}

func TestArrayEqualAndHash(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()
	seed := maphash.MakeSeed()

	x := NewArray[int](a, 4)
	y := NewArray[int](a, 8)
	x.ExtendFromSlice([]int{1, 2, 3})
	y.ExtendFromSlice([]int{1, 2, 3})

	assert.True(t, ArrayEqual(&x, &y), "capacity does not take part in equality")
	assert.Equal(t, HashArray(seed, &x), HashArray(seed, &y))

	y.Push(4)
	assert.False(t, ArrayEqual(&x, &y))
	y.Pop()
	y.Set(2, 4)
	assert.False(t, ArrayEqual(&x, &y))
	assert.NotEqual(t, HashArray(seed, &x), HashArray(seed, &y))
}

func TestArrayRejectsPointerElements(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()

	require.Panics(t, func() { NewArray[string](a, 4) })
	require.Panics(t, func() { NewArray[int](a, -1) })
}

// End to end: a 1 KiB request reserves a full chunk, a four element array
// of 4-byte values takes four pushes and refuses the fifth.
func TestArrayEndToEnd(t *testing.T) {
	a := NewArena(1024)
	defer a.Release()
	assert.Equal(t, 64*1024, a.Capacity())

	arr := NewArray[uint32](a, 4)
	for _, v := range []uint32{7, 8, 9, 10} {
		arr.Push(v)
	}
	assert.Equal(t, []uint32{7, 8, 9, 10}, arr.Slice())

	require.Panics(t, func() { arr.Push(11) })
	assert.Equal(t, []uint32{7, 8, 9, 10}, arr.Slice())
}

func BenchmarkArrayPush(b *testing.B) {
	a := NewArena(1 << 30)
	defer a.Release()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		arr := NewArray[int64](a, 64)
		for j := 0; j < 64; j++ {
			arr.Push(int64(j))
		}
		a.Reset(0)
	}
}
