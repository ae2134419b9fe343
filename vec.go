package arena

import (
	"fmt"
	"iter"
	"math"
	"unsafe"
)

// Vec is a growable buffer whose storage comes from an Arena.
//
// Growing asks the arena for a larger block and copies the elements over.
// When the vec's block is the arena's most recent allocation it is extended
// in place instead. An abandoned block stays in the arena as garbage until
// the arena is reset or released.
type Vec[T any] struct {
	arena *Arena
	data  []T // len(data) is the length, cap(data) the capacity
	stamp stamp
}

// NewVec returns an empty Vec with room for capacity elements.
// T must be pointer-free.
func NewVec[T any](a *Arena, capacity int) Vec[T] {
	if capacity < 0 {
		panic(fmt.Sprintf("arena: negative vec capacity %d", capacity))
	}
	mustBePointerFree[T]()
	b := allocElems[T](a, capacity)
	return Vec[T]{
		arena: a,
		data:  unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), capacity)[:0],
		stamp: a.stampTop(),
	}
}

// Push appends item.
func (v *Vec[T]) Push(item T) {
	v.check()
	if len(v.data) == cap(v.data) {
		v.reserve(1)
	}
	v.data = append(v.data, item)
}

// Append appends items.
func (v *Vec[T]) Append(items ...T) {
	v.check()
	if cap(v.data)-len(v.data) < len(items) {
		v.reserve(len(items))
	}
	v.data = append(v.data, items...)
}

// Pop removes the last element and returns it. ok is false if the vec is
// empty.
func (v *Vec[T]) Pop() (item T, ok bool) {
	v.check()
	n := len(v.data)
	if n == 0 {
		return item, false
	}
	item = v.data[n-1]
	v.data = v.data[:n-1]
	return item, true
}

// Last returns the last element. ok is false if the vec is empty.
func (v *Vec[T]) Last() (item T, ok bool) {
	v.check()
	if len(v.data) == 0 {
		return item, false
	}
	return v.data[len(v.data)-1], true
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int { return len(v.data) }

// Cap returns the number of elements the vec can hold without growing.
func (v *Vec[T]) Cap() int { return cap(v.data) }

// IsEmpty reports whether the vec holds no elements.
func (v *Vec[T]) IsEmpty() bool { return len(v.data) == 0 }

// At returns the element at i. Panics if i is out of range.
func (v *Vec[T]) At(i int) T {
	v.check()
	return v.data[i]
}

// Set replaces the element at i. Panics if i is out of range.
func (v *Vec[T]) Set(i int, item T) {
	v.check()
	v.data[i] = item
}

// Ptr returns a pointer to the element at i. Panics if i is out of range.
// The pointer is invalidated by the next growth.
func (v *Vec[T]) Ptr(i int) *T {
	v.check()
	return &v.data[i]
}

// Slice returns the elements as a slice aliasing arena memory, clipped to its
// length. It is invalidated by the next growth.
func (v *Vec[T]) Slice() []T {
	v.check()
	return v.data[:len(v.data):len(v.data)]
}

// Truncate shortens the vec to n elements. It does nothing if n >= Len.
func (v *Vec[T]) Truncate(n int) {
	v.check()
	if n < 0 {
		panic(fmt.Sprintf("arena: negative truncate length %d", n))
	}
	if n < len(v.data) {
		v.data = v.data[:n]
	}
}

// Clear removes all elements. The capacity is unchanged.
func (v *Vec[T]) Clear() {
	v.Truncate(0)
}

// Reserve makes room for at least n more elements.
func (v *Vec[T]) Reserve(n int) {
	v.check()
	if n < 0 {
		panic(fmt.Sprintf("arena: negative reserve %d", n))
	}
	if cap(v.data)-len(v.data) < n {
		v.reserve(n)
	}
}

// ShrinkToFit gives the unused tail back to the arena when the vec's block is
// the arena's most recent allocation, and caps the vec at its length either way.
func (v *Vec[T]) ShrinkToFit() {
	v.check()
	if len(v.data) == cap(v.data) {
		return
	}
	if v.arena.shrinkLast(v.blockBytes(), elemSize[T]()*len(v.data)) {
		v.stamp = v.arena.stampTop()
	}
	v.data = v.data[:len(v.data):len(v.data)]
}

// All iterates over the elements with their indices.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}

// reserve grows the block to hold at least n more elements, doubling the
// capacity when that is enough.
func (v *Vec[T]) reserve(n int) {
	need := len(v.data) + n
	if need < len(v.data) {
		panic("arena: vec length overflows")
	}
	newCap := max(2*cap(v.data), need, 4)

	size := elemSize[T]()
	if size > 0 && newCap > math.MaxInt/size {
		panic(fmt.Sprintf("arena: %d elements of %d bytes overflow", newCap, size))
	}
	if size == 0 {
		v.data = make([]T, len(v.data), newCap)
		return
	}
	var zero T
	grown := v.arena.grow(v.blockBytes(), size*newCap, int(unsafe.Alignof(zero)))
	v.data = unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(grown))), newCap)[:len(v.data)]
	v.stamp = v.arena.stampTop()
}

func (v *Vec[T]) check() {
	v.arena.mustBeLive(v.stamp)
}

// blockBytes returns the bytes backing the full capacity.
func (v *Vec[T]) blockBytes() []byte {
	if cap(v.data) == 0 {
		return nil
	}
	return elemBytes(unsafe.SliceData(v.data), cap(v.data))
}

func elemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
