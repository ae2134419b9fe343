package arena

import (
	"fmt"
	"hash/maphash"
	"iter"
	"slices"
	"unsafe"
)

// Array is a fixed-capacity contiguous buffer allocated from an Arena.
// It never reallocates: pushing past its capacity panics.
//
// An Array must not outlive the region it was allocated in. Once the arena
// is reset below the array's block or released, every method panics.
type Array[T any] struct {
	arena *Arena
	data  []T // len(data) == capacity
	len   int
	stamp stamp
}

// NewArray allocates room for capacity elements of T in a.
// T must be pointer-free.
func NewArray[T any](a *Arena, capacity int) Array[T] {
	if capacity < 0 {
		panic(fmt.Sprintf("arena: negative array capacity %d", capacity))
	}
	mustBePointerFree[T]()
	b := allocElems[T](a, capacity)
	return Array[T]{
		arena: a,
		data:  unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), capacity),
		stamp: a.stampTop(),
	}
}

// Push appends item to the back of the array.
// Panics if the array is full.
func (arr *Array[T]) Push(item T) {
	arr.check()
	if arr.len == len(arr.data) {
		panic(fmt.Sprintf("arena: not enough capacity %d", len(arr.data)))
	}
	arr.data[arr.len] = item
	arr.len++
}

// Pop removes the last element and returns it. ok is false if the array is
// empty.
func (arr *Array[T]) Pop() (item T, ok bool) {
	arr.check()
	if arr.len == 0 {
		return item, false
	}
	arr.len--
	return arr.data[arr.len], true
}

// ExtendFromSlice copies items to the back of the array.
// Panics if the remaining capacity cannot hold all of them, in which case
// nothing is copied.
func (arr *Array[T]) ExtendFromSlice(items []T) {
	arr.check()
	if len(arr.data)-arr.len < len(items) {
		panic(fmt.Sprintf("arena: not enough capacity %d<%d", len(arr.data), arr.len+len(items)))
	}
	arr.len += copy(arr.data[arr.len:], items)
}

// Clear removes all elements. The capacity is unchanged.
func (arr *Array[T]) Clear() {
	arr.check()
	arr.len = 0
}

// ShrinkToFit gives the unused tail back to the arena when the array is the
// arena's most recent allocation, and caps the array at its length either way.
func (arr *Array[T]) ShrinkToFit() {
	arr.check()
	if len(arr.data) == arr.len {
		return
	}
	if arr.arena.shrinkLast(arr.blockBytes(), elemSize[T]()*arr.len) {
		arr.stamp = arr.arena.stampTop()
	}
	arr.data = arr.data[:arr.len:arr.len]
}

// Len returns the number of elements in the array.
func (arr *Array[T]) Len() int { return arr.len }

// Cap returns the fixed capacity of the array.
func (arr *Array[T]) Cap() int { return len(arr.data) }

// IsEmpty reports whether the array holds no elements.
func (arr *Array[T]) IsEmpty() bool { return arr.len == 0 }

// Slice returns the elements as a slice aliasing arena memory. Writes through
// it are visible to the array. Its capacity is clipped to its length so that
// append never writes into the array's spare room.
func (arr *Array[T]) Slice() []T {
	arr.check()
	return arr.data[:arr.len:arr.len]
}

// At returns the element at i. Panics if i is out of range.
func (arr *Array[T]) At(i int) T {
	arr.check()
	return arr.data[:arr.len][i]
}

// Set replaces the element at i. Panics if i is out of range.
func (arr *Array[T]) Set(i int, v T) {
	arr.check()
	arr.data[:arr.len][i] = v
}

// Ptr returns a pointer to the element at i. Panics if i is out of range.
func (arr *Array[T]) Ptr(i int) *T {
	arr.check()
	return &arr.data[:arr.len][i]
}

// All iterates over the elements with their indices.
func (arr *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < arr.Len(); i++ {
			if !yield(i, arr.At(i)) {
				return
			}
		}
	}
}

func (arr *Array[T]) check() {
	arr.arena.mustBeLive(arr.stamp)
}

// blockBytes returns the bytes backing the full capacity.
func (arr *Array[T]) blockBytes() []byte {
	if len(arr.data) == 0 {
		return nil
	}
	return elemBytes(&arr.data[0], len(arr.data))
}

// ArrayEqual reports whether a and b hold the same elements in the same order.
func ArrayEqual[T comparable](a, b *Array[T]) bool {
	return slices.Equal(a.Slice(), b.Slice())
}

// HashArray hashes the elements of arr. Arrays that are ArrayEqual hash to
// the same value for a given seed.
func HashArray[T comparable](seed maphash.Seed, arr *Array[T]) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	for _, v := range arr.Slice() {
		maphash.WriteComparable(&h, v)
	}
	return h.Sum64()
}
