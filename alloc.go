package arena

import (
	"fmt"
	"math"
	"unsafe"
)

// AnyBits is implemented by types for which every bit pattern of the right
// size and alignment is a valid value: plain numeric structs, byte arrays,
// packed records. Implementing it is a promise, nothing checks it.
type AnyBits interface {
	AnyBits()
}

// Go defines the all-zero bit pattern as the zero value of every type, so any
// pointer-free type may be allocated zeroed without a capability marker.

// AllocUninitialized returns a *T located in the arena without zeroing memory.
// The caller must initialize the value before reading it.
func AllocUninitialized[T any](a *Arena) *T {
	mustBePointerFree[T]()
	var zero T
	b := a.AllocRaw(int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero)))
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// AllocAnyBits returns a *T located in the arena. The memory is not zeroed,
// which is fine because T accepts whatever bytes are there.
func AllocAnyBits[T AnyBits](a *Arena) *T {
	return AllocUninitialized[T](a)
}

// AllocZeroed returns a pointer to a zero T stored inside the arena.
// The returned pointer is valid until the arena is reset below it or released.
func AllocZeroed[T any](a *Arena) *T {
	p := AllocUninitialized[T](a)
	var zero T
	clear(unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(zero)))
	return p
}

// AllocSlice allocates a slice of n elements of type T inside the arena.
// The slice elements are not initialized (contain garbage data).
// Returns nil if n <= 0.
func AllocSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	mustBePointerFree[T]()
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(allocElems[T](a, n)))), n)
}

// AllocSliceZeroed allocates a slice of n zero elements of type T.
func AllocSliceZeroed[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	mustBePointerFree[T]()
	b := allocElems[T](a, n)
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// allocElems allocates raw storage for n values of T.
func allocElems[T any](a *Arena, n int) []byte {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size > 0 && n > math.MaxInt/size {
		panic(fmt.Sprintf("arena: %d elements of %d bytes overflow", n, size))
	}
	return a.AllocRaw(size*n, int(unsafe.Alignof(zero)))
}

// elemBytes views the n elements starting at p as bytes.
func elemBytes[T any](p *T, n int) []byte {
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(unsafe.Sizeof(zero))*n)
}
