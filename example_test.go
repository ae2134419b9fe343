package arena

import (
	"fmt"
	"slices"
)

// Example demonstrates basic arena usage
func Example() {
	// Reserve address space; 1 KiB rounds up to one 64 KiB chunk
	a := NewArena(1024)
	defer a.Release() // Always clean up

	// Allocate raw bytes
	buf := a.AllocRaw(1000, 8)
	fmt.Printf("Allocated buffer of size: %d\n", len(buf))

	// Allocate a typed value (zeroed)
	ptr := AllocZeroed[int64](a)
	*ptr = 42
	fmt.Printf("Allocated int with value: %d\n", *ptr)

	// Allocate a slice
	slice := AllocSlice[int32](a, 5)
	for i := range slice {
		slice[i] = int32(i * 2)
	}
	fmt.Printf("Allocated slice: %v\n", slice)

	fmt.Println(a.Metrics())

	// Rewind for reuse
	a.Reset(0)
	fmt.Printf("After reset, memory in use: %d bytes\n", a.SizeInUse())

	// Output:
	// Allocated buffer of size: 1000
	// Allocated int with value: 42
	// Allocated slice: [0 2 4 6 8]
	// in use 1.0 KiB, committed 64 KiB of 64 KiB reserved (1.6% utilized)
	// After reset, memory in use: 0 bytes
}

// ExampleArray shows a fixed-capacity array filled to the brim.
func ExampleArray() {
	a := NewArena(1024)
	defer a.Release()

	arr := NewArray[uint32](a, 4)
	arr.ExtendFromSlice([]uint32{1, 2, 3})
	arr.Push(4)

	func() {
		defer func() { fmt.Println("recovered:", recover()) }()
		arr.Push(5)
	}()

	last, _ := arr.Pop()
	fmt.Println(arr.Slice(), last)

	// Output:
	// recovered: arena: not enough capacity 4
	// [1 2 3] 4
}

// ExampleTree builds a small tree and lists a node's children.
func ExampleTree() {
	a := NewArena(1024)
	defer a.Release()

	tree := NewTree[uint16](a, 8, 0)
	tree.AddChild(0, 10)
	tree.AddChild(0, 20)

	for c := range tree.Children(0) {
		fmt.Println(tree.Get(c))
	}

	// Output:
	// 20
	// 10
}

// ExampleScratchPool_Acquire sorts values in a scratch region and copies the
// result into a long-lived arena.
func ExampleScratchPool_Acquire() {
	pool := NewScratchPool(ScratchConfig{Capacity: 1 << 20})
	defer pool.Close()

	result := NewArena(1024)
	defer result.Release()

	input := []int32{5, 3, 9, 1}
	out := NewArray[int32](result, len(input))

	func() {
		s := pool.Acquire(result)
		defer s.Release()

		tmp := NewVec[int32](s.Arena, len(input))
		tmp.Append(input...)
		slices.Sort(tmp.Slice())
		out.ExtendFromSlice(tmp.Slice())
	}()

	fmt.Println(out.Slice())

	// Output:
	// [1 3 5 9]
}

// ExampleString formats text into an arena buffer.
func ExampleString() {
	a := NewArena(1024)
	defer a.Release()

	s := NewString(a, 64)
	s.PushStr("func ")
	_ = s.Appendf("%s: %d bytes", "main", 1234)
	fmt.Println(s.String())

	// Output:
	// func main: 1234 bytes
}
