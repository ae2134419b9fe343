// Package arena implements a region-based bump allocator (memory arena) for
// Go, and arena-backed containers.
//
// # Overview
//
// An Arena reserves a large range of virtual address space up front and
// commits physical memory in 64 KiB chunks as allocations reach into it.
// Memory is never freed per object. It is reclaimed in bulk, by rewinding the
// bump cursor with Reset or by handing the whole range back with Release.
//
// # Basic Usage
//
//	a := arena.NewArena(16 << 30) // reserve 16 GiB, commit nothing yet
//	defer a.Release()
//
//	// Raw bytes
//	buf := a.AllocRaw(1024, 16)
//
//	// Typed values
//	p := arena.AllocZeroed[Header](a)
//	s := arena.AllocSlice[uint32](a, 100)
//
//	// Containers
//	arr := arena.NewArray[int32](a, 4)
//	arr.Push(1)
//	vec := arena.NewVec[uint64](a, 0)
//	vec.Push(7)
//	str := arena.NewStringFrom(a, "hello")
//	tree := arena.NewTree[uint32](a, 16, 0)
//	tree.AddChild(0, 1)
//
// # Scratch Arenas
//
// Short-lived work takes a scratch region instead of growing a long-lived
// arena:
//
//	s := arena.AcquireScratch(result)
//	defer s.Release()
//	tmp := arena.NewArray[int](s.Arena, n)
//
// Passing result keeps the region from landing on the arena the caller is
// writing into, when that arena is itself a scratch arena.
//
// # Lifetimes
//
// Containers must not outlive the region they were allocated in. Each one
// remembers where its block ends. After a Reset below that point, or after
// Release, any use of the container panics. Slices and pointers returned by
// containers and allocators carry no such check; the caller must stop using
// them before the region goes away.
//
// # Element Types
//
// The garbage collector does not scan arena memory. Allocators and
// containers therefore only accept pointer-free types: numbers, bools, and
// arrays and structs of those. Other types panic at construction.
//
// # Thread Safety
//
// Arenas, containers and scratch pools are not goroutine-safe. The
// process-wide pool behind AcquireScratch must only be used from one
// goroutine; create a ScratchPool per goroutine otherwise.
package arena
