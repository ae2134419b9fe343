// Package arena implements a region-based bump allocator backed by reserved
// virtual memory, and containers that live inside it.
// Typical usage: create one arena per unit of work, allocate many small
// objects and containers from it, then Release() it when the work is done.
package arena

import (
	"fmt"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/sizeexplorer/arena/internal/vmem"
)

// ChunkSize is the granularity (64 KiB) at which arenas reserve and commit memory.
const ChunkSize = 1 << 16

// Arena is a single-owner bump allocator over a reserved address range.
// Not goroutine-safe.
//
// The reserved range is [0, capacity), the committed range [0, committed)
// and the next free byte sits at offset. 0 <= offset <= committed <= capacity
// holds at all times and committed is always a multiple of ChunkSize.
type Arena struct {
	region    vmem.Region
	base      uintptr
	capacity  uintptr
	offset    uintptr
	committed uintptr

	gen     uint64
	rewinds []rewind

	logger log.Logger
}

// NewArena reserves capacity bytes of address space, rounded up to a multiple
// of ChunkSize. Nothing is committed until the first allocation.
// Panics if capacity is negative or the reservation fails.
func NewArena(capacity int, opts ...Option) *Arena {
	if capacity < 0 {
		panic(fmt.Sprintf("arena: negative capacity %d", capacity))
	}
	if capacity == 0 {
		capacity = ChunkSize
	}
	size := alignUp(uintptr(capacity), ChunkSize)
	if size < uintptr(capacity) || int(size) < 0 {
		panic(fmt.Sprintf("arena: capacity %d overflows", capacity))
	}

	region, err := vmem.Reserve(int(size))
	if err != nil {
		panic(fmt.Sprintf("arena: failed to reserve %s: %v", humanize.IBytes(uint64(size)), err))
	}

	a := &Arena{
		region:   region,
		base:     uintptr(unsafe.Pointer(unsafe.SliceData(region.Bytes()))),
		capacity: size,
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AllocRaw reserves size bytes aligned to align and returns them. The memory
// is uninitialized. align must be a power of two.
// Panics if the arena's reserved capacity is exhausted.
func (a *Arena) AllocRaw(size, align int) []byte {
	if align <= 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("arena: alignment %d is not a power of two", align))
	}
	if size < 0 {
		panic(fmt.Sprintf("arena: negative allocation size %d", size))
	}
	a.panicIfReleased()

	start := alignUp(a.base+a.offset, uintptr(align)) - a.base
	end := start + uintptr(size)
	if end < start || end > a.capacity {
		a.panicExhausted(end)
	}
	if end > a.committed {
		a.commit(end)
	}
	a.offset = end
	return a.region.Bytes()[start:end:end]
}

// AllocBytes returns n bytes aligned to the pointer size.
// Returns nil if n <= 0.
func (a *Arena) AllocBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return a.AllocRaw(n, int(unsafe.Sizeof(uintptr(0))))
}

// Offset returns the bump cursor: the number of bytes handed out so far,
// alignment padding included.
func (a *Arena) Offset() int {
	return int(a.offset)
}

// Reset rewinds the bump cursor to offset, which must not be beyond the
// current cursor. Everything allocated past offset is invalid afterwards:
// containers built there panic on their next use, raw slices into that range
// must not be touched by the caller.
func (a *Arena) Reset(offset int) {
	a.panicIfReleased()
	if offset < 0 || uintptr(offset) > a.offset {
		panic(fmt.Sprintf("arena: reset to %d beyond cursor %d", offset, a.offset))
	}
	if uintptr(offset) == a.offset {
		return
	}
	a.offset = uintptr(offset)
	a.recordRewind(a.offset)
}

// Shrink retracts the cursor to give back the tail of buf when buf is the
// most recent allocation. For any other buf it does nothing, a bump
// allocator cannot reclaim from the middle of its range.
// Returns buf truncated to newSize.
func (a *Arena) Shrink(buf []byte, newSize int) []byte {
	if newSize < 0 || newSize > len(buf) {
		panic(fmt.Sprintf("arena: cannot shrink %d bytes to %d", len(buf), newSize))
	}
	a.shrinkLast(buf, newSize)
	return buf[:newSize:newSize]
}

// shrinkLast is Shrink reporting whether the cursor moved.
func (a *Arena) shrinkLast(buf []byte, newSize int) bool {
	a.panicIfReleased()
	if !a.isLast(buf) {
		return false
	}
	a.offset -= uintptr(len(buf) - newSize)
	return true
}

// Release returns the reserved range to the OS. The arena and everything
// allocated from it are unusable afterwards. Calling Release twice is a no-op.
func (a *Arena) Release() {
	if a.region.IsZero() {
		return
	}
	region := a.region
	a.region = vmem.Region{}
	a.base = 0
	a.offset = 0
	a.committed = 0
	a.rewinds = nil
	if err := region.Release(); err != nil {
		panic(fmt.Sprintf("arena: failed to release %s: %v", humanize.IBytes(uint64(a.capacity)), err))
	}
}

// grow resizes buf, an allocation made with align, to newSize bytes. The most
// recent allocation is extended in place, anything else is copied into a
// fresh block and the old one is abandoned.
func (a *Arena) grow(buf []byte, newSize, align int) []byte {
	if newSize < len(buf) {
		panic(fmt.Sprintf("arena: cannot grow %d bytes to %d", len(buf), newSize))
	}
	a.panicIfReleased()
	if len(buf) > 0 && a.isLast(buf) {
		start := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) - a.base
		end := start + uintptr(newSize)
		if end < start || end > a.capacity {
			a.panicExhausted(end)
		}
		if end > a.committed {
			a.commit(end)
		}
		a.offset = end
		return a.region.Bytes()[start:end:end]
	}
	fresh := a.AllocRaw(newSize, align)
	copy(fresh, buf)
	return fresh
}

// isLast reports whether buf ends exactly at the bump cursor.
func (a *Arena) isLast(buf []byte) bool {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))+uintptr(len(buf)) == a.base+a.offset
}

// commit extends the committed high-water mark to cover end.
func (a *Arena) commit(end uintptr) {
	next := alignUp(end, ChunkSize)
	if next > a.capacity {
		a.panicExhausted(end)
	}
	if err := a.region.Commit(int(a.committed), int(next-a.committed)); err != nil {
		panic(fmt.Sprintf("arena: failed to commit memory: %v", err))
	}
	level.Debug(a.logger).Log("msg", "arena committed memory",
		"from", humanize.IBytes(uint64(a.committed)),
		"to", humanize.IBytes(uint64(next)),
		"capacity", humanize.IBytes(uint64(a.capacity)))
	a.committed = next
}

func (a *Arena) panicExhausted(end uintptr) {
	panic(fmt.Sprintf("arena: not enough capacity: need %d bytes, reserved %s",
		end, humanize.IBytes(uint64(a.capacity))))
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.region.IsZero() {
		panic("arena: use after Release()")
	}
}

// alignUp rounds off up to the next multiple of align, a power of two.
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}
