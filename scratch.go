package arena

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// scratchSlots is the number of arenas in a ScratchPool. Two are enough for a
// function to take a scratch region while its caller's result arena is
// itself a scratch arena.
const scratchSlots = 2

// DefaultScratchCapacity is the address space reserved for each scratch
// arena: 32 GiB on 64-bit platforms, 256 MiB on 32-bit ones. Only the bytes
// actually touched are committed.
const DefaultScratchCapacity = 256 << 20 << (7 * (^uint(0) >> 63))

// ScratchConfig configures a ScratchPool.
type ScratchConfig struct {
	// Capacity reserved per scratch arena. Zero means DefaultScratchCapacity.
	Capacity int
	// Logger receives a debug line whenever a pool member is created.
	Logger log.Logger
}

// ScratchPool lends out scratch arenas for short-lived, stack-disciplined
// temporary allocation. Members are created on first use and reused after.
// A ScratchPool is not goroutine-safe.
type ScratchPool struct {
	cfg   ScratchConfig
	slots [scratchSlots]*Arena
}

// NewScratchPool returns a pool with no members reserved yet.
func NewScratchPool(cfg ScratchConfig) *ScratchPool {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultScratchCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
	return &ScratchPool{cfg: cfg}
}

// Scratch is a temporary region of a pool arena. It embeds the arena, so it
// allocates like one. Release rewinds the arena to where it stood when the
// Scratch was acquired.
type Scratch struct {
	*Arena
	mark     int
	released bool
}

// Acquire returns a scratch region on a pool member that is not in excluded.
// Pass the arenas the caller is currently writing results into, so the
// region never rewinds memory they hold.
// Panics if every member is excluded.
func (p *ScratchPool) Acquire(excluded ...*Arena) Scratch {
	for i, a := range p.slots {
		if a == nil {
			a = NewArena(p.cfg.Capacity, WithLogger(p.cfg.Logger))
			p.slots[i] = a
			level.Debug(p.cfg.Logger).Log("msg", "scratch arena reserved", "slot", i,
				"capacity", humanize.IBytes(uint64(a.capacity)))
		} else if slices.Contains(excluded, a) {
			continue
		}
		return Scratch{Arena: a, mark: a.Offset()}
	}
	panic(fmt.Sprintf("arena: all %d scratch arenas are excluded", scratchSlots))
}

// Release gives the region back: everything allocated through s since it was
// acquired is reclaimed. Regions must be released in the reverse order they
// were acquired on the same arena. Releasing twice is a no-op.
func (s *Scratch) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.mark > s.Offset() {
		panic(fmt.Sprintf("arena: scratch region at %d released after an older region on the same arena", s.mark))
	}
	s.Reset(s.mark)
}

// Metrics returns a snapshot for each pool member created so far.
func (p *ScratchPool) Metrics() []ArenaMetrics {
	var out []ArenaMetrics
	for _, a := range p.slots {
		if a != nil {
			out = append(out, a.Metrics())
		}
	}
	return out
}

// Close releases every pool member. The pool may be used again afterwards and
// will reserve fresh members.
func (p *ScratchPool) Close() {
	for i, a := range p.slots {
		if a != nil {
			a.Release()
			p.slots[i] = nil
		}
	}
}

// defaultScratchPool backs AcquireScratch. It is process-wide state with no
// synchronization: only one goroutine may use it.
var defaultScratchPool *ScratchPool

// AcquireScratch acquires a scratch region from the process-wide pool,
// creating the pool on first use. The pool is not goroutine-safe, callers
// that need scratch space on several goroutines should give each one its own
// ScratchPool.
func AcquireScratch(excluded ...*Arena) Scratch {
	if defaultScratchPool == nil {
		defaultScratchPool = NewScratchPool(ScratchConfig{})
	}
	return defaultScratchPool.Acquire(excluded...)
}
