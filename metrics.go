package arena

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// SizeInUse returns the number of bytes handed out, alignment padding included.
func (a *Arena) SizeInUse() int {
	return int(a.offset)
}

// Committed returns the number of bytes backed by physical memory.
func (a *Arena) Committed() int {
	return int(a.committed)
}

// Capacity returns the number of bytes of address space reserved.
// Returns 0 after Release.
func (a *Arena) Capacity() int {
	if a.region.IsZero() {
		return 0
	}
	return int(a.capacity)
}

// Utilization returns the ratio of bytes in use to committed bytes (0.0 to 1.0).
// Returns 0.0 if nothing is committed.
func (a *Arena) Utilization() float64 {
	if a.committed == 0 {
		return 0
	}
	return float64(a.offset) / float64(a.committed)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   a.SizeInUse(),
		Committed:   a.Committed(),
		Capacity:    a.Capacity(),
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Bytes currently allocated
	Committed   int     // Bytes backed by physical memory
	Capacity    int     // Bytes of address space reserved
	Utilization float64 // Ratio of used to committed bytes (0.0-1.0)
}

func (m ArenaMetrics) String() string {
	return fmt.Sprintf("in use %s, committed %s of %s reserved (%.1f%% utilized)",
		humanize.IBytes(uint64(m.SizeInUse)),
		humanize.IBytes(uint64(m.Committed)),
		humanize.IBytes(uint64(m.Capacity)),
		m.Utilization*100)
}
