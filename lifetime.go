package arena

import "sort"

// rewind records a Reset that moved the cursor back to off.
type rewind struct {
	gen uint64
	off uintptr
}

// stamp ties a container's block to the arena state it was allocated in.
type stamp struct {
	gen uint64
	end uintptr
}

// recordRewind bumps the generation and pushes the rewind on a stack kept
// strictly increasing in offset. Rewinds dominated by a later, lower one are
// dropped, so the first entry newer than a stamp is the lowest point the
// cursor reached since that stamp was taken.
func (a *Arena) recordRewind(off uintptr) {
	a.gen++
	n := len(a.rewinds)
	for n > 0 && a.rewinds[n-1].off >= off {
		n--
	}
	a.rewinds = append(a.rewinds[:n], rewind{gen: a.gen, off: off})
}

// stampTop returns a stamp for the most recent allocation, the block that
// ends at the bump cursor.
func (a *Arena) stampTop() stamp {
	return stamp{gen: a.gen, end: a.offset}
}

// live reports whether a block stamped with s is still backed by this arena.
func (a *Arena) live(s stamp) bool {
	if a.region.IsZero() {
		return false
	}
	if s.gen == a.gen {
		return true
	}
	i := sort.Search(len(a.rewinds), func(i int) bool { return a.rewinds[i].gen > s.gen })
	return i == len(a.rewinds) || a.rewinds[i].off >= s.end
}

// mustBeLive panics if the block stamped with s has been reclaimed.
func (a *Arena) mustBeLive(s stamp) {
	if a == nil {
		panic("arena: container used before initialization")
	}
	if !a.live(s) {
		panic("arena: container used after its arena region was reset or released")
	}
}
