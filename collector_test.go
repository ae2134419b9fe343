package arena

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	a := NewArena(4 * ChunkSize)
	defer a.Release()
	a.AllocRaw(1000, 8)

	pool := newTestPool(t)
	s := pool.Acquire()
	s.AllocRaw(ChunkSize+1, 1)
	defer s.Release()

	c := NewCollector("sizeexplorer")
	c.AddArena("tree", a)
	c.AddScratchPool("scratch", pool)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	expected := `
		# HELP sizeexplorer_arena_committed_bytes Bytes of the arena backed by physical memory.
		# TYPE sizeexplorer_arena_committed_bytes gauge
		sizeexplorer_arena_committed_bytes{arena="scratch/0"} 131072
		sizeexplorer_arena_committed_bytes{arena="tree"} 65536
		# HELP sizeexplorer_arena_in_use_bytes Bytes handed out by the arena, alignment padding included.
		# TYPE sizeexplorer_arena_in_use_bytes gauge
		sizeexplorer_arena_in_use_bytes{arena="scratch/0"} 65537
		sizeexplorer_arena_in_use_bytes{arena="tree"} 1000
		# HELP sizeexplorer_arena_reserved_bytes Bytes of address space reserved by the arena.
		# TYPE sizeexplorer_arena_reserved_bytes gauge
		sizeexplorer_arena_reserved_bytes{arena="scratch/0"} 1.048576e+06
		sizeexplorer_arena_reserved_bytes{arena="tree"} 262144
	`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}

func TestCollectorSkipsUnusedPoolMembers(t *testing.T) {
	pool := newTestPool(t)
	c := NewCollector("")
	c.AddScratchPool("scratch", pool)

	require.Equal(t, 0, testutil.CollectAndCount(c))

	s1 := pool.Acquire()
	s2 := pool.Acquire(s1.Arena)
	require.Equal(t, 6, testutil.CollectAndCount(c))
	s2.Release()
	s1.Release()

	pool.Close()
	require.Equal(t, 0, testutil.CollectAndCount(c))
}
