// arenastat builds a synthetic size tree in an arena, ranks the largest
// subtrees using scratch space and prints a report together with the memory
// the arenas used to produce it.
package main

import (
	"flag"
	"fmt"
	"io"
	"iter"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/alecthomas/units"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/sizeexplorer/arena"
)

var logger = log.NewLogfmtLogger(os.Stderr)

// bytesValue is a flag.Value accepting sizes such as "512MiB" or "4GB".
type bytesValue uint64

func (b bytesValue) String() string { return units.Base2Bytes(b).String() }

func (b *bytesValue) Set(s string) error {
	v, err := units.ParseBase2Bytes(s)
	if err != nil {
		return err
	}
	*b = bytesValue(v)
	return nil
}

type config struct {
	nodes           int
	fanout          int
	top             int
	seed            uint64
	capacity        bytesValue
	scratchCapacity bytesValue
	reportCapacity  bytesValue
	logLevel        string
	metrics         bool
}

func (c *config) registerFlags(f *flag.FlagSet) {
	c.capacity = bytesValue(1 * units.GiB)
	c.scratchCapacity = bytesValue(256 * units.MiB)
	c.reportCapacity = bytesValue(64 * units.KiB)

	f.IntVar(&c.nodes, "nodes", 100000, "number of nodes in the generated tree")
	f.IntVar(&c.fanout, "fanout", 8, "children per node")
	f.IntVar(&c.top, "top", 10, "number of largest subtrees to list per level")
	f.Uint64Var(&c.seed, "seed", 1, "random seed for node sizes")
	f.Var(&c.capacity, "capacity", "address space reserved for the tree arena")
	f.Var(&c.scratchCapacity, "scratch-capacity", "address space reserved per scratch arena")
	f.Var(&c.reportCapacity, "report-capacity", "maximum size of the text report")
	f.BoolVar(&c.metrics, "metrics", false, "also print arena metrics in the Prometheus text format")
	f.StringVar(&c.logLevel, "log.level", "info", "only log messages with the given severity or above: debug, info, warn, error")
}

func (c *config) validate() error {
	if c.nodes < 1 {
		return errors.Errorf("-nodes must be at least 1, got %d", c.nodes)
	}
	if c.fanout < 1 {
		return errors.Errorf("-fanout must be at least 1, got %d", c.fanout)
	}
	if c.top < 1 {
		return errors.Errorf("-top must be at least 1, got %d", c.top)
	}
	return nil
}

func levelOption(name string) (level.Option, error) {
	switch name {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	}
	return nil, errors.Errorf("unrecognized log level %q", name)
}

func main() {
	var cfg config
	cfg.registerFlags(flag.CommandLine)
	flag.Parse()

	lvl, err := levelOption(cfg.logLevel)
	if err == nil {
		err = cfg.validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger = level.NewFilter(logger, lvl)

	if err := run(cfg, os.Stdout, logger); err != nil {
		level.Error(logger).Log("msg", "arenastat failed", "err", err)
		os.Exit(1)
	}
}

// entry is one node of the generated tree. Total is filled in after the tree
// is built and covers the node and all of its descendants.
type entry struct {
	ID    uint32
	Size  uint32
	Total uint64
}

func run(cfg config, out io.Writer, logger log.Logger) error {
	a := arena.NewArena(int(cfg.capacity), arena.WithLogger(logger))
	defer a.Release()
	pool := arena.NewScratchPool(arena.ScratchConfig{Capacity: int(cfg.scratchCapacity), Logger: logger})
	defer pool.Close()

	tree := buildTree(a, cfg)
	level.Info(logger).Log("msg", "tree built", "nodes", tree.Len(), "arena", a.Metrics())

	maxDepth := 0
	tree.Walk(func(_, depth int) bool {
		maxDepth = max(maxDepth, depth)
		return true
	})

	report := arena.NewString(a, int(cfg.reportCapacity))
	if err := report.Appendf("%d nodes, depth %d, total size %s\n",
		tree.Len(), maxDepth, humanize.IBytes(tree.Root().Total)); err != nil {
		return errors.Wrap(err, "writing report header")
	}

	truncated := false
	for idx, depth := range levels(&tree, 2) {
		if err := describe(&report, &tree, pool, a, idx, depth, cfg.top); err != nil {
			if errors.Is(err, arena.ErrNoCapacity) {
				truncated = true
				break
			}
			return err
		}
	}
	if truncated {
		level.Warn(logger).Log("msg", "report truncated", "capacity", humanize.IBytes(uint64(report.Cap())))
	}

	if _, err := io.WriteString(out, report.String()); err != nil {
		return errors.Wrap(err, "writing report")
	}
	fmt.Fprintf(out, "tree arena: %s\n", a.Metrics())
	for i, m := range pool.Metrics() {
		fmt.Fprintf(out, "scratch arena %d: %s\n", i, m)
	}

	if cfg.metrics {
		return writeMetrics(out, a, pool)
	}
	return nil
}

func writeMetrics(out io.Writer, a *arena.Arena, pool *arena.ScratchPool) error {
	c := arena.NewCollector("arenastat")
	c.AddArena("tree", a)
	c.AddScratchPool("scratch", pool)

	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return errors.Wrap(err, "registering arena collector")
	}
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering arena metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}

// buildTree attaches node i to node (i-1)/fanout, so parents always precede
// their children, and then folds sizes into subtree totals bottom-up.
func buildTree(a *arena.Arena, cfg config) arena.Tree[entry] {
	rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15))

	root := entry{ID: 0, Size: rng.Uint32N(4096)}
	tree := arena.NewTree(a, cfg.nodes, root)
	for i := 1; i < cfg.nodes; i++ {
		tree.AddChild((i-1)/cfg.fanout, entry{ID: uint32(i), Size: rng.Uint32N(4096)})
	}

	for i := tree.Len() - 1; i >= 0; i-- {
		e := tree.Ptr(i)
		e.Total += uint64(e.Size)
		if parent, ok := tree.Parent(i); ok {
			tree.Ptr(parent).Total += e.Total
		}
	}
	return tree
}

// levels yields the nodes above maxDepth in pre-order along with their depth.
func levels(tree *arena.Tree[entry], maxDepth int) iter.Seq2[int, int] {
	return func(yield func(idx, depth int) bool) {
		tree.Walk(func(idx, depth int) bool {
			if depth >= maxDepth || !tree.HasChildren(idx) {
				return true
			}
			return yield(idx, depth)
		})
	}
}

// describe appends the top largest children of idx to report. The ranking is
// done in a scratch region that is gone by the time describe returns.
func describe(report *arena.String, tree *arena.Tree[entry], pool *arena.ScratchPool, result *arena.Arena, idx, depth, top int) error {
	s := pool.Acquire(result)
	defer s.Release()

	ranked := arena.NewVec[int32](s.Arena, 0)
	for c := range tree.Children(idx) {
		ranked.Push(int32(c))
	}
	slices.SortFunc(ranked.Slice(), func(x, y int32) int {
		tx, ty := tree.Get(int(x)).Total, tree.Get(int(y)).Total
		switch {
		case tx > ty:
			return -1
		case tx < ty:
			return 1
		}
		return int(x - y)
	})

	parent := tree.Get(idx)
	if err := report.Appendf("%*snode %d (%s)\n", 2*depth, "", parent.ID, humanize.IBytes(parent.Total)); err != nil {
		return err
	}
	for _, c := range ranked.Slice()[:min(top, ranked.Len())] {
		child := tree.Get(int(c))
		share := float64(child.Total) / float64(parent.Total) * 100
		if err := report.Appendf("%*s%d: %s (%.1f%%)\n", 2*depth+2, "", child.ID, humanize.IBytes(child.Total), share); err != nil {
			return err
		}
	}
	return nil
}
