package arena

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var _ prometheus.Collector = &Collector{}

// Collector exports memory statistics of a set of arenas and scratch pools
// as Prometheus gauges labelled by arena name.
//
// Collect reads arena state without synchronization, so gather from the
// goroutine that owns the arenas.
type Collector struct {
	inUse     *prometheus.Desc
	committed *prometheus.Desc
	reserved  *prometheus.Desc

	arenas []namedArena
	pools  []namedPool
}

type namedArena struct {
	name  string
	arena *Arena
}

type namedPool struct {
	name string
	pool *ScratchPool
}

// NewCollector returns a Collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	labels := []string{"arena"}
	return &Collector{
		inUse: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "in_use_bytes"),
			"Bytes handed out by the arena, alignment padding included.",
			labels, nil),
		committed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "committed_bytes"),
			"Bytes of the arena backed by physical memory.",
			labels, nil),
		reserved: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "reserved_bytes"),
			"Bytes of address space reserved by the arena.",
			labels, nil),
	}
}

// AddArena exports a under name.
func (c *Collector) AddArena(name string, a *Arena) {
	c.arenas = append(c.arenas, namedArena{name: name, arena: a})
}

// AddScratchPool exports the members of p created so far, as name/0, name/1.
func (c *Collector) AddScratchPool(name string, p *ScratchPool) {
	c.pools = append(c.pools, namedPool{name: name, pool: p})
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.inUse
	descs <- c.committed
	descs <- c.reserved
}

func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	for _, a := range c.arenas {
		c.collect(metrics, a.name, a.arena.Metrics())
	}
	for _, p := range c.pools {
		for i, m := range p.pool.Metrics() {
			c.collect(metrics, p.name+"/"+strconv.Itoa(i), m)
		}
	}
}

func (c *Collector) collect(metrics chan<- prometheus.Metric, name string, m ArenaMetrics) {
	metrics <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(m.SizeInUse), name)
	metrics <- prometheus.MustNewConstMetric(c.committed, prometheus.GaugeValue, float64(m.Committed), name)
	metrics <- prometheus.MustNewConstMetric(c.reserved, prometheus.GaugeValue, float64(m.Capacity), name)
}
