package metrics

import (
	"github.com/san-kum/seonet/internal/seo"
	"github.com/san-kum/seonet/internal/sim"
)

// TunnelCount counts applied events, optionally for one direction only.
type TunnelCount struct {
	name  string
	dir   seo.Direction
	count int
}

func NewTunnelCount() *TunnelCount {
	return &TunnelCount{name: "tunnels"}
}

func NewDirectionCount(d seo.Direction) *TunnelCount {
	return &TunnelCount{name: "tunnels_" + d.String(), dir: d}
}

func (c *TunnelCount) Name() string                   { return c.name }
func (c *TunnelCount) Observe(v []float64, t float64) {}
func (c *TunnelCount) Value() float64                 { return float64(c.count) }
func (c *TunnelCount) Reset()                         { c.count = 0 }

func (c *TunnelCount) Record(e sim.Event) {
	if c.dir == "" || e.Direction == c.dir {
		c.count++
	}
}

// FiringRate is events per node per second of simulated time.
type FiringRate struct {
	events int
	nodes  int
	last   float64
}

func NewFiringRate() *FiringRate { return &FiringRate{} }

func (f *FiringRate) Name() string { return "firing_rate" }

func (f *FiringRate) Observe(v []float64, t float64) {
	f.nodes = len(v)
	f.last = t
}

func (f *FiringRate) Record(e sim.Event) { f.events++ }

func (f *FiringRate) Value() float64 {
	if f.last <= 0 || f.nodes == 0 {
		return 0
	}
	return float64(f.events) / float64(f.nodes) / f.last
}

func (f *FiringRate) Reset() {
	f.events = 0
	f.nodes = 0
	f.last = 0
}
