package metrics

import (
	"math"

	"github.com/san-kum/seonet/internal/seo"
	"github.com/san-kum/seonet/internal/sim"
)

// Stability is the fraction of steps in which every node voltage stays within
// factor times its own tunneling threshold q/(2·Ctot). A node outside that
// band is charging faster than tunneling can relax it.
type Stability struct {
	factor     float64
	thresholds []float64
	violations int
	samples    int
}

// NewStability takes each node's threshold from its capacitance and
// connection count, matching the simulator's voltage solve.
func NewStability(factor float64, nodes []*seo.Oscillator, u seo.Units) *Stability {
	th := make([]float64, len(nodes))
	for i, o := range nodes {
		th[i] = seo.Threshold(seo.ElementaryCharge, o.TotalCapacitance(u, o.NumConnections()))
	}
	return &Stability{factor: factor, thresholds: th}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(v []float64, t float64) {
	s.samples++
	for i, val := range v {
		if i < len(s.thresholds) && math.Abs(val) > s.factor*s.thresholds[i] {
			s.violations++
			return
		}
	}
}

func (s *Stability) Record(e sim.Event) {}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
