package metrics

import (
	"github.com/san-kum/seonet/internal/seo"
	"github.com/san-kum/seonet/internal/sim"
)

// MeanVoltage averages every node voltage over all observed steps.
type MeanVoltage struct {
	sum     float64
	samples int
}

func NewMeanVoltage() *MeanVoltage { return &MeanVoltage{} }

func (m *MeanVoltage) Name() string { return "mean_voltage" }

func (m *MeanVoltage) Observe(v []float64, t float64) {
	for _, x := range v {
		m.sum += x
		m.samples++
	}
}

func (m *MeanVoltage) Record(e sim.Event) {}

func (m *MeanVoltage) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanVoltage) Reset() {
	m.sum = 0
	m.samples = 0
}

// Defaults returns the metrics attached to every CLI run over nodes.
func Defaults(nodes []*seo.Oscillator, u seo.Units) []sim.Metric {
	return []sim.Metric{
		NewTunnelCount(),
		NewDirectionCount(seo.Up),
		NewDirectionCount(seo.Down),
		NewFiringRate(),
		NewMeanVoltage(),
		NewStability(2, nodes, u),
	}
}
