package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/seonet/internal/seo"
	"github.com/san-kum/seonet/internal/sim"
)

func TestTunnelCount(t *testing.T) {
	all := NewTunnelCount()
	up := NewDirectionCount(seo.Up)

	for _, d := range []seo.Direction{seo.Up, seo.Down, seo.Up} {
		e := sim.Event{Direction: d}
		all.Record(e)
		up.Record(e)
	}

	if all.Value() != 3 {
		t.Errorf("expected 3 events, got %v", all.Value())
	}
	if up.Value() != 2 {
		t.Errorf("expected 2 up events, got %v", up.Value())
	}
	if up.Name() != "tunnels_up" {
		t.Errorf("unexpected name %q", up.Name())
	}

	all.Reset()
	if all.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestFiringRate(t *testing.T) {
	f := NewFiringRate()
	if f.Value() != 0 {
		t.Error("expected zero rate before observations")
	}
	f.Observe([]float64{0, 0}, 0.5)
	f.Record(sim.Event{})
	f.Record(sim.Event{})
	if got := f.Value(); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected 2 events/node/s, got %v", got)
	}
}

func TestMeanVoltage(t *testing.T) {
	m := NewMeanVoltage()
	m.Observe([]float64{1, 3}, 0)
	m.Observe([]float64{2, 2}, 1)
	if got := m.Value(); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected mean 2, got %v", got)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestStability(t *testing.T) {
	// a couples to b, so a has the larger Ctot and the lower threshold:
	// 4.005 mV for a, 4.451 mV for b.
	a := seo.New(1.0, 0.001, 18.0, 2, 0.007, 1)
	b := seo.New(1.0, 0.001, 18.0, 2, 0.007, 1)
	if err := a.SetConnections([]*seo.Oscillator{b}); err != nil {
		t.Fatalf("connect: %v", err)
	}

	s := NewStability(1, []*seo.Oscillator{a, b}, seo.DefaultUnits)
	if s.Value() != 1.0 {
		t.Error("expected stability 1 with no samples")
	}

	tests := []struct {
		name string
		v    []float64
		want float64
	}{
		{"inside both bands", []float64{0.0039, -0.0044}, 1.0},
		{"a above its threshold", []float64{0.0042, 0.0042}, 0.5},
		{"b below minus its threshold", []float64{0, -0.0046}, 1.0 / 3},
	}
	for _, tt := range tests {
		s.Observe(tt.v, 0)
		if got := s.Value(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}

	s.Reset()
	if s.Value() != 1.0 {
		t.Error("expected stability 1 after reset")
	}

	wide := NewStability(2, []*seo.Oscillator{a, b}, seo.DefaultUnits)
	wide.Observe([]float64{0.0042, 0.0046}, 0)
	if wide.Value() != 1.0 {
		t.Error("factor 2 should accept voltages just past threshold")
	}
}

func TestDefaultsAreNamedUniquely(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults([]*seo.Oscillator{seo.New(1.0, 0.001, 18.0, 2, 0.007, 1)}, seo.DefaultUnits) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %q", m.Name())
		}
		seen[m.Name()] = true
	}
}
