package sim

import (
	"fmt"

	"github.com/san-kum/seonet/internal/seo"
)

// Network is the set of oscillators the simulator drives. Connections are
// taken from each oscillator as wired by the network.
type Network interface {
	Nodes() []*seo.Oscillator
}

// Event is one applied tunneling event.
type Event struct {
	Time      float64       `json:"time"`
	Node      int           `json:"node"`
	Direction seo.Direction `json:"direction"`
	WaitTime  float64       `json:"wait_time"`
	Voltage   float64       `json:"voltage"`
}

type Observer interface {
	OnStep(v []float64, t float64)
}

type EventObserver interface {
	OnEvent(e Event)
}

type Metric interface {
	Name() string
	Observe(v []float64, t float64)
	Record(e Event)
	Value() float64
	Reset()
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	// Stochastic samples each wait time from an exponential distribution with
	// the oscillator's wait time as mean. Otherwise the mean is used directly.
	Stochastic bool
	// MaxEventsPerStep bounds the tunnel events applied per step. Zero
	// disables tunneling and leaves only the RC charging.
	MaxEventsPerStep   int
	CouplingIterations int
	SampleEvery        int
	Units              seo.Units
}

func DefaultConfig() Config {
	return Config{
		Dt:                 1e-10,
		Duration:           1e-6,
		MaxEventsPerStep:   64,
		CouplingIterations: 8,
		SampleEvery:        1,
		Units:              seo.DefaultUnits,
	}
}

type Result struct {
	Times      []float64
	Voltages   [][]float64
	Events     []Event
	Metrics    map[string]float64
	StepsTaken int
}

// EventCounts tallies events per node and direction.
func (r *Result) EventCounts() map[int]map[seo.Direction]int {
	counts := make(map[int]map[seo.Direction]int)
	for _, e := range r.Events {
		if counts[e.Node] == nil {
			counts[e.Node] = make(map[seo.Direction]int)
		}
		counts[e.Node][e.Direction]++
	}
	return counts
}

// Trace returns the sampled voltage of one node.
func (r *Result) Trace(node int) []float64 {
	out := make([]float64, 0, len(r.Voltages))
	for _, v := range r.Voltages {
		if node < len(v) {
			out = append(out, v[node])
		}
	}
	return out
}

type SimError struct {
	Time    float64
	Step    int
	Message string
	Wrapped error
}

func (e SimError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("step %d (t=%.4g): %s: %v", e.Step, e.Time, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4g): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return e.Wrapped }
