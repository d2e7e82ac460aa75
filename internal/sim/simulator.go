package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/san-kum/seonet/internal/logging"
	"github.com/san-kum/seonet/internal/seo"
)

// Simulator advances a network of oscillators in fixed steps. Within a step
// it applies tunneling events in order of increasing wait time until the next
// one would fall outside the step, then charges every node through its
// series resistor.
type Simulator struct {
	nodes     []*seo.Oscillator
	neighbors [][]int
	coupled   bool
	metrics   []Metric
	observers []Observer
	events    []EventObserver
	logger    *slog.Logger

	charge  []float64
	voltage []float64
	scratch []float64
	rng     *rand.Rand

	// manual stepping state, see Begin
	cfg     Config
	t       float64
	stepIdx int
	begun   bool
}

func New(net Network) (*Simulator, error) {
	nodes := net.Nodes()
	index := make(map[*seo.Oscillator]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	neighbors := make([][]int, len(nodes))
	coupled := false
	for i, n := range nodes {
		for _, c := range n.Connections() {
			j, ok := index[c]
			if !ok {
				return nil, fmt.Errorf("%w: node %d connects outside the network", seo.ErrInvalidTopology, i)
			}
			neighbors[i] = append(neighbors[i], j)
			coupled = true
		}
	}

	return &Simulator{
		nodes:     nodes,
		neighbors: neighbors,
		coupled:   coupled,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		events:    make([]EventObserver, 0),
		logger:    slog.New(slog.DiscardHandler),
		charge:    make([]float64, len(nodes)),
		voltage:   make([]float64, len(nodes)),
		scratch:   make([]float64, len(nodes)),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)               { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)           { s.observers = append(s.observers, o) }
func (s *Simulator) AddEventObserver(o EventObserver) { s.events = append(s.events, o) }
func (s *Simulator) SetLogger(l *slog.Logger)         { s.logger = l }
func (s *Simulator) Nodes() []*seo.Oscillator         { return s.nodes }
func (s *Simulator) Voltages() []float64              { return append([]float64(nil), s.voltage...) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	cfg = withDefaults(cfg)

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Times:    make([]float64, 0, steps/cfg.SampleEvery+1),
		Voltages: make([][]float64, 0, steps/cfg.SampleEvery+1),
		Events:   make([]Event, 0),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	s.reset(cfg)

	t := 0.0
	s.updateVoltages(cfg)
	result.Times = append(result.Times, t)
	result.Voltages = append(result.Voltages, s.Voltages())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(s.voltage, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.voltage, t)
		}

		evs, err := s.step(cfg, t)
		if err != nil {
			return result, SimError{Time: t, Step: i, Message: "wait time calculation failed", Wrapped: err}
		}
		for _, e := range evs {
			s.emit(e)
		}
		result.Events = append(result.Events, evs...)

		t += cfg.Dt
		result.StepsTaken++

		if (i+1)%cfg.SampleEvery == 0 {
			result.Times = append(result.Times, t)
			result.Voltages = append(result.Voltages, s.Voltages())
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run complete",
		"nodes", len(s.nodes),
		"steps", result.StepsTaken,
		"events", len(result.Events),
	)
	return result, nil
}

// RunWithCallback steps until the duration elapses or callback returns false.
// The callback receives the node voltages at the start of each step and the
// events applied during the previous one.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(v []float64, events []Event, t float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	cfg = withDefaults(cfg)
	s.reset(cfg)
	s.updateVoltages(cfg)

	var last []Event
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.voltage, last, t) {
			return nil
		}

		evs, err := s.step(cfg, t)
		if err != nil {
			return SimError{Time: t, Step: i, Message: "wait time calculation failed", Wrapped: err}
		}
		for _, e := range evs {
			s.emit(e)
		}
		last = evs
		t += cfg.Dt
	}
	return nil
}

// Begin resets the network and metrics for manual stepping with Advance.
func (s *Simulator) Begin(cfg Config) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	s.cfg = withDefaults(cfg)
	for _, m := range s.metrics {
		m.Reset()
	}
	s.reset(s.cfg)
	s.updateVoltages(s.cfg)
	s.t, s.stepIdx = 0, 0
	s.begun = true
	return nil
}

// Advance runs one step after Begin and returns the events applied in it.
// It returns no events once the duration has elapsed.
func (s *Simulator) Advance() ([]Event, error) {
	if !s.begun {
		return nil, fmt.Errorf("advance called before begin")
	}
	if s.Done() {
		return nil, nil
	}
	for _, m := range s.metrics {
		m.Observe(s.voltage, s.t)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.voltage, s.t)
	}
	evs, err := s.step(s.cfg, s.t)
	if err != nil {
		return nil, SimError{Time: s.t, Step: s.stepIdx, Message: "wait time calculation failed", Wrapped: err}
	}
	for _, e := range evs {
		s.emit(e)
	}
	s.t += s.cfg.Dt
	s.stepIdx++
	return evs, nil
}

func (s *Simulator) Time() float64 { return s.t }

// Done reports whether manual stepping has reached the configured duration.
func (s *Simulator) Done() bool {
	return s.begun && s.stepIdx >= int(math.Round(s.cfg.Duration/s.cfg.Dt))
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", cfg.Duration)
	}
	if cfg.MaxEventsPerStep < 0 {
		return fmt.Errorf("max events per step must not be negative, got %d", cfg.MaxEventsPerStep)
	}
	if len(s.nodes) == 0 {
		return fmt.Errorf("network has no oscillators")
	}
	return nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.CouplingIterations <= 0 {
		cfg.CouplingIterations = def.CouplingIterations
	}
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = def.SampleEvery
	}
	if cfg.Units == (seo.Units{}) {
		cfg.Units = def.Units
	}
	return cfg
}

func (s *Simulator) reset(cfg Config) {
	for i := range s.charge {
		s.charge[i] = 0
		s.voltage[i] = 0
	}
	s.rng = rand.New(rand.NewSource(cfg.Seed))
}

func (s *Simulator) emit(e Event) {
	for _, m := range s.metrics {
		m.Record(e)
	}
	for _, o := range s.events {
		o.OnEvent(e)
	}
	s.logger.Log(context.Background(), logging.LevelTrace, "tunnel",
		"t", e.Time, "node", e.Node, "dir", e.Direction, "wt", e.WaitTime)
}

// step advances one interval of cfg.Dt starting at t.
func (s *Simulator) step(cfg Config, t float64) ([]Event, error) {
	var events []Event
	elapsed := 0.0

	for n := 0; n < cfg.MaxEventsPerStep; n++ {
		s.updateVoltages(cfg)
		node, dir, wait, err := s.nextEvent(cfg)
		if err != nil {
			return events, err
		}
		if node < 0 || elapsed+wait > cfg.Dt {
			break
		}
		elapsed += wait

		v := s.voltage[node]
		switch dir {
		case seo.Up:
			s.charge[node] -= seo.ElementaryCharge
		case seo.Down:
			s.charge[node] += seo.ElementaryCharge
		}
		events = append(events, Event{Time: t + elapsed, Node: node, Direction: dir, WaitTime: wait, Voltage: v})
	}

	s.updateVoltages(cfg)
	for i, o := range s.nodes {
		r, _, _, _, vd := o.Params().SI(cfg.Units)
		if r <= 0 {
			continue
		}
		s.charge[i] += cfg.Dt * (vd - s.voltage[i]) / r
	}
	s.updateVoltages(cfg)

	return events, nil
}

// nextEvent records the energy change of both junction directions on every
// oscillator, recalculates wait times and returns the earliest event. node is
// -1 when nothing can tunnel.
func (s *Simulator) nextEvent(cfg Config) (node int, dir seo.Direction, wait float64, err error) {
	node = -1
	for i, o := range s.nodes {
		ctot := o.TotalCapacitance(cfg.Units, len(s.neighbors[i]))
		up, down := seo.TunnelEnergy(seo.ElementaryCharge, s.voltage[i], ctot)
		o.SetDE(seo.Up, up)
		o.SetDE(seo.Down, down)
		if err := o.CalculateTunnelWt(); err != nil {
			return -1, "", 0, fmt.Errorf("node %d: %w", i, err)
		}

		for _, d := range [...]seo.Direction{seo.Up, seo.Down} {
			wt := o.WT(d)
			if wt <= 0 {
				continue
			}
			if cfg.Stochastic {
				wt *= s.rng.ExpFloat64()
			}
			if node < 0 || wt < wait {
				node, dir, wait = i, d, wt
			}
		}
	}
	return node, dir, wait, nil
}

// updateVoltages solves V_i = (Q_i + C·ΣV_j)/Ctot_i by Jacobi iteration.
func (s *Simulator) updateVoltages(cfg Config) {
	for iter := 0; iter < cfg.CouplingIterations; iter++ {
		for i, o := range s.nodes {
			_, _, _, c, _ := o.Params().SI(cfg.Units)
			ctot := o.TotalCapacitance(cfg.Units, len(s.neighbors[i]))
			sum := 0.0
			for _, j := range s.neighbors[i] {
				sum += s.voltage[j]
			}
			s.scratch[i] = (s.charge[i] + c*sum) / ctot
		}
		s.voltage, s.scratch = s.scratch, s.voltage
		if !s.coupled {
			break
		}
	}
}
