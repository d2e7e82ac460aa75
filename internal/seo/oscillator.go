package seo

import (
	"fmt"
	"math"
)

// Oscillator is a single-electron oscillator node. Neighbour references are
// non-owning: the network that built the oscillators owns all of them.
type Oscillator struct {
	params      Params
	connections []*Oscillator
	dE          map[Direction]float64
	wT          map[Direction]float64
	law         RateLaw
}

type Option func(*Oscillator)

// WithRateLaw replaces the default [Orthodox] law.
func WithRateLaw(law RateLaw) Option {
	return func(o *Oscillator) {
		if law != nil {
			o.law = law
		}
	}
}

func New(r, rj, cj float64, c int, vd float64, legs int, opts ...Option) *Oscillator {
	return NewWithParams(Params{R: r, Rj: rj, Cj: cj, C: c, Vd: vd, Legs: legs}, opts...)
}

func NewWithParams(p Params, opts ...Option) *Oscillator {
	o := &Oscillator{
		params: p,
		dE:     make(map[Direction]float64),
		wT:     make(map[Direction]float64),
		law:    NewOrthodox(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Oscillator) R() float64       { return o.params.R }
func (o *Oscillator) Rj() float64      { return o.params.Rj }
func (o *Oscillator) Cj() float64      { return o.params.Cj }
func (o *Oscillator) C() int           { return o.params.C }
func (o *Oscillator) Vd() float64      { return o.params.Vd }
func (o *Oscillator) Legs() int        { return o.params.Legs }
func (o *Oscillator) Params() Params   { return o.params }
func (o *Oscillator) RateLaw() RateLaw { return o.law }

// Connections returns the neighbours in the order they were assigned. The
// slice is a copy; the oscillators are shared.
func (o *Oscillator) Connections() []*Oscillator {
	out := make([]*Oscillator, len(o.connections))
	copy(out, o.connections)
	return out
}

// NumConnections avoids the copy made by Connections.
func (o *Oscillator) NumConnections() int { return len(o.connections) }

// SetConnections replaces the neighbour list. The list is validated in full
// before anything is stored, so a rejected call leaves the previous list in
// place. Neighbours are not modified.
func (o *Oscillator) SetConnections(candidates []*Oscillator) error {
	if len(candidates) > o.params.Legs {
		return fmt.Errorf("%w: %d connections exceed %d legs", ErrInvalidTopology, len(candidates), o.params.Legs)
	}

	seen := make(map[*Oscillator]int, len(candidates))
	for i, c := range candidates {
		switch {
		case c == nil:
			return fmt.Errorf("%w: connection %d is nil", ErrInvalidTopology, i)
		case c == o:
			return fmt.Errorf("%w: connection %d refers to the oscillator itself", ErrInvalidTopology, i)
		}
		if j, dup := seen[c]; dup {
			return fmt.Errorf("%w: connections %d and %d are the same oscillator", ErrInvalidTopology, j, i)
		}
		seen[c] = i
	}

	conns := make([]*Oscillator, len(candidates))
	copy(conns, candidates)
	o.connections = conns
	return nil
}

// SetDE records the energy change of a prospective tunneling event.
func (o *Oscillator) SetDE(d Direction, value float64) {
	o.dE[d] = value
}

// DE returns the recorded energy change, or 0 if none was recorded.
func (o *Oscillator) DE(d Direction) float64 { return o.dE[d] }

// WT returns the latest wait time for d. Zero means no tunneling is pending.
func (o *Oscillator) WT(d Direction) float64 { return o.wT[d] }

// Directions lists the directions with a recorded energy change, sorted.
func (o *Oscillator) Directions() []Direction { return sortedDirections(o.dE) }

// CalculateTunnelWt recomputes the wait time of every direction present in
// dE. A direction with dE <= 0 gets exactly 0. If the rate law yields a
// non-positive or non-finite time the direction is set to 0 and
// ErrNonPhysical is returned after all directions have been processed.
func (o *Oscillator) CalculateTunnelWt() error {
	var bad []Direction
	for _, d := range sortedDirections(o.dE) {
		de := o.dE[d]
		if !(de > 0) {
			o.wT[d] = 0
			continue
		}
		wt := o.law.WaitTime(de, o.params)
		if math.IsNaN(wt) || math.IsInf(wt, 0) || wt <= 0 {
			o.wT[d] = 0
			bad = append(bad, d)
			continue
		}
		o.wT[d] = wt
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: directions %v with params %+v", ErrNonPhysical, bad, o.params)
	}
	return nil
}

// MinWaitTime returns the direction with the smallest positive wait time.
func (o *Oscillator) MinWaitTime() (Direction, float64, bool) {
	var (
		best  Direction
		bestT float64
		found bool
	)
	for _, d := range sortedDirections(o.wT) {
		t := o.wT[d]
		if t <= 0 {
			continue
		}
		if !found || t < bestT {
			best, bestT, found = d, t, true
		}
	}
	return best, bestT, found
}
