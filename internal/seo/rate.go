package seo

import "math"

// RateLaw maps a positive energy change to a tunneling wait time. It is only
// consulted for dE > 0 and must be deterministic.
type RateLaw interface {
	WaitTime(dE float64, p Params) float64
}

// Orthodox is the zero-temperature orthodox tunneling law, Γ = dE/(q²·Rj),
// giving a mean wait time of q²·Rj/dE seconds for dE in joules.
type Orthodox struct {
	Units  Units
	Charge float64
}

// NewOrthodox returns the orthodox law in [DefaultUnits] with the elementary
// charge.
func NewOrthodox() *Orthodox {
	return &Orthodox{Units: DefaultUnits, Charge: ElementaryCharge}
}

func (o *Orthodox) WaitTime(dE float64, p Params) float64 {
	rj := o.Units.resistance(p.Rj)
	return positive(o.Charge*o.Charge*rj/dE, rj > 0 && o.Charge != 0)
}

// RCLinear scales the junction time constant Rj·Cj by the inverse energy
// change. Useful in normalised units where dE is dimensionless.
type RCLinear struct {
	Units Units
	Scale float64
}

func NewRCLinear(scale float64) *RCLinear {
	return &RCLinear{Units: DefaultUnits, Scale: scale}
}

func (l *RCLinear) WaitTime(dE float64, p Params) float64 {
	tau := l.Units.resistance(p.Rj) * l.Units.capacitance(p.Cj)
	return positive(l.Scale*tau/dE, tau > 0 && l.Scale > 0)
}

// positive clamps a wait time computed from valid parameters into the
// positive finite range; 0 is reserved for "no tunneling".
func positive(wt float64, valid bool) float64 {
	switch {
	case !valid:
		return wt
	case wt == 0:
		return math.SmallestNonzeroFloat64
	case math.IsInf(wt, 1):
		return math.MaxFloat64
	}
	return wt
}
