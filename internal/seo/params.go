package seo

// ElementaryCharge in coulombs.
const ElementaryCharge = 1.602176634e-19

// Params is the immutable physical parameter bundle of an oscillator.
// Resistances and capacitances are expressed in the scales of [Units].
type Params struct {
	R    float64 `yaml:"r" json:"r"`
	Rj   float64 `yaml:"rj" json:"rj"`
	Cj   float64 `yaml:"cj" json:"cj"`
	C    int     `yaml:"c" json:"c"`
	Vd   float64 `yaml:"vd" json:"vd"`
	Legs int     `yaml:"legs" json:"legs"`
}

// Units converts parameter values to SI.
type Units struct {
	Resistance  float64 // ohms per unit
	Capacitance float64 // farads per unit
	Voltage     float64 // volts per unit
}

// DefaultUnits reads resistances in GΩ, capacitances in aF and voltages in V.
var DefaultUnits = Units{
	Resistance:  1e9,
	Capacitance: 1e-18,
	Voltage:     1,
}

func (u Units) resistance(v float64) float64  { return v * u.Resistance }
func (u Units) capacitance(v float64) float64 { return v * u.Capacitance }
func (u Units) voltage(v float64) float64     { return v * u.Voltage }

// SI returns the series resistance, junction resistance, junction
// capacitance, coupling capacitance and drive voltage in SI units.
func (p Params) SI(u Units) (r, rj, cj, c, vd float64) {
	return u.resistance(p.R), u.resistance(p.Rj), u.capacitance(p.Cj),
		u.capacitance(float64(p.C)), u.voltage(p.Vd)
}
