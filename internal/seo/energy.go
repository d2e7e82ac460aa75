package seo

// TotalCapacitance is the node capacitance in farads when n coupling
// capacitors are attached: Cj + n·C.
func (o *Oscillator) TotalCapacitance(u Units, n int) float64 {
	_, _, cj, c, _ := o.params.SI(u)
	return cj + float64(n)*c
}

// TunnelEnergy returns the orthodox energy change for an electron tunneling
// through the junction when the node sits at voltage v (volts): up lowers the
// node voltage by q/Ctot, down raises it.
//
//	up   =  q·v − q²/(2·Ctot)
//	down = −q·v − q²/(2·Ctot)
func TunnelEnergy(q, v, ctot float64) (up, down float64) {
	charging := q * q / (2 * ctot)
	return q*v - charging, -q*v - charging
}

// Threshold is the node voltage above which an up tunnel becomes possible.
func Threshold(q, ctot float64) float64 {
	return q / (2 * ctot)
}
