// Package seo models a single-electron oscillator (SEO), the unit of state in
// a tunneling network.
//
// An [Oscillator] holds its physical parameters, a bounded list of neighbour
// references and, per tunneling [Direction], the latest energy change and
// wait time:
//
//   - [Oscillator.SetConnections]: validated, all-or-nothing topology assignment
//   - [Oscillator.SetDE]: records the energy change for a direction
//   - [Oscillator.CalculateTunnelWt]: derives wait times through a [RateLaw]
//
// # Example
//
//	o := seo.New(1.0, 0.001, 18.0, 2, 0.007, 1)
//	o.SetDE(seo.Up, 1)
//	o.SetDE(seo.Down, -1)
//	_ = o.CalculateTunnelWt()
//	o.WT(seo.Up)   // > 0
//	o.WT(seo.Down) // == 0
//
// # Thread Safety
//
// Oscillators are NOT thread-safe. A caller that recomputes many oscillators
// concurrently must give each oscillator to exactly one goroutine at a time.
package seo
