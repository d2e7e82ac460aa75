// Package analysis characterises simulated oscillator traces.
//
//   - [PowerSpectrum]: magnitude spectrum of a node voltage trace
//   - [DominantFrequency]: strongest non-DC frequency of a trace
//   - [Intervals]: statistics of the time between tunnel events
//   - [SweepDrive]: firing rate as a function of drive voltage
//
// # Oscillation Onset
//
// An isolated oscillator only fires once the drive voltage exceeds the
// Coulomb blockade threshold q/(2·Cj):
//
//	points, _ := analysis.SweepDrive(ctx, build, 0.001, 0.01, 10, cfg)
//	for _, p := range points {
//	    fmt.Println(p.Vd, p.Rate)
//	}
package analysis
