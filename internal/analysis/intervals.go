package analysis

import (
	"context"
	"math"

	"github.com/san-kum/seonet/internal/sim"
)

type IntervalStats struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Intervals summarises the time between consecutive events of one node.
// A negative node uses every event.
func Intervals(events []sim.Event, node int) IntervalStats {
	var times []float64
	for _, e := range events {
		if node < 0 || e.Node == node {
			times = append(times, e.Time)
		}
	}
	if len(times) < 2 {
		return IntervalStats{}
	}

	st := IntervalStats{Count: len(times) - 1, Min: math.Inf(1), Max: math.Inf(-1)}
	sum, sumSq := 0.0, 0.0
	for i := 1; i < len(times); i++ {
		d := times[i] - times[i-1]
		sum += d
		sumSq += d * d
		st.Min = math.Min(st.Min, d)
		st.Max = math.Max(st.Max, d)
	}
	st.Mean = sum / float64(st.Count)
	if v := sumSq/float64(st.Count) - st.Mean*st.Mean; v > 0 {
		st.StdDev = math.Sqrt(v)
	}
	return st
}

type SweepPoint struct {
	Vd     float64
	Events int
	Rate   float64 // events per node per second
}

// SweepDrive runs one simulation per drive voltage in [vdMin, vdMax].
func SweepDrive(
	ctx context.Context,
	build func(vd float64) (sim.Network, error),
	vdMin, vdMax float64,
	steps int,
	cfg sim.Config,
) ([]SweepPoint, error) {
	if steps <= 1 {
		steps = 2
	}
	step := (vdMax - vdMin) / float64(steps-1)

	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		vd := vdMin + float64(i)*step
		net, err := build(vd)
		if err != nil {
			return points, err
		}
		s, err := sim.New(net)
		if err != nil {
			return points, err
		}
		res, err := s.Run(ctx, cfg)
		if err != nil {
			return points, err
		}

		p := SweepPoint{Vd: vd, Events: len(res.Events)}
		if n := len(net.Nodes()); n > 0 && cfg.Duration > 0 {
			p.Rate = float64(p.Events) / float64(n) / cfg.Duration
		}
		points = append(points, p)
	}
	return points, nil
}
