package sim

import (
	"context"
	"sync"
)

// NetworkFactory builds a fresh, wired network. Each ensemble run gets its own
// so no oscillator is shared between goroutines.
type NetworkFactory func() (Network, error)

type Ensemble struct {
	build     NetworkFactory
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

func NewEnsemble(build NetworkFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// WithMetrics installs a constructor for per-run metrics.
func (e *Ensemble) WithMetrics(fn func() []Metric) *Ensemble {
	e.metrics = fn
	return e
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			net, err := e.build()
			if err != nil {
				errs[idx] = err
				return
			}
			s, err := New(net)
			if err != nil {
				errs[idx] = err
				return
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
