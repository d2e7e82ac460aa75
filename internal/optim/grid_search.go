package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/seonet/internal/config"
	"github.com/san-kum/seonet/internal/experiment"
	"github.com/san-kum/seonet/internal/sim"
)

// Objective scores a run; lower is better.
type Objective func(r *sim.Result) float64

// TargetRate scores how far the per-node firing rate of a run of the given
// duration is from target, in events per second.
func TargetRate(target float64, nodes int, duration float64) Objective {
	return func(r *sim.Result) float64 {
		rate := float64(len(r.Events)) / float64(nodes) / duration
		return math.Abs(rate - target)
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values in [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search evaluates every combination of parameters on a copy of base and
// returns the best one.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("got %d parameters and %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		if err := cfg.ApplyAll(current); err != nil {
			return err
		}
		exp := experiment.New("search", &cfg, nil)
		if err := exp.Setup([]sim.Metric{}); err != nil {
			return err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val := objective(result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the searched parameter names in sorted order.
func (g *GridSearch) Names() []string {
	names := append([]string(nil), g.paramNames...)
	sort.Strings(names)
	return names
}
