package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/seonet/internal/config"
	"github.com/san-kum/seonet/internal/sim"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(Linspace(3, 4, 1)) != 1 {
		t.Error("expected single value")
	}
}

func TestGridSearchPrefersOscillation(t *testing.T) {
	base := config.GetPreset("single")
	gs := NewGridSearch([]string{"vd"}, [][]float64{{0.002, 0.008}})

	// any positive target rate is closer to an oscillating run than to none
	obj := TargetRate(1e8, 1, base.Sim.Duration)
	params, score, err := gs.Search(context.Background(), base, obj)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if params["vd"] != 0.008 {
		t.Errorf("expected vd 0.008, got %v (score %v)", params["vd"], score)
	}
	if base.Oscillator.Vd != 0.007 {
		t.Error("search must not modify the base config")
	}
}

func TestGridSearchErrors(t *testing.T) {
	base := config.GetPreset("single")
	obj := func(r *sim.Result) float64 { return 0 }

	if _, _, err := NewGridSearch([]string{"vd"}, nil).Search(context.Background(), base, obj); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, _, err := NewGridSearch([]string{"omega"}, [][]float64{{1}}).Search(context.Background(), base, obj); err == nil {
		t.Error("expected error for unknown parameter")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewGridSearch([]string{"vd"}, [][]float64{{0.007}}).Search(ctx, base, obj); err == nil {
		t.Error("expected error for canceled context")
	}
}
