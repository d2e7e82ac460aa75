package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/seonet/internal/seo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("DefaultConfig has invalid Dt")
	}
	if cfg.Duration <= 0 {
		t.Error("DefaultConfig has invalid Duration")
	}
	if cfg.MaxEventsPerStep <= 0 {
		t.Error("DefaultConfig has invalid MaxEventsPerStep")
	}
	if cfg.Units != seo.DefaultUnits {
		t.Error("DefaultConfig should use default units")
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error"}
	expected := "step 150 (t=1.5): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}

	wrapped := SimError{Time: 0, Step: 1, Message: "calc", Wrapped: seo.ErrNonPhysical}
	if !errors.Is(wrapped, seo.ErrNonPhysical) {
		t.Error("SimError should unwrap to its cause")
	}
}

func TestResultEventCounts(t *testing.T) {
	r := &Result{Events: []Event{
		{Node: 0, Direction: seo.Up},
		{Node: 0, Direction: seo.Up},
		{Node: 1, Direction: seo.Down},
	}}
	counts := r.EventCounts()
	if counts[0][seo.Up] != 2 {
		t.Errorf("expected 2 up events on node 0, got %d", counts[0][seo.Up])
	}
	if counts[1][seo.Down] != 1 {
		t.Errorf("expected 1 down event on node 1, got %d", counts[1][seo.Down])
	}
}

func TestResultTrace(t *testing.T) {
	r := &Result{Voltages: [][]float64{{1, 2}, {3, 4}, {5}}}
	got := r.Trace(1)
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("Trace(1) = %v", got)
	}
}
