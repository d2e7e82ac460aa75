package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/seonet/internal/config"
	"github.com/san-kum/seonet/internal/experiment"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, preset string) *Model {
	t.Helper()
	exp := experiment.New(preset, config.GetPreset(preset), nil)
	if err := exp.Setup(nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	m, err := NewModel(exp)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func TestNewModelRequiresSetup(t *testing.T) {
	exp := experiment.New("single", config.GetPreset("single"), nil)
	if _, err := NewModel(exp); err == nil {
		t.Error("expected error for experiment without setup")
	}
}

func TestModelTickAdvances(t *testing.T) {
	m := newTestModel(t, "single")

	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("expected a follow up tick")
	}
	if m.sim.Time() <= 0 {
		t.Error("expected time to advance on tick")
	}
	if len(m.history[0]) != 1 {
		t.Errorf("expected one history sample, got %d", len(m.history[0]))
	}
}

func TestModelPauseAndSpeed(t *testing.T) {
	m := newTestModel(t, "single")

	m.Update(key("p"))
	if !m.paused {
		t.Fatal("expected paused")
	}
	before := m.sim.Time()
	m.Update(tickMsg(time.Now()))
	if m.sim.Time() != before {
		t.Error("paused model should not advance")
	}

	speed := m.speed
	m.Update(key("+"))
	if m.speed != speed*2 {
		t.Errorf("expected speed %d, got %d", speed*2, m.speed)
	}
	m.Update(key("-"))
	m.Update(key("-"))
	if m.speed != speed/2 {
		t.Errorf("expected speed %d, got %d", speed/2, m.speed)
	}

	m.Update(key("s"))
	if m.sim.Time() <= before {
		t.Error("single step should advance while paused")
	}
}

func TestModelCollectsEvents(t *testing.T) {
	m := newTestModel(t, "single")
	m.advance(5000)
	if m.total == 0 {
		t.Fatal("expected tunnel events after 5000 steps")
	}
	if len(m.recent) > recentEvents {
		t.Errorf("recent events not trimmed: %d", len(m.recent))
	}

	m.Update(key("r"))
	if m.total != 0 || m.sim.Time() != 0 {
		t.Error("reset should clear counters and time")
	}
}

func TestModelSelectWraps(t *testing.T) {
	m := newTestModel(t, "cube")
	m.Update(key("k"))
	if m.selected != len(m.history)-1 {
		t.Errorf("expected wrap to last node, got %d", m.selected)
	}
	m.Update(key("n"))
	if m.selected != 0 {
		t.Errorf("expected wrap to first node, got %d", m.selected)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, "cube")
	m.advance(10)
	out := m.View()
	for _, want := range []string{"seonet", "(0,0,0)", "events"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewLinks(t *testing.T) {
	m := newTestModel(t, "cube")
	grid := m.exp.Grid()

	if got := links(grid, 0); got != "(1,0,0) (0,1,0) (0,0,1)" {
		t.Errorf("unexpected links for node 0: %q", got)
	}
	if got := links(grid, 7); got != "(0,1,1) (1,0,1) (1,1,0)" {
		t.Errorf("unexpected links for node 7: %q", got)
	}
	if !strings.Contains(m.View(), "(0,0,1)") {
		t.Error("view missing links of the selected node")
	}

	single := newTestModel(t, "single")
	if got := links(single.exp.Grid(), 0); got != "none" {
		t.Errorf("expected no links for an isolated node, got %q", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := []rune(Sparkline([]float64{0, 1, 2, 3}, 10)); len(got) != 4 || got[0] != '▁' || got[3] != '█' {
		t.Errorf("unexpected sparkline %q", string(got))
	}
	if got := []rune(Sparkline([]float64{0, 1, 2, 3}, 2)); len(got) != 2 {
		t.Errorf("expected sparkline trimmed to width, got %q", string(got))
	}
	if Bar(0.5, 4) != "██░░" {
		t.Errorf("unexpected bar %q", Bar(0.5, 4))
	}
	if Bar(2, 3) != "███" {
		t.Error("bar should clamp")
	}
}
