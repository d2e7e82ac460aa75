package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/seonet/internal/experiment"
	"github.com/san-kum/seonet/internal/network"
	"github.com/san-kum/seonet/internal/seo"
	"github.com/san-kum/seonet/internal/sim"
)

const (
	historyLen   = 60
	recentEvents = 8
	maxRows      = 12
	maxSpeed     = 4096
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model behind the live view of a running network.
type Model struct {
	exp *experiment.Experiment
	sim *sim.Simulator

	paused   bool
	speed    int
	selected int
	err      error

	history [][]float64
	recent  []sim.Event
	counts  map[seo.Direction]int
	total   int

	width  int
	height int
}

// NewModel prepares exp for manual stepping. exp must already be set up.
func NewModel(exp *experiment.Experiment) (*Model, error) {
	s := exp.GetSimulator()
	if s == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	m := &Model{exp: exp, sim: s, speed: 16, width: 80, height: 24}
	if err := m.restart(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) restart() error {
	if err := m.sim.Begin(m.exp.Config().SimConfig()); err != nil {
		return err
	}
	n := len(m.sim.Nodes())
	m.history = make([][]float64, n)
	m.recent = m.recent[:0]
	m.counts = make(map[seo.Direction]int)
	m.total = 0
	m.err = nil
	return nil
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && m.err == nil && !m.sim.Done() {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "r":
		if err := m.restart(); err != nil {
			m.err = err
		}
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "n", "down", "j":
		m.selected = (m.selected + 1) % len(m.history)
	case "up", "k":
		m.selected = (m.selected - 1 + len(m.history)) % len(m.history)
	case "s":
		m.advance(1)
	}
	return m, nil
}

func (m *Model) advance(steps int) {
	for i := 0; i < steps && !m.sim.Done(); i++ {
		evs, err := m.sim.Advance()
		if err != nil {
			m.err = err
			return
		}
		for _, e := range evs {
			m.counts[e.Direction]++
			m.total++
			m.recent = append(m.recent, e)
		}
	}
	if len(m.recent) > recentEvents {
		m.recent = m.recent[len(m.recent)-recentEvents:]
	}

	for i, v := range m.sim.Voltages() {
		m.history[i] = append(m.history[i], v)
		if len(m.history[i]) > historyLen {
			m.history[i] = m.history[i][1:]
		}
	}
}

func (m *Model) View() string {
	cfg := m.exp.Config()
	var b strings.Builder

	status := green.Render("● running")
	switch {
	case m.err != nil:
		status = red.Render("✕ " + m.err.Error())
	case m.sim.Done():
		status = cyan.Render("■ done")
	case m.paused:
		status = yellow.Render("○ paused")
	}
	b.WriteString(fmt.Sprintf("\n %s  %s  %s\n",
		Title.Render("seonet"),
		white.Render(fmt.Sprintf("%dx%dx%d %s", cfg.Grid.X, cfg.Grid.Y, cfg.Grid.Z, cfg.Grid.Topology)),
		status))

	progress := m.sim.Time() / cfg.Sim.Duration
	b.WriteString(fmt.Sprintf(" %s %s  %s\n\n",
		cyan.Render(Bar(progress, 36)),
		dim.Render(fmt.Sprintf("%.3gs/%.3gs", m.sim.Time(), cfg.Sim.Duration)),
		dim.Render(fmt.Sprintf("%d steps/frame", m.speed))))

	b.WriteString(m.viewNodes())
	b.WriteString("\n")
	b.WriteString(m.viewEvents())

	b.WriteString("\n" + KeyHint.Render(" space pause  ± speed  s step  n/k node  r reset  q quit") + "\n")
	return b.String()
}

func (m *Model) viewNodes() string {
	var b strings.Builder
	vd := m.exp.Config().Oscillator.Vd
	v := m.sim.Voltages()
	grid := m.exp.Grid()

	start := 0
	if m.selected >= maxRows {
		start = m.selected - maxRows + 1
	}
	for i := start; i < len(v) && i < start+maxRows; i++ {
		c := grid.Coord(i)
		label := fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
		frac := 0.0
		if vd != 0 {
			frac = v[i] / vd
		}
		line := fmt.Sprintf(" %-10s %s %s",
			label,
			green.Render(Bar(frac, 12)),
			MetricValue.Render(fmt.Sprintf("%7.2f mV", v[i]*1e3)))
		if i == m.selected {
			line = " " + cyan.Render(">") + line[1:] + "  " + cyan.Render(Sparkline(m.history[i], 30))
		}
		b.WriteString(line + "\n")
	}
	if len(v) > maxRows {
		b.WriteString(dimmer.Render(fmt.Sprintf(" ... %d nodes", len(v))) + "\n")
	}
	b.WriteString(" " + MetricLabel.Render("links") + " " + dim.Render(links(grid, m.selected)) + "\n")
	return b.String()
}

// links lists the grid coordinates the oscillator at node is connected to.
func links(grid *network.Grid, node int) string {
	var labels []string
	for _, o := range grid.Nodes()[node].Connections() {
		i := grid.IndexOf(o)
		if i < 0 {
			continue
		}
		labels = append(labels, grid.Coord(i).String())
	}
	if len(labels) == 0 {
		return "none"
	}
	return strings.Join(labels, " ")
}

func (m *Model) viewEvents() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(" %s %s  %s %s  %s %s\n",
		MetricLabel.Render("events"), MetricValue.Render(fmt.Sprint(m.total)),
		MetricLabel.Render("up"), MetricValue.Render(fmt.Sprint(m.counts[seo.Up])),
		MetricLabel.Render("down"), MetricValue.Render(fmt.Sprint(m.counts[seo.Down]))))

	lines := make([]string, 0, len(m.recent))
	for i := len(m.recent) - 1; i >= 0; i-- {
		e := m.recent[i]
		lines = append(lines, fmt.Sprintf("%10.4gs  node %-4d %-5s %.2f mV", e.Time, e.Node, e.Direction, e.Voltage*1e3))
	}
	if len(lines) == 0 {
		lines = append(lines, dim.Render("no tunneling yet"))
	}
	b.WriteString(Panel.Render(strings.Join(lines, "\n")) + "\n")
	return b.String()
}

// Run starts the live view in the alternate screen.
func Run(exp *experiment.Experiment) error {
	m, err := NewModel(exp)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
