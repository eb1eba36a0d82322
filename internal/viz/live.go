// Package viz provides the interactive terminal session: live charts of
// the circuit outputs with keyboard control over puffs, presets, and
// parameters. It only consumes driver snapshots and trace points; the
// model itself lives in the sim and pharm packages.
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/nicosim/internal/pharm"
	"github.com/san-kum/nicosim/internal/sim"
)

const (
	graphWidth  = 72
	graphHeight = 7
	frameRate   = 30
)

type TickMsg time.Time

// Model wraps a driver for bubbletea. One real second feeds one simulated
// minute, split across frames.
type Model struct {
	driver    *sim.Driver
	running   bool
	lastPuff  float64
	paramKeys []string
	selected  int
	showHelp  bool
}

func NewModel(d *sim.Driver) Model {
	keys := make([]string, 0, 6)
	for k := range d.Params().GetParams() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Model{
		driver:    d,
		running:   true,
		lastPuff:  -1,
		paramKeys: keys,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "p":
			m.driver.DoPuff()
			m.lastPuff = m.driver.SimMin()
		case "f":
			m.driver.Advance60()
		case "r":
			m.driver.Reset()
			m.lastPuff = -1
		case "1":
			m.applyPreset(sim.PresetSinglePuff)
		case "2":
			m.applyPreset(sim.PresetRepeated)
		case "3":
			m.applyPreset(sim.PresetAbstinence)
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			_, pt := m.driver.TickAuto(1.0 / frameRate)
			if pt.Puff {
				m.lastPuff = pt.T
			}
		}
		return m, tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) applyPreset(p sim.Preset) {
	if err := m.driver.ApplyPreset(p); err == nil {
		m.lastPuff = -1
	}
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	value := m.driver.Params().GetParams()[key]
	next := value * factor
	if next == 0 {
		next = 0.01
	}
	// Out-of-bounds nudges are simply ignored.
	_ = m.driver.SetParams(map[string]float64{key: next})
}

func (m Model) View() string {
	points := m.driver.Trace()
	state := m.driver.State()

	header := headerStyle.Render(fmt.Sprintf("nicosim — %s  t=%.1f min", m.driver.Preset(), m.driver.SimMin()))

	graphs := lipgloss.JoinVertical(lipgloss.Left,
		graphStyle.Render(plot(points, "dopamine", func(pt sim.TracePoint) float64 { return pt.DA })),
		graphStyle.Render(plot(points, "gaba", func(pt sim.TracePoint) float64 { return pt.GABA })),
		graphStyle.Render(plot(points, "nicotine", func(pt sim.TracePoint) float64 { return pt.Nic })),
	)

	main := lipgloss.JoinHorizontal(lipgloss.Top, graphs, m.statsView(state))

	help := helpStyle.Render("space pause · p puff · f +60min · 1/2/3 preset · r reset · tab/↑/↓ params · q quit")
	if m.showHelp {
		help = helpStyle.Render(helpText)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, main, help)
}

func plot(points []sim.TracePoint, caption string, value func(sim.TracePoint) float64) string {
	if len(points) < 2 {
		return fmt.Sprintf("(%s: waiting for data)", caption)
	}
	data := make([]float64, len(points))
	for i, pt := range points {
		data[i] = value(pt)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(caption),
	)
}

func (m Model) statsView(state pharm.State) string {
	var sb strings.Builder

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(valueStyle.Render(value))
		sb.WriteByte('\n')
	}

	row("nicotine", fmt.Sprintf("%.3f", state.Nicotine))
	row("dopamine", fmt.Sprintf("%.3f", state.DA))
	row("gaba", fmt.Sprintf("%.3f", state.GABA))
	row("direct", fmt.Sprintf("%.3f", state.Direct))
	row("indirect", fmt.Sprintf("%.3f", state.Indirect))
	row("puff rate", fmt.Sprintf("%.2f/min", m.driver.PuffRate()))
	if m.lastPuff >= 0 {
		sb.WriteString(puffStyle.Render(fmt.Sprintf("last puff t=%.1f", m.lastPuff)))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	sb.WriteString(m.poolView("α4β2 DA", state.PoolDA, m.driver.DesensOnsetDA))
	sb.WriteString(m.poolView("α4β2 GABA", state.PoolGABA, m.driver.DesensOnsetGABA))
	sb.WriteByte('\n')

	for i, key := range m.paramKeys {
		line := fmt.Sprintf("%s = %.3g", key, m.driver.Params().GetParams()[key])
		if i == m.selected {
			sb.WriteString(activeParamStyle.Render("> " + line))
		} else {
			sb.WriteString(valueStyle.Render("  " + line))
		}
		sb.WriteByte('\n')
	}

	return statsStyle.Render(sb.String())
}

func (m Model) poolView(name string, pool pharm.ReceptorPool, onset func() (float64, bool)) string {
	var sb strings.Builder
	sb.WriteString(labelStyle.Render(name))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%s  b=%.2f a=%.2f d=%.2f",
		pool.Dominant(), pool.Basal, pool.Activated, pool.Desensitized)))
	sb.WriteByte('\n')
	if t, ok := onset(); ok {
		sb.WriteString(desensStyle.Render(fmt.Sprintf("  desensitized since t=%.1f", t)))
		sb.WriteByte('\n')
	}
	return sb.String()
}

const helpText = `keys:
  space    pause / resume the session
  p        manual puff (instant bolus)
  f        fast-forward 60 minutes
  1        preset: single-puff
  2        preset: repeated
  3        preset: abstinence
  r        reset session (params kept)
  tab      select parameter
  up/down  nudge selected parameter ±5%
  ?        toggle this help
  q        quit`

// Run starts the interactive session on the given driver.
func Run(d *sim.Driver) error {
	p := tea.NewProgram(NewModel(d), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
