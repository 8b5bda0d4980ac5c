// Package viz renders a live terminal view of a running simulation:
// current elements and obliquity plus an eccentricity history strip,
// refreshed at macro-step cadence.
package viz

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/Gianuzzi/reboundx/internal/kozai"
)

const historyCapacity = 300

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// StepMsg delivers one persisted record to the view.
type StepMsg kozai.Record

// DoneMsg signals the end of the run.
type DoneMsg struct{ Err error }

// Feed bridges the driver's observer callback into the tea program.
// Records are dropped when the view lags; the view is observational and
// must never block the driver.
type Feed struct {
	ch chan kozai.Record
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan kozai.Record, 64)}
}

func (f *Feed) OnStep(rec kozai.Record) {
	select {
	case f.ch <- rec:
	default:
	}
}

// Finish signals the view that no more records are coming.
func (f *Feed) Finish() { close(f.ch) }

// Model is the bubbletea model for the live view.
type Model struct {
	feed    *Feed
	last    kozai.Record
	eccHist []float64
	steps   int
	done    bool
	err     error
}

func NewModel(feed *Feed) Model {
	return Model{
		feed:    feed,
		eccHist: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		rec, ok := <-m.feed.ch
		if !ok {
			return DoneMsg{}
		}
		return StepMsg(rec)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case StepMsg:
		m.last = kozai.Record(msg)
		m.steps++
		m.eccHist = append(m.eccHist, m.last.Inner.E)
		if len(m.eccHist) > historyCapacity {
			m.eccHist = m.eccHist[1:]
		}
		return m, m.wait()
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	title := headerStyle.Render("kozai cycle")
	if m.done {
		title = headerStyle.Render("kozai cycle (finished)")
	}

	rows := []string{
		statRow("t [yr]", "%.2f", m.last.Years()),
		statRow("a1 [AU]", "%.6f", m.last.Inner.A),
		statRow("e1", "%.6f", m.last.Inner.E),
		statRow("i1 [rad]", "%.6f", m.last.Inner.Inc),
		statRow("obliquity [°]", "%.4f", m.last.PlanetObliquity),
		statRow("e2", "%.6f", m.last.Outer.E),
		statRow("steps", "%d", m.steps),
	}
	stats := lipgloss.JoinVertical(lipgloss.Left, rows...)

	var graph string
	if len(m.eccHist) > 1 {
		graph = graphStyle.Render(asciigraph.Plot(m.eccHist,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("inner eccentricity"),
		))
	}

	help := helpStyle.Render("q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, stats, graph, help)
}

func statRow(label, format string, v any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, v))
}
