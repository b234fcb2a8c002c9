package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"epigrid/internal/app/runs"
	"epigrid/internal/domain/epidemic"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	gridStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
	emptyCell = subtleStyle.Render("·")
)

type tickMsg time.Time

type model struct {
	run      *runs.Run
	limit    int
	interval time.Duration
	spinner  spinner.Model

	frame  epidemic.Frame
	last   epidemic.TickReport
	deaths int64
	r0     float64
	paused bool
	done   bool
	err    error
}

func newModel(run *runs.Run, limit int, interval time.Duration) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle
	m := model{run: run, limit: limit, interval: interval, spinner: s}
	_ = run.Do(func(e *epidemic.Engine) error {
		m.frame = e.Frame()
		m.last.Counts = e.Counts()
		return nil
	})
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick())
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space", "p":
			m.paused = !m.paused
		case "n":
			if m.paused {
				m.advance()
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if !m.paused {
			m.advance()
		}
		if m.done {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *model) advance() {
	if m.done || m.err != nil {
		return
	}
	m.err = m.run.Do(func(e *epidemic.Engine) error {
		r, err := e.Step()
		if err != nil {
			return err
		}
		m.last = r
		m.frame = e.Frame()
		m.deaths = e.Stats().TotalDeaths()
		m.r0 = e.Stats().ReproductionNumber()
		return nil
	})
	if m.err != nil || (m.limit > 0 && m.frame.Tick >= int64(m.limit)) || m.last.Counts.Infected() == 0 {
		m.done = true
	}
}

func (m model) View() string {
	var header string
	switch {
	case m.err != nil:
		header = errorStyle.Render(fmt.Sprintf("step failed: %v", m.err))
	case m.done:
		header = titleStyle.Render(fmt.Sprintf("run %s finished", m.run.ID))
	case m.paused:
		header = titleStyle.Render(fmt.Sprintf("run %s paused", m.run.ID))
	default:
		header = fmt.Sprintf("%s %s", m.spinner.View(), titleStyle.Render("run "+m.run.ID))
	}

	c := m.last.Counts
	stats := fmt.Sprintf("tick %d  S %d  I %d  A %d  R %d  D %d  deaths %d  R0 %.2f",
		m.frame.Tick, c.Susceptible, c.InfectedWithSymptoms, c.InfectedWithoutSymptoms,
		c.Recovered, c.Deceased, m.deaths, m.r0)
	footer := subtleStyle.Render("space pause • n step • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, gridStyle.Render(renderGrid(m.frame)), stats, footer)
}

func renderGrid(f epidemic.Frame) string {
	if f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	rows := make([][]string, f.Height)
	for y := range rows {
		rows[y] = make([]string, f.Width)
		for x := range rows[y] {
			rows[y][x] = emptyCell
		}
	}
	for _, cell := range f.Cells {
		if cell.Y < 0 || cell.Y >= f.Height || cell.X < 0 || cell.X >= f.Width {
			continue
		}
		rows[cell.Y][cell.X] = lipgloss.NewStyle().Foreground(lipgloss.Color(cell.Color)).Render(glyph(cell.Status))
	}
	var sb strings.Builder
	for y := f.Height - 1; y >= 0; y-- {
		sb.WriteString(strings.Join(rows[y], ""))
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Deceased cells render black, so they also get a distinct glyph.
func glyph(s epidemic.Status) string {
	switch s {
	case epidemic.StatusDeceased:
		return "x"
	case epidemic.StatusInfectedWithSymptoms, epidemic.StatusInfectedWithoutSymptoms:
		return "●"
	case epidemic.StatusSusceptible, epidemic.StatusRecovered:
		return "o"
	default:
		return "?"
	}
}
