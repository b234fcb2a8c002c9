package main

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"epigrid/internal/app/runs"
	"epigrid/internal/config"
	"epigrid/internal/domain/epidemic"
)

func startTestRun(t *testing.T) *runs.Run {
	t.Helper()
	s := config.Default()
	s.GridWidth, s.GridHeight = 6, 4
	s.SusceptibleAgents, s.InfectedAgents = 8, 2
	s.ProbRec = 0
	s.Seed = 3
	g := &runs.Registry{Logger: log.New(io.Discard, "", 0), NewID: func() string { return "tui" }}
	run, _, err := g.Start(s)
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	return run
}

func TestModel_TickAdvancesUntilLimit(t *testing.T) {
	m := newModel(startTestRun(t), 2, time.Millisecond)
	for i := 0; i < 3; i++ {
		next, _ := m.Update(tickMsg(time.Now()))
		m = next.(model)
	}
	if m.frame.Tick != 2 || !m.done {
		t.Fatalf("expected run to stop at tick 2, got tick=%d done=%v", m.frame.Tick, m.done)
	}
	if !strings.Contains(m.View(), "finished") {
		t.Fatalf("expected finished header, got %q", m.View())
	}
}

func TestModel_PauseAndSingleStep(t *testing.T) {
	m := newModel(startTestRun(t), 0, time.Millisecond)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(model)
	if !m.paused {
		t.Fatal("expected space to pause")
	}
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(model)
	if m.frame.Tick != 0 {
		t.Fatalf("expected paused run to stay at tick 0, got %d", m.frame.Tick)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = next.(model)
	if m.frame.Tick != 1 {
		t.Fatalf("expected single step to tick 1, got %d", m.frame.Tick)
	}
}

func TestRenderGrid_PlacesCellsTopDown(t *testing.T) {
	out := renderGrid(epidemic.Frame{Width: 3, Height: 2, Cells: []epidemic.Cell{
		{X: 0, Y: 1, Status: epidemic.StatusDeceased, Color: epidemic.StatusDeceased.ColorHex()},
		{X: 2, Y: 0, Status: epidemic.StatusSusceptible, Color: epidemic.StatusSusceptible.ColorHex()},
	}})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "x") || strings.Contains(lines[1], "x") {
		t.Fatalf("expected deceased glyph on the top row, got %q", out)
	}
	if !strings.Contains(lines[1], "o") {
		t.Fatalf("expected susceptible glyph on the bottom row, got %q", out)
	}
}
