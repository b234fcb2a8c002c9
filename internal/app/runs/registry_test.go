package runs

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"epigrid/internal/app/ports"
	"epigrid/internal/config"
	"epigrid/internal/domain/epidemic"
)

func smallScenario() config.Scenario {
	s := config.Default()
	s.GridWidth, s.GridHeight = 10, 10
	s.SusceptibleAgents, s.InfectedAgents = 30, 3
	s.Seed = 7
	return s
}

func TestRegistry_StartAndGet(t *testing.T) {
	g := &Registry{
		Logger: log.New(io.Discard, "", 0),
		NewID:  func() string { return "run-1" },
		Now:    func() time.Time { return time.Unix(100, 0).UTC() },
	}
	run, seeded, err := g.Start(smallScenario())
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if run.ID != "run-1" || seeded.Placed != 33 {
		t.Fatalf("unexpected run %s seeded %+v", run.ID, seeded)
	}
	got, err := g.Get("run-1")
	if err != nil || got != run {
		t.Fatalf("Get returned %v, %v", got, err)
	}
	if _, _, err := g.Start(smallScenario()); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate id, got %v", err)
	}
	if _, err := g.Get("missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var rec ports.RunRecord
	_ = run.Do(func(e *epidemic.Engine) error {
		if _, err := e.Step(); err != nil {
			return err
		}
		rec = run.Record(e, time.Unix(200, 0).UTC())
		return nil
	})
	if rec.RunID != "run-1" || rec.Tick != 1 || rec.Counts.Total() == 0 || rec.Width != 10 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !rec.CreatedAt.Equal(time.Unix(100, 0)) || !rec.UpdatedAt.Equal(time.Unix(200, 0)) {
		t.Fatalf("unexpected timestamps %+v", rec)
	}

	g.Remove("run-1")
	if len(g.IDs()) != 0 {
		t.Fatalf("expected no live runs, got %v", g.IDs())
	}
}

func TestRegistry_RejectsBadScenario(t *testing.T) {
	s := smallScenario()
	s.Strategies = []string{"vaccinate"}
	if _, _, err := NewRegistry().Start(s); !errors.Is(err, config.ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario, got %v", err)
	}
}

func TestRegistry_SharedDeathCounter(t *testing.T) {
	deaths := epidemic.NewDeathCounter()
	deaths.Increment()
	g := &Registry{Deaths: deaths, Logger: log.New(io.Discard, "", 0)}
	s := smallScenario()
	s.SusceptibleAgents = 0
	if _, _, err := g.Start(s); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if deaths.Total() != 1 {
		t.Fatalf("expected counter kept without susceptible agents, got %d", deaths.Total())
	}
	if _, _, err := g.Start(smallScenario()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if deaths.Total() != 0 {
		t.Fatalf("expected counter reset by seeding, got %d", deaths.Total())
	}
}
