package start

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"epigrid/internal/app/ports"
	"epigrid/internal/app/runs"
	"epigrid/internal/config"
	"epigrid/internal/domain/epidemic"
)

func TestUseCase_StartsAndPersistsRun(t *testing.T) {
	repo := &runRepo{}
	metrics := &countingMetrics{}
	uc := UseCase{
		Registry: &runs.Registry{Logger: log.New(io.Discard, "", 0), NewID: func() string { return "run-a" }},
		Runs:     repo,
		Metrics:  metrics,
	}
	s := config.Default()
	s.GridWidth, s.GridHeight = 6, 6
	s.SusceptibleAgents, s.InfectedAgents = 10, 2

	resp, err := uc.Execute(context.Background(), Request{Scenario: s})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.RunID != "run-a" || resp.Tick != 0 || resp.Counts.Susceptible != 10 || resp.Counts.InfectedWithSymptoms != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(repo.created) != 1 || repo.created[0].RunID != "run-a" {
		t.Fatalf("expected persisted run, got %+v", repo.created)
	}
	if metrics.started != 1 {
		t.Fatalf("expected run start recorded, got %d", metrics.started)
	}
}

func TestUseCase_RejectsInvalidScenario(t *testing.T) {
	s := config.Default()
	s.GridWidth = 0
	uc := UseCase{Registry: runs.NewRegistry()}
	if _, err := uc.Execute(context.Background(), Request{Scenario: s}); !errors.Is(err, config.ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario, got %v", err)
	}
}

func TestUseCase_DropsRunWhenPersistFails(t *testing.T) {
	wantErr := errors.New("db down")
	registry := &runs.Registry{Logger: log.New(io.Discard, "", 0), NewID: func() string { return "run-b" }}
	uc := UseCase{Registry: registry, Runs: &runRepo{err: wantErr}}
	s := config.Default()
	s.GridWidth, s.GridHeight, s.SusceptibleAgents, s.InfectedAgents = 4, 4, 2, 1
	if _, err := uc.Execute(context.Background(), Request{Scenario: s}); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	if _, err := registry.Get("run-b"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected run dropped, got %v", err)
	}
}

type runRepo struct {
	created []ports.RunRecord
	err     error
}

func (r *runRepo) Create(_ context.Context, run ports.RunRecord) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, run)
	return nil
}

func (r *runRepo) Get(context.Context, string) (ports.RunRecord, error) {
	return ports.RunRecord{}, ports.ErrNotFound
}

func (r *runRepo) Update(context.Context, ports.RunRecord) error { return nil }

func (r *runRepo) List(context.Context, int) ([]ports.RunRecord, error) { return nil, nil }

type countingMetrics struct{ started int }

func (m *countingMetrics) RecordRunStarted()              { m.started++ }
func (m *countingMetrics) RecordTick(epidemic.TickReport) {}
func (m *countingMetrics) RecordStepFailure()             {}

var (
	_ ports.RunRepository = (*runRepo)(nil)
	_ ports.TickMetrics   = (*countingMetrics)(nil)
)
