package ticklog

import (
	"context"
	"testing"

	"epigrid/internal/app/ports"
	"epigrid/internal/domain/epidemic"
)

func TestWriter_RoundTrip(t *testing.T) {
	w := NewWriter(t.TempDir())
	ctx := context.Background()
	first := []epidemic.TickReport{
		{Tick: 1, NewInfections: 2, Counts: epidemic.Counts{Susceptible: 8, InfectedWithSymptoms: 2}},
		{Tick: 2, Moved: 4},
	}
	if err := w.PublishTicks(ctx, "run-a", first, epidemic.Frame{}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := w.PublishTicks(ctx, "run-a", []epidemic.TickReport{{Tick: 3, ReproductionNumber: 1.5}}, epidemic.Frame{}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := w.PublishTicks(ctx, "run-b", []epidemic.TickReport{{Tick: 1}}, epidemic.Frame{}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := w.CloseRun("run-a"); err != nil {
		t.Fatalf("close run: %v", err)
	}

	entries, err := ReadFile(w.Path("run-a"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-a" || entries[0].Report.Counts.InfectedWithSymptoms != 2 {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[2].Report.Tick != 3 || entries[2].Report.ReproductionNumber != 1.5 {
		t.Fatalf("unexpected last entry %+v", entries[2])
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	other, err := ReadFile(w.Path("run-b"))
	if err != nil || len(other) != 1 {
		t.Fatalf("expected one entry for run-b, got %d %v", len(other), err)
	}
}

func TestWriter_AppendsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	w := NewWriter(dir)
	_ = w.PublishTicks(ctx, "run", []epidemic.TickReport{{Tick: 1}}, epidemic.Frame{})
	_ = w.Close()
	w = NewWriter(dir)
	_ = w.PublishTicks(ctx, "run", []epidemic.TickReport{{Tick: 2}}, epidemic.Frame{})
	_ = w.Close()

	entries, err := ReadFile(w.Path("run"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 || entries[1].Report.Tick != 2 {
		t.Fatalf("expected both frames decoded, got %+v", entries)
	}
}

var (
	_ ports.TickSink  = (*Writer)(nil)
	_ ports.RunCloser = (*Writer)(nil)
)
