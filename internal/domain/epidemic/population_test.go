package epidemic

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"
)

func TestSeed_PlacesPopulation(t *testing.T) {
	e := newTestEngine(t, 10, 10, Policy{ProbHealthy: 0.5, ProbElderly: 0.5}, 4)
	r := e.Seed(Population{Susceptible: 40, Infected: 5})
	if r.Placed != 45 || r.Skipped != 0 {
		t.Fatalf("unexpected seed report %+v", r)
	}
	c := e.Counts()
	if c.Susceptible != 40 || c.InfectedWithSymptoms != 5 || c.Total() != 45 {
		t.Fatalf("unexpected counts %+v", c)
	}
	for _, a := range e.Agents() {
		if a.Age < 0 || a.Age >= MaxAge {
			t.Fatalf("agent %d age %d out of range", a.ID, a.Age)
		}
		if a.HasMask {
			t.Fatalf("agent %d masked without a mandate", a.ID)
		}
		if a.Goal != GoalRandom {
			t.Fatalf("agent %d goal %s under random scenario", a.ID, a.Goal)
		}
	}
	assertOnePerCell(t, e)
}

func TestSeed_SkipsWhenGridIsFull(t *testing.T) {
	e := newTestEngine(t, 4, 4, Policy{}, 8)
	r := e.Seed(Population{Susceptible: 12, Infected: 8})
	if r.Placed != 16 || r.Skipped != 4 {
		t.Fatalf("expected 16 placed and 4 skipped, got %+v", r)
	}
	if c := e.Counts(); c.Susceptible != 12 || c.InfectedWithSymptoms != 4 {
		t.Fatalf("unexpected counts %+v", c)
	}
}

func TestSeed_GridFullLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	e, err := NewEngine(Config{Width: 3, Height: 3, Seed: 2, Logger: log.New(&buf, "", 0)})
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	r := e.Seed(Population{Susceptible: 5000, Infected: 100})
	if r.Placed != 9 || r.Skipped != 5091 {
		t.Fatalf("expected 9 placed and 5091 skipped, got %+v", r)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 1 {
		t.Fatalf("expected one log line, got %d:\n%s", lines, buf.String())
	}
	if c := e.Counts(); c.Susceptible != 9 || c.Infected() != 0 {
		t.Fatalf("unexpected counts %+v", c)
	}
}

func TestSeed_AttractivePlacesAndMandate(t *testing.T) {
	e := newTestEngine(t, 12, 12, Policy{
		Scenario:        ScenarioAttractivePlaces,
		MaskMandate:     true,
		ProbDocility:    1,
		IsolateInfected: true,
	}, 6)
	e.Seed(Population{Susceptible: 50, Infected: 3})
	goals := map[Goal]int{}
	for _, a := range e.Agents() {
		if !a.HasMask {
			t.Fatalf("agent %d unmasked with docility 1", a.ID)
		}
		if a.Status.Infected() {
			if a.Goal != GoalHospital {
				t.Fatalf("infected agent %d goal %s, want hospital", a.ID, a.Goal)
			}
			continue
		}
		goals[a.Goal]++
	}
	if goals[GoalSchool] == 0 || goals[GoalShopping] == 0 || goals[GoalRandom] != 0 {
		t.Fatalf("expected school and shopping goals only, got %+v", goals)
	}
}

func TestSeed_ElderlyAges(t *testing.T) {
	e := newTestEngine(t, 10, 10, Policy{ProbElderly: 1}, 12)
	e.Seed(Population{Susceptible: 30})
	for _, a := range e.Agents() {
		if a.Age < SeniorAge || a.Age >= MaxAge {
			t.Fatalf("elderly agent %d age %d out of range", a.ID, a.Age)
		}
	}
}

func TestSeed_ResetsSharedDeathCounter(t *testing.T) {
	deaths := NewDeathCounter()
	deaths.Increment()
	deaths.Increment()

	infectedOnly, err := NewEngine(Config{Width: 5, Height: 5, Seed: 1, Deaths: deaths, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	infectedOnly.Seed(Population{Infected: 2})
	if deaths.Total() != 2 {
		t.Fatalf("expected counter untouched without susceptible agents, got %d", deaths.Total())
	}

	withSusceptible, err := NewEngine(Config{Width: 5, Height: 5, Seed: 1, Deaths: deaths, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	withSusceptible.Seed(Population{Susceptible: 1})
	if deaths.Total() != 0 {
		t.Fatalf("expected counter reset, got %d", deaths.Total())
	}
}

func TestSeed_SameSeedSameLayout(t *testing.T) {
	a := newTestEngine(t, 15, 15, Policy{ProbHealthy: 0.6, ProbElderly: 0.3}, 99)
	b := newTestEngine(t, 15, 15, Policy{ProbHealthy: 0.6, ProbElderly: 0.3}, 99)
	a.Seed(Population{Susceptible: 60, Infected: 6})
	b.Seed(Population{Susceptible: 60, Infected: 6})
	fa, fb := a.Frame(), b.Frame()
	if len(fa.Cells) != len(fb.Cells) {
		t.Fatalf("frame sizes differ: %d vs %d", len(fa.Cells), len(fb.Cells))
	}
	for i := range fa.Cells {
		if fa.Cells[i] != fb.Cells[i] {
			t.Fatalf("cell %d differs: %+v vs %+v", i, fa.Cells[i], fb.Cells[i])
		}
	}
}
