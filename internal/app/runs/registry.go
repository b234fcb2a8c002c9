package runs

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"epigrid/internal/app/ports"
	"epigrid/internal/config"
	"epigrid/internal/domain/epidemic"
)

// Run is a live simulation. Its engine is only reachable through Do, which
// serializes access.
type Run struct {
	ID        string
	Scenario  config.Scenario
	CreatedAt time.Time

	mu      sync.Mutex
	engine  *epidemic.Engine
	pending []epidemic.TickReport
}

func (r *Run) Do(fn func(e *epidemic.Engine) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.engine)
}

// Pending returns the reports of ticks the engine has advanced past but that
// were never persisted. Call it from inside Do.
func (r *Run) Pending() []epidemic.TickReport {
	return r.pending
}

// Hold replaces the unpersisted reports. Call it from inside Do.
func (r *Run) Hold(reports []epidemic.TickReport) {
	r.pending = reports
}

// Record summarizes the engine state. Call it from inside Do.
func (r *Run) Record(e *epidemic.Engine, now time.Time) ports.RunRecord {
	w, h := e.Dimensions()
	stats := e.Stats()
	return ports.RunRecord{
		RunID:              r.ID,
		Width:              w,
		Height:             h,
		Seed:               r.Scenario.Seed,
		Policy:             e.Policy(),
		Population:         r.Scenario.Population(),
		Tick:               e.Tick(),
		Counts:             e.Counts(),
		Infections:         stats.Infections(),
		Recoveries:         stats.Recoveries(),
		RunDeaths:          stats.RunDeaths(),
		TotalDeaths:        stats.TotalDeaths(),
		ReproductionNumber: stats.ReproductionNumber(),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          now,
	}
}

type Registry struct {
	// Deaths, when set, is shared by every run started afterwards. Nil gives
	// each run its own counter.
	Deaths *epidemic.DeathCounter
	Logger *log.Logger
	NewID  func() string
	Now    func() time.Time

	mu   sync.RWMutex
	runs map[string]*Run
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Start builds and seeds a run from a validated scenario.
func (g *Registry) Start(s config.Scenario) (*Run, epidemic.SeedReport, error) {
	policy, err := s.Policy()
	if err != nil {
		return nil, epidemic.SeedReport{}, err
	}
	logger := g.Logger
	if logger == nil {
		logger = log.Default()
	}
	engine, err := epidemic.NewEngine(epidemic.Config{
		Width:  s.GridWidth,
		Height: s.GridHeight,
		Policy: policy,
		Seed:   s.Seed,
		Deaths: g.Deaths,
		Logger: logger,
	})
	if err != nil {
		return nil, epidemic.SeedReport{}, fmt.Errorf("%w: %v", config.ErrInvalidScenario, err)
	}
	seeded := engine.Seed(s.Population())

	run := &Run{
		ID:        g.newID(),
		Scenario:  s,
		CreatedAt: g.now(),
		engine:    engine,
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.runs == nil {
		g.runs = make(map[string]*Run)
	}
	if _, exists := g.runs[run.ID]; exists {
		return nil, epidemic.SeedReport{}, ports.ErrConflict
	}
	g.runs[run.ID] = run
	return run, seeded, nil
}

func (g *Registry) Get(runID string) (*Run, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	run, ok := g.runs[runID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return run, nil
}

// Remove unloads a run and reports whether it was loaded.
func (g *Registry) Remove(runID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.runs[runID]; !ok {
		return false
	}
	delete(g.runs, runID)
	return true
}

// IDs lists live runs, oldest first.
func (g *Registry) IDs() []string {
	g.mu.RLock()
	runs := make([]*Run, 0, len(g.runs))
	for _, r := range g.runs {
		runs = append(runs, r)
	}
	g.mu.RUnlock()
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}

func (g *Registry) newID() string {
	if g.NewID != nil {
		return g.NewID()
	}
	return uuid.NewString()
}

func (g *Registry) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now().UTC()
}
