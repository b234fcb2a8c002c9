package epidemic

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"epigrid/internal/domain/world"
)

var ErrPhaseOrder = errors.New("tick phases called out of order")

// Space is the spatial index the engine runs on. *world.Grid[*Agent]
// satisfies it.
type Space interface {
	Dimensions() (int, int)
	LocationOf(a *Agent) (world.Point, bool)
	OccupantAt(p world.Point) (*Agent, bool)
	Place(a *Agent, p world.Point) error
	MoveTo(a *Agent, p world.Point) error
	Remove(a *Agent) (world.Point, bool)
	Neighbors(p world.Point) []world.Point
	OccupiedAround(p world.Point) int
	RandomFreeCell(rng *rand.Rand) (world.Point, error)
	Each(fn func(p world.Point, a *Agent))
}

type Config struct {
	Width  int
	Height int
	Policy Policy
	// Seed feeds the engine's random source when Rand is nil. Zero picks a
	// time-based seed.
	Seed   int64
	Rand   *rand.Rand
	Space  Space
	Clock  world.Clock
	Deaths *DeathCounter
	Logger *log.Logger
}

// Engine owns one run. It is not safe for concurrent use.
type Engine struct {
	policy Policy
	space  Space
	clock  world.Clock
	rng    *rand.Rand
	stats  *Statistics
	logger *log.Logger

	agents  []*Agent
	tick    int64
	nextID  AgentID
	planned bool
	pending TickReport
}

func NewEngine(cfg Config) (*Engine, error) {
	space := cfg.Space
	if space == nil {
		grid, err := world.NewGrid[*Agent](cfg.Width, cfg.Height)
		if err != nil {
			return nil, fmt.Errorf("new grid %dx%d: %w", cfg.Width, cfg.Height, err)
		}
		space = grid
	}
	rng := cfg.Rand
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	clock := cfg.Clock
	if clock == (world.Clock{}) {
		clock = world.DefaultClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		policy: cfg.Policy,
		space:  space,
		clock:  clock,
		rng:    rng,
		stats:  newStatistics(cfg.Deaths),
		logger: logger,
	}, nil
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) Tick() int64 {
	return e.tick
}

func (e *Engine) Clock() world.Clock {
	return e.clock
}

func (e *Engine) Stats() *Statistics {
	return e.stats
}

func (e *Engine) Dimensions() (int, int) {
	return e.space.Dimensions()
}

// Agents returns the live agents in iteration order.
func (e *Engine) Agents() []*Agent {
	out := make([]*Agent, len(e.agents))
	copy(out, e.agents)
	return out
}

func (e *Engine) LocationOf(a *Agent) (world.Point, bool) {
	return e.space.LocationOf(a)
}

func (e *Engine) AgentAt(p world.Point) (*Agent, bool) {
	return e.space.OccupantAt(p)
}

// Spawn creates an agent of the given status at p and appends it to the
// iteration order.
func (e *Engine) Spawn(status Status, goal Goal, traits Traits, p world.Point) (*Agent, error) {
	a := e.newAgent(status, goal, traits)
	if err := e.space.Place(a, p); err != nil {
		return nil, fmt.Errorf("place %s agent at (%d,%d): %w", status, p.X, p.Y, err)
	}
	e.agents = append(e.agents, a)
	return a, nil
}

func (e *Engine) newAgent(status Status, goal Goal, traits Traits) *Agent {
	e.nextID++
	a := newAgent(e.nextID, status, goal, traits)
	if status == StatusDeceased {
		e.stats.recordDeath()
	}
	return a
}

// Step runs both phases of one tick.
func (e *Engine) Step() (TickReport, error) {
	if err := e.ComputeNextStatus(); err != nil {
		return TickReport{}, err
	}
	return e.ComputeNextPositionAndApply()
}

// ComputeNextStatus is phase one. It advances the tick and plans the next
// status and position of every agent against the current grid. The grid is
// not modified.
func (e *Engine) ComputeNextStatus() error {
	if e.planned {
		return ErrPhaseOrder
	}
	e.tick++
	e.pending = TickReport{Tick: e.tick}
	frozen := e.policy.MovementSuppressed(e.clock, e.tick)
	for _, a := range e.agents {
		pos, ok := e.space.LocationOf(a)
		if !ok {
			continue
		}
		a.nextStatus = e.planStatus(a, pos)
		a.nextPosition = pos
		if !frozen && a.Status != StatusDeceased {
			a.nextPosition = chooseDestination(e.space, e.rng, pos, moveCandidates(e.space, pos, a.Goal), e.policy.Distancing)
		}
		a.planned = true
	}
	e.planned = true
	return nil
}

func (e *Engine) planStatus(a *Agent, pos world.Point) Status {
	switch a.Status {
	case StatusSusceptible:
		return e.planInfection(a, pos)
	case StatusInfectedWithSymptoms:
		a.InfectionTicks++
		if a.InfectionTicks != SymptomaticInfectionTicks {
			return a.Status
		}
		if e.rng.Float64() < RecoveryProbability(e.policy.MeanRecoveryProb, a.Traits) {
			return StatusRecovered
		}
		return StatusDeceased
	case StatusInfectedWithoutSymptoms:
		a.InfectionTicks++
		if a.InfectionTicks == AsymptomaticInfectionTicks {
			return StatusRecovered
		}
		return a.Status
	case StatusRecovered:
		return a.Status
	case StatusDeceased:
		a.RemainingTicks--
		return a.Status
	default:
		return a.Status
	}
}

func (e *Engine) planInfection(a *Agent, pos world.Point) Status {
	exp := classify(e.neighborsOf(pos))
	if len(exp.infected) == 0 {
		return a.Status
	}
	p := ContaminationProbability(e.policy.MeanInfectionProb, a, exp.infected)
	if e.rng.Float64() >= p {
		return a.Status
	}
	next := StatusInfectedWithoutSymptoms
	if e.rng.Float64() < SymptomaticProbability(a.Traits) {
		next = StatusInfectedWithSymptoms
	}
	exp.source().ContaminationCount++
	return next
}

func (e *Engine) neighborsOf(pos world.Point) []*Agent {
	cells := e.space.Neighbors(pos)
	out := make([]*Agent, 0, len(cells))
	for _, p := range cells {
		if n, ok := e.space.OccupantAt(p); ok {
			out = append(out, n)
		}
	}
	return out
}

// ComputeNextPositionAndApply is phase two. Agents move to their planned
// cell and planned status changes replace the agent. A planned cell already
// claimed earlier in this phase leaves the agent where it is.
func (e *Engine) ComputeNextPositionAndApply() (TickReport, error) {
	if !e.planned {
		return TickReport{}, ErrPhaseOrder
	}
	report := e.pending
	current := e.agents
	next := make([]*Agent, 0, len(current))
	for _, a := range current {
		if !a.planned {
			next = append(next, a)
			continue
		}
		a.planned = false
		if a.Status == StatusDeceased && a.RemainingTicks <= 0 {
			e.space.Remove(a)
			report.Removed++
			continue
		}
		if a.nextStatus == a.Status {
			if e.move(a, a.nextPosition) {
				report.Moved++
			}
			next = append(next, a)
			continue
		}
		replacement, moved := e.replace(a, &report)
		if moved {
			report.Moved++
		}
		next = append(next, replacement)
	}
	e.agents = next
	e.planned = false

	report.Counts = e.Counts()
	report.TotalDeaths = e.stats.TotalDeaths()
	report.ReproductionNumber = e.stats.ReproductionNumber()
	return report, nil
}

func (e *Engine) move(a *Agent, to world.Point) bool {
	from, _ := e.space.LocationOf(a)
	if from == to {
		return false
	}
	if err := e.space.MoveTo(a, to); err != nil {
		return false
	}
	return true
}

func (e *Engine) replace(a *Agent, report *TickReport) (*Agent, bool) {
	from, _ := e.space.Remove(a)
	var replacement *Agent
	switch a.nextStatus {
	case StatusInfectedWithSymptoms, StatusInfectedWithoutSymptoms:
		replacement = e.newAgent(a.nextStatus, e.policy.infectedGoal(a.Goal), a.Traits)
		e.stats.recordInfection()
		report.NewInfections++
	case StatusRecovered:
		e.stats.retire(a)
		replacement = e.newAgent(StatusRecovered, GoalRandom, a.Traits)
		e.stats.recordRecovery()
		report.NewRecoveries++
	case StatusDeceased:
		e.stats.retire(a)
		replacement = e.newAgent(StatusDeceased, "", a.Traits)
		report.NewDeaths++
	case StatusSusceptible:
		replacement = e.newAgent(StatusSusceptible, a.Goal, a.Traits)
	}
	to := a.nextPosition
	if _, taken := e.space.OccupantAt(to); taken {
		to = from
	}
	if err := e.space.Place(replacement, to); err != nil {
		// from was vacated a moment ago, so this only fails on a broken Space.
		e.logger.Printf("epidemic: place replacement %d at (%d,%d): %v", replacement.ID, to.X, to.Y, err)
	}
	return replacement, to != from
}

// TotalContaminations sums contamination counts over live and retired
// infected agents.
func (e *Engine) TotalContaminations() int {
	total := e.stats.RetiredContaminations()
	for _, a := range e.agents {
		if a.Status.Infected() {
			total += a.ContaminationCount
		}
	}
	return total
}

func (e *Engine) Counts() Counts {
	var c Counts
	for _, a := range e.agents {
		c.add(a.Status)
	}
	return c
}
