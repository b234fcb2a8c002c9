package inmemory

import (
	"sync"

	"epigrid/internal/domain/epidemic"
)

type Snapshot struct {
	RunsStarted   uint64            `json:"runs_started"`
	TicksTotal    uint64            `json:"ticks_total"`
	StepFailures  uint64            `json:"step_failures"`
	Infections    uint64            `json:"infections"`
	Recoveries    uint64            `json:"recoveries"`
	Deaths        uint64            `json:"deaths"`
	Moves         uint64            `json:"moves"`
	LastTick      int64             `json:"last_tick"`
	LastR0        float64           `json:"last_reproduction_number"`
	AgentsByState map[string]uint64 `json:"agents_by_status"`
}

type Recorder struct {
	mu         sync.Mutex
	started    uint64
	ticks      uint64
	failures   uint64
	infections uint64
	recoveries uint64
	deaths     uint64
	moves      uint64
	lastTick   int64
	lastR0     float64
	lastCounts epidemic.Counts
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordRunStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *Recorder) RecordTick(report epidemic.TickReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	r.infections += uint64(report.NewInfections)
	r.recoveries += uint64(report.NewRecoveries)
	r.deaths += uint64(report.NewDeaths)
	r.moves += uint64(report.Moved)
	r.lastTick = report.Tick
	r.lastR0 = report.ReproductionNumber
	r.lastCounts = report.Counts
}

func (r *Recorder) RecordStepFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		RunsStarted:   r.started,
		TicksTotal:    r.ticks,
		StepFailures:  r.failures,
		Infections:    r.infections,
		Recoveries:    r.recoveries,
		Deaths:        r.deaths,
		Moves:         r.moves,
		LastTick:      r.lastTick,
		LastR0:        r.lastR0,
		AgentsByState: make(map[string]uint64, len(epidemic.Statuses)),
	}
	for _, s := range epidemic.Statuses {
		out.AgentsByState[string(s)] = uint64(r.lastCounts.Of(s))
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
