package epidemic

import "epigrid/internal/domain/world"

type AgentID uint64

// Traits survive status transitions; everything else is rebuilt.
type Traits struct {
	Age     int  `json:"age"`
	AtRisk  bool `json:"at_risk"`
	HasMask bool `json:"has_mask"`
}

// Agent is one status variant of a person. A status change discards the
// agent and creates a new one with a fresh ID, so infection bookkeeping is
// tied to a single variant.
type Agent struct {
	ID     AgentID `json:"id"`
	Status Status  `json:"status"`
	Goal   Goal    `json:"goal"`
	Traits

	// Infected variants only.
	InfectionTicks     int `json:"infection_ticks,omitempty"`
	ContaminationCount int `json:"contamination_count,omitempty"`

	// Deceased placeholders only.
	RemainingTicks int `json:"remaining_ticks,omitempty"`

	nextStatus   Status
	nextPosition world.Point
	planned      bool
}

func (a *Agent) Symptomatic() bool {
	return a.Status == StatusInfectedWithSymptoms
}

// NextStatus is only meaningful between the two phases of a tick.
func (a *Agent) NextStatus() Status {
	if !a.planned {
		return a.Status
	}
	return a.nextStatus
}

func (a *Agent) NextPosition() (world.Point, bool) {
	return a.nextPosition, a.planned
}

func newAgent(id AgentID, status Status, goal Goal, traits Traits) *Agent {
	a := &Agent{
		ID:         id,
		Status:     status,
		Goal:       goal,
		Traits:     traits,
		nextStatus: status,
	}
	switch status {
	case StatusDeceased:
		a.Goal = ""
		a.RemainingTicks = DeceasedRetentionTicks
	case StatusSusceptible, StatusInfectedWithSymptoms, StatusInfectedWithoutSymptoms, StatusRecovered:
	}
	return a
}
