package epidemic

import (
	"errors"
	"fmt"
	"strings"

	"epigrid/internal/domain/world"
)

var (
	ErrUnknownStrategy   = errors.New("unknown strategy")
	ErrUnknownScenario   = errors.New("unknown movement scenario")
	ErrTooManyStrategies = errors.New("too many strategies")
)

type Scenario string

const (
	ScenarioRandom           Scenario = "random"
	ScenarioAttractivePlaces Scenario = "attractive_places"
)

type Strategy string

const (
	StrategyNone            Strategy = "none"
	StrategyMask            Strategy = "mask"
	StrategyDistancing      Strategy = "distancing"
	StrategyCurfew          Strategy = "curfew"
	StrategyLockdown        Strategy = "lockdown"
	StrategyIsolateInfected Strategy = "isolate_infected"
)

var strategyAliases = map[string]Strategy{
	"":                             StrategyNone,
	"none":                         StrategyNone,
	"mask":                         StrategyMask,
	"face_mask":                    StrategyMask,
	"distancing":                   StrategyDistancing,
	"distanciation":                StrategyDistancing,
	"curfew":                       StrategyCurfew,
	"lockdown":                     StrategyLockdown,
	"isolate_infected":             StrategyIsolateInfected,
	"isolation_of_infected_people": StrategyIsolateInfected,
}

var scenarioAliases = map[string]Scenario{
	"":                  ScenarioRandom,
	"random":            ScenarioRandom,
	"random_scenario":   ScenarioRandom,
	"attractive_places": ScenarioAttractivePlaces,
}

func ParseStrategy(raw string) (Strategy, error) {
	s, ok := strategyAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
	return s, nil
}

func ParseScenario(raw string) (Scenario, error) {
	s, ok := scenarioAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScenario, raw)
	}
	return s, nil
}

// Policy is fixed for the lifetime of a run. Engines copy it on construction.
type Policy struct {
	MaskMandate     bool `json:"mask_mandate"`
	Distancing      bool `json:"distancing"`
	Lockdown        bool `json:"lockdown"`
	Curfew          bool `json:"curfew"`
	IsolateInfected bool `json:"isolate_infected"`

	MeanInfectionProb float64 `json:"mean_infection_prob"`
	MeanRecoveryProb  float64 `json:"mean_recovery_prob"`
	ProbHealthy       float64 `json:"prob_healthy"`
	ProbElderly       float64 `json:"prob_elderly"`
	ProbDocility      float64 `json:"prob_docility"`

	Scenario Scenario `json:"scenario"`
}

// WithStrategies OR-combines up to MaxStrategies selections into the policy
// toggles. Toggles already set stay set.
func (p Policy) WithStrategies(strategies ...Strategy) (Policy, error) {
	if len(strategies) > MaxStrategies {
		return p, fmt.Errorf("%w: %d > %d", ErrTooManyStrategies, len(strategies), MaxStrategies)
	}
	for _, s := range strategies {
		switch s {
		case StrategyNone:
		case StrategyMask:
			p.MaskMandate = true
		case StrategyDistancing:
			p.Distancing = true
		case StrategyCurfew:
			p.Curfew = true
		case StrategyLockdown:
			p.Lockdown = true
		case StrategyIsolateInfected:
			p.IsolateInfected = true
		default:
			return p, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
		}
	}
	return p, nil
}

// MovementSuppressed reports whether agents must hold position on tick.
func (p Policy) MovementSuppressed(clock world.Clock, tick int64) bool {
	if p.Lockdown {
		return true
	}
	return p.Curfew && clock.IsNight(tick)
}

func (p Policy) infectedGoal(current Goal) Goal {
	if p.IsolateInfected {
		return GoalHospital
	}
	return current
}
