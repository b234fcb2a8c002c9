package epidemic

import (
	"errors"

	"epigrid/internal/domain/world"
)

type Population struct {
	Susceptible int `json:"susceptible"`
	Infected    int `json:"infected"`
}

type SeedReport struct {
	Placed  int `json:"placed"`
	Skipped int `json:"skipped"`
}

// Seed places the initial population on random free cells. Susceptible agents
// come first. An agent that cannot be placed is logged and skipped. Once the
// grid is full every remaining agent is skipped with a single log line.
func (e *Engine) Seed(pop Population) SeedReport {
	var report SeedReport
	if pop.Susceptible > 0 {
		// Runs without susceptible agents keep the previous total.
		e.stats.deaths.Reset()
	}
	for i := 0; i < pop.Susceptible; i++ {
		traits := e.drawTraits()
		goal := GoalRandom
		if e.policy.Scenario == ScenarioAttractivePlaces {
			if e.rng.Float64() < 0.5 {
				goal = GoalSchool
			} else {
				goal = GoalShopping
			}
		}
		traits.HasMask = e.drawMask()
		if err := e.seedOne(StatusSusceptible, goal, traits); err != nil {
			if errors.Is(err, world.ErrGridFull) {
				return e.skipRest(report, pop.Susceptible-i+pop.Infected)
			}
			e.logger.Printf("epidemic: seed susceptible agent %d: %v", i, err)
			report.Skipped++
			continue
		}
		report.Placed++
	}
	for i := 0; i < pop.Infected; i++ {
		traits := e.drawTraits()
		goal := e.policy.infectedGoal(GoalRandom)
		traits.HasMask = e.drawMask()
		if err := e.seedOne(StatusInfectedWithSymptoms, goal, traits); err != nil {
			if errors.Is(err, world.ErrGridFull) {
				return e.skipRest(report, pop.Infected-i)
			}
			e.logger.Printf("epidemic: seed infected agent %d: %v", i, err)
			report.Skipped++
			continue
		}
		report.Placed++
	}
	return report
}

func (e *Engine) skipRest(report SeedReport, rest int) SeedReport {
	report.Skipped += rest
	e.logger.Printf("epidemic: grid full after %d agents, skipped %d", report.Placed, rest)
	return report
}

func (e *Engine) seedOne(status Status, goal Goal, traits Traits) error {
	p, err := e.space.RandomFreeCell(e.rng)
	if err != nil {
		return err
	}
	_, err = e.Spawn(status, goal, traits, p)
	return err
}

func (e *Engine) drawTraits() Traits {
	var t Traits
	if e.rng.Float64() < e.policy.ProbElderly {
		t.Age = int(e.rng.Float64()*float64(MaxAge-SeniorAge)) + SeniorAge
	} else {
		t.Age = int(e.rng.Float64() * float64(SeniorAge-1))
	}
	t.AtRisk = e.rng.Float64() > e.policy.ProbHealthy
	return t
}

func (e *Engine) drawMask() bool {
	if !e.policy.MaskMandate {
		return false
	}
	return e.rng.Float64() < e.policy.ProbDocility
}
