package epidemic

import "sync"

// DeathCounter may be shared by several runs. It is only reset when the first
// susceptible agent of a run is seeded.
type DeathCounter struct {
	mu    sync.Mutex
	total int64
}

func NewDeathCounter() *DeathCounter {
	return &DeathCounter{}
}

func (c *DeathCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = 0
}

func (c *DeathCounter) Increment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
}

func (c *DeathCounter) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Statistics accumulates run-level epidemiological counters.
type Statistics struct {
	deaths *DeathCounter

	infections int
	recoveries int
	runDeaths  int

	retiredInfected       int
	retiredContaminations int
}

func newStatistics(deaths *DeathCounter) *Statistics {
	if deaths == nil {
		deaths = NewDeathCounter()
	}
	return &Statistics{deaths: deaths}
}

func (s *Statistics) TotalDeaths() int64 {
	return s.deaths.Total()
}

func (s *Statistics) Infections() int {
	return s.infections
}

func (s *Statistics) Recoveries() int {
	return s.recoveries
}

// RunDeaths counts deaths of this run only, independent of counter sharing.
func (s *Statistics) RunDeaths() int {
	return s.runDeaths
}

func (s *Statistics) RetiredInfected() int {
	return s.retiredInfected
}

func (s *Statistics) RetiredContaminations() int {
	return s.retiredContaminations
}

// ReproductionNumber is the mean contamination count of infected agents that
// have finished their infection.
func (s *Statistics) ReproductionNumber() float64 {
	if s.retiredInfected == 0 {
		return 0
	}
	return float64(s.retiredContaminations) / float64(s.retiredInfected)
}

func (s *Statistics) recordInfection() {
	s.infections++
}

func (s *Statistics) recordRecovery() {
	s.recoveries++
}

func (s *Statistics) recordDeath() {
	s.runDeaths++
	s.deaths.Increment()
}

func (s *Statistics) retire(a *Agent) {
	s.retiredInfected++
	s.retiredContaminations += a.ContaminationCount
}
