package epidemic

import "epigrid/internal/domain/world"

type Counts struct {
	Susceptible             int `json:"susceptible"`
	InfectedWithSymptoms    int `json:"infected_with_symptoms"`
	InfectedWithoutSymptoms int `json:"infected_without_symptoms"`
	Recovered               int `json:"recovered"`
	Deceased                int `json:"deceased"`
}

func (c *Counts) add(s Status) {
	switch s {
	case StatusSusceptible:
		c.Susceptible++
	case StatusInfectedWithSymptoms:
		c.InfectedWithSymptoms++
	case StatusInfectedWithoutSymptoms:
		c.InfectedWithoutSymptoms++
	case StatusRecovered:
		c.Recovered++
	case StatusDeceased:
		c.Deceased++
	}
}

func (c Counts) Infected() int {
	return c.InfectedWithSymptoms + c.InfectedWithoutSymptoms
}

func (c Counts) Total() int {
	return c.Susceptible + c.Infected() + c.Recovered + c.Deceased
}

func (c Counts) Of(s Status) int {
	switch s {
	case StatusSusceptible:
		return c.Susceptible
	case StatusInfectedWithSymptoms:
		return c.InfectedWithSymptoms
	case StatusInfectedWithoutSymptoms:
		return c.InfectedWithoutSymptoms
	case StatusRecovered:
		return c.Recovered
	case StatusDeceased:
		return c.Deceased
	default:
		return 0
	}
}

type TickReport struct {
	Tick               int64   `json:"tick"`
	Counts             Counts  `json:"counts"`
	NewInfections      int     `json:"new_infections"`
	NewRecoveries      int     `json:"new_recoveries"`
	NewDeaths          int     `json:"new_deaths"`
	Removed            int     `json:"removed"`
	Moved              int     `json:"moved"`
	TotalDeaths        int64   `json:"total_deaths"`
	ReproductionNumber float64 `json:"reproduction_number"`
}

type Cell struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	AgentID AgentID `json:"agent_id"`
	Status  Status  `json:"status"`
	Color   string  `json:"color"`
}

// Frame is what a renderer needs to draw one tick.
type Frame struct {
	Tick   int64  `json:"tick"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

func (e *Engine) Frame() Frame {
	w, h := e.space.Dimensions()
	f := Frame{Tick: e.tick, Width: w, Height: h, Cells: make([]Cell, 0, len(e.agents))}
	e.space.Each(func(p world.Point, a *Agent) {
		f.Cells = append(f.Cells, Cell{
			X:       p.X,
			Y:       p.Y,
			AgentID: a.ID,
			Status:  a.Status,
			Color:   a.Status.ColorHex(),
		})
	})
	return f
}
