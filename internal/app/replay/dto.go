package replay

import (
	"epigrid/internal/app/ports"
	"epigrid/internal/domain/epidemic"
)

type Request struct {
	RunID string
	Limit int
	// FromTick and ToTick bound the window inclusively. Zero leaves a side open.
	FromTick int64
	ToTick   int64
}

// Curve is the epidemic curve rebuilt from tick statistics.
type Curve struct {
	Ticks         []int64         `json:"ticks"`
	Susceptible   []int           `json:"susceptible"`
	Infected      []int           `json:"infected"`
	Recovered     []int           `json:"recovered"`
	Deceased      []int           `json:"deceased"`
	NewInfections int             `json:"new_infections"`
	NewRecoveries int             `json:"new_recoveries"`
	NewDeaths     int             `json:"new_deaths"`
	PeakInfected  int             `json:"peak_infected"`
	PeakTick      int64           `json:"peak_tick"`
	LatestR0      float64         `json:"latest_reproduction_number"`
	LatestCounts  epidemic.Counts `json:"latest_counts"`
}

type Response struct {
	Ticks []ports.TickStatRecord
	Curve Curve
}
