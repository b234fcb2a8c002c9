package step

import "epigrid/internal/domain/epidemic"

type Request struct {
	RunID string
	Ticks int
}

type Response struct {
	RunID              string                `json:"run_id"`
	Tick               int64                 `json:"tick"`
	Reports            []epidemic.TickReport `json:"reports"`
	Counts             epidemic.Counts       `json:"counts"`
	TotalDeaths        int64                 `json:"total_deaths"`
	ReproductionNumber float64               `json:"reproduction_number"`
}
