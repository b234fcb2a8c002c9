package status

import "epigrid/internal/domain/epidemic"

type Request struct {
	RunID string
}

type Response struct {
	RunID              string              `json:"run_id"`
	Live               bool                `json:"live"`
	Tick               int64               `json:"tick"`
	Hour               int                 `json:"hour"`
	TimeOfDay          string              `json:"time_of_day"`
	NextPhaseInTicks   int                 `json:"next_phase_in_ticks"`
	Width              int                 `json:"width"`
	Height             int                 `json:"height"`
	Policy             epidemic.Policy     `json:"policy"`
	Population         epidemic.Population `json:"population"`
	Counts             epidemic.Counts     `json:"counts"`
	Infections         int                 `json:"infections"`
	Recoveries         int                 `json:"recoveries"`
	RunDeaths          int                 `json:"run_deaths"`
	TotalDeaths        int64               `json:"total_deaths"`
	ReproductionNumber float64             `json:"reproduction_number"`
}
