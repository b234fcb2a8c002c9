package start

import (
	"epigrid/internal/config"
	"epigrid/internal/domain/epidemic"
)

type Request struct {
	Scenario config.Scenario
}

type Response struct {
	RunID  string              `json:"run_id"`
	Tick   int64               `json:"tick"`
	Counts epidemic.Counts     `json:"counts"`
	Seeded epidemic.SeedReport `json:"seeded"`
	Width  int                 `json:"width"`
	Height int                 `json:"height"`
}
