package stop

import "epigrid/internal/domain/epidemic"

type Request struct {
	RunID string
}

type Response struct {
	RunID  string          `json:"run_id"`
	Tick   int64           `json:"tick"`
	Counts epidemic.Counts `json:"counts"`
	// UnpersistedTicks counts ticks whose write failed and was never retried.
	UnpersistedTicks int `json:"unpersisted_ticks"`
}
