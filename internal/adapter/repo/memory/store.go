package memory

import (
	"sync"

	"epigrid/internal/app/ports"
)

type Store struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	runs  map[string]ports.RunRecord
	ticks map[string][]ports.TickStatRecord
}

func NewStore() *Store {
	return &Store{
		runs:  make(map[string]ports.RunRecord),
		ticks: make(map[string][]ports.TickStatRecord),
	}
}
