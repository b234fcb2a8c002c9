package memory

import (
	"context"
	"sort"

	"epigrid/internal/app/ports"
)

type RunRepo struct {
	store *Store
}

func NewRunRepo(store *Store) RunRepo {
	return RunRepo{store: store}
}

func (r RunRepo) Create(_ context.Context, run ports.RunRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.runs[run.RunID]; exists {
		return ports.ErrConflict
	}
	r.store.runs[run.RunID] = run
	return nil
}

func (r RunRepo) Get(_ context.Context, runID string) (ports.RunRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	run, ok := r.store.runs[runID]
	if !ok {
		return ports.RunRecord{}, ports.ErrNotFound
	}
	return run, nil
}

func (r RunRepo) Update(_ context.Context, run ports.RunRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.runs[run.RunID]
	if !ok {
		return ports.ErrNotFound
	}
	run.CreatedAt = current.CreatedAt
	r.store.runs[run.RunID] = run
	return nil
}

func (r RunRepo) List(_ context.Context, limit int) ([]ports.RunRecord, error) {
	r.store.mu.RLock()
	out := make([]ports.RunRecord, 0, len(r.store.runs))
	for _, run := range r.store.runs {
		out = append(out, run)
	}
	r.store.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].RunID < out[j].RunID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
