package memory

import (
	"context"
	"time"

	"epigrid/internal/app/ports"
	"epigrid/internal/domain/epidemic"
)

type TickStatsRepo struct {
	store *Store
}

func NewTickStatsRepo(store *Store) TickStatsRepo {
	return TickStatsRepo{store: store}
}

func (r TickStatsRepo) Append(_ context.Context, runID string, reports []epidemic.TickReport, recordedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing := r.store.ticks[runID]
	last := int64(0)
	if n := len(existing); n > 0 {
		last = existing[n-1].Report.Tick
	}
	for _, rep := range reports {
		if rep.Tick <= last {
			return ports.ErrConflict
		}
		last = rep.Tick
	}
	for _, rep := range reports {
		existing = append(existing, ports.TickStatRecord{RunID: runID, Report: rep, RecordedAt: recordedAt})
	}
	r.store.ticks[runID] = existing
	return nil
}

func (r TickStatsRepo) ListByRunID(_ context.Context, runID string, q ports.TickQuery) ([]ports.TickStatRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := r.store.ticks[runID]
	if len(all) == 0 {
		return nil, ports.ErrNotFound
	}
	window := make([]ports.TickStatRecord, 0, len(all))
	for _, t := range all {
		if q.FromTick > 0 && t.Report.Tick < q.FromTick {
			continue
		}
		if q.ToTick > 0 && t.Report.Tick > q.ToTick {
			continue
		}
		window = append(window, t)
	}
	if q.Limit > 0 && len(window) > q.Limit {
		if q.FromTick > 0 {
			window = window[:q.Limit]
		} else {
			window = window[len(window)-q.Limit:]
		}
	}
	return window, nil
}
