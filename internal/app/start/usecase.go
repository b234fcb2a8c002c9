package start

import (
	"context"
	"fmt"
	"time"

	"epigrid/internal/app/ports"
	"epigrid/internal/app/runs"
	"epigrid/internal/domain/epidemic"
)

type UseCase struct {
	Registry *runs.Registry
	Runs     ports.RunRepository
	Metrics  ports.TickMetrics
	Now      func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if err := req.Scenario.Validate(); err != nil {
		return Response{}, err
	}
	run, seeded, err := u.Registry.Start(req.Scenario)
	if err != nil {
		return Response{}, err
	}
	var rec ports.RunRecord
	_ = run.Do(func(e *epidemic.Engine) error {
		rec = run.Record(e, u.now())
		return nil
	})
	if u.Runs != nil {
		if err := u.Runs.Create(ctx, rec); err != nil {
			u.Registry.Remove(run.ID)
			return Response{}, fmt.Errorf("persist run %s: %w", run.ID, err)
		}
	}
	if u.Metrics != nil {
		u.Metrics.RecordRunStarted()
	}
	return Response{
		RunID:  run.ID,
		Tick:   rec.Tick,
		Counts: rec.Counts,
		Seeded: seeded,
		Width:  rec.Width,
		Height: rec.Height,
	}, nil
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now().UTC()
}
