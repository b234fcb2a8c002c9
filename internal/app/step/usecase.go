package step

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"epigrid/internal/app/ports"
	"epigrid/internal/app/runs"
	"epigrid/internal/domain/epidemic"
)

var ErrInvalidRequest = errors.New("invalid step request")

const MaxTicksPerStep = 10000

type UseCase struct {
	Registry  *runs.Registry
	Runs      ports.RunRepository
	TickStats ports.TickStatsRepository
	TxManager ports.TxManager
	Metrics   ports.TickMetrics
	Sinks     []ports.TickSink
	Now       func() time.Time
}

// Execute advances a live run. Ticks and the run summary are persisted while
// the run is still locked so concurrent steps land in tick order. When the
// write fails the advanced ticks are held on the run and written ahead of the
// next step's ticks, so the engine is never stepped twice for one tick.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.RunID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if req.Ticks == 0 {
		req.Ticks = 1
	}
	if req.Ticks < 0 || req.Ticks > MaxTicksPerStep {
		return Response{}, fmt.Errorf("%w: ticks must be in 1..%d", ErrInvalidRequest, MaxTicksPerStep)
	}
	run, err := u.Registry.Get(req.RunID)
	if err != nil {
		return Response{}, err
	}

	var (
		reports []epidemic.TickReport
		rec     ports.RunRecord
		frame   epidemic.Frame
	)
	err = run.Do(func(e *epidemic.Engine) error {
		held := run.Pending()
		reports = make([]epidemic.TickReport, 0, len(held)+req.Ticks)
		reports = append(reports, held...)
		for i := 0; i < req.Ticks; i++ {
			if err := ctx.Err(); err != nil {
				break
			}
			r, err := e.Step()
			if err != nil {
				run.Hold(reports)
				return err
			}
			reports = append(reports, r)
		}
		now := u.now()
		rec = run.Record(e, now)
		frame = e.Frame()
		if err := u.persist(ctx, rec, reports, now); err != nil {
			run.Hold(reports)
			return err
		}
		run.Hold(nil)
		return nil
	})
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordStepFailure()
		}
		return Response{}, err
	}

	if u.Metrics != nil {
		for _, r := range reports {
			u.Metrics.RecordTick(r)
		}
	}
	for _, sink := range u.Sinks {
		if err := sink.PublishTicks(ctx, run.ID, reports, frame); err != nil {
			log.Printf("step: publish run %s: %v", run.ID, err)
		}
	}
	return Response{
		RunID:              run.ID,
		Tick:               rec.Tick,
		Reports:            reports,
		Counts:             rec.Counts,
		TotalDeaths:        rec.TotalDeaths,
		ReproductionNumber: rec.ReproductionNumber,
	}, nil
}

func (u UseCase) persist(ctx context.Context, rec ports.RunRecord, reports []epidemic.TickReport, now time.Time) error {
	if u.Runs == nil && u.TickStats == nil {
		return nil
	}
	write := func(ctx context.Context) error {
		if u.TickStats != nil && len(reports) > 0 {
			if err := u.TickStats.Append(ctx, rec.RunID, reports, now); err != nil {
				return fmt.Errorf("append tick stats: %w", err)
			}
		}
		if u.Runs != nil {
			if err := u.Runs.Update(ctx, rec); err != nil {
				return fmt.Errorf("update run: %w", err)
			}
		}
		return nil
	}
	if u.TxManager == nil {
		return write(ctx)
	}
	return u.TxManager.RunInTx(ctx, write)
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now().UTC()
}
