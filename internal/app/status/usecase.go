package status

import (
	"context"
	"errors"
	"strings"
	"time"

	"epigrid/internal/app/ports"
	"epigrid/internal/app/runs"
	"epigrid/internal/domain/epidemic"
	"epigrid/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid status request")

// UseCase reports a live run from the registry and falls back to the last
// persisted summary for runs that are no longer loaded.
type UseCase struct {
	Registry *runs.Registry
	Runs     ports.RunRepository
	Clock    world.Clock
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.RunID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if u.Registry != nil {
		run, err := u.Registry.Get(req.RunID)
		if err == nil {
			var resp Response
			_ = run.Do(func(e *epidemic.Engine) error {
				resp = u.fromRecord(run.Record(e, time.Now().UTC()), e.Clock())
				return nil
			})
			resp.Live = true
			return resp, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return Response{}, err
		}
	}
	if u.Runs == nil {
		return Response{}, ports.ErrNotFound
	}
	rec, err := u.Runs.Get(ctx, req.RunID)
	if err != nil {
		return Response{}, err
	}
	clock := u.Clock
	if clock == (world.Clock{}) {
		clock = world.DefaultClock()
	}
	return u.fromRecord(rec, clock), nil
}

func (u UseCase) fromRecord(rec ports.RunRecord, clock world.Clock) Response {
	phase, next := clock.PhaseAt(rec.Tick)
	return Response{
		RunID:              rec.RunID,
		Tick:               rec.Tick,
		Hour:               clock.HourAt(rec.Tick),
		TimeOfDay:          string(phase),
		NextPhaseInTicks:   next,
		Width:              rec.Width,
		Height:             rec.Height,
		Policy:             rec.Policy,
		Population:         rec.Population,
		Counts:             rec.Counts,
		Infections:         rec.Infections,
		Recoveries:         rec.Recoveries,
		RunDeaths:          rec.RunDeaths,
		TotalDeaths:        rec.TotalDeaths,
		ReproductionNumber: rec.ReproductionNumber,
	}
}
