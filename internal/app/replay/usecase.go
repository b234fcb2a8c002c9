package replay

import (
	"context"
	"errors"
	"strings"

	"epigrid/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const defaultLimit = 500

type UseCase struct {
	TickStats ports.TickStatsRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.RunID) == "" || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	if req.FromTick > 0 && req.ToTick > 0 && req.FromTick > req.ToTick {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	ticks, err := u.TickStats.ListByRunID(ctx, req.RunID, ports.TickQuery{
		FromTick: req.FromTick,
		ToTick:   req.ToTick,
		Limit:    limit,
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Ticks: ticks, Curve: reconstruct(ticks)}, nil
}

func reconstruct(ticks []ports.TickStatRecord) Curve {
	c := Curve{
		Ticks:       make([]int64, 0, len(ticks)),
		Susceptible: make([]int, 0, len(ticks)),
		Infected:    make([]int, 0, len(ticks)),
		Recovered:   make([]int, 0, len(ticks)),
		Deceased:    make([]int, 0, len(ticks)),
	}
	for _, t := range ticks {
		r := t.Report
		c.Ticks = append(c.Ticks, r.Tick)
		c.Susceptible = append(c.Susceptible, r.Counts.Susceptible)
		c.Infected = append(c.Infected, r.Counts.Infected())
		c.Recovered = append(c.Recovered, r.Counts.Recovered)
		c.Deceased = append(c.Deceased, r.Counts.Deceased)
		c.NewInfections += r.NewInfections
		c.NewRecoveries += r.NewRecoveries
		c.NewDeaths += r.NewDeaths
		if r.Counts.Infected() > c.PeakInfected {
			c.PeakInfected = r.Counts.Infected()
			c.PeakTick = r.Tick
		}
		c.LatestR0 = r.ReproductionNumber
		c.LatestCounts = r.Counts
	}
	return c
}
