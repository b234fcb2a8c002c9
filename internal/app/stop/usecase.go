package stop

import (
	"context"
	"errors"
	"log"
	"strings"

	"epigrid/internal/app/ports"
	"epigrid/internal/app/runs"
	"epigrid/internal/domain/epidemic"
)

var ErrInvalidRequest = errors.New("invalid stop request")

// UseCase unloads a live run and releases what its sinks hold for it. The
// persisted summary and tick history stay readable.
type UseCase struct {
	Registry *runs.Registry
	Closers  []ports.RunCloser
}

func (u UseCase) Execute(_ context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.RunID) == "" {
		return Response{}, ErrInvalidRequest
	}
	run, err := u.Registry.Get(req.RunID)
	if err != nil {
		return Response{}, err
	}
	resp := Response{RunID: run.ID}
	removed := false
	_ = run.Do(func(e *epidemic.Engine) error {
		// Removing under the run lock lets an in-flight step finish first.
		removed = u.Registry.Remove(run.ID)
		resp.Tick = e.Tick()
		resp.Counts = e.Counts()
		resp.UnpersistedTicks = len(run.Pending())
		return nil
	})
	if !removed {
		return Response{}, ports.ErrNotFound
	}
	if resp.UnpersistedTicks > 0 {
		log.Printf("stop: run %s dropped %d unpersisted ticks", run.ID, resp.UnpersistedTicks)
	}
	for _, c := range u.Closers {
		if err := c.CloseRun(run.ID); err != nil {
			log.Printf("stop: close run %s: %v", run.ID, err)
		}
	}
	return resp, nil
}
