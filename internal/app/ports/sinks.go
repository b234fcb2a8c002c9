package ports

import (
	"context"

	"epigrid/internal/domain/epidemic"
)

// TickSink receives the reports of one step and the frame after its last tick.
type TickSink interface {
	PublishTicks(ctx context.Context, runID string, reports []epidemic.TickReport, frame epidemic.Frame) error
}

// RunCloser is implemented by sinks that hold per-run resources.
type RunCloser interface {
	CloseRun(runID string) error
}
