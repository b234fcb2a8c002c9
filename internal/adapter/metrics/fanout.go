package metrics

import (
	"epigrid/internal/app/ports"
	"epigrid/internal/domain/epidemic"
)

// Fanout forwards every observation to each recorder in order.
type Fanout []ports.TickMetrics

func (f Fanout) RecordRunStarted() {
	for _, m := range f {
		m.RecordRunStarted()
	}
}

func (f Fanout) RecordTick(report epidemic.TickReport) {
	for _, m := range f {
		m.RecordTick(report)
	}
}

func (f Fanout) RecordStepFailure() {
	for _, m := range f {
		m.RecordStepFailure()
	}
}
