package ports

import "epigrid/internal/domain/epidemic"

type TickMetrics interface {
	RecordRunStarted()
	RecordTick(report epidemic.TickReport)
	RecordStepFailure()
}
