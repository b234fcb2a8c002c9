package ports

import (
	"context"
	"time"

	"epigrid/internal/domain/epidemic"
)

// RunRecord is the persisted summary of a run as of its latest step.
type RunRecord struct {
	RunID              string
	Width              int
	Height             int
	Seed               int64
	Policy             epidemic.Policy
	Population         epidemic.Population
	Tick               int64
	Counts             epidemic.Counts
	Infections         int
	Recoveries         int
	RunDeaths          int
	TotalDeaths        int64
	ReproductionNumber float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type TickStatRecord struct {
	RunID      string
	Report     epidemic.TickReport
	RecordedAt time.Time
}

type RunRepository interface {
	// Create fails with ErrConflict when the run id is taken.
	Create(ctx context.Context, run RunRecord) error
	Get(ctx context.Context, runID string) (RunRecord, error)
	Update(ctx context.Context, run RunRecord) error
	List(ctx context.Context, limit int) ([]RunRecord, error)
}

// TickQuery bounds a tick listing. FromTick and ToTick are inclusive and zero
// leaves a side open. With FromTick set the earliest Limit ticks of the window
// are returned, otherwise the latest. Limit 0 means no limit.
type TickQuery struct {
	FromTick int64
	ToTick   int64
	Limit    int
}

type TickStatsRepository interface {
	Append(ctx context.Context, runID string, reports []epidemic.TickReport, recordedAt time.Time) error
	// ListByRunID returns the ticks selected by q in ascending tick order and
	// ErrNotFound when the run has none.
	ListByRunID(ctx context.Context, runID string, q TickQuery) ([]TickStatRecord, error)
}
