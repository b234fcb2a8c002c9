package gormrepo

import (
	"context"
	"time"

	"epigrid/internal/adapter/repo/gorm/model"
	"epigrid/internal/app/ports"
	"epigrid/internal/domain/epidemic"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tickStatsBatchSize = 500

type TickStatsRepo struct {
	db *gorm.DB
}

func NewTickStatsRepo(db *gorm.DB) TickStatsRepo {
	return TickStatsRepo{db: db}
}

// Append inserts one row per tick. A tick already stored for the run is an
// ErrConflict.
func (r TickStatsRepo) Append(ctx context.Context, runID string, reports []epidemic.TickReport, recordedAt time.Time) error {
	if len(reports) == 0 {
		return nil
	}
	rows := make([]model.TickStat, 0, len(reports))
	for _, rep := range reports {
		rows = append(rows, model.TickStat{
			RunID:                   runID,
			Tick:                    rep.Tick,
			Susceptible:             int32(rep.Counts.Susceptible),
			InfectedWithSymptoms:    int32(rep.Counts.InfectedWithSymptoms),
			InfectedWithoutSymptoms: int32(rep.Counts.InfectedWithoutSymptoms),
			Recovered:               int32(rep.Counts.Recovered),
			Deceased:                int32(rep.Counts.Deceased),
			NewInfections:           int32(rep.NewInfections),
			NewRecoveries:           int32(rep.NewRecoveries),
			NewDeaths:               int32(rep.NewDeaths),
			Removed:                 int32(rep.Removed),
			Moved:                   int32(rep.Moved),
			TotalDeaths:             rep.TotalDeaths,
			ReproductionNumber:      rep.ReproductionNumber,
			RecordedAt:              recordedAt,
		})
	}
	res := dbFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, tickStatsBatchSize)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(rows)) {
		return ports.ErrConflict
	}
	return nil
}

func (r TickStatsRepo) ListByRunID(ctx context.Context, runID string, q ports.TickQuery) ([]ports.TickStatRecord, error) {
	rows := []model.TickStat{}
	// Latest first unless the window is anchored at FromTick.
	desc := q.FromTick <= 0
	query := dbFromCtx(ctx, r.db).
		Where(&model.TickStat{RunID: runID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "tick"}, Desc: desc}},
		})
	if q.FromTick > 0 {
		query = query.Where("tick >= ?", q.FromTick)
	}
	if q.ToTick > 0 {
		query = query.Where("tick <= ?", q.ToTick)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		var n int64
		if err := dbFromCtx(ctx, r.db).Model(&model.TickStat{}).Where(&model.TickStat{RunID: runID}).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ports.ErrNotFound
		}
		return []ports.TickStatRecord{}, nil
	}

	out := make([]ports.TickStatRecord, len(rows))
	for i, row := range rows {
		at := i
		if desc {
			at = len(rows) - 1 - i
		}
		out[at] = ports.TickStatRecord{
			RunID: row.RunID,
			Report: epidemic.TickReport{
				Tick: row.Tick,
				Counts: epidemic.Counts{
					Susceptible:             int(row.Susceptible),
					InfectedWithSymptoms:    int(row.InfectedWithSymptoms),
					InfectedWithoutSymptoms: int(row.InfectedWithoutSymptoms),
					Recovered:               int(row.Recovered),
					Deceased:                int(row.Deceased),
				},
				NewInfections:      int(row.NewInfections),
				NewRecoveries:      int(row.NewRecoveries),
				NewDeaths:          int(row.NewDeaths),
				Removed:            int(row.Removed),
				Moved:              int(row.Moved),
				TotalDeaths:        row.TotalDeaths,
				ReproductionNumber: row.ReproductionNumber,
			},
			RecordedAt: row.RecordedAt,
		}
	}
	return out, nil
}
