package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"epigrid/internal/adapter/repo/gorm/model"
	"epigrid/internal/app/ports"
	"epigrid/internal/domain/epidemic"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RunRepo struct {
	db *gorm.DB
}

func NewRunRepo(db *gorm.DB) RunRepo {
	return RunRepo{db: db}
}

func (r RunRepo) Create(ctx context.Context, run ports.RunRecord) error {
	m, err := toRunModel(run)
	if err != nil {
		return err
	}
	res := dbFromCtx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r RunRepo) Get(ctx context.Context, runID string) (ports.RunRecord, error) {
	var m model.Run
	if err := dbFromCtx(ctx, r.db).Where("run_id = ?", runID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RunRecord{}, ports.ErrNotFound
		}
		return ports.RunRecord{}, err
	}
	return fromRunModel(m)
}

func (r RunRepo) Update(ctx context.Context, run ports.RunRecord) error {
	m, err := toRunModel(run)
	if err != nil {
		return err
	}
	updates := map[string]any{
		"tick":                      m.Tick,
		"susceptible":               m.Susceptible,
		"infected_with_symptoms":    m.InfectedWithSymptoms,
		"infected_without_symptoms": m.InfectedWithoutSymptoms,
		"recovered":                 m.Recovered,
		"deceased":                  m.Deceased,
		"infections":                m.Infections,
		"recoveries":                m.Recoveries,
		"run_deaths":                m.RunDeaths,
		"total_deaths":              m.TotalDeaths,
		"reproduction_number":       m.ReproductionNumber,
		"updated_at":                m.UpdatedAt,
	}
	res := dbFromCtx(ctx, r.db).Model(&model.Run{}).Where("run_id = ?", run.RunID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r RunRepo) List(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	rows := []model.Run{}
	query := dbFromCtx(ctx, r.db).Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.RunRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRunModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRunModel(run ports.RunRecord) (model.Run, error) {
	policy, err := json.Marshal(run.Policy)
	if err != nil {
		return model.Run{}, fmt.Errorf("encode policy: %w", err)
	}
	return model.Run{
		RunID:                   run.RunID,
		Width:                   int32(run.Width),
		Height:                  int32(run.Height),
		Seed:                    run.Seed,
		Policy:                  policy,
		SusceptibleAgents:       int32(run.Population.Susceptible),
		InfectedAgents:          int32(run.Population.Infected),
		Tick:                    run.Tick,
		Susceptible:             int32(run.Counts.Susceptible),
		InfectedWithSymptoms:    int32(run.Counts.InfectedWithSymptoms),
		InfectedWithoutSymptoms: int32(run.Counts.InfectedWithoutSymptoms),
		Recovered:               int32(run.Counts.Recovered),
		Deceased:                int32(run.Counts.Deceased),
		Infections:              int32(run.Infections),
		Recoveries:              int32(run.Recoveries),
		RunDeaths:               int32(run.RunDeaths),
		TotalDeaths:             run.TotalDeaths,
		ReproductionNumber:      run.ReproductionNumber,
		CreatedAt:               run.CreatedAt,
		UpdatedAt:               run.UpdatedAt,
	}, nil
}

func fromRunModel(m model.Run) (ports.RunRecord, error) {
	var policy epidemic.Policy
	if len(m.Policy) > 0 {
		if err := json.Unmarshal(m.Policy, &policy); err != nil {
			return ports.RunRecord{}, fmt.Errorf("decode policy of run %s: %w", m.RunID, err)
		}
	}
	return ports.RunRecord{
		RunID:  m.RunID,
		Width:  int(m.Width),
		Height: int(m.Height),
		Seed:   m.Seed,
		Policy: policy,
		Population: epidemic.Population{
			Susceptible: int(m.SusceptibleAgents),
			Infected:    int(m.InfectedAgents),
		},
		Tick: m.Tick,
		Counts: epidemic.Counts{
			Susceptible:             int(m.Susceptible),
			InfectedWithSymptoms:    int(m.InfectedWithSymptoms),
			InfectedWithoutSymptoms: int(m.InfectedWithoutSymptoms),
			Recovered:               int(m.Recovered),
			Deceased:                int(m.Deceased),
		},
		Infections:         int(m.Infections),
		Recoveries:         int(m.Recoveries),
		RunDeaths:          int(m.RunDeaths),
		TotalDeaths:        m.TotalDeaths,
		ReproductionNumber: m.ReproductionNumber,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}
