package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/maryamMilad/ai-trading-agent/internal/model"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) SaveRun(ctx context.Context, run *model.AnalysisRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs(id, started_at, finished_at, ticker_count, succeeded, failed)
		VALUES($1, $2, $3, $4, $5, $6)
	`, run.ID, run.StartedAt, run.FinishedAt, run.TickerCount, run.Succeeded, run.Failed)
	return err
}

func (r *RunRepository) LatestRun(ctx context.Context) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	err := r.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, ticker_count, succeeded, failed
		FROM analysis_runs
		ORDER BY started_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.TickerCount, &run.Succeeded, &run.Failed)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
