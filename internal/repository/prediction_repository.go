package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maryamMilad/ai-trading-agent/internal/model"
)

const predictionColumns = `id, ticker, signal, confidence, reasoning, key_factors, risks,
	timeframe, sentiment_score, article_count, model_used, run_id, created_at`

type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	keyFactors, err := marshalList(p.KeyFactors)
	if err != nil {
		return err
	}
	risks, err := marshalList(p.Risks)
	if err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO predictions(ticker, signal, confidence, reasoning, key_factors, risks,
			timeframe, sentiment_score, article_count, model_used, run_id, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, p.Ticker, p.Signal, p.Confidence, p.Reasoning, keyFactors, risks,
		p.Timeframe, p.SentimentScore, p.ArticleCount, p.ModelUsed, p.RunID, p.CreatedAt).Scan(&p.ID)
}

func (r *PredictionRepository) Latest(ctx context.Context, ticker string) (*model.Prediction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+predictionColumns+`
		FROM predictions
		WHERE ticker = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, ticker)

	p, err := scanPrediction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PredictionRepository) History(ctx context.Context, ticker string, limit int) ([]model.Prediction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+predictionColumns+`
		FROM predictions
		WHERE ticker = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, ticker, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return predictions, nil
}

// Ping checks that the predictions table is reachable, not just the server.
func (r *PredictionRepository) Ping(ctx context.Context) error {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM predictions LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (*model.Prediction, error) {
	var p model.Prediction
	var keyFactors, risks []byte

	err := row.Scan(&p.ID, &p.Ticker, &p.Signal, &p.Confidence, &p.Reasoning, &keyFactors, &risks,
		&p.Timeframe, &p.SentimentScore, &p.ArticleCount, &p.ModelUsed, &p.RunID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if p.KeyFactors, err = unmarshalList(keyFactors); err != nil {
		return nil, fmt.Errorf("decode key_factors for prediction %d: %w", p.ID, err)
	}
	if p.Risks, err = unmarshalList(risks); err != nil {
		return nil, fmt.Errorf("decode risks for prediction %d: %w", p.ID, err)
	}

	return &p, nil
}

// marshalList returns a string so lib/pq sends it as text; []byte would be
// encoded as bytea and rejected by a JSONB column.
func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalList(raw []byte) ([]string, error) {
	items := []string{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
