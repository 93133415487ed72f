package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/maryamMilad/ai-trading-agent/internal/model"

	"github.com/redis/go-redis/v9"
)

const DefaultCacheTTL = 10 * time.Minute

// PredictionStore is the subset of PredictionRepository the cache wraps.
type PredictionStore interface {
	Save(ctx context.Context, p *model.Prediction) error
	Latest(ctx context.Context, ticker string) (*model.Prediction, error)
	History(ctx context.Context, ticker string, limit int) ([]model.Prediction, error)
	Ping(ctx context.Context) error
}

// CachedPredictionRepository serves Latest from Redis and writes through on
// Save. Redis failures are logged and the database answers instead.
type CachedPredictionRepository struct {
	PredictionStore
	redis     *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewCachedPredictionRepository(store PredictionStore, client *redis.Client, keyPrefix string, ttl time.Duration) *CachedPredictionRepository {
	return &CachedPredictionRepository{
		PredictionStore: store,
		redis:           client,
		keyPrefix:       keyPrefix,
		ttl:             ttl,
	}
}

func (r *CachedPredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	if err := r.PredictionStore.Save(ctx, p); err != nil {
		return err
	}
	r.put(ctx, p)
	return nil
}

func (r *CachedPredictionRepository) Latest(ctx context.Context, ticker string) (*model.Prediction, error) {
	raw, err := r.redis.Get(ctx, r.keyPrefix+ticker).Bytes()
	if err == nil {
		var p model.Prediction
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		slog.Warn("discarding unreadable cached prediction", "ticker", ticker)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("redis get failed, reading from database", "ticker", ticker, "error", err)
	}

	p, err := r.PredictionStore.Latest(ctx, ticker)
	if err != nil || p == nil {
		return p, err
	}

	r.put(ctx, p)
	return p, nil
}

func (r *CachedPredictionRepository) put(ctx context.Context, p *model.Prediction) {
	raw, err := json.Marshal(p)
	if err != nil {
		slog.Warn("error encoding prediction for cache", "ticker", p.Ticker, "error", err)
		return
	}

	if err := r.redis.Set(ctx, r.keyPrefix+p.Ticker, raw, r.ttl).Err(); err != nil {
		slog.Warn("redis set failed", "ticker", p.Ticker, "error", err)
	}
}
