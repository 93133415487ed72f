package db

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

const (
	LatestPredictionKeyPrefix = "aiagent:prediction:latest:"
	RunLockKey                = "aiagent:lock:daily-analysis"
)

var ErrLockHeld = errors.New("analysis lock is held by another run")

// ConnectRedis is optional: an empty URL leaves Redis nil and callers fall
// back to the database alone.
func ConnectRedis(ctx context.Context, redisURL string) error {
	if redisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// AcquireLock takes the run lock with SET NX. The returned release func only
// deletes the key if it still holds our token.
func AcquireLock(ctx context.Context, client *redis.Client, key, token string, ttl time.Duration) (func(context.Context) error, error) {
	ok, err := client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		current, err := client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != token {
			return nil
		}
		return client.Del(ctx, key).Err()
	}
	return release, nil
}
