package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/savings-forecast/pkg/annuity"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis shares progressions between server instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis connects to addr. A zero ttl stores entries without expiry.
func NewRedis(logger *zap.Logger, addr string, ttl time.Duration) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// Ping checks that the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get treats any Redis or decoding failure as a miss.
func (r *Redis) Get(ctx context.Context, key string) (annuity.Series, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("progression cache read failed",
				zap.String("op", "cache.Redis.Get"),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var series annuity.Series
	if err := json.Unmarshal(val, &series); err != nil {
		r.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "cache.Redis.Get"),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	return series, true
}

// Set stores series as JSON.
func (r *Redis) Set(ctx context.Context, key string, series annuity.Series) error {
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to encode progression: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store progression: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
