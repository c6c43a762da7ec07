package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptRepository counts events per key inside a fixed window backed by Redis.
// A nil client disables counting.
type AttemptRepository struct {
	client *redis.Client
}

// NewAttemptRepository constructs an attempt counter.
func NewAttemptRepository(client *redis.Client) *AttemptRepository {
	return &AttemptRepository{client: client}
}

// Enabled reports whether attempts are being tracked.
func (r *AttemptRepository) Enabled() bool {
	return r != nil && r.client != nil
}

// Increment bumps the counter for key and returns the new count. The window
// starts with the first attempt and is not extended by later ones.
func (r *AttemptRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	if !r.Enabled() {
		return 0, nil
	}
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis increment %s: %w", key, err)
	}
	return incr.Val(), nil
}
