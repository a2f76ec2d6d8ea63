package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueFull is returned by Push when the backend cannot accept more
// jobs.
var ErrQueueFull = errors.New("queue: full")

const redisQueueKey = "dukaan:queue:jobs"

// RedisDriver stores jobs in a Redis list so they survive process
// restarts and can be shared by multiple instances.
type RedisDriver struct {
	rdb *redis.Client
}

// NewRedisDriver wraps an existing client, typically the one pkg/cache
// already holds.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	return &RedisDriver{rdb: rdb}
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), redisQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks up to five seconds waiting for a job. A nil payload with a
// nil error means the wait timed out and the worker should poll again.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, 5*time.Second, redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	return []byte(result[1]), nil
}
