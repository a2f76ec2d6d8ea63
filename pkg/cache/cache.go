// Package cache is a thin Redis wrapper used as a read-through cache for
// product lookups. When Redis is unreachable every operation degrades to
// a no-op so the store keeps serving from Mongo.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
)

var rdb *redis.Client

// Connect initialises the Redis client and verifies the connection.
// Returns an error so the caller can log a warning and continue.
func Connect(ctx context.Context) error {
	rdb = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb = nil // mark unavailable so Get/Set/Del no-op safely
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Client exposes the underlying connection for subsystems that share
// it, like the job queue. Nil when Redis is unavailable.
func Client() *redis.Client { return rdb }

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}

	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		metrics.CacheMisses.Inc()
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.CacheMisses.Inc()
		return false
	}

	metrics.CacheHits.Inc()
	return true
}

// Set stores value under key for the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return rdb.Set(ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(ctx context.Context, keys ...string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}
