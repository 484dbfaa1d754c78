// Package cache provides a small Redis-backed string cache used by the shop
// API adapter as a read-through cache for catalog responses.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores opaque string values under namespaced keys.
type Cache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the cached value. ok is false on a miss; err is reserved
	// for transport failures.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Key(operation, id string) string
}

type redisCache struct {
	client    *redis.Client
	namespace string
}

// NewRedis connects to the Redis instance at addr. namespace prefixes every
// key so several services can share one instance.
func NewRedis(addr, namespace string) Cache {
	return &redisCache{
		client:    redis.NewClient(&redis.Options{Addr: addr}),
		namespace: namespace,
	}
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *redisCache) Key(operation, id string) string {
	if id == "" {
		return fmt.Sprintf("%s:%s", r.namespace, operation)
	}
	return fmt.Sprintf("%s:%s:%s", r.namespace, operation, id)
}
