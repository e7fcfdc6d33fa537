package redis

import (
	"context"
	"time"

	redisclient "github.com/shopcore/inventory-core/cmd/redis"
)

// Repository wraps the Redis operations the core needs. When the client
// is not configured every call degrades to a no-op so the inventory
// write paths never depend on Redis being up.
type Repository interface {
	// AcquireOnce sets key with a TTL only if it does not exist yet and
	// reports whether this caller won. Used to dedupe low-stock alerts.
	AcquireOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redis struct {
}

// NewRepository returns a Redis Repository implementation
func NewRepository() Repository {
	return &redis{}
}

func (r *redis) AcquireOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	client := redisclient.Get()
	if client == nil {
		return true, nil
	}
	return client.SetNX(ctx, key, 1, ttl).Result()
}

func (r *redis) Get(ctx context.Context, key string) (string, error) {
	client := redisclient.Get()
	if client == nil {
		return "", nil
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redis) Delete(ctx context.Context, key string) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Del(ctx, key).Err()
}
