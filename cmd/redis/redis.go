package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopcore/inventory-core/cmd/config"
)

var (
	client *goredis.Client
	mut    sync.Mutex
)

// New initializes the package-level Redis client and pings it once.
func New(cfg *config.Config) error {
	mut.Lock()
	defer mut.Unlock()

	c := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return err
	}

	client = c
	return nil
}

// Get returns the initialized client, or nil when Redis is not configured.
func Get() *goredis.Client {
	mut.Lock()
	defer mut.Unlock()
	return client
}

// Close closes the client if it was initialized.
func Close() error {
	mut.Lock()
	defer mut.Unlock()
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}
