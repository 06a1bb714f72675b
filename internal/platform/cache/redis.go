// Package cache owns the Redis connection shared by sessions, token
// revocations, the templates cache and the asynq queue.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Options addresses one Redis logical database.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Asynq returns the same endpoint in the shape the queue client expects.
func (o Options) Asynq() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: o.Addr, Password: o.Password, DB: o.DB}
}

// New connects to Redis and fails fast when the server is unreachable.
func New(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("platform/cache: empty address")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping %s: %w", opts.Addr, err)
	}
	return client, nil
}
