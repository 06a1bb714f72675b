package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "templates:version"
	activeListKey   = "templates:active"
)

// Cache keeps the active listing in Redis under a versioned key.
// Bumping the version invalidates every cached listing at once.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns nil when ttl disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(ctx context.Context) (string, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		ver = 0
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", activeListKey, ver), nil
}

// Get returns the cached listing. ok is false on a miss.
func (c *Cache) Get(ctx context.Context) (items []Template, ok bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	key, err := c.key(ctx)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// Set stores the listing under the current version.
func (c *Cache) Set(ctx context.Context, items []Template) error {
	if c == nil {
		return nil
	}
	key, err := c.key(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Bump invalidates cached listings.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}
