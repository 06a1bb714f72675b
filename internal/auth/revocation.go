package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations tracks bearer tokens invalidated before their expiry.
type Revocations interface {
	Revoke(ctx context.Context, id string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// RedisRevocations keeps revoked token IDs until the token would have expired.
type RedisRevocations struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRevocations constructs the revocation list.
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client, now: time.Now}
}

// Revoke records id. Already expired tokens are ignored.
func (r *RedisRevocations) Revoke(ctx context.Context, id string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revocationKey(id), "1", ttl).Err()
}

// IsRevoked reports whether id was revoked.
func (r *RedisRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revocationKey(id string) string {
	return "auth:revoked:" + id
}

var _ Revocations = (*RedisRevocations)(nil)
