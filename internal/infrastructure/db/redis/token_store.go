package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ms19/journal-system/internal/core/ports"
)

// Denylist stores revoked token ids until the token would have expired anyway.
// Key format: revoked:<jti>
type Denylist struct {
	client redis.UniversalClient
	now    func() time.Time
}

var _ ports.TokenDenylist = (*Denylist)(nil)

func NewDenylist(client redis.UniversalClient) *Denylist {
	return &Denylist{client: client, now: time.Now}
}

// Revoke marks jti as revoked. A token already past until needs no entry.
func (d *Denylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (d *Denylist) key(jti string) string {
	return "revoked:" + jti
}
