package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BusyGuard marks an action as outstanding with SET NX, so a second submit
// of the same action is refused until the first one answers or the TTL runs
// out. Key format: busy:<handle>:<route>:<id> (built by the caller).
type BusyGuard struct {
	client *redis.Client
}

func NewBusyGuard(client *redis.Client) *BusyGuard {
	return &BusyGuard{client: client}
}

// Acquire reports whether the flag was free and is now held by the caller.
func (g *BusyGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("busy acquire: %w", err)
	}
	return ok, nil
}

func (g *BusyGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, key).Err()
}
