package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

// SessionBackend stores session records as plain strings with a native TTL.
// Key format: session:<handle> (the prefix is added by the session store).
type SessionBackend struct {
	client *redis.Client
}

func NewSessionBackend(client *redis.Client) *SessionBackend {
	return &SessionBackend{client: client}
}

func (b *SessionBackend) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	return raw, nil
}

func (b *SessionBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (b *SessionBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (b *SessionBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
