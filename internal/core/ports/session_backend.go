package ports

import (
	"context"
	"time"
)

// SessionBackend is the durable key/value target sessions are written
// through to. Get returns domain.ErrSessionNotFound for missing or expired
// keys.
type SessionBackend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// BusyGuard is a best-effort "request outstanding" flag per action.
// Acquire reports false when the key is already held.
type BusyGuard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
