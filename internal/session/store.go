// Package session keeps the dashboard operator's identity.
//
// A Store is built once at startup and opens one Handle per request. Every
// login writes the session through to two targets with a single save,
// every logout removes it from both with a single clear:
//
//   - the durable backend, keyed by an opaque handle kept in the "sid" cookie
//   - the "user" cookie, which exists only so the edge route guard can read
//     the identity without a backend lookup
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
)

// DefaultTTL is the expiry horizon for both persistence targets.
const DefaultTTL = 7 * 24 * time.Hour

const (
	keyPrefix = "session:"
	minTTL    = time.Minute
)

// Options tunes a Store.
type Options struct {
	// TTL defaults to DefaultTTL.
	TTL time.Duration
	// Secure marks cookies as HTTPS-only.
	Secure bool
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Store owns the persistence of sessions.
type Store struct {
	backend ports.SessionBackend
	ttl     time.Duration
	secure  bool
	now     func() time.Time
	log     zerolog.Logger
}

func NewStore(backend ports.SessionBackend, opts Options, log zerolog.Logger) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		backend: backend,
		ttl:     opts.TTL,
		secure:  opts.Secure,
		now:     opts.Now,
		log:     log.With().Str("component", "session").Logger(),
	}
}

// Ping checks the durable backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// ttlFor caps the horizon at the credential's own expiry when the token is
// a JWT with an exp claim. The signature is not verified here; the API does
// that on every call.
func (s *Store) ttlFor(token string) time.Duration {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return s.ttl
	}
	left := claims.ExpiresAt.Time.Sub(s.now())
	if left < minTTL {
		return minTTL
	}
	if left < s.ttl {
		return left
	}
	return s.ttl
}

func storageKey(handle string) string {
	return keyPrefix + handle
}
