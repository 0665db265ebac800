package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

func TestStore_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore().WithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := s.Set(ctx, "session:a", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := s.Get(ctx, "session:a"); err != nil {
		t.Fatalf("expected value before expiry, got %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "session:a"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after expiry, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no live keys, got %d", s.Len())
	}
}

func TestStore_AcquireRelease(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	ok, _ := s.Acquire(ctx, "busy:h:estado:o1", time.Minute)
	if !ok {
		t.Fatalf("first acquire should succeed")
	}
	ok, _ = s.Acquire(ctx, "busy:h:estado:o1", time.Minute)
	if ok {
		t.Fatalf("second acquire should be refused while held")
	}
	if err := s.Release(ctx, "busy:h:estado:o1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, _ = s.Acquire(ctx, "busy:h:estado:o1", time.Minute)
	if !ok {
		t.Fatalf("acquire after release should succeed")
	}
}
