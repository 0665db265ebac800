package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/tiendamonedas/admin-dashboard/internal/api/metrics"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

// Handle is the per-request view of the caller's session. It hydrates from
// the durable backend at most once and is then updated synchronously by
// Login and Logout, so the rest of the request sees the new state.
type Handle struct {
	store *Store
	w     http.ResponseWriter
	r     *http.Request

	once    sync.Once
	wmu     sync.Mutex
	sealed  bool
	mu      sync.RWMutex
	loading bool
	key     string
	current *domain.Session
}

// Open starts a handle for one request. Nothing is read until Hydrate.
func (s *Store) Open(w http.ResponseWriter, r *http.Request) *Handle {
	return &Handle{store: s, w: w, r: r, loading: true}
}

// Hydrate loads the session from the durable backend. Only the first call
// does any work. A record that cannot be parsed is treated as absent and
// removed from every target; an unreachable backend leaves the caller
// logged out for this request without touching stored state.
func (h *Handle) Hydrate(ctx context.Context) {
	h.once.Do(func() {
		result := h.hydrate(ctx)
		metrics.SessionHydrationsTotal.WithLabelValues(result).Inc()

		h.mu.Lock()
		h.loading = false
		h.mu.Unlock()
	})
}

func (h *Handle) hydrate(ctx context.Context) string {
	c, err := h.r.Cookie(HandleCookie)
	if err != nil || c.Value == "" {
		return "absent"
	}

	raw, err := h.store.backend.Get(ctx, storageKey(c.Value))
	if errors.Is(err, domain.ErrSessionNotFound) {
		// The record expired; drop the cookies that still point at it.
		h.expire(UserCookie)
		h.expire(HandleCookie)
		return "expired"
	}
	if err != nil {
		h.store.log.Warn().Err(err).Msg("session backend unavailable, continuing logged out")
		return "unavailable"
	}

	sess, err := decode(raw)
	if err != nil {
		h.store.log.Warn().Err(err).Msg("discarding unparseable session")
		h.clear(ctx, c.Value)
		return "corrupt"
	}

	h.mu.Lock()
	h.key = c.Value
	h.current = &sess
	h.mu.Unlock()
	return "ok"
}

// Loading is true until hydration has been attempted. Callers must treat it
// as "identity unknown", not as "logged out".
func (h *Handle) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// User returns the current session, if any.
func (h *Handle) User() (domain.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return domain.Session{}, false
	}
	return *h.current, true
}

func (h *Handle) IsAdmin() bool {
	s, ok := h.User()
	return ok && s.IsAdmin()
}

// Token returns the bearer credential, empty when logged out. Safe on a nil
// handle.
func (h *Handle) Token() string {
	if h == nil {
		return ""
	}
	s, ok := h.User()
	if !ok {
		return ""
	}
	return s.Token
}

// Login persists sess to both targets and makes it the current session.
// When the durable write fails nothing is changed.
func (h *Handle) Login(ctx context.Context, sess domain.Session) error {
	if !sess.Complete() {
		return domain.Invalid("La sesión recibida está incompleta.")
	}
	h.Hydrate(ctx)

	key := uuid.NewString()
	if err := h.save(ctx, key, sess); err != nil {
		return err
	}

	h.mu.Lock()
	previous := h.key
	h.key = key
	h.current = &sess
	h.mu.Unlock()

	if previous != "" {
		if err := h.store.backend.Delete(ctx, storageKey(previous)); err != nil {
			h.store.log.Warn().Err(err).Msg("failed to delete replaced session")
		}
	}

	h.store.log.Info().Str("user_id", sess.ID).Str("role", string(sess.Role)).Msg("session started")
	return nil
}

// Logout drops the session from memory, the backend and both cookies. No
// call is made to the API; the credential stays valid until it expires.
func (h *Handle) Logout(ctx context.Context) error {
	h.Hydrate(ctx)

	h.mu.RLock()
	key := h.key
	h.mu.RUnlock()
	if key == "" {
		if c, err := h.r.Cookie(HandleCookie); err == nil {
			key = c.Value
		}
	}

	err := h.clear(ctx, key)
	h.store.log.Info().Msg("session ended")
	return err
}

// save is the single write-through point for both targets.
func (h *Handle) save(ctx context.Context, key string, sess domain.Session) error {
	raw, err := encode(sess)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	ttl := h.store.ttlFor(sess.Token)
	if err := h.store.backend.Set(ctx, storageKey(key), raw, ttl); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	h.wmu.Lock()
	defer h.wmu.Unlock()
	if h.sealed {
		return nil
	}
	now := h.store.now()
	writeCookie(h.w, UserCookie, base64.RawURLEncoding.EncodeToString(raw), ttl, now, h.store.secure)
	writeCookie(h.w, HandleCookie, key, ttl, now, h.store.secure)
	return nil
}

func (h *Handle) expire(name string) {
	h.wmu.Lock()
	defer h.wmu.Unlock()
	if h.sealed {
		return
	}
	expire(h.w, name)
}

// Detach stops the handle from writing cookies. It is called when the
// response is sent before a slow hydration finishes; the backend is still
// updated.
func (h *Handle) Detach() {
	h.wmu.Lock()
	h.sealed = true
	h.wmu.Unlock()
}

// clear is the single removal point for both targets.
func (h *Handle) clear(ctx context.Context, key string) error {
	h.mu.Lock()
	h.key = ""
	h.current = nil
	h.mu.Unlock()

	h.expire(UserCookie)
	h.expire(HandleCookie)

	if key == "" {
		return nil
	}
	if err := h.store.backend.Delete(ctx, storageKey(key)); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

type handleKey struct{}

// WithHandle stores h in ctx.
func WithHandle(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, handleKey{}, h)
}

// FromContext returns the handle stored by WithHandle, or nil.
func FromContext(ctx context.Context) *Handle {
	h, _ := ctx.Value(handleKey{}).(*Handle)
	return h
}

// TokenFromContext returns the bearer credential of the request's session.
func TokenFromContext(ctx context.Context) string {
	return FromContext(ctx).Token()
}
