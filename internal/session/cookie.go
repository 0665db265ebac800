package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

const (
	// UserCookie carries the session copy the edge guard reads without a
	// backend round trip.
	UserCookie = "user"
	// HandleCookie carries the opaque key of the durable record.
	HandleCookie = "sid"
)

// encode serialises a session for both the cookie and the durable record.
func encode(s domain.Session) ([]byte, error) {
	return json.Marshal(s)
}

// decode parses a stored session. Anything that does not yield a complete
// session is corrupt.
func decode(raw []byte) (domain.Session, error) {
	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Session{}, domain.ErrCorruptSession
	}
	if !s.Complete() {
		return domain.Session{}, domain.ErrCorruptSession
	}
	return s, nil
}

// ReadCookie returns the session copy carried by r, nil when there is none
// and domain.ErrCorruptSession when the cookie cannot be parsed.
func ReadCookie(r *http.Request) (*domain.Session, error) {
	c, err := r.Cookie(UserCookie)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil, domain.ErrCorruptSession
	}
	s, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ClearCookie expires the session copy only. The durable record and the
// handle cookie are left alone.
func ClearCookie(w http.ResponseWriter) {
	expire(w, UserCookie)
}

func writeCookie(w http.ResponseWriter, name, value string, ttl time.Duration, now time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  now.Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func expire(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
