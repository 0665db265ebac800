package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCorruptSession  = errors.New("session data is not parseable")
)

// Session is the identity and credential kept for the current login.
type Session struct {
	ID        string `json:"id"`
	Name      string `json:"nombre"`
	Email     string `json:"email"`
	Role      Role   `json:"rol"`
	Token     string `json:"token"`
	TokenType string `json:"type"`
}

// IsAdmin reports whether the session may enter the admin area.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Complete reports whether every field a login must supply is present.
// TokenType is informational and may be empty.
func (s Session) Complete() bool {
	return s.ID != "" && s.Name != "" && s.Email != "" && s.Role != "" && s.Token != ""
}

// AuthResult is the body returned by POST /auth/login.
type AuthResult struct {
	ID        string `json:"id"`
	Name      string `json:"nombre"`
	Email     string `json:"email"`
	Role      Role   `json:"rol"`
	Message   string `json:"message"`
	Token     string `json:"token"`
	TokenType string `json:"type"`
}

// Session builds the session value a successful login persists.
func (a AuthResult) Session() Session {
	return Session{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Token:     a.Token,
		TokenType: a.TokenType,
	}
}
