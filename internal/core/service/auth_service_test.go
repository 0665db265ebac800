package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

func authResult(role domain.Role) *domain.AuthResult {
	return &domain.AuthResult{
		ID:        "u1",
		Name:      "Ana",
		Email:     "ana@example.com",
		Role:      role,
		Token:     "jwt",
		TokenType: "Bearer",
	}
}

func TestAuthService_AdminGoesToAdminHome(t *testing.T) {
	svc := NewAuthService(&stubAuthClient{result: authResult(domain.RoleAdmin)}, zerolog.Nop())
	sess := &stubSession{}

	res := svc.SignIn(context.Background(), sess, "ana@example.com", "secret")

	if res.Redirect != domain.AdminHome {
		t.Fatalf("redirect = %q, want %q", res.Redirect, domain.AdminHome)
	}
	if sess.current == nil || sess.current.Role != domain.RoleAdmin {
		t.Fatalf("admin session not persisted")
	}
}

func TestAuthService_ClientIsLoggedOutWithMessage(t *testing.T) {
	svc := NewAuthService(&stubAuthClient{result: authResult(domain.RoleClient)}, zerolog.Nop())
	sess := &stubSession{}

	res := svc.SignIn(context.Background(), sess, "ana@example.com", "secret")

	if res.Redirect != "" {
		t.Fatalf("client must stay on the login page, got %q", res.Redirect)
	}
	if res.Message != MsgNotAdmin {
		t.Fatalf("message = %q", res.Message)
	}
	if sess.logins != 1 || sess.logouts != 1 || sess.current != nil {
		t.Fatalf("expected login then logout, got %+v", sess)
	}
}

func TestAuthService_MissingFields(t *testing.T) {
	client := &stubAuthClient{}
	svc := NewAuthService(client, zerolog.Nop())

	res := svc.SignIn(context.Background(), &stubSession{}, "  ", "secret")
	if res.Message != MsgMissingFields || client.calls != 0 {
		t.Fatalf("blank email must not reach the API: %+v", res)
	}
}

func TestAuthService_PersistFailure(t *testing.T) {
	svc := NewAuthService(&stubAuthClient{result: authResult(domain.RoleAdmin)}, zerolog.Nop())

	res := svc.SignIn(context.Background(), &stubSession{loginErr: errors.New("redis down")}, "ana@example.com", "secret")
	if res.Redirect != "" || res.Message != MsgUnexpected {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLoginMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server error", domain.Rejected(500, "NullPointerException"), MsgServerTrouble},
		{"server message", domain.Rejected(401, "Usuario bloqueado"), "Usuario bloqueado"},
		{"no message", domain.Rejected(401, ""), MsgWrongCredentials},
		{"network", domain.Unreachable(errors.New("refused")), MsgUnexpected},
		{"other", errors.New("boom"), MsgUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoginMessage(tt.err); got != tt.want {
				t.Fatalf("LoginMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
