package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

type AuthClient struct {
	gw *Gateway
}

func NewAuthClient(gw *Gateway) *AuthClient {
	return &AuthClient{gw: gw}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login calls POST /auth/login. An answer without a token is a broken
// response, not a login.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.gw.Do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, domain.Unreachable(errors.New("login response carried no token"))
	}
	return &out, nil
}
