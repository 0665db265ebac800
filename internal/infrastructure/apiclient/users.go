package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

type UserClient struct {
	gw *Gateway
}

func NewUserClient(gw *Gateway) *UserClient {
	return &UserClient{gw: gw}
}

type rechargeRequest struct {
	Amount int `json:"cantidad"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// Create calls POST /usuarios.
func (c *UserClient) Create(ctx context.Context, in domain.CreateUserInput) (*domain.User, error) {
	var out domain.User
	if err := c.gw.Do(ctx, http.MethodPost, "/usuarios", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List calls GET /usuarios (every role).
func (c *UserClient) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.gw.Do(ctx, http.MethodGet, "/usuarios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListClients calls GET /usuarios/clientes.
func (c *UserClient) ListClients(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.gw.Do(ctx, http.MethodGet, "/usuarios/clientes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserClient) Get(ctx context.Context, id string) (*domain.User, error) {
	var out domain.User
	if err := c.gw.Do(ctx, http.MethodGet, "/usuarios/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recharge calls PATCH /usuarios/{id}/recargar with {"cantidad": amount}.
func (c *UserClient) Recharge(ctx context.Context, id string, amount int) (*domain.User, error) {
	var out domain.User
	path := "/usuarios/" + url.PathEscape(id) + "/recargar"
	if err := c.gw.Do(ctx, http.MethodPatch, path, rechargeRequest{Amount: amount}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword calls PATCH /usuarios/{id}/reset-password. The response body
// is ignored.
func (c *UserClient) ResetPassword(ctx context.Context, id, newPassword string) error {
	path := "/usuarios/" + url.PathEscape(id) + "/reset-password"
	return c.gw.Do(ctx, http.MethodPatch, path, resetPasswordRequest{NewPassword: newPassword}, nil)
}
