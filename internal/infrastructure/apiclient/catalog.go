package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

type CatalogClient struct {
	gw *Gateway
}

func NewCatalogClient(gw *Gateway) *CatalogClient {
	return &CatalogClient{gw: gw}
}

func (c *CatalogClient) List(ctx context.Context) ([]domain.Service, error) {
	var out []domain.Service
	if err := c.gw.Do(ctx, http.MethodGet, "/servicios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) Create(ctx context.Context, in domain.CreateServiceInput) (*domain.Service, error) {
	var out domain.Service
	if err := c.gw.Do(ctx, http.MethodPost, "/servicios", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update calls PATCH /servicios/{id} with the fields set in in.
func (c *CatalogClient) Update(ctx context.Context, id string, in domain.UpdateServiceInput) (*domain.Service, error) {
	var out domain.Service
	if err := c.gw.Do(ctx, http.MethodPatch, "/servicios/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete calls DELETE /servicios/{id}; the API answers 204.
func (c *CatalogClient) Delete(ctx context.Context, id string) error {
	return c.gw.Do(ctx, http.MethodDelete, "/servicios/"+url.PathEscape(id), nil, nil)
}
