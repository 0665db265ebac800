package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

type OrderClient struct {
	gw *Gateway
}

func NewOrderClient(gw *Gateway) *OrderClient {
	return &OrderClient{gw: gw}
}

type statusRequest struct {
	Status domain.OrderStatus `json:"nuevoEstado"`
}

func (c *OrderClient) List(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.gw.Do(ctx, http.MethodGet, "/ordenes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus calls PATCH /ordenes/{id}/estado with {"nuevoEstado": status}.
// Whether the transition is legal is decided by the API.
func (c *OrderClient) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	var out domain.Order
	path := "/ordenes/" + url.PathEscape(id) + "/estado"
	if err := c.gw.Do(ctx, http.MethodPatch, path, statusRequest{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AttachDelivery calls PATCH /ordenes/{id}/entrega.
func (c *OrderClient) AttachDelivery(ctx context.Context, id string, in domain.DeliveryInput) (*domain.Order, error) {
	var out domain.Order
	path := "/ordenes/" + url.PathEscape(id) + "/entrega"
	if err := c.gw.Do(ctx, http.MethodPatch, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete calls DELETE /ordenes/{id}. The endpoint is not part of the
// published API; a 404 or 405 comes back as a rejected failure.
func (c *OrderClient) Delete(ctx context.Context, id string) error {
	return c.gw.Do(ctx, http.MethodDelete, "/ordenes/"+url.PathEscape(id), nil, nil)
}
