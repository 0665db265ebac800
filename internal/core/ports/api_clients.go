package ports

import (
	"context"
	"io"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

// Every method returns a *domain.Failure on error.

type AuthClient interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
}

type UserClient interface {
	Create(ctx context.Context, in domain.CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListClients(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Recharge(ctx context.Context, id string, amount int) (*domain.User, error)
	ResetPassword(ctx context.Context, id, newPassword string) error
}

type CatalogClient interface {
	List(ctx context.Context) ([]domain.Service, error)
	Create(ctx context.Context, in domain.CreateServiceInput) (*domain.Service, error)
	Update(ctx context.Context, id string, in domain.UpdateServiceInput) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
}

// OrderClient.Delete targets DELETE /ordenes/{id}, which the API may not
// implement yet; callers surface whatever the API answers.
type OrderClient interface {
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	AttachDelivery(ctx context.Context, id string, in domain.DeliveryInput) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// ImageUploader stores an image with the external host and returns its
// public https URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
}
