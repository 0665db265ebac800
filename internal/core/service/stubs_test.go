package service

import (
	"context"
	"io"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

// stubOrderClient keeps orders in memory and counts list calls.
type stubOrderClient struct {
	orders    []domain.Order
	listCalls int
	listErr   error

	updateFn   func(id string, status domain.OrderStatus) (*domain.Order, error)
	deliveryFn func(id string, in domain.DeliveryInput) (*domain.Order, error)
	deleteFn   func(id string) error
}

func (s *stubOrderClient) List(context.Context) ([]domain.Order, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.Order(nil), s.orders...), nil
}

func (s *stubOrderClient) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if s.updateFn != nil {
		return s.updateFn(id, status)
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, domain.Rejected(404, "Orden no encontrada")
}

func (s *stubOrderClient) AttachDelivery(_ context.Context, id string, in domain.DeliveryInput) (*domain.Order, error) {
	if s.deliveryFn != nil {
		return s.deliveryFn(id, in)
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Delivery = &domain.DeliveryDetails{ID: "d-" + id, Account: in.Account, Secret: in.Secret, Note: in.Note}
			o := s.orders[i]
			return &o, nil
		}
	}
	return nil, domain.Rejected(404, "Orden no encontrada")
}

func (s *stubOrderClient) Delete(_ context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(id)
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return domain.Rejected(404, "Orden no encontrada")
}

// stubUserClient keeps users in memory; the API adds recharged coins.
type stubUserClient struct {
	users       []domain.User
	listCalls   int
	calls       int
	created     []domain.CreateUserInput
	passwords   map[string]string
	rechargeErr error
	listErr     error
}

func (s *stubUserClient) Create(_ context.Context, in domain.CreateUserInput) (*domain.User, error) {
	s.calls++
	s.created = append(s.created, in)
	u := domain.User{ID: "u" + in.Email, Name: in.Name, Email: in.Email, Role: in.Role}
	s.users = append(s.users, u)
	return &u, nil
}

func (s *stubUserClient) List(context.Context) ([]domain.User, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.User(nil), s.users...), nil
}

func (s *stubUserClient) ListClients(context.Context) ([]domain.User, error) {
	s.listCalls++
	var out []domain.User
	for _, u := range s.users {
		if u.Role == domain.RoleClient {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserClient) Get(_ context.Context, id string) (*domain.User, error) {
	s.calls++
	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, domain.Rejected(404, "Usuario no encontrado")
}

func (s *stubUserClient) Recharge(_ context.Context, id string, amount int) (*domain.User, error) {
	s.calls++
	if s.rechargeErr != nil {
		return nil, s.rechargeErr
	}
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Coins += amount
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, domain.Rejected(404, "Usuario no encontrado")
}

func (s *stubUserClient) ResetPassword(_ context.Context, id, pw string) error {
	s.calls++
	if s.passwords == nil {
		s.passwords = make(map[string]string)
	}
	s.passwords[id] = pw
	return nil
}

type stubCatalogClient struct {
	services  []domain.Service
	listCalls int
	created   []domain.CreateServiceInput
	updated   map[string]domain.UpdateServiceInput
	deleted   []string
	err       error
}

func (s *stubCatalogClient) List(context.Context) ([]domain.Service, error) {
	s.listCalls++
	return append([]domain.Service(nil), s.services...), nil
}

func (s *stubCatalogClient) Create(_ context.Context, in domain.CreateServiceInput) (*domain.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, in)
	svc := domain.Service{ID: "s" + in.Name, Name: in.Name, Description: in.Description}
	s.services = append(s.services, svc)
	return &svc, nil
}

func (s *stubCatalogClient) Update(_ context.Context, id string, in domain.UpdateServiceInput) (*domain.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.updated == nil {
		s.updated = make(map[string]domain.UpdateServiceInput)
	}
	s.updated[id] = in
	return &domain.Service{ID: id}, nil
}

func (s *stubCatalogClient) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubUploader struct {
	url string
	err error
}

func (s *stubUploader) Upload(_ context.Context, _ string, body io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, body)
	return s.url, s.err
}

type stubAuthClient struct {
	result *domain.AuthResult
	err    error
	calls  int
}

func (s *stubAuthClient) Login(context.Context, string, string) (*domain.AuthResult, error) {
	s.calls++
	return s.result, s.err
}

// stubSession records what the login flow did to the session.
type stubSession struct {
	current  *domain.Session
	logins   int
	logouts  int
	loginErr error
}

func (s *stubSession) Login(_ context.Context, sess domain.Session) error {
	if s.loginErr != nil {
		return s.loginErr
	}
	s.logins++
	s.current = &sess
	return nil
}

func (s *stubSession) Logout(context.Context) error {
	s.logouts++
	s.current = nil
	return nil
}
