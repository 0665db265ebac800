package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/api/view"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/core/service"
	"github.com/tiendamonedas/admin-dashboard/internal/infrastructure/db/memory"
	"github.com/tiendamonedas/admin-dashboard/internal/session"
)

// --- stubs ---

type stubAuthClient struct {
	loginFn func(ctx context.Context, email, password string) (*domain.AuthResult, error)
}

func (s *stubAuthClient) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

type stubOrderClient struct {
	orders   []domain.Order
	updates  []domain.OrderStatus
	updateFn func(id string, status domain.OrderStatus) error
}

func (s *stubOrderClient) List(context.Context) ([]domain.Order, error) {
	return append([]domain.Order(nil), s.orders...), nil
}

func (s *stubOrderClient) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	s.updates = append(s.updates, status)
	if err := s.updateFn(id, status); err != nil {
		return nil, err
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return &s.orders[i], nil
		}
	}
	return nil, domain.Rejected(http.StatusNotFound, "Orden no encontrada")
}

func (s *stubOrderClient) AttachDelivery(context.Context, string, domain.DeliveryInput) (*domain.Order, error) {
	return nil, errors.New("not used")
}

func (s *stubOrderClient) Delete(context.Context, string) error { return errors.New("not used") }

type stubUserClient struct {
	users     []domain.User
	recharges int
}

func (s *stubUserClient) Create(context.Context, domain.CreateUserInput) (*domain.User, error) {
	return nil, errors.New("not used")
}
func (s *stubUserClient) List(context.Context) ([]domain.User, error) { return s.users, nil }
func (s *stubUserClient) ListClients(context.Context) ([]domain.User, error) {
	return s.users, nil
}
func (s *stubUserClient) Get(_ context.Context, id string) (*domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, domain.Rejected(http.StatusNotFound, "Usuario no encontrado")
}
func (s *stubUserClient) Recharge(context.Context, string, int) (*domain.User, error) {
	s.recharges++
	return nil, errors.New("not used")
}
func (s *stubUserClient) ResetPassword(context.Context, string, string) error { return nil }

type stubCatalogClient struct {
	services []domain.Service
	deletes  int
}

func (s *stubCatalogClient) List(context.Context) ([]domain.Service, error) { return s.services, nil }
func (s *stubCatalogClient) Create(context.Context, domain.CreateServiceInput) (*domain.Service, error) {
	return nil, errors.New("not used")
}
func (s *stubCatalogClient) Update(context.Context, string, domain.UpdateServiceInput) (*domain.Service, error) {
	return nil, errors.New("not used")
}
func (s *stubCatalogClient) Delete(context.Context, string) error {
	s.deletes++
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// --- helpers ---

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	r, err := view.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

// newContext builds a context for a form post with a fresh session handle.
func newContext(e *echo.Echo, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()

	store := session.NewStore(memory.NewStore(), session.Options{}, zerolog.Nop())
	h := store.Open(rec, req)
	req = req.WithContext(session.WithHandle(req.Context(), h))
	return e.NewContext(req, rec), rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func loginAs(role domain.Role) *stubAuthClient {
	return &stubAuthClient{loginFn: func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
		return &domain.AuthResult{ID: "u1", Name: "Ana", Email: email, Role: role, Token: "tok", TokenType: "Bearer"}, nil
	}}
}

// --- auth ---

func TestAuthHandler_Login_Admin(t *testing.T) {
	e := newTestEcho(t)
	h := NewAuthHandler(service.NewAuthService(loginAs(domain.RoleAdmin), zerolog.Nop()), zerolog.Nop())

	c, rec := newContext(e, http.MethodPost, "/login", url.Values{"email": {"ana@example.com"}, "password": {"secreto"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != domain.AdminHome {
		t.Fatalf("location = %q, want %q", got, domain.AdminHome)
	}
	if ck := cookieNamed(rec, session.UserCookie); ck == nil || ck.MaxAge <= 0 {
		t.Fatalf("expected user cookie to be set, got %+v", ck)
	}
}

func TestAuthHandler_Login_ClientIsTurnedAway(t *testing.T) {
	e := newTestEcho(t)
	h := NewAuthHandler(service.NewAuthService(loginAs(domain.RoleClient), zerolog.Nop()), zerolog.Nop())

	c, rec := newContext(e, http.MethodPost, "/login", url.Values{"email": {"cli@example.com"}, "password": {"secreto"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), service.MsgNotAdmin) {
		t.Fatalf("expected not-admin message in body")
	}
	if ck := cookieNamed(rec, session.UserCookie); ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("expected user cookie to end expired, got %+v", ck)
	}
}

func TestAuthHandler_Login_WrongCredentials(t *testing.T) {
	e := newTestEcho(t)
	auth := &stubAuthClient{loginFn: func(context.Context, string, string) (*domain.AuthResult, error) {
		return nil, domain.Rejected(http.StatusUnauthorized, "")
	}}
	h := NewAuthHandler(service.NewAuthService(auth, zerolog.Nop()), zerolog.Nop())

	c, rec := newContext(e, http.MethodPost, "/login", url.Values{"email": {"ana@example.com"}, "password": {"mala"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if cookieNamed(rec, session.UserCookie) != nil {
		t.Fatalf("no cookie may be written on a failed login")
	}
}

// --- orders ---

func newOrdersContext(e *echo.Echo, id string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newContext(e, http.MethodPost, "/admin/ordenes/"+id+"/estado", form)
	c.SetPath("/admin/ordenes/:id/estado")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestOrderHandler_SetStatus(t *testing.T) {
	tests := []struct {
		name       string
		updateErr  error
		wantStatus int
		wantFinal  domain.OrderStatus
		wantText   string
		wantDialog bool
	}{
		{"accepted", nil, http.StatusOK, domain.OrderCompleted, "Estado de la orden actualizado.", false},
		{"rejected", domain.Rejected(http.StatusBadRequest, "Transición no permitida"), http.StatusUnprocessableEntity, domain.OrderPending, "Transición no permitida", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &stubOrderClient{
				orders:   []domain.Order{{ID: "o1", ServiceName: "Netflix", Status: domain.OrderPending}},
				updateFn: func(string, domain.OrderStatus) error { return tt.updateErr },
			}
			h := NewOrderHandler(orders, zerolog.Nop())
			e := newTestEcho(t)

			c, rec := newOrdersContext(e, "o1", url.Values{"nuevoEstado": {"COMPLETADO"}})
			if err := h.SetStatus(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if len(orders.updates) != 1 || orders.updates[0] != domain.OrderCompleted {
				t.Fatalf("unexpected updates: %v", orders.updates)
			}
			if orders.orders[0].Status != tt.wantFinal {
				t.Fatalf("status = %s, want %s", orders.orders[0].Status, tt.wantFinal)
			}
			if !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Fatalf("expected %q in body", tt.wantText)
			}
			if open := strings.Contains(rec.Body.String(), "Cambiar estado de o1"); open != tt.wantDialog {
				t.Fatalf("status dialog open = %v, want %v", open, tt.wantDialog)
			}
		})
	}
}

func TestOrderHandler_SetStatus_UnknownStatusMakesNoCall(t *testing.T) {
	orders := &stubOrderClient{
		orders:   []domain.Order{{ID: "o1", Status: domain.OrderPending}},
		updateFn: func(string, domain.OrderStatus) error { return nil },
	}
	h := NewOrderHandler(orders, zerolog.Nop())

	c, rec := newOrdersContext(newTestEcho(t), "o1", url.Values{"nuevoEstado": {"ENVIADO"}})
	if err := h.SetStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if len(orders.updates) != 0 {
		t.Fatalf("no call may be made for an unknown status")
	}
}

// --- users ---

func TestUserHandler_Recharge_ZeroAmountMakesNoCall(t *testing.T) {
	users := &stubUserClient{users: []domain.User{{ID: "u1", Name: "Luis", Email: "l@example.com", Role: domain.RoleClient, Coins: 100}}}
	h := NewUserHandler(users, zerolog.Nop())

	c, rec := newContext(newTestEcho(t), http.MethodPost, "/admin/usuarios/u1/recargar", url.Values{"cantidad": {"0"}})
	c.SetPath("/admin/usuarios/:id/recargar")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.Recharge(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if users.recharges != 0 {
		t.Fatalf("expected no recharge call, got %d", users.recharges)
	}
}

func TestUserHandler_Detail_NotFound(t *testing.T) {
	h := NewUserHandler(&stubUserClient{}, zerolog.Nop())

	c, rec := newContext(newTestEcho(t), http.MethodGet, "/admin/usuarios/zz", nil)
	c.SetPath("/admin/usuarios/:id")
	c.SetParamNames("id")
	c.SetParamValues("zz")

	if err := h.Detail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

// --- services ---

func TestCatalogHandler_Delete_RequiresConfirmation(t *testing.T) {
	catalog := &stubCatalogClient{services: []domain.Service{{ID: "s1", Name: "Netflix"}}}
	h := NewCatalogHandler(catalog, nil, zerolog.Nop())

	for name, tc := range map[string]struct {
		form        url.Values
		wantStatus  int
		wantDeletes int
	}{
		"unconfirmed": {url.Values{}, http.StatusUnprocessableEntity, 0},
		"confirmed":   {url.Values{"confirmar": {"true"}}, http.StatusOK, 1},
	} {
		t.Run(name, func(t *testing.T) {
			catalog.deletes = 0
			c, rec := newContext(newTestEcho(t), http.MethodPost, "/admin/servicios/s1/eliminar", tc.form)
			c.SetPath("/admin/servicios/:id/eliminar")
			c.SetParamNames("id")
			c.SetParamValues("s1")

			if err := h.Delete(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if catalog.deletes != tc.wantDeletes {
				t.Fatalf("deletes = %d, want %d", catalog.deletes, tc.wantDeletes)
			}
		})
	}
}

// --- health ---

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
	}{
		{"all up", map[string]Pinger{"session_store": stubPinger{}}, http.StatusOK},
		{"store down", map[string]Pinger{"session_store": stubPinger{err: errors.New("dial tcp: refused")}, "api": stubPinger{}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewReadinessHandler(tt.deps).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
