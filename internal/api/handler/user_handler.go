package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/api/view"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
	"github.com/tiendamonedas/admin-dashboard/internal/core/service"
)

// UserHandler serves /admin/usuarios.
type UserHandler struct {
	users ports.UserClient
	log   zerolog.Logger
}

func NewUserHandler(users ports.UserClient, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type userTable struct {
	Users []domain.User
	CSRF  string
}

type usersPage struct {
	Search        string
	ClientsOnly   bool
	Clients       []domain.User
	Admins        []domain.User
	ClientsTable  userTable
	AdminsTable   userTable
	Dialog        service.Dialog
	Selected      *domain.User
	Form          createUserForm
	StrengthLabel string
}

type userDetailPage struct {
	User *domain.User
}

func (h *UserHandler) mount(c echo.Context, clientsOnly bool) *service.UserDirectory {
	dir := service.NewUserDirectory(h.users, h.log)
	dir.ClientsOnly(clientsOnly)
	_ = dir.Refresh(c.Request().Context())
	return dir
}

// List handles GET /admin/usuarios?q=&rol=CLIENTE&dialog=&id=.
func (h *UserHandler) List(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "parámetros inválidos")
	}

	dir := h.mount(c, q.Role == string(domain.RoleClient))
	dir.Open(service.Dialog(q.Dialog), q.ID)
	return h.render(c, http.StatusOK, dir, q, createUserForm{Role: domain.RoleClient}, "")
}

// Detail handles GET /admin/usuarios/:id.
func (h *UserHandler) Detail(c echo.Context) error {
	dir := service.NewUserDirectory(h.users, h.log)
	u, err := dir.Get(c.Request().Context(), c.Param("id"))

	status := http.StatusOK
	if err != nil {
		status = http.StatusNotFound
		if f, ok := domain.AsFailure(err); !ok || f.Status != http.StatusNotFound {
			status = http.StatusBadGateway
		}
	}
	title := "Usuario"
	if u != nil {
		title = u.Name
	}
	return c.Render(status, view.PageUserDetail, newPage(c, title, "usuarios", dir.Notices(), userDetailPage{User: u}))
}

// Create handles POST /admin/usuarios.
func (h *UserHandler) Create(c echo.Context) error {
	var form createUserForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	dir := h.mount(c, false)
	dir.Open(service.DialogCreate, "")

	ctx := c.Request().Context()
	var notices []domain.Notice
	err := c.Validate(&form)
	if err != nil {
		notices = append(dir.Notices(), domain.Notice{Level: domain.NoticeError, Text: domain.UserMessage(err, "Error al crear el usuario.")})
	} else {
		err = dir.Create(ctx, form.input())
		notices = dir.Notices()
	}

	form.Password = ""
	if err == nil {
		form = createUserForm{Role: domain.RoleClient}
	}
	return h.renderNotices(c, actionStatus(err), dir, listQuery{}, form, "", notices)
}

// Recharge handles POST /admin/usuarios/:id/recargar.
func (h *UserHandler) Recharge(c echo.Context) error {
	var form rechargeForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	id := c.Param("id")
	dir := h.mount(c, false)
	dir.Open(service.DialogRecharge, id)

	err := dir.Recharge(c.Request().Context(), id, form.Amount)
	return h.render(c, actionStatus(err), dir, listQuery{}, createUserForm{Role: domain.RoleClient}, "")
}

// ResetPassword handles POST /admin/usuarios/:id/reset-password.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var form resetPasswordForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	id := c.Param("id")
	dir := h.mount(c, false)
	dir.Open(service.DialogPassword, id)

	err := dir.ResetPassword(c.Request().Context(), id, form.NewPassword)
	label := ""
	if err != nil && form.NewPassword != "" {
		label = service.StrengthLabels[service.PasswordStrength(form.NewPassword)]
	}
	return h.render(c, actionStatus(err), dir, listQuery{}, createUserForm{Role: domain.RoleClient}, label)
}

func (h *UserHandler) render(c echo.Context, status int, dir *service.UserDirectory, q listQuery, form createUserForm, strength string) error {
	return h.renderNotices(c, status, dir, q, form, strength, dir.Notices())
}

func (h *UserHandler) renderNotices(c echo.Context, status int, dir *service.UserDirectory, q listQuery, form createUserForm, strength string, notices []domain.Notice) error {
	page := newPage(c, "Usuarios", "usuarios", notices, nil)

	p := dir.Partition(q.Search)
	data := usersPage{
		Search:        q.Search,
		ClientsOnly:   q.Role == string(domain.RoleClient),
		Clients:       p.Clients,
		Admins:        p.Admins,
		ClientsTable:  userTable{Users: p.Clients, CSRF: page.CSRF},
		AdminsTable:   userTable{Users: p.Admins, CSRF: page.CSRF},
		Dialog:        dir.Dialog(),
		Form:          form,
		StrengthLabel: strength,
	}
	if u, ok := dir.Selected(); ok {
		data.Selected = &u
	}
	page.Data = data
	return c.Render(status, view.PageUsers, page)
}
