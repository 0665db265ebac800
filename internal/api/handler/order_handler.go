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

// OrderHandler serves /admin/ordenes. Every request mounts a fresh board,
// applies the dialog from the query (or the one the form was posted from),
// runs the action and renders the result.
type OrderHandler struct {
	orders ports.OrderClient
	log    zerolog.Logger
}

func NewOrderHandler(orders ports.OrderClient, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

type ordersPage struct {
	Search     string
	Active     []domain.Order
	Historical []domain.Order
	Dialog     service.Dialog
	Selected   *domain.Order
	Delivery   deliveryForm
}

func (h *OrderHandler) mount(c echo.Context) *service.OrderBoard {
	board := service.NewOrderBoard(h.orders, h.log)
	_ = board.Load(c.Request().Context())
	return board
}

// List handles GET /admin/ordenes?q=&dialog=&id=.
func (h *OrderHandler) List(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "parámetros inválidos")
	}

	board := h.mount(c)
	board.Open(service.Dialog(q.Dialog), q.ID)
	return h.render(c, http.StatusOK, board, q.Search, deliveryForm{})
}

// SetStatus handles POST /admin/ordenes/:id/estado.
func (h *OrderHandler) SetStatus(c echo.Context) error {
	var form statusForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	id := c.Param("id")
	board := h.mount(c)
	board.OpenStatusDialog(id)

	err := board.SetStatus(c.Request().Context(), id, form.Status)
	return h.render(c, actionStatus(err), board, "", deliveryForm{})
}

// AttachDelivery handles POST /admin/ordenes/:id/entrega.
func (h *OrderHandler) AttachDelivery(c echo.Context) error {
	var form deliveryForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	id := c.Param("id")
	board := h.mount(c)
	board.OpenDeliveryDialog(id)

	err := board.AttachDelivery(c.Request().Context(), id, form.input())
	if err == nil {
		form = deliveryForm{}
	}
	return h.render(c, actionStatus(err), board, "", form)
}

// Delete handles POST /admin/ordenes/:id/eliminar.
func (h *OrderHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	board := h.mount(c)
	board.OpenDeleteDialog(id)

	err := board.DeleteOrder(c.Request().Context(), id)
	return h.render(c, actionStatus(err), board, "", deliveryForm{})
}

func (h *OrderHandler) render(c echo.Context, status int, board *service.OrderBoard, search string, form deliveryForm) error {
	v := board.View(search)
	data := ordersPage{
		Search:     search,
		Active:     v.Active,
		Historical: v.Historical,
		Dialog:     board.Dialog(),
		Delivery:   form,
	}
	if o, ok := board.Selected(); ok {
		data.Selected = &o
	}
	return c.Render(status, view.PageOrders, newPage(c, "Órdenes", "ordenes", board.Notices(), data))
}
