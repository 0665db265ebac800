package service

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/api/metrics"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
)

// Dialog names the modal a page has open. The values double as the
// "dialog" query parameter.
type Dialog string

const (
	DialogNone     Dialog = ""
	DialogStatus   Dialog = "estado"
	DialogDelivery Dialog = "entrega"
	DialogDelete   Dialog = "eliminar"
	DialogCreate   Dialog = "crear"
	DialogEdit     Dialog = "editar"
	DialogRecharge Dialog = "recargar"
	DialogPassword Dialog = "password"
)

// ErrBusy is returned when an action is submitted while another one from the
// same page is still outstanding.
var ErrBusy = domain.Invalid("Ya hay una operación en curso.")

const (
	msgOrdersLoadFailed    = "Error al cargar las órdenes."
	msgStatusUpdated       = "Estado de la orden actualizado."
	msgStatusFailed        = "Error al actualizar estado."
	msgDeliverySaved       = "Detalles de entrega guardados."
	msgDeliveryFailed      = "Error al guardar detalles."
	msgOrderDeleted        = "Orden eliminada correctamente."
	msgOrderDeleteFailed   = "Error al eliminar la orden."
	msgUnknownStatus       = "Estado de orden desconocido."
	msgDeliveryFieldsEmpty = "La cuenta y la clave son obligatorias."
)

// BoardView is the order list split the way the page shows it.
type BoardView struct {
	Active     []domain.Order
	Historical []domain.Order
}

// OrderBoard is the state of one orders page: the list, the open dialog and
// the order it refers to, a busy flag and the pending notices. A board is
// owned by a single request and is not shared.
type OrderBoard struct {
	orders ports.OrderClient
	log    zerolog.Logger

	list     []domain.Order
	dialog   Dialog
	selected string
	busy     atomic.Bool
	notices  domain.Notices
}

func NewOrderBoard(orders ports.OrderClient, log zerolog.Logger) *OrderBoard {
	return &OrderBoard{orders: orders, log: log.With().Str("component", "order_board").Logger()}
}

// Load fetches the list. It is the same as Refresh and safe to repeat.
func (b *OrderBoard) Load(ctx context.Context) error {
	return b.Refresh(ctx)
}

// Refresh replaces the list with the API's, newest first. On failure the
// previous list is kept and an error notice is queued.
func (b *OrderBoard) Refresh(ctx context.Context) error {
	orders, err := b.orders.List(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("list orders failed")
		b.notices.Error(domain.UserMessage(err, msgOrdersLoadFailed))
		return err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Created().After(orders[j].Created())
	})
	b.list = orders
	return nil
}

// Orders returns a copy of the current list.
func (b *OrderBoard) Orders() []domain.Order {
	return append([]domain.Order(nil), b.list...)
}

func (b *OrderBoard) OpenStatusDialog(id string)   { b.open(DialogStatus, id) }
func (b *OrderBoard) OpenDeliveryDialog(id string) { b.open(DialogDelivery, id) }
func (b *OrderBoard) OpenDeleteDialog(id string)   { b.open(DialogDelete, id) }

// Open opens the named dialog; unknown names close it.
func (b *OrderBoard) Open(d Dialog, id string) {
	switch d {
	case DialogStatus, DialogDelivery, DialogDelete:
		b.open(d, id)
	default:
		b.CloseDialog()
	}
}

func (b *OrderBoard) open(d Dialog, id string) {
	b.dialog = d
	b.selected = id
}

func (b *OrderBoard) CloseDialog() {
	b.dialog = DialogNone
	b.selected = ""
}

func (b *OrderBoard) Dialog() Dialog { return b.dialog }

// Selected returns the order the open dialog refers to, when it is in the list.
func (b *OrderBoard) Selected() (domain.Order, bool) {
	if b.selected == "" {
		return domain.Order{}, false
	}
	for _, o := range b.list {
		if o.ID == b.selected {
			return o, true
		}
	}
	return domain.Order{}, false
}

// Busy reports whether an action is outstanding.
func (b *OrderBoard) Busy() bool { return b.busy.Load() }

// Notices drains the queued messages.
func (b *OrderBoard) Notices() []domain.Notice { return b.notices.Drain() }

// SetStatus asks the API to move order id to status. Legality is the API's
// call; only unknown status strings are refused here.
func (b *OrderBoard) SetStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return b.refuse("status", domain.Invalid(msgUnknownStatus))
	}
	return b.act(ctx, "status", msgStatusUpdated, msgStatusFailed, func(ctx context.Context) error {
		_, err := b.orders.UpdateStatus(ctx, id, status)
		return err
	})
}

// AttachDelivery sends the delivery details of order id. Whether the order
// still accepts them is shown by CanAttachDelivery; the API has the final say.
func (b *OrderBoard) AttachDelivery(ctx context.Context, id string, in domain.DeliveryInput) error {
	in.Account = strings.TrimSpace(in.Account)
	in.Secret = strings.TrimSpace(in.Secret)
	in.Note = strings.TrimSpace(in.Note)
	if in.Account == "" || in.Secret == "" {
		return b.refuse("delivery", domain.Invalid(msgDeliveryFieldsEmpty))
	}
	return b.act(ctx, "delivery", msgDeliverySaved, msgDeliveryFailed, func(ctx context.Context) error {
		_, err := b.orders.AttachDelivery(ctx, id, in)
		return err
	})
}

func (b *OrderBoard) DeleteOrder(ctx context.Context, id string) error {
	return b.act(ctx, "delete", msgOrderDeleted, msgOrderDeleteFailed, func(ctx context.Context) error {
		return b.orders.Delete(ctx, id)
	})
}

// CanAttachDelivery reports whether the delivery action should be offered.
func CanAttachDelivery(o domain.Order) bool {
	return o.CanAttachDelivery()
}

// View filters the list by search (case-insensitive on user name, service
// name and id) and splits it into active and historical orders.
func (b *OrderBoard) View(search string) BoardView {
	needle := strings.ToLower(strings.TrimSpace(search))

	var v BoardView
	for _, o := range b.list {
		if needle != "" && !matchesOrder(o, needle) {
			continue
		}
		switch {
		case o.Status.Active():
			v.Active = append(v.Active, o)
		case o.Status.Historical():
			v.Historical = append(v.Historical, o)
		}
	}
	return v
}

func matchesOrder(o domain.Order, needle string) bool {
	return strings.Contains(strings.ToLower(o.UserName), needle) ||
		strings.Contains(strings.ToLower(o.ServiceName), needle) ||
		strings.Contains(strings.ToLower(o.ID), needle)
}

// act runs one mutating call. Success queues successMsg, closes the dialog
// and refetches the list once. Failure queues the server's message (or
// fallback) and leaves the dialog and the list as they were.
func (b *OrderBoard) act(ctx context.Context, action, successMsg, fallback string, call func(context.Context) error) error {
	if !b.busy.CompareAndSwap(false, true) {
		return b.refuse(action, ErrBusy)
	}
	defer b.busy.Store(false)

	if err := call(ctx); err != nil {
		b.log.Warn().Err(err).Str("action", action).Str("order_id", b.selected).Msg("order action failed")
		metrics.OrderActionsTotal.WithLabelValues(action, failureLabel(err)).Inc()
		b.notices.Error(domain.UserMessage(err, fallback))
		return err
	}

	metrics.OrderActionsTotal.WithLabelValues(action, "ok").Inc()
	b.notices.Success(successMsg)
	b.CloseDialog()
	_ = b.Refresh(ctx)
	return nil
}

func (b *OrderBoard) refuse(action string, f *domain.Failure) error {
	metrics.OrderActionsTotal.WithLabelValues(action, string(f.Kind)).Inc()
	b.notices.Error(f.Message)
	return f
}

func failureLabel(err error) string {
	if f, ok := domain.AsFailure(err); ok {
		return string(f.Kind)
	}
	return "error"
}
