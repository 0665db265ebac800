package domain

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDIENTE"
	OrderProcessing OrderStatus = "PROCESANDO"
	OrderCompleted  OrderStatus = "COMPLETADO"
	OrderCancelled  OrderStatus = "CANCELADO"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderCompleted, OrderCancelled}

// expectedTransitions mirrors the API's legality table. It is advisory only:
// the API decides, this table just lets the UI highlight the usual next step.
var expectedTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderCompleted, OrderCancelled},
}

// Valid reports whether s is a status the API understands.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Expects reports whether next is a transition the API normally accepts
// from s.
func (s OrderStatus) Expects(next OrderStatus) bool {
	for _, allowed := range expectedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the order is still being worked on.
func (s OrderStatus) Active() bool {
	return s == OrderPending || s == OrderProcessing
}

// Historical reports whether the order reached a final state.
func (s OrderStatus) Historical() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// DeliveryDetails are the credentials handed to the customer to fulfil an
// order. Attached once; never edited afterwards.
type DeliveryDetails struct {
	ID      string `json:"id"`
	Account string `json:"usuarioCuenta"`
	Secret  string `json:"clave"`
	Note    string `json:"nota,omitempty"`
}

// DeliveryInput is the body of PATCH /ordenes/{id}/entrega.
type DeliveryInput struct {
	Account string `json:"usuarioCuenta"`
	Secret  string `json:"clave"`
	Note    string `json:"nota,omitempty"`
}

// Order is a purchase of a Service by a User.
type Order struct {
	ID            string           `json:"id"`
	UserID        string           `json:"usuarioId"`
	UserName      string           `json:"usuarioNombre"`
	ServiceID     string           `json:"servicioId"`
	ServiceName   string           `json:"servicioNombre"`
	Status        OrderStatus      `json:"estado"`
	CreatedAt     Timestamp        `json:"fechaCreacion"`
	DeliveredAt   *Timestamp       `json:"fechaEntrega"`
	EstimatedWait string           `json:"tiempoEstimadoEspera"`
	Delivery      *DeliveryDetails `json:"entrega"`
}

// CanAttachDelivery reports whether delivery details may still be attached.
func (o Order) CanAttachDelivery() bool {
	return o.Delivery == nil
}

// Created returns the creation instant, zero when the API sent none.
func (o Order) Created() time.Time {
	return o.CreatedAt.Time
}
