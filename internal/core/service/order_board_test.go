package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

func at(day int) domain.Timestamp {
	return domain.Timestamp{Time: time.Date(2025, 3, day, 12, 0, 0, 0, time.UTC)}
}

func sampleOrders() []domain.Order {
	return []domain.Order{
		{ID: "o1", UserName: "Ana", ServiceName: "Netflix", Status: domain.OrderPending, CreatedAt: at(1)},
		{ID: "o2", UserName: "Luis", ServiceName: "Spotify", Status: domain.OrderProcessing, CreatedAt: at(3)},
		{ID: "o3", UserName: "Marta", ServiceName: "Netflix", Status: domain.OrderCompleted, CreatedAt: at(2),
			Delivery: &domain.DeliveryDetails{ID: "d3", Account: "acct", Secret: "pw"}},
		{ID: "o4", UserName: "Ana", ServiceName: "Disney", Status: domain.OrderCancelled, CreatedAt: at(4)},
	}
}

func ids(orders []domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestOrderBoard_LoadSortsNewestFirst(t *testing.T) {
	client := &stubOrderClient{orders: sampleOrders()}
	board := NewOrderBoard(client, zerolog.Nop())

	if err := board.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"o4", "o2", "o3", "o1"}, ids(board.Orders())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderBoard_LoadFailureKeepsList(t *testing.T) {
	client := &stubOrderClient{orders: sampleOrders()}
	board := NewOrderBoard(client, zerolog.Nop())
	_ = board.Load(context.Background())

	client.listErr = domain.Unreachable(context.DeadlineExceeded)
	if err := board.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if len(board.Orders()) != 4 {
		t.Fatalf("list must be unchanged after a failed refresh")
	}
	notices := board.Notices()
	if len(notices) != 1 || notices[0].Text != msgOrdersLoadFailed {
		t.Fatalf("unexpected notices %+v", notices)
	}
}

func TestOrderBoard_SetStatusSuccessRefetchesOnce(t *testing.T) {
	client := &stubOrderClient{orders: sampleOrders()}
	board := NewOrderBoard(client, zerolog.Nop())
	_ = board.Load(context.Background())
	board.OpenStatusDialog("o1")

	before := client.listCalls
	if err := board.SetStatus(context.Background(), "o1", domain.OrderCompleted); err != nil {
		t.Fatalf("set status: %v", err)
	}

	if client.listCalls-before != 1 {
		t.Fatalf("expected exactly one refetch, got %d", client.listCalls-before)
	}
	if board.Dialog() != DialogNone {
		t.Fatalf("dialog should close on success")
	}
	for _, o := range board.Orders() {
		if o.ID == "o1" && o.Status != domain.OrderCompleted {
			t.Fatalf("o1 status = %s after refetch", o.Status)
		}
	}
	notices := board.Notices()
	if len(notices) != 1 || notices[0].Level != domain.NoticeSuccess || notices[0].Text != msgStatusUpdated {
		t.Fatalf("unexpected notices %+v", notices)
	}
}

func TestOrderBoard_SetStatusRejectedLeavesStateAlone(t *testing.T) {
	client := &stubOrderClient{
		orders: sampleOrders(),
		updateFn: func(string, domain.OrderStatus) (*domain.Order, error) {
			return nil, domain.Rejected(400, "No se puede completar una orden pendiente")
		},
	}
	board := NewOrderBoard(client, zerolog.Nop())
	_ = board.Load(context.Background())
	board.OpenStatusDialog("o1")
	before := board.Orders()
	calls := client.listCalls

	if err := board.SetStatus(context.Background(), "o1", domain.OrderCompleted); err == nil {
		t.Fatalf("expected error")
	}

	if client.listCalls != calls {
		t.Fatalf("failed action must not refetch")
	}
	if diff := cmp.Diff(before, board.Orders()); diff != "" {
		t.Fatalf("list changed (-want +got):\n%s", diff)
	}
	if board.Dialog() != DialogStatus {
		t.Fatalf("dialog should stay open, got %q", board.Dialog())
	}
	sel, ok := board.Selected()
	if !ok || sel.Status != domain.OrderPending {
		t.Fatalf("o1 should still be pending, got %+v", sel)
	}
	notices := board.Notices()
	if len(notices) != 1 || notices[0].Text != "No se puede completar una orden pendiente" {
		t.Fatalf("unexpected notices %+v", notices)
	}
}

func TestOrderBoard_NetworkFailureUsesFallback(t *testing.T) {
	client := &stubOrderClient{
		orders: sampleOrders(),
		updateFn: func(string, domain.OrderStatus) (*domain.Order, error) {
			return nil, domain.Unreachable(context.Canceled)
		},
	}
	board := NewOrderBoard(client, zerolog.Nop())
	_ = board.Load(context.Background())

	_ = board.SetStatus(context.Background(), "o1", domain.OrderProcessing)
	notices := board.Notices()
	if len(notices) != 1 || notices[0].Text != msgStatusFailed {
		t.Fatalf("unexpected notices %+v", notices)
	}
}

func TestOrderBoard_UnknownStatusNeverSent(t *testing.T) {
	client := &stubOrderClient{
		orders: sampleOrders(),
		updateFn: func(string, domain.OrderStatus) (*domain.Order, error) {
			t.Fatalf("unknown status reached the API")
			return nil, nil
		},
	}
	board := NewOrderBoard(client, zerolog.Nop())

	err := board.SetStatus(context.Background(), "o1", domain.OrderStatus("ENVIADO"))
	if !domain.IsKind(err, domain.FailureValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestOrderBoard_AnyKnownStatusIsSent(t *testing.T) {
	var sent domain.OrderStatus
	client := &stubOrderClient{
		orders: sampleOrders(),
		updateFn: func(_ string, s domain.OrderStatus) (*domain.Order, error) {
			sent = s
			return &domain.Order{}, nil
		},
	}
	board := NewOrderBoard(client, zerolog.Nop())

	// COMPLETADO -> PENDIENTE is not an expected transition; the API decides.
	if err := board.SetStatus(context.Background(), "o3", domain.OrderPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != domain.OrderPending {
		t.Fatalf("sent %q", sent)
	}
}

func TestOrderBoard_BusyRejectsReentry(t *testing.T) {
	var board *OrderBoard
	var inner error
	client := &stubOrderClient{orders: sampleOrders()}
	client.updateFn = func(string, domain.OrderStatus) (*domain.Order, error) {
		if !board.Busy() {
			t.Fatalf("board should be busy during the call")
		}
		inner = board.SetStatus(context.Background(), "o2", domain.OrderCompleted)
		return &domain.Order{}, nil
	}
	board = NewOrderBoard(client, zerolog.Nop())

	if err := board.SetStatus(context.Background(), "o1", domain.OrderProcessing); err != nil {
		t.Fatalf("outer call: %v", err)
	}
	if inner != ErrBusy {
		t.Fatalf("expected ErrBusy for the nested call, got %v", inner)
	}
	if board.Busy() {
		t.Fatalf("busy flag must be released")
	}
}

func TestOrderBoard_AttachDelivery(t *testing.T) {
	client := &stubOrderClient{orders: sampleOrders()}
	board := NewOrderBoard(client, zerolog.Nop())
	_ = board.Load(context.Background())
	board.OpenDeliveryDialog("o1")

	err := board.AttachDelivery(context.Background(), "o1", domain.DeliveryInput{Account: " acct ", Secret: "pw"})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	for _, o := range board.Orders() {
		if o.ID != "o1" {
			continue
		}
		if o.Delivery == nil || o.Delivery.Account != "acct" {
			t.Fatalf("delivery not attached: %+v", o.Delivery)
		}
		if CanAttachDelivery(o) {
			t.Fatalf("delivery action must not be offered once attached")
		}
	}
	if board.Dialog() != DialogNone {
		t.Fatalf("dialog should close on success")
	}
}

func TestOrderBoard_AttachDeliveryRequiresFields(t *testing.T) {
	client := &stubOrderClient{
		orders: sampleOrders(),
		deliveryFn: func(string, domain.DeliveryInput) (*domain.Order, error) {
			t.Fatalf("empty delivery reached the API")
			return nil, nil
		},
	}
	board := NewOrderBoard(client, zerolog.Nop())

	err := board.AttachDelivery(context.Background(), "o1", domain.DeliveryInput{Account: "  "})
	if !domain.IsKind(err, domain.FailureValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestOrderBoard_DeleteUnsupportedEndpoint(t *testing.T) {
	client := &stubOrderClient{
		orders:   sampleOrders(),
		deleteFn: func(string) error { return domain.Rejected(405, "") },
	}
	board := NewOrderBoard(client, zerolog.Nop())
	_ = board.Load(context.Background())
	board.OpenDeleteDialog("o2")

	if err := board.DeleteOrder(context.Background(), "o2"); err == nil {
		t.Fatalf("expected error")
	}
	notices := board.Notices()
	if len(notices) != 1 || notices[0].Text != msgOrderDeleteFailed {
		t.Fatalf("unexpected notices %+v", notices)
	}
	if board.Dialog() != DialogDelete {
		t.Fatalf("dialog should stay open")
	}
}

func TestOrderBoard_ViewPartitionsAndSearches(t *testing.T) {
	client := &stubOrderClient{orders: sampleOrders()}
	board := NewOrderBoard(client, zerolog.Nop())
	_ = board.Load(context.Background())

	tests := []struct {
		search         string
		wantActive     []string
		wantHistorical []string
	}{
		{"", []string{"o2", "o1"}, []string{"o4", "o3"}},
		{"ana", []string{"o1"}, []string{"o4"}},
		{"NETFLIX", []string{"o1"}, []string{"o3"}},
		{"o3", []string{}, []string{"o3"}},
		{"nadie", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			v := board.View(tt.search)
			if diff := cmp.Diff(tt.wantActive, ids(v.Active)); diff != "" {
				t.Fatalf("active mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantHistorical, ids(v.Historical)); diff != "" {
				t.Fatalf("historical mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
