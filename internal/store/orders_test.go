package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/selet/storefront/internal/models"
)

func testOrderRequest(id string) CreateOrderRequest {
	return CreateOrderRequest{
		ID: id,
		Items: []models.CartItem{
			{Product: models.Product{ID: "p1", Name: "Malbec", Price: decimal.NewFromFloat(10)}, Quantity: 2},
			{Product: models.Product{ID: "p2", Name: "Lily", Price: decimal.NewFromFloat(5.50)}, Quantity: 1},
		},
		Customer: models.CustomerData{
			FirstName: "Maria",
			LastName:  "Silva",
			Phone:     "+351 912 345 678",
			Address:   "Rua das Flores 12",
			Locality:  "Lisboa",
		},
		PaymentMethod: models.PaymentMBWay,
	}
}

func TestCreateOrderComputesTotal(t *testing.T) {
	ctx := context.Background()
	orders := NewOrders(testCache(t), testLogger())

	created, err := orders.Create(ctx, testOrderRequest("BOT-1234"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.OrderStatusPending {
		t.Fatalf("new orders start pending, got %q", created.Status)
	}
	if created.TotalAmount == nil || !created.TotalAmount.Equal(decimal.NewFromFloat(25.50)) {
		t.Fatalf("expected total 25.50, got %v", created.TotalAmount)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	ctx := context.Background()
	orders := NewOrders(testCache(t), testLogger())
	if _, err := orders.Create(ctx, testOrderRequest("BOT-2000")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := orders.UpdateStatus(ctx, "BOT-2000", models.OrderStatusShipped, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending cannot ship directly, got %v", err)
	}

	for _, status := range []string{models.OrderStatusConfirmed, models.OrderStatusShipped, models.OrderStatusDelivered} {
		updated, err := orders.UpdateStatus(ctx, "BOT-2000", status, nil)
		if err != nil {
			t.Fatalf("UpdateStatus(%s): %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("expected %s, got %s", status, updated.Status)
		}
	}

	// Delivered is terminal for the status, but notes still move.
	notes := "entregue em mãos"
	updated, err := orders.UpdateStatus(ctx, "BOT-2000", models.OrderStatusDelivered, &notes)
	if err != nil {
		t.Fatalf("notes on a terminal order: %v", err)
	}
	if updated.Notes != notes {
		t.Fatalf("expected notes to apply, got %q", updated.Notes)
	}
	if _, err := orders.UpdateStatus(ctx, "BOT-2000", models.OrderStatusPending, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("terminal orders cannot move, got %v", err)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	orders := NewOrders(testCache(t), testLogger())
	if _, err := orders.UpdateStatus(context.Background(), "BOT-0000", models.OrderStatusConfirmed, nil); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestCountByStatus(t *testing.T) {
	ctx := context.Background()
	orders := NewOrders(testCache(t), testLogger())
	orders.Create(ctx, testOrderRequest("BOT-3001"))
	orders.Create(ctx, testOrderRequest("BOT-3002"))
	orders.UpdateStatus(ctx, "BOT-3002", models.OrderStatusConfirmed, nil)

	if got := orders.CountByStatus(ctx, models.OrderStatusPending); got != 1 {
		t.Fatalf("expected 1 pending, got %d", got)
	}
	if got := orders.CountByStatus(ctx, models.OrderStatusConfirmed); got != 1 {
		t.Fatalf("expected 1 confirmed, got %d", got)
	}
}
