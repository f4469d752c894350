package checkout

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/selet/storefront/internal/models"
	"github.com/selet/storefront/internal/store"
)

func cartProduct(id, name string, price float64) models.Product {
	return models.Product{ID: id, Name: name, Price: decimal.NewFromFloat(price)}
}

func TestCartSubtotal(t *testing.T) {
	cart := NewCart(nil)
	cart.Add(cartProduct("p1", "Malbec", 10.00), 2)
	cart.Add(cartProduct("p2", "Lily", 5.50), 1)

	if got := cart.Subtotal(); !got.Equal(decimal.NewFromFloat(25.50)) {
		t.Fatalf("expected 25.50, got %s", got)
	}
}

func TestCartMergesLines(t *testing.T) {
	cart := NewCart(nil)
	cart.Add(cartProduct("p1", "Malbec", 10), 1)
	cart.Add(cartProduct("p1", "Malbec", 10), 2)

	items := cart.Items()
	if len(items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", items[0].Quantity)
	}

	// Nonsense quantities land on a single unit.
	cart.Add(cartProduct("p2", "Lily", 5), 0)
	for _, item := range cart.Items() {
		if item.Product.ID == "p2" && item.Quantity != 1 {
			t.Fatalf("expected quantity 1, got %d", item.Quantity)
		}
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := NewCart(nil)
	cart.Add(cartProduct("p1", "Malbec", 10), 2)
	cart.Add(cartProduct("p2", "Lily", 5), 1)

	cart.UpdateQuantity("p1", 5)
	for _, item := range cart.Items() {
		if item.Product.ID == "p1" && item.Quantity != 5 {
			t.Fatalf("expected quantity 5, got %d", item.Quantity)
		}
	}

	// Zero removes the line instead of keeping an empty row.
	cart.UpdateQuantity("p2", 0)
	if items := cart.Items(); len(items) != 1 || items[0].Product.ID != "p1" {
		t.Fatalf("expected only p1 to remain, got %v", items)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart(nil)
	cart.Add(cartProduct("p1", "Malbec", 10), 1)
	cart.Add(cartProduct("p2", "Lily", 5), 1)

	cart.Remove("p1")
	if items := cart.Items(); len(items) != 1 {
		t.Fatalf("expected 1 line after Remove, got %d", len(items))
	}

	cart.Clear()
	if items := cart.Items(); len(items) != 0 {
		t.Fatalf("expected an empty cart, got %d lines", len(items))
	}
	if !cart.Subtotal().IsZero() {
		t.Fatal("expected a zero subtotal after Clear")
	}
}

func TestCartPersistsToCache(t *testing.T) {
	cache, err := store.NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	cart := NewCart(cache)
	cart.Add(cartProduct("p1", "Malbec", 10), 2)

	var saved []models.CartItem
	if !cache.Load(store.CacheKeyCart, &saved) {
		t.Fatal("expected the cart to be written through")
	}
	if len(saved) != 1 || saved[0].Quantity != 2 {
		t.Fatalf("unexpected persisted cart: %v", saved)
	}
}
