package checkout

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/selet/storefront/internal/models"
	"github.com/selet/storefront/internal/store"
)

// Cart is the shopper's working selection. With a cache attached the
// contents survive restarts; a nil cache keeps the cart purely in memory.
type Cart struct {
	mu    sync.Mutex
	cache *store.Cache
	items []models.CartItem
}

func NewCart(cache *store.Cache) *Cart {
	c := &Cart{cache: cache}
	if cache != nil {
		cache.Load(store.CacheKeyCart, &c.items)
	}
	return c
}

func (c *Cart) persistLocked() {
	if c.cache != nil {
		c.cache.Store(store.CacheKeyCart, c.items)
	}
}

// Add puts quantity units of the product in the cart, merging with an
// existing line for the same product.
func (c *Cart) Add(product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.Product.ID == product.ID {
			c.items[i].Quantity += quantity
			c.persistLocked()
			return
		}
	}
	c.items = append(c.items, models.CartItem{Product: product, Quantity: quantity})
	c.persistLocked()
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
	c.persistLocked()
}

func (c *Cart) removeLocked(productID string) {
	for i, item := range c.items {
		if item.Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line quantity. Zero or less removes the line
// entirely; a zero-quantity row is never kept.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(productID)
		c.persistLocked()
		return
	}

	for i, item := range c.items {
		if item.Product.ID == productID {
			c.items[i].Quantity = quantity
			break
		}
	}
	c.persistLocked()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persistLocked()
}

func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}
