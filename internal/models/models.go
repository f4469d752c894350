package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         string           `json:"image"`
	CategoryID    string           `json:"categoryId"`
	Availability  string           `json:"availability"`
	Description   string           `json:"description,omitempty"`
	InStock       bool             `json:"inStock"`
	IsActive      bool             `json:"isActive"`
	IsFeatured    bool             `json:"isFeatured"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     *time.Time       `json:"updatedAt,omitempty"`
}

func (p Product) GetID() string { return p.ID }

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c Category) GetID() string { return c.ID }

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CustomerData struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Company    string `json:"company,omitempty"`
	Country    string `json:"country"`
	Address    string `json:"address"`
	Locality   string `json:"locality"`
	District   string `json:"district"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	NIF        string `json:"nif,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type Order struct {
	ID            string           `json:"id"`
	Items         []CartItem       `json:"items"`
	Customer      CustomerData     `json:"customer"`
	PaymentMethod string           `json:"paymentMethod"`
	Status        string           `json:"status"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (o Order) GetID() string { return o.ID }

func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type AdminUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}

type MonthlySales struct {
	Month  string           `json:"month"`
	Year   int              `json:"year"`
	Amount decimal.Decimal  `json:"amount"`
	Target *decimal.Decimal `json:"target,omitempty"`
	Notes  string           `json:"notes,omitempty"`
}

type DashboardStats struct {
	MonthlySales   MonthlySales `json:"monthlySales"`
	PendingOrders  int          `json:"pendingOrders"`
	TotalOrders    int          `json:"totalOrders"`
	TotalProducts  int          `json:"totalProducts"`
	ActiveProducts int          `json:"activeProducts"`
}

type Backup struct {
	Version    string     `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

const (
	AvailabilityImmediate   = "pronta-entrega"
	AvailabilityMadeToOrder = "por-encomenda"
)

const (
	PaymentCard         = "cartao"
	PaymentMultibanco   = "multibanco"
	PaymentMBWay        = "mbway"
	PaymentWireTransfer = "transferencia"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// CanTransition reports whether an order may move from one status to another.
// Delivered and cancelled orders are terminal; only their notes may change.
func CanTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusConfirmed || to == OrderStatusCancelled
	case OrderStatusConfirmed:
		return to == OrderStatusShipped || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered
	default:
		return false
	}
}

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCard, PaymentMultibanco, PaymentMBWay, PaymentWireTransfer:
		return true
	}
	return false
}
