package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/selet/storefront/internal/models"
)

// Orders is the order repository. Orders embed a snapshot of every product
// they contain, so later catalog edits never break past orders.
type Orders struct {
	*Tiered[models.Order]
}

func NewOrders(cache *Cache, log *logrus.Logger, sources ...Source[models.Order]) *Orders {
	less := func(a, b models.Order) bool { return a.CreatedAt.After(b.CreatedAt) }
	return &Orders{NewTiered(CacheKeyOrders, cache, nil, less, log, sources...)}
}

type CreateOrderRequest struct {
	ID            string
	Items         []models.CartItem
	Customer      models.CustomerData
	PaymentMethod string
}

func (s *Orders) Create(ctx context.Context, req CreateOrderRequest) (models.Order, error) {
	now := time.Now().UTC()
	order := models.Order{
		ID:            req.ID,
		Items:         req.Items,
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	total := order.Total()
	order.TotalAmount = &total

	return s.Tiered.Add(ctx, order)
}

// UpdateStatus advances the order state machine. Notes may change at any
// time, including on terminal orders; the status itself only moves along
// valid transitions.
func (s *Orders) UpdateStatus(ctx context.Context, id, status string, notes *string) (models.Order, error) {
	current, ok := s.GetByID(id)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}

	if status != "" && status != current.Status && !models.CanTransition(current.Status, status) {
		return models.Order{}, ErrInvalidTransition
	}

	now := time.Now().UTC()
	fields := map[string]any{"updatedAt": now}
	if status != "" {
		fields["status"] = status
	}
	if notes != nil {
		fields["notes"] = *notes
	}

	updated, ok := s.Tiered.Update(ctx, id, func(o *models.Order) {
		if status != "" {
			o.Status = status
		}
		if notes != nil {
			o.Notes = *notes
		}
		o.UpdatedAt = now
	}, fields)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return updated, nil
}

func (s *Orders) CountByStatus(ctx context.Context, status string) int {
	count := 0
	for _, o := range s.List(ctx) {
		if o.Status == status {
			count++
		}
	}
	return count
}
