package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/selet/storefront/internal/models"
)

// FeaturedSource is implemented by sources that can enforce the
// at-most-one-featured invariant on their side.
type FeaturedSource interface {
	SetFeatured(ctx context.Context, id string) error
}

// Products is the product repository: a Tiered collection ordered newest
// first, plus the product-specific views and toggles.
type Products struct {
	*Tiered[models.Product]
}

func NewProducts(cache *Cache, log *logrus.Logger, sources ...Source[models.Product]) *Products {
	less := func(a, b models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	return &Products{NewTiered(CacheKeyProducts, cache, nil, less, log, sources...)}
}

type ProductInput struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Image         string           `json:"image"`
	CategoryID    string           `json:"categoryId"`
	Availability  string           `json:"availability"`
	Description   string           `json:"description"`
	InStock       bool             `json:"inStock"`
	IsActive      bool             `json:"isActive"`
}

type ProductPatch struct {
	Name          *string          `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Image         *string          `json:"image"`
	CategoryID    *string          `json:"categoryId"`
	Availability  *string          `json:"availability"`
	Description   *string          `json:"description"`
	InStock       *bool            `json:"inStock"`
	IsActive      *bool            `json:"isActive"`
	IsFeatured    *bool            `json:"isFeatured"`
}

func (p ProductPatch) fields() map[string]any {
	fields := make(map[string]any)
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Price != nil {
		fields["price"] = *p.Price
	}
	if p.OriginalPrice != nil {
		fields["originalPrice"] = *p.OriginalPrice
	}
	if p.Image != nil {
		fields["image"] = *p.Image
	}
	if p.CategoryID != nil {
		fields["categoryId"] = *p.CategoryID
	}
	if p.Availability != nil {
		fields["availability"] = *p.Availability
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.InStock != nil {
		fields["inStock"] = *p.InStock
	}
	if p.IsActive != nil {
		fields["isActive"] = *p.IsActive
	}
	if p.IsFeatured != nil {
		fields["isFeatured"] = *p.IsFeatured
	}
	return fields
}

func (s *Products) Add(ctx context.Context, in ProductInput) (models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Product{}, ErrNameRequired
	}

	availability := in.Availability
	if availability == "" {
		availability = models.AvailabilityImmediate
	}

	// Keep a caller-minted ID so the same entity stays identical across
	// tiers; mint one only for brand-new products.
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	product := models.Product{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Image:         in.Image,
		CategoryID:    in.CategoryID,
		Availability:  availability,
		Description:   in.Description,
		InStock:       in.InStock,
		IsActive:      in.IsActive,
		CreatedAt:     time.Now().UTC(),
	}
	return s.Tiered.Add(ctx, product)
}

func (s *Products) Update(ctx context.Context, id string, patch ProductPatch) (models.Product, bool) {
	now := time.Now().UTC()
	fields := patch.fields()
	fields["updatedAt"] = now

	return s.Tiered.Update(ctx, id, func(p *models.Product) {
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.OriginalPrice != nil {
			p.OriginalPrice = patch.OriginalPrice
		}
		if patch.Image != nil {
			p.Image = *patch.Image
		}
		if patch.CategoryID != nil {
			p.CategoryID = *patch.CategoryID
		}
		if patch.Availability != nil {
			p.Availability = *patch.Availability
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.InStock != nil {
			p.InStock = *patch.InStock
		}
		if patch.IsActive != nil {
			p.IsActive = *patch.IsActive
		}
		if patch.IsFeatured != nil {
			p.IsFeatured = *patch.IsFeatured
		}
		p.UpdatedAt = &now
	}, fields)
}

func (s *Products) SetActive(ctx context.Context, id string, active bool) (models.Product, bool) {
	return s.Update(ctx, id, ProductPatch{IsActive: &active})
}

func (s *Products) SetInStock(ctx context.Context, id string, inStock bool) (models.Product, bool) {
	return s.Update(ctx, id, ProductPatch{InStock: &inStock})
}

// SetFeatured clears the featured flag on every other product and sets it on
// the target, locally and at the first source that accepts the sweep. The
// two remote steps are not transactional; re-running the operation is
// idempotent and self-heals a half-applied sweep.
func (s *Products) SetFeatured(ctx context.Context, id string) (models.Product, bool) {
	found := false
	for _, p := range s.List(ctx) {
		if p.ID == id {
			found = true
			break
		}
	}
	if !found {
		return models.Product{}, false
	}

	now := time.Now().UTC()
	s.MutateAll(ctx, func(items []models.Product) {
		for i := range items {
			items[i].IsFeatured = items[i].ID == id
			if items[i].ID == id {
				items[i].UpdatedAt = &now
			}
		}
	}, func(ctx context.Context, src Source[models.Product]) error {
		if fs, ok := src.(FeaturedSource); ok {
			return fs.SetFeatured(ctx, id)
		}
		return ErrSourceUnavailable
	})

	return s.GetByID(id)
}

// Active is the customer-facing view.
func (s *Products) Active(ctx context.Context) []models.Product {
	var active []models.Product
	for _, p := range s.List(ctx) {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active
}

func (s *Products) ByCategory(ctx context.Context, categoryID string) []models.Product {
	var matched []models.Product
	for _, p := range s.Active(ctx) {
		if p.CategoryID == categoryID {
			matched = append(matched, p)
		}
	}
	return matched
}

func (s *Products) ByAvailability(ctx context.Context, availability string) []models.Product {
	var matched []models.Product
	for _, p := range s.Active(ctx) {
		if p.Availability == availability {
			matched = append(matched, p)
		}
	}
	return matched
}

// Featured returns the featured active product, falling back to the first
// active one so the storefront hero never renders empty.
func (s *Products) Featured(ctx context.Context) (models.Product, bool) {
	active := s.Active(ctx)
	for _, p := range active {
		if p.IsFeatured {
			return p, true
		}
	}
	if len(active) > 0 {
		return active[0], true
	}
	return models.Product{}, false
}
