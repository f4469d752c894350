package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/selet/storefront/internal/models"
)

// DefaultCategories returns the fixed catalog structure a brand-new shop
// starts with.
func DefaultCategories() []models.Category {
	now := time.Now().UTC()
	return []models.Category{
		{ID: "perfumes-mulher", Name: "Perfumes Mulher", Slug: "perfumes-mulher", Description: "Fragrâncias femininas", Order: 1, IsActive: true, CreatedAt: now},
		{ID: "perfumes-homem", Name: "Perfumes Homem", Slug: "perfumes-homem", Description: "Fragrâncias masculinas", Order: 2, IsActive: true, CreatedAt: now},
		{ID: "maquilhagem", Name: "Maquilhagem", Slug: "maquilhagem", Description: "Produtos de maquilhagem", Order: 3, IsActive: true, CreatedAt: now},
		{ID: "cuidados-pele", Name: "Cuidados de Pele", Slug: "cuidados-pele", Description: "Cremes e tratamentos", Order: 4, IsActive: true, CreatedAt: now},
		{ID: "cabelos", Name: "Cabelos", Slug: "cabelos", Description: "Produtos capilares", Order: 5, IsActive: true, CreatedAt: now},
	}
}

// Categories is the category repository, ordered by the explicit sort key.
type Categories struct {
	*Tiered[models.Category]
}

func NewCategories(cache *Cache, log *logrus.Logger, sources ...Source[models.Category]) *Categories {
	less := func(a, b models.Category) bool { return a.Order < b.Order }
	return &Categories{NewTiered(CacheKeyCategories, cache, DefaultCategories(), less, log, sources...)}
}

type CategoryInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

type CategoryPatch struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

func (p CategoryPatch) fields() map[string]any {
	fields := make(map[string]any)
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Slug != nil {
		fields["slug"] = *p.Slug
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Order != nil {
		fields["order"] = *p.Order
	}
	if p.IsActive != nil {
		fields["isActive"] = *p.IsActive
	}
	return fields
}

func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func (s *Categories) Add(ctx context.Context, in CategoryInput) (models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Category{}, ErrNameRequired
	}

	name := strings.TrimSpace(in.Name)
	slug := in.Slug
	if slug == "" {
		slug = slugify(name)
	}
	order := in.Order
	if order == 0 {
		order = len(s.List(ctx)) + 1
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	category := models.Category{
		ID:          id,
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		Order:       order,
		IsActive:    active,
		CreatedAt:   time.Now().UTC(),
	}
	return s.Tiered.Add(ctx, category)
}

func (s *Categories) Update(ctx context.Context, id string, patch CategoryPatch) (models.Category, bool) {
	return s.Tiered.Update(ctx, id, func(c *models.Category) {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Slug != nil {
			c.Slug = *patch.Slug
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Order != nil {
			c.Order = *patch.Order
		}
		if patch.IsActive != nil {
			c.IsActive = *patch.IsActive
		}
	}, patch.fields())
}

// Reorder renumbers the collection 1..n following the given ID sequence.
// IDs not present in the sequence keep their relative order at the end.
func (s *Categories) Reorder(ctx context.Context, ids []string) []models.Category {
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		rank[id] = i + 1
	}

	s.MutateAll(ctx, func(items []models.Category) {
		next := len(ids)
		for i := range items {
			if r, ok := rank[items[i].ID]; ok {
				items[i].Order = r
			} else {
				next++
				items[i].Order = next
			}
		}
	}, func(ctx context.Context, src Source[models.Category]) error {
		for id, r := range rank {
			if err := src.Patch(ctx, id, map[string]any{"order": r}); err != nil {
				return err
			}
		}
		return nil
	})

	return s.List(ctx)
}

// Active returns the customer-facing categories in display order.
func (s *Categories) Active(ctx context.Context) []models.Category {
	var active []models.Category
	for _, c := range s.List(ctx) {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active
}
