package store

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/selet/storefront/internal/models"
)

// Sales tracks the operator's monthly sales figures. The collection is tiny
// and admin-only, so it lives in memory with cache write-through and no
// remote tier.
type Sales struct {
	mu      sync.Mutex
	cache   *Cache
	entries []models.MonthlySales
	loaded  bool
}

func NewSales(cache *Cache) *Sales {
	return &Sales{cache: cache}
}

func (s *Sales) loadLocked() {
	if s.loaded {
		return
	}
	s.cache.Load(CacheKeySales, &s.entries)
	s.loaded = true
}

// Upsert sets the figure for a month, creating the entry when absent.
func (s *Sales) Upsert(month string, year int, amount decimal.Decimal, notes string) models.MonthlySales {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	for i, entry := range s.entries {
		if entry.Month == month && entry.Year == year {
			s.entries[i].Amount = amount
			s.entries[i].Notes = notes
			s.cache.Store(CacheKeySales, s.entries)
			return s.entries[i]
		}
	}

	entry := models.MonthlySales{Month: month, Year: year, Amount: amount, Notes: notes}
	s.entries = append(s.entries, entry)
	s.cache.Store(CacheKeySales, s.entries)
	return entry
}

// ForMonth returns the entry for a month, or a zeroed figure when none is
// recorded yet.
func (s *Sales) ForMonth(month string, year int) models.MonthlySales {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	for _, entry := range s.entries {
		if entry.Month == month && entry.Year == year {
			return entry
		}
	}
	return models.MonthlySales{Month: month, Year: year, Amount: decimal.Zero}
}
