package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/selet/storefront/internal/models"
	"github.com/selet/storefront/internal/store"
)

const Version = "1.0"

var ErrInvalidBackup = errors.New("not a valid store backup")

// Manager round-trips the whole catalog through a single JSON document, for
// manual export/import by the operator.
type Manager struct {
	cache      *store.Cache
	products   *store.Products
	categories *store.Categories
}

func NewManager(cache *store.Cache, products *store.Products, categories *store.Categories) *Manager {
	return &Manager{cache: cache, products: products, categories: categories}
}

func (m *Manager) Export(ctx context.Context) ([]byte, error) {
	doc := models.Backup{
		Version:    Version,
		ExportedAt: time.Now().UTC(),
		Products:   m.products.List(ctx),
		Categories: m.categories.List(ctx),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

func (m *Manager) ExportToFile(ctx context.Context, path string) error {
	data, err := m.Export(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Import replaces both collections with the document's contents. It reports
// how many products and categories were recovered.
func (m *Manager) Import(data []byte) (int, int, error) {
	var doc models.Backup
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, 0, ErrInvalidBackup
	}
	if doc.Version == "" || doc.Products == nil || doc.Categories == nil {
		return 0, 0, ErrInvalidBackup
	}

	if err := m.products.Adopt(doc.Products); err != nil {
		return 0, 0, fmt.Errorf("import products: %w", err)
	}
	if err := m.categories.Adopt(doc.Categories); err != nil {
		return 0, 0, fmt.Errorf("import categories: %w", err)
	}
	return len(doc.Products), len(doc.Categories), nil
}

// Clear wipes every cached collection.
func (m *Manager) Clear() {
	for _, key := range []string{store.CacheKeyProducts, store.CacheKeyCategories, store.CacheKeyCart} {
		m.cache.Remove(key)
	}
}

// StorageSize reports how much disk the cached catalog occupies.
func (m *Manager) StorageSize() (int64, string) {
	total := m.cache.Size(store.CacheKeyProducts, store.CacheKeyCategories, store.CacheKeyCart)
	return total, formatSize(total)
}

func formatSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
	}
}
