package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	CacheKeyProducts   = "products"
	CacheKeyCategories = "categories"
	CacheKeyOrders     = "orders"
	CacheKeyCart       = "cart"
	CacheKeySales      = "sales"
)

// Cache is the availability tier: a synchronous key-value store with one
// JSON file per collection under a single directory. Missing or corrupt
// entries read back as absent, never as an error the caller must handle.
type Cache struct {
	mu  sync.Mutex
	dir string
}

func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Load decodes the cached entry for key into v. It reports false when the
// entry is missing or unreadable.
func (c *Cache) Load(key string, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// Store replaces the cached entry for key. The write goes through a temp
// file so a crash cannot leave a half-written entry behind.
func (c *Cache) Store(key string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, c.path(key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	os.Remove(c.path(key))
}

// Size returns the total on-disk size of the given entries in bytes.
func (c *Cache) Size(keys ...string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, key := range keys {
		if info, err := os.Stat(c.path(key)); err == nil {
			total += info.Size()
		}
	}
	return total
}
