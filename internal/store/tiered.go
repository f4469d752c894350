package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Entity is anything a Tiered repository can manage.
type Entity interface {
	GetID() string
}

// Source is a remote tier serving one collection: the aggregation API or the
// table store. Sources are tried in the order they were registered.
type Source[T Entity] interface {
	Name() string
	List(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, entity T) error
	Patch(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// Tiered owns the in-memory working copy of one collection and the fallback
// policy across its tiers.
//
// Reads walk the sources in order and adopt the first non-empty result,
// writing it through to the cache; when every source fails or comes back
// empty, the cached copy is served, and an empty cache on first run is
// seeded with the collection defaults. A read never returns an error.
//
// Writes are optimistic local-first: the in-memory copy and the cache are
// mutated synchronously in call order, then the same mutation is offered to
// the sources (first acceptance wins). A rejected remote write is logged and
// swallowed; the local mutation stands.
type Tiered[T Entity] struct {
	mu      sync.RWMutex
	key     string
	sources []Source[T]
	cache   *Cache
	seed    []T
	less    func(a, b T) bool
	log     *logrus.Entry

	items  []T
	loaded bool
}

func NewTiered[T Entity](key string, cache *Cache, seed []T, less func(a, b T) bool, log *logrus.Logger, sources ...Source[T]) *Tiered[T] {
	return &Tiered[T]{
		key:     key,
		sources: sources,
		cache:   cache,
		seed:    seed,
		less:    less,
		log:     log.WithField("collection", key),
	}
}

// List returns the collection in its natural order. It never fails: with
// every tier unreachable it returns the cached copy, the seed defaults, or
// nothing.
func (t *Tiered[T]) List(ctx context.Context) []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureLoadedLocked(ctx)
	return t.snapshotLocked()
}

// GetByID looks the entity up in the last-loaded collection. No network
// round-trip; an unloaded repository simply reports not found.
func (t *Tiered[T]) GetByID(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, item := range t.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add stores the entity locally and offers it to the sources. It fails only
// when the cache write and every source insert all fail.
func (t *Tiered[T]) Add(ctx context.Context, entity T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureLoadedLocked(ctx)
	t.items = append(t.items, entity)
	t.sortLocked()

	cacheErr := t.writeCacheLocked()
	remoteOK := t.firstSourceLocked(ctx, "insert", func(src Source[T]) error {
		return src.Insert(ctx, entity)
	})

	if cacheErr != nil && !remoteOK {
		var zero T
		return zero, ErrNothingPersisted
	}
	return entity, nil
}

// Update merges a partial mutation into the entity. apply rewrites the
// in-memory copy; fields is the same mutation in wire form for the sources.
// A missing ID is a no-op reported as false, never an error.
func (t *Tiered[T]) Update(ctx context.Context, id string, apply func(*T), fields map[string]any) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureLoadedLocked(ctx)

	idx := -1
	for i, item := range t.items {
		if item.GetID() == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		var zero T
		return zero, false
	}

	apply(&t.items[idx])
	updated := t.items[idx]
	t.sortLocked()

	if err := t.writeCacheLocked(); err != nil {
		t.log.WithError(err).Warn("cache write-through failed")
	}
	t.firstSourceLocked(ctx, "update", func(src Source[T]) error {
		return src.Patch(ctx, id, fields)
	})

	return updated, true
}

// Delete removes the entity from every reachable tier. A missing ID reports
// false; remote refusal does not undo the local removal.
func (t *Tiered[T]) Delete(ctx context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureLoadedLocked(ctx)

	idx := -1
	for i, item := range t.items {
		if item.GetID() == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	t.items = append(t.items[:idx], t.items[idx+1:]...)

	if err := t.writeCacheLocked(); err != nil {
		t.log.WithError(err).Warn("cache write-through failed")
	}
	t.firstSourceLocked(ctx, "delete", func(src Source[T]) error {
		return src.Delete(ctx, id)
	})

	return true
}

// MutateAll applies a collection-wide mutation locally and offers the remote
// form of it to the sources. Used for operations that touch every row, such
// as the single-featured-product sweep and category reordering.
func (t *Tiered[T]) MutateAll(ctx context.Context, apply func(items []T), remote func(ctx context.Context, src Source[T]) error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureLoadedLocked(ctx)
	apply(t.items)
	t.sortLocked()

	if err := t.writeCacheLocked(); err != nil {
		t.log.WithError(err).Warn("cache write-through failed")
	}
	t.firstSourceLocked(ctx, "mutate", func(src Source[T]) error {
		return remote(ctx, src)
	})
}

// Adopt replaces the whole collection locally, bypassing the sources. Backup
// import goes through here.
func (t *Tiered[T]) Adopt(items []T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = items
	t.loaded = true
	t.sortLocked()
	return t.writeCacheLocked()
}

// Refresh drops the working copy and walks the tiers again on the next read.
func (t *Tiered[T]) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loaded = false
}

// Len reports the size of the last-loaded collection.
func (t *Tiered[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

func (t *Tiered[T]) ensureLoadedLocked(ctx context.Context) {
	if t.loaded {
		return
	}

	for _, src := range t.sources {
		items, err := src.List(ctx)
		if err != nil {
			t.log.WithError(err).WithField("tier", src.Name()).Warn("tier read failed")
			continue
		}
		if len(items) == 0 {
			continue
		}

		t.items = items
		t.loaded = true
		t.sortLocked()
		if err := t.writeCacheLocked(); err != nil {
			t.log.WithError(err).Warn("cache write-through failed")
		}
		return
	}

	var cached []T
	if t.cache.Load(t.key, &cached) && len(cached) > 0 {
		t.items = cached
		t.loaded = true
		t.sortLocked()
		return
	}

	// First run with nothing anywhere: seed the defaults and persist them to
	// whichever tier is reachable. The cache entry makes the seed idempotent.
	t.items = append([]T(nil), t.seed...)
	t.loaded = true
	t.sortLocked()
	if len(t.seed) == 0 {
		return
	}

	if err := t.writeCacheLocked(); err != nil {
		t.log.WithError(err).Warn("seed cache write failed")
	}
	t.firstSourceLocked(ctx, "seed", func(src Source[T]) error {
		for _, item := range t.seed {
			if err := src.Insert(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	t.log.WithField("count", len(t.seed)).Info("seeded collection defaults")
}

func (t *Tiered[T]) sortLocked() {
	if t.less != nil {
		sort.SliceStable(t.items, func(i, j int) bool { return t.less(t.items[i], t.items[j]) })
	}
}

func (t *Tiered[T]) snapshotLocked() []T {
	out := make([]T, len(t.items))
	copy(out, t.items)
	return out
}

func (t *Tiered[T]) writeCacheLocked() error {
	return t.cache.Store(t.key, t.items)
}

// firstSourceLocked offers the operation to each source in order and stops
// at the first one that accepts it. Refusals are logged, never surfaced. A
// credential rejection ends the chain: an admin-scoped write must not leak
// into an unauthenticated tier.
func (t *Tiered[T]) firstSourceLocked(ctx context.Context, op string, fn func(src Source[T]) error) bool {
	for _, src := range t.sources {
		err := fn(src)
		if err == nil {
			return true
		}
		t.log.WithError(err).WithFields(logrus.Fields{"tier": src.Name(), "op": op}).
			Warn("remote write not persisted")
		if errors.Is(err, ErrSourceUnauthorized) {
			break
		}
	}
	return false
}
