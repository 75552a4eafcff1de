// Package favorites keeps the set of product ids a customer has starred.
package favorites

import (
	"context"
	"slices"
	"sync"

	"github.com/example/brewbuddy/pkg/storage"
)

const StorageKey = "favorites"

// Favorites preserves the order in which products were starred.
type Favorites struct {
	mu    sync.Mutex
	store *storage.Store
	ids   []string
}

func New(ctx context.Context, store *storage.Store) *Favorites {
	f := &Favorites{store: store, ids: []string{}}
	store.Load(ctx, StorageKey, &f.ids)
	if f.ids == nil {
		f.ids = []string{}
	}
	return f
}

// Add is a no-op for an id that is already a favorite.
func (f *Favorites) Add(ctx context.Context, productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if slices.Contains(f.ids, productID) {
		return
	}
	f.ids = append(f.ids, productID)
	f.store.Save(ctx, StorageKey, f.ids)
}

func (f *Favorites) Remove(ctx context.Context, productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.ids)
	f.ids = slices.DeleteFunc(f.ids, func(id string) bool { return id == productID })
	if len(f.ids) != n {
		f.store.Save(ctx, StorageKey, f.ids)
	}
}

// Toggle flips membership and reports whether the product is now a favorite.
func (f *Favorites) Toggle(ctx context.Context, productID string) bool {
	if f.Contains(productID) {
		f.Remove(ctx, productID)
		return false
	}
	f.Add(ctx, productID)
	return true
}

func (f *Favorites) Contains(productID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.ids, productID)
}

func (f *Favorites) List() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.ids)
}

func (f *Favorites) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}
