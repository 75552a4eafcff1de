// Package preferences stores per-customer settings such as saved delivery
// address and default customizations per product.
package preferences

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/storage"
)

const StorageKey = "preferences"

type Preferences struct {
	mu    sync.Mutex
	store *storage.Store
	prefs models.UserPreferences
}

func defaults() models.UserPreferences {
	return models.UserPreferences{
		FavoriteProducts:      []string{},
		DefaultCustomizations: map[string][]models.SelectedCustomization{},
		PaymentMethods:        []models.PaymentMethod{},
	}
}

func New(ctx context.Context, store *storage.Store) *Preferences {
	p := &Preferences{store: store, prefs: defaults()}
	store.Load(ctx, StorageKey, &p.prefs)
	p.fillNil()
	return p
}

func (p *Preferences) Get() models.UserPreferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return clone(p.prefs)
}

// Update shallow-merges the patch: every non-nil field replaces the stored
// one, everything else is kept.
func (p *Preferences) Update(ctx context.Context, patch models.PreferencesPatch) models.UserPreferences {
	p.mu.Lock()
	defer p.mu.Unlock()

	if patch.FavoriteProducts != nil {
		p.prefs.FavoriteProducts = slices.Clone(patch.FavoriteProducts)
	}
	if patch.DefaultCustomizations != nil {
		p.prefs.DefaultCustomizations = maps.Clone(patch.DefaultCustomizations)
	}
	if patch.DeliveryAddress != nil {
		addr := *patch.DeliveryAddress
		p.prefs.DeliveryAddress = &addr
	}
	if patch.PaymentMethods != nil {
		p.prefs.PaymentMethods = slices.Clone(patch.PaymentMethods)
	}
	p.store.Save(ctx, StorageKey, p.prefs)
	return clone(p.prefs)
}

// SetDefaultCustomizations remembers the customizations to preselect for a
// product. An empty list forgets them.
func (p *Preferences) SetDefaultCustomizations(ctx context.Context, productID string, sel []models.SelectedCustomization) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(sel) == 0 {
		delete(p.prefs.DefaultCustomizations, productID)
	} else {
		p.prefs.DefaultCustomizations[productID] = slices.Clone(sel)
	}
	p.store.Save(ctx, StorageKey, p.prefs)
}

func (p *Preferences) DefaultCustomizations(productID string) []models.SelectedCustomization {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.prefs.DefaultCustomizations[productID])
}

func (p *Preferences) fillNil() {
	d := defaults()
	if p.prefs.FavoriteProducts == nil {
		p.prefs.FavoriteProducts = d.FavoriteProducts
	}
	if p.prefs.DefaultCustomizations == nil {
		p.prefs.DefaultCustomizations = d.DefaultCustomizations
	}
	if p.prefs.PaymentMethods == nil {
		p.prefs.PaymentMethods = d.PaymentMethods
	}
}

func clone(in models.UserPreferences) models.UserPreferences {
	out := models.UserPreferences{
		FavoriteProducts:      slices.Clone(in.FavoriteProducts),
		DefaultCustomizations: maps.Clone(in.DefaultCustomizations),
		PaymentMethods:        slices.Clone(in.PaymentMethods),
	}
	if in.DeliveryAddress != nil {
		addr := *in.DeliveryAddress
		out.DeliveryAddress = &addr
	}
	return out
}
