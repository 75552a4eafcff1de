// Package session wires the per-customer services (cart, favorites, order
// history, preferences and checkout) over one storage namespace.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/example/brewbuddy/pkg/cart"
	"github.com/example/brewbuddy/pkg/catalog"
	"github.com/example/brewbuddy/pkg/favorites"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/preferences"
	"github.com/example/brewbuddy/pkg/selection"
	"github.com/example/brewbuddy/pkg/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrUnknownProduct = errors.New("unknown product")

type Deps struct {
	Store   *storage.Store
	Catalog *catalog.Catalog
	Options orders.Options
	Logger  *zap.Logger
	Sinks   []orders.Sink
}

type Session struct {
	ID          string
	Catalog     *catalog.Catalog
	Cart        *cart.Cart
	Favorites   *favorites.Favorites
	History     *orders.History
	Preferences *preferences.Preferences
	Checkout    *orders.Checkout
}

// New restores every per-session service from storage.
func New(ctx context.Context, id string, deps Deps) *Session {
	if id == "" {
		id = storage.DefaultSession
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	store := deps.Store.ForSession(id)
	logger := deps.Logger.With(zap.String("session", id))

	s := &Session{
		ID:          id,
		Catalog:     deps.Catalog,
		Cart:        cart.New(ctx, store, logger),
		Favorites:   favorites.New(ctx, store),
		History:     orders.NewHistory(ctx, store),
		Preferences: preferences.New(ctx, store),
	}
	s.Checkout = orders.NewCheckout(id, s.Cart, s.History, deps.Catalog, deps.Options, deps.Logger, deps.Sinks...)
	return s
}

// AddRequest describes a product configuration by ids, as received over the
// wire. Customizations maps group id to selected option ids. UseDefaults
// starts from the customer's saved customizations for the product.
type AddRequest struct {
	ProductID      string              `json:"productId"`
	Size           string              `json:"size,omitempty"`
	Customizations map[string][]string `json:"customizations,omitempty"`
	Quantity       int                 `json:"quantity"`
	UseDefaults    bool                `json:"useDefaults,omitempty"`
}

// Configuration is a product's starting configuration as shown to the
// customer before any changes.
type Configuration struct {
	ProductID      string                         `json:"productId"`
	Size           *models.Size                   `json:"size,omitempty"`
	Customizations []models.SelectedCustomization `json:"customizations"`
	Quantity       int                            `json:"quantity"`
	TotalPrice     decimal.Decimal                `json:"totalPrice"`
}

func Describe(sel *selection.Selection) Configuration {
	return Configuration{
		ProductID:      sel.Product().ID,
		Size:           sel.Size(),
		Customizations: sel.Customizations(),
		Quantity:       sel.Quantity(),
		TotalPrice:     sel.Price(),
	}
}

// Configure starts a selection for the product with the customer's saved
// default customizations applied.
func (s *Session) Configure(productID string) (*selection.Selection, error) {
	product, ok := s.Catalog.Product(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	sel := selection.New(product)
	// stale defaults are skipped
	_ = sel.ApplyDefaults(s.Preferences.DefaultCustomizations(productID))
	return sel, nil
}

// AddToCart builds a selection from the request and adds it. Quantities
// below 1 are treated as 1.
func (s *Session) AddToCart(ctx context.Context, req AddRequest) (models.CartLine, error) {
	product, ok := s.Catalog.Product(req.ProductID)
	if !ok {
		return models.CartLine{}, fmt.Errorf("%w: %q", ErrUnknownProduct, req.ProductID)
	}

	sel := selection.New(product)
	if req.UseDefaults {
		sel, _ = s.Configure(req.ProductID)
	}
	if req.Size != "" {
		if err := sel.SetSize(req.Size); err != nil {
			return models.CartLine{}, err
		}
	}

	groups := make([]string, 0, len(req.Customizations))
	for id := range req.Customizations {
		groups = append(groups, id)
	}
	slices.Sort(groups)
	for _, groupID := range groups {
		options := req.Customizations[groupID]
		// toggling would keep only the last option of a single-choice group
		if group, ok := product.Customization(groupID); ok && group.SingleChoice() && len(options) > 1 {
			return models.CartLine{}, fmt.Errorf("%w: %s allows 1", selection.ErrMaxSelections, group.Name)
		}
		for _, optionID := range options {
			if err := sel.ToggleOption(groupID, optionID, true); err != nil {
				return models.CartLine{}, err
			}
		}
	}
	sel.SetQuantity(req.Quantity)

	cand, err := sel.Candidate()
	if err != nil {
		return models.CartLine{}, err
	}
	return s.Cart.Add(ctx, cand)
}

type CartSummary struct {
	Lines     []models.CartLine `json:"lines"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	ItemCount int               `json:"itemCount"`
}

func (s *Session) CartSummary() CartSummary {
	return CartSummary{
		Lines:     s.Cart.Lines(),
		Subtotal:  s.Cart.Total(),
		ItemCount: s.Cart.ItemCount(),
	}
}

// FavoriteProducts resolves favorite ids against the catalog, skipping ids no
// longer on the menu.
func (s *Session) FavoriteProducts() []models.Product {
	out := []models.Product{}
	for _, id := range s.Favorites.List() {
		if p, ok := s.Catalog.Product(id); ok {
			out = append(out, p)
		}
	}
	return out
}
