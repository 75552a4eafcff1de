package session

import (
	"context"
	"testing"

	"github.com/example/brewbuddy/pkg/catalog"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/selection"
	"github.com/example/brewbuddy/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDeps() Deps {
	opts := orders.DefaultOptions()
	opts.ProcessingDelay = 0
	return Deps{
		Store:   storage.New(storage.NewMemory(), "brewBuddy", zap.NewNop()),
		Options: opts,
	}
}

func TestSession_AddToCart(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "", newDeps())
	assert.Equal(t, storage.DefaultSession, s.ID)

	line, err := s.AddToCart(ctx, AddRequest{
		ProductID: "2",
		Size:      "Medium",
		Customizations: map[string][]string{
			"milk-type": {"almond"},
			"extras":    {"extra-shot"},
		},
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "18.70", line.TotalPrice.StringFixed(2))
	assert.Len(t, line.SelectedCustomizations, 2)

	summary := s.CartSummary()
	assert.Equal(t, 2, summary.ItemCount)
	assert.True(t, summary.Subtotal.Equal(line.TotalPrice))
}

func TestSession_AddToCartRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "", newDeps())

	_, err := s.AddToCart(ctx, AddRequest{ProductID: "404", Quantity: 1})
	assert.ErrorIs(t, err, ErrUnknownProduct)

	_, err = s.AddToCart(ctx, AddRequest{ProductID: "2", Size: "Venti", Quantity: 1})
	assert.ErrorIs(t, err, selection.ErrUnknownSize)

	_, err = s.AddToCart(ctx, AddRequest{
		ProductID:      "2",
		Customizations: map[string][]string{"milk-type": {"goat"}},
	})
	assert.ErrorIs(t, err, selection.ErrUnknownOption)

	assert.True(t, s.Cart.IsEmpty())
}

func TestSession_AddToCartRejectsSeveralOptionsForSingleChoice(t *testing.T) {
	ctx := context.Background()
	deps := newDeps()
	deps.Catalog = catalog.New([]models.Product{{
		ID:    "t1",
		Name:  "House Tea",
		Price: decimal.RequireFromString("3.00"),
		Customizations: []models.Customization{
			{
				ID:            "temperature",
				Name:          "Temperature",
				MaxSelections: 1,
				Options: []models.CustomizationOption{
					{ID: "hot", Name: "Hot", Price: decimal.Zero},
					{ID: "iced", Name: "Iced", Price: decimal.RequireFromString("0.50")},
				},
			},
			{
				ID:   "add-ins",
				Name: "Add-ins",
				Options: []models.CustomizationOption{
					{ID: "honey", Name: "Honey", Price: decimal.RequireFromString("0.25")},
					{ID: "lemon", Name: "Lemon", Price: decimal.Zero},
				},
			},
		},
	}}, nil)
	s := New(ctx, "", deps)

	_, err := s.AddToCart(ctx, AddRequest{
		ProductID:      "t1",
		Customizations: map[string][]string{"temperature": {"hot", "iced"}},
		Quantity:       1,
	})
	require.ErrorIs(t, err, selection.ErrMaxSelections)
	assert.Contains(t, err.Error(), "Temperature allows 1")
	assert.True(t, s.Cart.IsEmpty())

	line, err := s.AddToCart(ctx, AddRequest{
		ProductID:      "t1",
		Customizations: map[string][]string{"temperature": {"iced"}, "add-ins": {"honey", "lemon"}},
		Quantity:       1,
	})
	require.NoError(t, err)
	assert.Len(t, line.SelectedCustomizations, 2)
	assert.Equal(t, "3.75", line.TotalPrice.StringFixed(2))
}

func TestSession_AddToCartUsesSavedDefaults(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "", newDeps())

	s.Preferences.SetDefaultCustomizations(ctx, "2", []models.SelectedCustomization{{
		CustomizationID: "milk-type",
		SelectedOptions: []models.CustomizationOption{{ID: "oat"}},
	}})

	line, err := s.AddToCart(ctx, AddRequest{ProductID: "2", Quantity: 1, UseDefaults: true})
	require.NoError(t, err)
	require.Len(t, line.SelectedCustomizations, 1)
	assert.Equal(t, "oat", line.SelectedCustomizations[0].SelectedOptions[0].ID)
	assert.Equal(t, "6.95", line.TotalPrice.StringFixed(2))

	plain, err := s.AddToCart(ctx, AddRequest{ProductID: "2", Quantity: 1})
	require.NoError(t, err)
	assert.Empty(t, plain.SelectedCustomizations)
	assert.NotEqual(t, line.ID, plain.ID)
}

func TestSession_AddToCartDefaultsQuantity(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "", newDeps())

	line, err := s.AddToCart(ctx, AddRequest{ProductID: "9"})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, "3.95", line.TotalPrice.StringFixed(2))
}

func TestSession_ConfigureAppliesSavedDefaults(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "", newDeps())

	s.Preferences.SetDefaultCustomizations(ctx, "2", []models.SelectedCustomization{{
		CustomizationID: "milk-type",
		SelectedOptions: []models.CustomizationOption{{ID: "oat"}},
	}})

	sel, err := s.Configure("2")
	require.NoError(t, err)
	assert.True(t, sel.IsOptionSelected("milk-type", "oat"))
	assert.Equal(t, "6.95", sel.Price().StringFixed(2))

	config := Describe(sel)
	assert.Equal(t, "2", config.ProductID)
	assert.Equal(t, 1, config.Quantity)
	require.Len(t, config.Customizations, 1)
	assert.Equal(t, "6.95", config.TotalPrice.StringFixed(2))

	_, err = s.Configure("404")
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestSession_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	deps := newDeps()

	a := New(ctx, "a", deps)
	_, err := a.AddToCart(ctx, AddRequest{ProductID: "9", Quantity: 1})
	require.NoError(t, err)
	a.Favorites.Add(ctx, "9")

	b := New(ctx, "b", deps)
	assert.True(t, b.Cart.IsEmpty())
	assert.Equal(t, 0, b.Favorites.Count())

	reopened := New(ctx, "a", deps)
	assert.Equal(t, 1, reopened.Cart.ItemCount())
}

func TestSession_FavoriteProducts(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, "", newDeps())

	s.Favorites.Add(ctx, "13")
	s.Favorites.Add(ctx, "retired")
	s.Favorites.Add(ctx, "2")

	products := s.FavoriteProducts()
	require.Len(t, products, 2)
	assert.Equal(t, "Tiramisu", products[0].Name)
	assert.Equal(t, "Vanilla Latte", products[1].Name)

	empty := New(ctx, "nobody", newDeps())
	assert.NotNil(t, empty.FavoriteProducts())
}
