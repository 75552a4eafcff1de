package cart

import (
	"context"
	"testing"

	"github.com/example/brewbuddy/pkg/catalog"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/pricing"
	"github.com/example/brewbuddy/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCart(t *testing.T) (*Cart, *storage.Store) {
	t.Helper()
	store := storage.New(storage.NewMemory(), "brewBuddy", zap.NewNop())
	return New(context.Background(), store, zap.NewNop()), store
}

func latte(t *testing.T) models.Product {
	t.Helper()
	p, ok := catalog.Default().Product("2")
	require.True(t, ok)
	return p
}

func candidate(p models.Product, sizeName string, qty int, selections ...models.SelectedCustomization) Candidate {
	var size *models.Size
	if s, ok := p.Size(sizeName); ok {
		size = &s
	}
	return Candidate{
		Product:                p,
		Quantity:               qty,
		SelectedSize:           size,
		SelectedCustomizations: selections,
		TotalPrice:             pricing.Price(&p, size, selections, qty),
	}
}

func pick(p models.Product, groupID string, optionIDs ...string) models.SelectedCustomization {
	group, _ := p.Customization(groupID)
	sel := models.SelectedCustomization{CustomizationID: group.ID, CustomizationName: group.Name}
	for _, id := range optionIDs {
		opt, _ := group.Option(id)
		sel.SelectedOptions = append(sel.SelectedOptions, opt)
	}
	return sel
}

func TestCart_AddMergesIdenticalConfiguration(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)
	p := latte(t)
	almond := pick(p, "milk-type", "almond")

	_, err := c.Add(ctx, candidate(p, "Medium", 2, almond))
	require.NoError(t, err)
	line, err := c.Add(ctx, candidate(p, "Medium", 1, almond))
	require.NoError(t, err)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].TotalPrice.Equal(decimal.RequireFromString("23.55")), lines[0].TotalPrice.String())
}

func TestCart_AddDifferentSizeCreatesNewLine(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)
	p := latte(t)

	_, err := c.Add(ctx, candidate(p, "Medium", 1))
	require.NoError(t, err)
	_, err = c.Add(ctx, candidate(p, "Large", 1))
	require.NoError(t, err)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Medium", lines[0].SelectedSize.Name)
	assert.Equal(t, "Large", lines[1].SelectedSize.Name)
	assert.NotEqual(t, lines[0].ID, lines[1].ID)
}

func TestCart_AddMergesRegardlessOfSelectionOrder(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)
	p := latte(t)

	_, err := c.Add(ctx, candidate(p, "Small", 1,
		pick(p, "milk-type", "oat"),
		pick(p, "extras", "extra-shot", "whipped-cream")))
	require.NoError(t, err)
	_, err = c.Add(ctx, candidate(p, "Small", 1,
		pick(p, "extras", "whipped-cream", "extra-shot"),
		pick(p, "milk-type", "oat")))
	require.NoError(t, err)

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 2, c.ItemCount())
	// stored selections keep the order of the first add
	assert.Equal(t, "milk-type", c.Lines()[0].SelectedCustomizations[0].CustomizationID)
}

func TestCart_AddRejectsInvalidCandidate(t *testing.T) {
	c, _ := newTestCart(t)

	_, err := c.Add(context.Background(), Candidate{Product: latte(t), Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidCandidate)
	_, err = c.Add(context.Background(), Candidate{Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidCandidate)
	assert.True(t, c.IsEmpty())
}

func TestCart_UpdateQuantityKeepsUnitPrice(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)
	p := latte(t)

	line, err := c.Add(ctx, candidate(p, "Medium", 2, pick(p, "milk-type", "almond")))
	require.NoError(t, err)

	require.NoError(t, c.UpdateQuantity(ctx, line.ID, 5))

	got, ok := c.Line(line.ID)
	require.True(t, ok)
	assert.Equal(t, 5, got.Quantity)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("39.25")), got.TotalPrice.String())
	assert.True(t, got.UnitPrice().Equal(decimal.RequireFromString("7.85")))
}

func TestCart_UpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	line, err := c.Add(ctx, candidate(latte(t), "Small", 1))
	require.NoError(t, err)

	require.NoError(t, c.UpdateQuantity(ctx, line.ID, 0))
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_UpdateQuantityErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	line, err := c.Add(ctx, candidate(latte(t), "Small", 1))
	require.NoError(t, err)

	assert.ErrorIs(t, c.UpdateQuantity(ctx, line.ID, -1), ErrInvalidQuantity)
	assert.ErrorIs(t, c.UpdateQuantity(ctx, "missing", 2), ErrLineNotFound)
	// zero on an unknown line is a silent no-op, like Remove
	assert.NoError(t, c.UpdateQuantity(ctx, "missing", 0))
}

func TestCart_TotalsAndClear(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)
	cat := catalog.Default()

	espresso, _ := cat.Product("1")
	croissant, _ := cat.Product("9")

	_, err := c.Add(ctx, candidate(espresso, "Single", 2))
	require.NoError(t, err)
	_, err = c.Add(ctx, Candidate{Product: croissant, Quantity: 1, TotalPrice: decimal.RequireFromString("8.00")})
	require.NoError(t, err)

	assert.True(t, c.Total().Equal(decimal.RequireFromString("17.00")), c.Total().String())
	assert.Equal(t, 3, c.ItemCount())
	assert.Len(t, c.Lines(), 2)

	c.Clear(ctx)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.ItemCount())
}

func TestCart_RemoveUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	_, err := c.Add(ctx, candidate(latte(t), "Small", 1))
	require.NoError(t, err)

	c.Remove(ctx, "missing")
	assert.Len(t, c.Lines(), 1)
}

func TestCart_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	c, store := newTestCart(t)
	p := latte(t)

	line, err := c.Add(ctx, candidate(p, "Large", 1, pick(p, "milk-type", "oat")))
	require.NoError(t, err)

	restored := New(ctx, store, zap.NewNop())
	lines := restored.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, line.ID, lines[0].ID)
	assert.Equal(t, "Large", lines[0].SelectedSize.Name)
	assert.True(t, lines[0].TotalPrice.Equal(line.TotalPrice))

	// a restored line still merges with a fresh add
	_, err = restored.Add(ctx, candidate(p, "Large", 1, pick(p, "milk-type", "oat")))
	require.NoError(t, err)
	assert.Len(t, restored.Lines(), 1)
}

func TestCart_CorruptStorageStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	store := storage.New(mem, "brewBuddy", zap.NewNop())
	require.NoError(t, mem.Set(ctx, store.Key(StorageKey), []byte(`{"broken"`)))

	c := New(ctx, store, zap.NewNop())
	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.Lines())
}

func TestCart_LinesAreSnapshots(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)
	p := latte(t)

	_, err := c.Add(ctx, candidate(p, "Small", 1, pick(p, "milk-type", "soy")))
	require.NoError(t, err)

	lines := c.Lines()
	lines[0].Quantity = 99
	lines[0].SelectedCustomizations[0].SelectedOptions[0].ID = "tampered"

	fresh := c.Lines()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "soy", fresh[0].SelectedCustomizations[0].SelectedOptions[0].ID)
}

func TestMergeKey(t *testing.T) {
	p := latte(t)
	medium, _ := p.Size("Medium")
	size := &medium

	a := MergeKey(p.ID, size, []models.SelectedCustomization{
		pick(p, "extras", "whipped-cream", "extra-shot"),
		pick(p, "milk-type", "oat"),
	})
	b := MergeKey(p.ID, size, []models.SelectedCustomization{
		pick(p, "milk-type", "oat"),
		pick(p, "extras", "extra-shot", "whipped-cream"),
	})
	assert.Equal(t, a, b)

	other := MergeKey(p.ID, size, []models.SelectedCustomization{pick(p, "milk-type", "almond")})
	assert.NotEqual(t, a, other)
	assert.NotEqual(t, MergeKey(p.ID, nil, nil), MergeKey("3", nil, nil))
}
