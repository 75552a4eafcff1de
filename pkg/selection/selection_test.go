package selection

import (
	"testing"

	"github.com/example/brewbuddy/pkg/catalog"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func latte(t *testing.T) models.Product {
	t.Helper()
	p, ok := catalog.Default().Product("2")
	require.True(t, ok)
	return p
}

// tea has a required single-choice group and a capped multi-choice group.
func tea() models.Product {
	return models.Product{
		ID:    "tea",
		Name:  "Loose Leaf Tea",
		Price: usd("3.00"),
		Customizations: []models.Customization{
			{
				ID: "leaf", Name: "Leaf", Required: true, MaxSelections: 1,
				Options: []models.CustomizationOption{
					{ID: "green", Name: "Green", Price: usd("0")},
					{ID: "black", Name: "Black", Price: usd("0.25")},
				},
			},
			{
				ID: "addins", Name: "Add-ins", MaxSelections: 2,
				Options: []models.CustomizationOption{
					{ID: "honey", Name: "Honey", Price: usd("0.30")},
					{ID: "lemon", Name: "Lemon", Price: usd("0.20")},
					{ID: "mint", Name: "Mint", Price: usd("0.20")},
				},
			},
		},
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(latte(t))

	require.NotNil(t, s.Size())
	assert.Equal(t, "Small", s.Size().Name)
	assert.Equal(t, 1, s.Quantity())
	assert.Empty(t, s.Customizations())
	assert.True(t, s.Price().Equal(usd("6.25")))

	assert.Nil(t, New(tea()).Size())
}

func TestSelection_LatteExample(t *testing.T) {
	s := New(latte(t))

	require.NoError(t, s.SetSize("Medium"))
	require.NoError(t, s.ToggleOption("milk-type", "almond", true))
	s.SetQuantity(2)

	assert.True(t, s.Price().Equal(usd("15.70")), s.Price().String())

	cand, err := s.Candidate()
	require.NoError(t, err)
	assert.Equal(t, "2", cand.Product.ID)
	assert.Equal(t, 2, cand.Quantity)
	assert.Equal(t, "Medium", cand.SelectedSize.Name)
	require.Len(t, cand.SelectedCustomizations, 1)
	assert.Equal(t, "Milk Type", cand.SelectedCustomizations[0].CustomizationName)
	assert.True(t, cand.TotalPrice.Equal(usd("15.70")))
}

func TestSelection_SetSizeUnknown(t *testing.T) {
	s := New(latte(t))
	assert.ErrorIs(t, s.SetSize("Venti"), ErrUnknownSize)
	assert.Equal(t, "Small", s.Size().Name)
}

func TestSelection_SingleChoiceReplaces(t *testing.T) {
	s := New(tea())

	require.NoError(t, s.ToggleOption("leaf", "green", true))
	require.NoError(t, s.ToggleOption("leaf", "black", true))

	sels := s.Customizations()
	require.Len(t, sels, 1)
	require.Len(t, sels[0].SelectedOptions, 1)
	assert.Equal(t, "black", sels[0].SelectedOptions[0].ID)
	assert.False(t, s.IsOptionSelected("leaf", "green"))
	assert.True(t, s.IsOptionSelected("leaf", "black"))
}

func TestSelection_SingleChoiceDeselect(t *testing.T) {
	s := New(tea())
	require.NoError(t, s.ToggleOption("leaf", "black", true))

	// deselecting an option that is not the current one changes nothing
	require.NoError(t, s.ToggleOption("leaf", "green", false))
	assert.True(t, s.IsOptionSelected("leaf", "black"))

	require.NoError(t, s.ToggleOption("leaf", "black", false))
	assert.Empty(t, s.Customizations())
}

func TestSelection_MultiChoiceToggleOnOffLeavesNoEntry(t *testing.T) {
	s := New(latte(t))
	before := s.Customizations()

	require.NoError(t, s.ToggleOption("extras", "extra-shot", true))
	require.NoError(t, s.ToggleOption("extras", "whipped-cream", true))
	assert.True(t, s.Price().Equal(usd("8.50")), s.Price().String())

	require.NoError(t, s.ToggleOption("extras", "extra-shot", false))
	require.NoError(t, s.ToggleOption("extras", "whipped-cream", false))

	assert.Equal(t, before, s.Customizations())
	assert.False(t, s.IsOptionSelected("extras", "extra-shot"))
}

func TestSelection_MultiChoiceIdempotent(t *testing.T) {
	s := New(latte(t))

	require.NoError(t, s.ToggleOption("extras", "decaf", true))
	require.NoError(t, s.ToggleOption("extras", "decaf", true))
	require.NoError(t, s.ToggleOption("extras", "extra-hot", false))

	sels := s.Customizations()
	require.Len(t, sels, 1)
	assert.Len(t, sels[0].SelectedOptions, 1)
}

func TestSelection_MaxSelectionsEnforced(t *testing.T) {
	s := New(tea())

	require.NoError(t, s.ToggleOption("addins", "honey", true))
	require.NoError(t, s.ToggleOption("addins", "lemon", true))
	assert.ErrorIs(t, s.ToggleOption("addins", "mint", true), ErrMaxSelections)
	assert.False(t, s.IsOptionSelected("addins", "mint"))
}

func TestSelection_UnknownGroupOrOption(t *testing.T) {
	s := New(latte(t))

	assert.ErrorIs(t, s.ToggleOption("syrup", "hazelnut", true), ErrUnknownCustomization)
	assert.ErrorIs(t, s.ToggleOption("milk-type", "hazelnut", true), ErrUnknownOption)
	assert.Empty(t, s.Customizations())
}

func TestSelection_RequiredGroupBlocksCandidate(t *testing.T) {
	s := New(tea())

	_, err := s.Candidate()
	require.ErrorIs(t, err, ErrRequiredCustomization)
	assert.Contains(t, err.Error(), "Leaf")

	require.NoError(t, s.ToggleOption("leaf", "green", true))
	cand, err := s.Candidate()
	require.NoError(t, err)
	assert.True(t, cand.TotalPrice.Equal(usd("3.00")))
	assert.Nil(t, cand.SelectedSize)
}

func TestSelection_Quantity(t *testing.T) {
	s := New(latte(t))

	s.Decrement()
	assert.Equal(t, 1, s.Quantity())

	s.Increment()
	s.Increment()
	assert.Equal(t, 3, s.Quantity())

	s.Decrement()
	assert.Equal(t, 2, s.Quantity())

	s.SetQuantity(0)
	assert.Equal(t, 1, s.Quantity())
	s.SetQuantity(-4)
	assert.Equal(t, 1, s.Quantity())
	s.SetQuantity(7)
	assert.Equal(t, 7, s.Quantity())
}

func TestSelection_CandidateIsDetached(t *testing.T) {
	s := New(latte(t))
	require.NoError(t, s.ToggleOption("milk-type", "oat", true))

	cand, err := s.Candidate()
	require.NoError(t, err)

	require.NoError(t, s.ToggleOption("milk-type", "soy", true))
	require.NoError(t, s.SetSize("Large"))

	require.Len(t, cand.SelectedCustomizations, 1)
	assert.Len(t, cand.SelectedCustomizations[0].SelectedOptions, 1)
	assert.Equal(t, "Small", cand.SelectedSize.Name)
}

func TestSelection_ApplyDefaults(t *testing.T) {
	s := New(latte(t))

	err := s.ApplyDefaults([]models.SelectedCustomization{
		{CustomizationID: "milk-type", SelectedOptions: []models.CustomizationOption{{ID: "oat"}}},
		{CustomizationID: "extras", SelectedOptions: []models.CustomizationOption{{ID: "extra-shot"}, {ID: "retired"}}},
		{CustomizationID: "retired-group", SelectedOptions: []models.CustomizationOption{{ID: "x"}}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.ErrorIs(t, err, ErrUnknownCustomization)
	assert.True(t, s.IsOptionSelected("milk-type", "oat"))
	assert.True(t, s.IsOptionSelected("extras", "extra-shot"))
	// catalog prices win over whatever the saved default carried
	assert.True(t, s.Price().Equal(usd("8.45")), s.Price().String())
}
