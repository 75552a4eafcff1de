// Package selection holds the in-progress configuration of a single product
// before it is added to the cart. A Selection is owned by one session actor
// and is not safe for concurrent use.
package selection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/example/brewbuddy/pkg/cart"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

var (
	ErrUnknownSize           = errors.New("unknown size")
	ErrUnknownCustomization  = errors.New("unknown customization")
	ErrUnknownOption         = errors.New("unknown customization option")
	ErrMaxSelections         = errors.New("too many options selected")
	ErrRequiredCustomization = errors.New("required customization missing")
)

type Selection struct {
	product    models.Product
	size       *models.Size
	selections []models.SelectedCustomization
	quantity   int
}

// New starts a selection with the first size (if any), no customizations and
// quantity 1.
func New(product models.Product) *Selection {
	s := &Selection{product: product, quantity: 1}
	if len(product.Sizes) > 0 {
		first := product.Sizes[0]
		s.size = &first
	}
	return s
}

func (s *Selection) Product() models.Product { return s.product }

func (s *Selection) Size() *models.Size {
	if s.size == nil {
		return nil
	}
	cp := *s.size
	return &cp
}

func (s *Selection) Quantity() int { return s.quantity }

// Customizations returns a copy of the current selections.
func (s *Selection) Customizations() []models.SelectedCustomization {
	out := make([]models.SelectedCustomization, len(s.selections))
	for i, sel := range s.selections {
		out[i] = sel
		out[i].SelectedOptions = slices.Clone(sel.SelectedOptions)
	}
	return out
}

func (s *Selection) SetSize(name string) error {
	size, ok := s.product.Size(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSize, name)
	}
	s.size = &size
	return nil
}

// ToggleOption selects or deselects one option. Single-choice groups replace
// their entry outright. A group entry never survives with an empty option
// list.
func (s *Selection) ToggleOption(customizationID, optionID string, selected bool) error {
	group, ok := s.product.Customization(customizationID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCustomization, customizationID)
	}
	option, ok := group.Option(optionID)
	if !ok {
		return fmt.Errorf("%w: %q in %q", ErrUnknownOption, optionID, customizationID)
	}

	idx := s.indexOf(customizationID)

	if group.SingleChoice() {
		if !selected {
			if idx >= 0 && s.hasOption(idx, optionID) {
				s.selections = slices.Delete(s.selections, idx, idx+1)
			}
			return nil
		}
		if idx >= 0 {
			s.selections = slices.Delete(s.selections, idx, idx+1)
		}
		s.selections = append(s.selections, models.SelectedCustomization{
			CustomizationID:   group.ID,
			CustomizationName: group.Name,
			SelectedOptions:   []models.CustomizationOption{option},
		})
		return nil
	}

	if idx < 0 {
		if selected {
			s.selections = append(s.selections, models.SelectedCustomization{
				CustomizationID:   group.ID,
				CustomizationName: group.Name,
				SelectedOptions:   []models.CustomizationOption{option},
			})
		}
		return nil
	}

	entry := &s.selections[idx]
	present := s.hasOption(idx, optionID)
	switch {
	case selected && !present:
		if group.MaxSelections > 1 && len(entry.SelectedOptions) >= group.MaxSelections {
			return fmt.Errorf("%w: %s allows %d", ErrMaxSelections, group.Name, group.MaxSelections)
		}
		entry.SelectedOptions = append(entry.SelectedOptions, option)
	case !selected && present:
		entry.SelectedOptions = slices.DeleteFunc(entry.SelectedOptions, func(o models.CustomizationOption) bool {
			return o.ID == optionID
		})
		if len(entry.SelectedOptions) == 0 {
			s.selections = slices.Delete(s.selections, idx, idx+1)
		}
	}
	return nil
}

func (s *Selection) IsOptionSelected(customizationID, optionID string) bool {
	idx := s.indexOf(customizationID)
	return idx >= 0 && s.hasOption(idx, optionID)
}

// SetQuantity clamps values below 1 to 1.
func (s *Selection) SetQuantity(n int) {
	s.quantity = max(n, 1)
}

func (s *Selection) Increment() { s.quantity++ }

// Decrement stops at 1.
func (s *Selection) Decrement() {
	if s.quantity > 1 {
		s.quantity--
	}
}

// Validate checks required groups and selection caps.
func (s *Selection) Validate() error {
	for _, group := range s.product.Customizations {
		idx := s.indexOf(group.ID)
		if group.Required && idx < 0 {
			return fmt.Errorf("%w: %s", ErrRequiredCustomization, group.Name)
		}
		if idx >= 0 && group.MaxSelections > 0 && len(s.selections[idx].SelectedOptions) > group.MaxSelections {
			return fmt.Errorf("%w: %s allows %d", ErrMaxSelections, group.Name, group.MaxSelections)
		}
	}
	return nil
}

// Price is the live price of the current configuration.
func (s *Selection) Price() decimal.Decimal {
	return pricing.Price(&s.product, s.size, s.selections, s.quantity)
}

// Candidate validates the selection and returns the add-to-cart payload.
func (s *Selection) Candidate() (cart.Candidate, error) {
	if err := s.Validate(); err != nil {
		return cart.Candidate{}, err
	}
	return cart.Candidate{
		Product:                s.product,
		Quantity:               s.quantity,
		SelectedSize:           s.Size(),
		SelectedCustomizations: s.Customizations(),
		TotalPrice:             s.Price(),
	}, nil
}

// ApplyDefaults selects every option of the given saved customizations.
// Options that no longer exist on the product are skipped and reported.
func (s *Selection) ApplyDefaults(defaults []models.SelectedCustomization) error {
	var errs error
	for _, sel := range defaults {
		for _, opt := range sel.SelectedOptions {
			errs = multierr.Append(errs, s.ToggleOption(sel.CustomizationID, opt.ID, true))
		}
	}
	return errs
}

func (s *Selection) indexOf(customizationID string) int {
	return slices.IndexFunc(s.selections, func(c models.SelectedCustomization) bool {
		return c.CustomizationID == customizationID
	})
}

func (s *Selection) hasOption(idx int, optionID string) bool {
	return slices.ContainsFunc(s.selections[idx].SelectedOptions, func(o models.CustomizationOption) bool {
		return o.ID == optionID
	})
}
