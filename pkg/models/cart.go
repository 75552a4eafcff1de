package models

import "github.com/shopspring/decimal"

// SelectedCustomization holds the chosen options for one group. An entry is
// never stored with an empty option list.
type SelectedCustomization struct {
	CustomizationID   string                `json:"customizationId"`
	CustomizationName string                `json:"customizationName"`
	SelectedOptions   []CustomizationOption `json:"selectedOptions"`
}

// CartLine is one priced entry of the cart. TotalPrice is cached at the time
// of the last mutation and never recomputed from the catalog.
type CartLine struct {
	ID                     string                  `json:"id"`
	ProductID              string                  `json:"productId"`
	Product                Product                 `json:"product"`
	Quantity               int                     `json:"quantity"`
	SelectedSize           *Size                   `json:"selectedSize,omitempty"`
	SelectedCustomizations []SelectedCustomization `json:"selectedCustomizations"`
	TotalPrice             decimal.Decimal         `json:"totalPrice"`
}

// UnitPrice is the per-item price implied by the cached total.
func (l *CartLine) UnitPrice() decimal.Decimal {
	if l.Quantity == 0 {
		return decimal.Zero
	}
	return l.TotalPrice.Div(decimal.NewFromInt(int64(l.Quantity)))
}
