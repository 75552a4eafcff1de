// Package pricing turns a product configuration into money. Every function is
// pure; rounding happens only in Format.
package pricing

import (
	"github.com/example/brewbuddy/pkg/models"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied to the cart subtotal at checkout.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// UnitPrice is base price + size delta + every selected option delta.
func UnitPrice(product *models.Product, size *models.Size, selections []models.SelectedCustomization) decimal.Decimal {
	unit := product.Price
	if size != nil {
		unit = unit.Add(size.Price)
	}
	for _, sel := range selections {
		for _, opt := range sel.SelectedOptions {
			unit = unit.Add(opt.Price)
		}
	}
	return unit
}

// Price scales the unit price by quantity. Quantity is not clamped; callers
// supply a positive value.
func Price(product *models.Product, size *models.Size, selections []models.SelectedCustomization, quantity int) decimal.Decimal {
	return UnitPrice(product, size, selections).Mul(decimal.NewFromInt(int64(quantity)))
}

func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate)
}

// WithTax returns subtotal × (1 + rate).
func WithTax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(1).Add(rate))
}

// Format renders an amount for display, e.g. "$15.70".
func Format(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
