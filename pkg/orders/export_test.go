package orders

import (
	"bytes"
	"testing"
	"time"

	"github.com/example/brewbuddy/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestExportXLSX(t *testing.T) {
	orders := []models.Order{{
		ID:        "o-1",
		OrderDate: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Status:    models.OrderStatusPending,
		OrderType: models.OrderTypePickup,
		StoreID:   "1",
		Customer:  models.CustomerInfo{Name: "Ada", Phone: "555-0100"},
		Items: []models.CartLine{
			{
				Quantity:     2,
				Product:      models.Product{Name: "Vanilla Latte"},
				SelectedSize: &models.Size{Name: "Medium"},
				SelectedCustomizations: []models.SelectedCustomization{{
					CustomizationID: "milk-type",
					SelectedOptions: []models.CustomizationOption{{ID: "almond", Name: "Almond Milk"}},
				}},
			},
			{Quantity: 1, Product: models.Product{Name: "Artisan Croissant"}},
		},
		Subtotal:    decimal.RequireFromString("17"),
		Tax:         decimal.RequireFromString("1.36"),
		TotalAmount: decimal.RequireFromString("18.36"),
	}}

	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, orders))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet[ExportSheet]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 2)

	header := sheet.Rows[0].Cells
	assert.Equal(t, "Order ID", header[0].Value)
	assert.Equal(t, "Total", header[len(header)-1].Value)

	row := sheet.Rows[1].Cells
	assert.Equal(t, "o-1", row[0].Value)
	assert.Equal(t, "2026-03-14 09:30:00", row[1].Value)
	assert.Equal(t, "pending", row[2].Value)
	assert.Equal(t, "Ada", row[5].Value)
	assert.Equal(t, "2x Vanilla Latte (Medium, Almond Milk); 1x Artisan Croissant", row[7].Value)
	assert.Equal(t, "17.00", row[9].Value)
	assert.Equal(t, "18.36", row[11].Value)
}

func TestExportXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, nil))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, file.Sheet[ExportSheet].Rows, 1)
}
