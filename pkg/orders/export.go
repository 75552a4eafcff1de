package orders

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/brewbuddy/pkg/models"
	"github.com/tealeg/xlsx"
)

const ExportSheet = "Orders"

var exportHeaders = []string{
	"Order ID", "Date", "Status", "Type", "Store", "Customer", "Phone",
	"Items", "Quantity", "Subtotal", "Tax", "Total",
}

// ExportXLSX writes the orders as a spreadsheet, one row per order.
func ExportXLSX(w io.Writer, orders []models.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(ExportSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.OrderDate.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(string(o.OrderType))
		row.AddCell().SetValue(o.StoreID)
		row.AddCell().SetValue(o.Customer.Name)
		row.AddCell().SetValue(o.Customer.Phone)
		row.AddCell().SetValue(describeItems(o.Items))
		row.AddCell().SetValue(o.ItemCount())
		row.AddCell().SetValue(o.Subtotal.StringFixed(2))
		row.AddCell().SetValue(o.Tax.StringFixed(2))
		row.AddCell().SetValue(o.TotalAmount.StringFixed(2))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

// describeItems renders lines like "2x Vanilla Latte (Medium, Almond Milk)".
func describeItems(items []models.CartLine) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		var details []string
		if item.SelectedSize != nil {
			details = append(details, item.SelectedSize.Name)
		}
		for _, sel := range item.SelectedCustomizations {
			for _, opt := range sel.SelectedOptions {
				details = append(details, opt.Name)
			}
		}

		desc := fmt.Sprintf("%dx %s", item.Quantity, item.Product.Name)
		if len(details) > 0 {
			desc += " (" + strings.Join(details, ", ") + ")"
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, "; ")
}
