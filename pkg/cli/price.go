package cli

import (
	"fmt"
	"strings"

	"github.com/example/brewbuddy/pkg/catalog"
	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/pricing"
	"github.com/example/brewbuddy/pkg/selection"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPriceCommand() *cobra.Command {
	var (
		size     string
		options  []string
		quantity int
		taxRate  float64
	)

	cmd := &cobra.Command{
		Use:   "price <product-id>",
		Short: "Price a configured product",
		Example: `  brewbuddy price 2 --size Medium --option milk-type=almond
  brewbuddy price 7 --size Large --quantity 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, ok := catalog.Default().Product(args[0])
			if !ok {
				return fmt.Errorf("unknown product %q", args[0])
			}

			sel := selection.New(product)
			if size != "" {
				if err := sel.SetSize(size); err != nil {
					return err
				}
			}
			for _, opt := range options {
				group, option, ok := strings.Cut(opt, "=")
				if !ok {
					return fmt.Errorf("option %q must look like group=option", opt)
				}
				if err := sel.ToggleOption(group, option, true); err != nil {
					return err
				}
			}
			sel.SetQuantity(quantity)
			if err := sel.Validate(); err != nil {
				return err
			}

			subtotal := sel.Price()
			rate := decimal.NewFromFloat(taxRate)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s", product.Name)
			if s := sel.Size(); s != nil {
				fmt.Fprintf(out, " (%s)", s.Name)
			}
			fmt.Fprintf(out, " x%d\n", sel.Quantity())
			fmt.Fprintf(out, "Subtotal: %s\n", pricing.Format(subtotal))
			fmt.Fprintf(out, "Tax:      %s\n", pricing.Format(pricing.Tax(subtotal, rate)))
			fmt.Fprintf(out, "Total:    %s\n", pricing.Format(pricing.WithTax(subtotal, rate)))
			return nil
		},
	}
	cmd.Flags().StringVar(&size, "size", "", "size name, defaults to the first size")
	cmd.Flags().StringArrayVar(&options, "option", nil, "customization as group=option, repeatable")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "number of items")
	cmd.Flags().Float64Var(&taxRate, "tax-rate", config.Default().Checkout.TaxRate, "sales tax rate")
	return cmd
}
