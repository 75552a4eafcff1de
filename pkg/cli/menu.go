package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/brewbuddy/pkg/catalog"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/pricing"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// menuItem is the printable form of a product.
type menuItem struct {
	ID             string              `json:"id" yaml:"id"`
	Name           string              `json:"name" yaml:"name"`
	Category       string              `json:"category" yaml:"category"`
	Price          string              `json:"price" yaml:"price"`
	Sizes          []string            `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	Customizations map[string][]string `json:"customizations,omitempty" yaml:"customizations,omitempty"`
}

func toMenuItem(p models.Product) menuItem {
	item := menuItem{
		ID:       p.ID,
		Name:     p.Name,
		Category: string(p.Category),
		Price:    pricing.Format(p.Price),
	}
	for _, s := range p.Sizes {
		item.Sizes = append(item.Sizes, fmt.Sprintf("%s (+%s)", s.Name, pricing.Format(s.Price)))
	}
	if len(p.Customizations) > 0 {
		item.Customizations = make(map[string][]string, len(p.Customizations))
		for _, c := range p.Customizations {
			for _, o := range c.Options {
				item.Customizations[c.ID] = append(item.Customizations[c.ID],
					fmt.Sprintf("%s (+%s)", o.ID, pricing.Format(o.Price)))
			}
		}
	}
	return item
}

func newMenuCommand() *cobra.Command {
	var category, search, output string
	var popular bool

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := catalog.Default()
			products := cat.Filter(category, search)
			if popular {
				products = onlyPopular(cat, products)
			}
			items := make([]menuItem, 0, len(products))
			for _, p := range products {
				items = append(items, toMenuItem(p))
			}
			return writeItems(cmd.OutOrStdout(), output, items)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only show one category (coffee, cold-drinks, food, dessert)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "filter by name or description")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	cmd.Flags().BoolVar(&popular, "popular", false, "only show popular products")
	return cmd
}

func onlyPopular(cat *catalog.Catalog, products []models.Product) []models.Product {
	keep := make(map[string]bool)
	for _, p := range cat.Popular() {
		keep[p.ID] = true
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if keep[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func writeItems(w io.Writer, format string, items []menuItem) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)

	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("failed to encode menu: %w", err)
		}
		return enc.Close()

	case outputTable, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSIZES")
		for _, item := range items {
			sizes := make([]string, 0, len(item.Sizes))
			for _, s := range item.Sizes {
				sizes = append(sizes, strings.SplitN(s, " ", 2)[0])
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Category, item.Price, strings.Join(sizes, "/"))
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
