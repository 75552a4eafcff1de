package catalog

import (
	"strings"

	"github.com/example/brewbuddy/pkg/models"
)

// CategoryAll matches every product in Filter.
const CategoryAll = "all"

// Catalog is read-only reference data shared by every session.
type Catalog struct {
	products []models.Product
	byID     map[string]int
	stores   []models.Store
}

func New(products []models.Product, stores []models.Store) *Catalog {
	c := &Catalog{
		products: products,
		byID:     make(map[string]int, len(products)),
		stores:   stores,
	}
	for i, p := range products {
		c.byID[p.ID] = i
	}
	return c
}

// Default returns the seeded menu and store locations.
func Default() *Catalog {
	return New(seedProducts(), seedStores())
}

func (c *Catalog) Products() []models.Product {
	return c.products
}

func (c *Catalog) Product(id string) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// Filter returns products in category (or CategoryAll / "") whose name or
// description contains term, case-insensitively.
func (c *Catalog) Filter(category, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))

	out := []models.Product{}
	for _, p := range c.products {
		if category != "" && category != CategoryAll && string(p.Category) != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Popular returns the products flagged as popular, in menu order.
func (c *Catalog) Popular() []models.Product {
	out := []models.Product{}
	for _, p := range c.products {
		if p.IsPopular {
			out = append(out, p)
		}
	}
	return out
}

// CategoryCounts counts products per category, plus CategoryAll.
func (c *Catalog) CategoryCounts() map[string]int {
	counts := map[string]int{CategoryAll: len(c.products)}
	for _, p := range c.products {
		counts[string(p.Category)]++
	}
	return counts
}

func (c *Catalog) Stores() []models.Store {
	return c.stores
}

func (c *Catalog) Store(id string) (models.Store, bool) {
	for _, s := range c.stores {
		if s.ID == id {
			return s, true
		}
	}
	return models.Store{}, false
}

// DefaultStore is the pre-selected pickup location.
func (c *Catalog) DefaultStore() (models.Store, bool) {
	if len(c.stores) == 0 {
		return models.Store{}, false
	}
	return c.stores[0], true
}
