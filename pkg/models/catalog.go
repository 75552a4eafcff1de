package models

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryCoffee     Category = "coffee"
	CategoryFood       Category = "food"
	CategoryDessert    Category = "dessert"
	CategoryColdDrinks Category = "cold-drinks"
)

// Categories lists the menu categories in display order.
var Categories = []Category{CategoryCoffee, CategoryColdDrinks, CategoryFood, CategoryDessert}

func (c Category) Valid() bool {
	switch c {
	case CategoryCoffee, CategoryFood, CategoryDessert, CategoryColdDrinks:
		return true
	}
	return false
}

// Product is immutable reference data. Price is the base price before size
// and customization deltas.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Image          string          `json:"image,omitempty"`
	Category       Category        `json:"category"`
	Sizes          []Size          `json:"sizes,omitempty"`
	Customizations []Customization `json:"customizations,omitempty"`
	IsPopular      bool            `json:"isPopular,omitempty"`
	IsNew          bool            `json:"isNew,omitempty"`
}

func (p *Product) Size(name string) (Size, bool) {
	for _, s := range p.Sizes {
		if s.Name == name {
			return s, true
		}
	}
	return Size{}, false
}

func (p *Product) Customization(id string) (Customization, bool) {
	for _, c := range p.Customizations {
		if c.ID == id {
			return c, true
		}
	}
	return Customization{}, false
}

type Size struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Customization is a group of related options. MaxSelections == 1 makes the
// group single-choice; zero means no cap.
type Customization struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Options       []CustomizationOption `json:"options"`
	Required      bool                  `json:"required,omitempty"`
	MaxSelections int                   `json:"maxSelections,omitempty"`
}

func (c *Customization) SingleChoice() bool {
	return c.MaxSelections == 1
}

func (c *Customization) Option(id string) (CustomizationOption, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return CustomizationOption{}, false
}

type CustomizationOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Store is a pickup location.
type Store struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zipCode"`
	Phone     string   `json:"phone"`
	DriveThru bool     `json:"driveThru,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
}
