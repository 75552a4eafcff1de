package catalog

import (
	"github.com/example/brewbuddy/pkg/models"
	"github.com/shopspring/decimal"
)

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func milkType(options ...models.CustomizationOption) models.Customization {
	return models.Customization{ID: "milk-type", Name: "Milk Type", Options: options}
}

var (
	wholeMilk   = models.CustomizationOption{ID: "whole", Name: "Whole Milk", Price: usd("0")}
	almondMilk  = models.CustomizationOption{ID: "almond", Name: "Almond Milk", Price: usd("0.60")}
	oatMilk     = models.CustomizationOption{ID: "oat", Name: "Oat Milk", Price: usd("0.70")}
	coconutMilk = models.CustomizationOption{ID: "coconut", Name: "Coconut Milk", Price: usd("0.60")}
	soyMilk     = models.CustomizationOption{ID: "soy", Name: "Soy Milk", Price: usd("0.50")}
)

func standardSizes(medium, large string) []models.Size {
	return []models.Size{
		{Name: "Small", Price: usd("0")},
		{Name: "Medium", Price: usd(medium)},
		{Name: "Large", Price: usd(large)},
	}
}

func seedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Signature Blend Espresso",
			Description: "Our signature espresso blend with rich, bold flavor and perfect crema. Made from premium Arabica beans.",
			Price:       usd("4.50"),
			Category:    models.CategoryCoffee,
			IsPopular:   true,
			Sizes: []models.Size{
				{Name: "Single", Price: usd("0")},
				{Name: "Double", Price: usd("2.00")},
			},
			Customizations: []models.Customization{
				milkType(wholeMilk, almondMilk, oatMilk, coconutMilk, soyMilk),
			},
		},
		{
			ID:          "2",
			Name:        "Vanilla Latte",
			Description: "Smooth espresso combined with steamed milk and vanilla syrup, topped with delicate foam art.",
			Price:       usd("6.25"),
			Category:    models.CategoryCoffee,
			IsPopular:   true,
			Sizes:       standardSizes("1.00", "1.75"),
			Customizations: []models.Customization{
				milkType(wholeMilk, almondMilk, oatMilk, coconutMilk, soyMilk),
				{
					ID:   "sweetness",
					Name: "Sweetness Level",
					Options: []models.CustomizationOption{
						{ID: "no-sugar", Name: "No Sugar", Price: usd("0")},
						{ID: "light", Name: "Light Sweet", Price: usd("0")},
						{ID: "medium", Name: "Medium Sweet", Price: usd("0")},
						{ID: "extra", Name: "Extra Sweet", Price: usd("0")},
					},
				},
				{
					ID:            "extras",
					Name:          "Add Extras",
					MaxSelections: 3,
					Options: []models.CustomizationOption{
						{ID: "extra-shot", Name: "Extra Shot", Price: usd("1.50")},
						{ID: "decaf", Name: "Make it Decaf", Price: usd("0")},
						{ID: "extra-hot", Name: "Extra Hot", Price: usd("0")},
						{ID: "whipped-cream", Name: "Whipped Cream", Price: usd("0.75")},
					},
				},
			},
		},
		{
			ID:          "3",
			Name:        "Caramel Macchiato",
			Description: "Espresso marked with dolce de leche, steamed milk, and a drizzle of sweet caramel sauce.",
			Price:       usd("6.75"),
			Category:    models.CategoryCoffee,
			Sizes:       standardSizes("1.00", "1.75"),
			Customizations: []models.Customization{
				milkType(wholeMilk, almondMilk, oatMilk, coconutMilk, soyMilk),
			},
		},
		{
			ID:          "4",
			Name:        "Cappuccino",
			Description: "Traditional Italian cappuccino with equal parts espresso, steamed milk, and foam. Perfect balance.",
			Price:       usd("5.75"),
			Category:    models.CategoryCoffee,
			Sizes:       standardSizes("0.75", "1.50"),
			Customizations: []models.Customization{
				milkType(wholeMilk, almondMilk, oatMilk, coconutMilk, soyMilk),
			},
		},
		{
			ID:          "5",
			Name:        "Mocha Delight",
			Description: "Rich espresso blended with premium chocolate, steamed milk, and topped with whipped cream.",
			Price:       usd("6.95"),
			Category:    models.CategoryCoffee,
			IsNew:       true,
			Sizes:       standardSizes("1.25", "2.00"),
			Customizations: []models.Customization{
				milkType(wholeMilk, almondMilk, oatMilk, coconutMilk),
			},
		},
		{
			ID:          "6",
			Name:        "Iced Americano",
			Description: "Bold espresso shots over ice with cold water. Simple, refreshing, and energizing.",
			Price:       usd("4.75"),
			Category:    models.CategoryColdDrinks,
			Sizes:       standardSizes("0.75", "1.25"),
		},
		{
			ID:          "7",
			Name:        "Cold Brew Coffee",
			Description: "Smooth, rich cold brew steeped for 20 hours. Less acidic, naturally sweet, and incredibly refreshing.",
			Price:       usd("5.25"),
			Category:    models.CategoryColdDrinks,
			IsPopular:   true,
			Sizes: []models.Size{
				{Name: "Medium", Price: usd("0")},
				{Name: "Large", Price: usd("1.00")},
			},
		},
		{
			ID:          "8",
			Name:        "Iced Caramel Latte",
			Description: "Our signature latte served over ice with caramel syrup and topped with caramel drizzle.",
			Price:       usd("6.50"),
			Category:    models.CategoryColdDrinks,
			Sizes:       standardSizes("1.00", "1.75"),
		},
		{
			ID:          "9",
			Name:        "Artisan Croissant",
			Description: "Buttery, flaky croissant baked fresh daily. Perfect with your morning coffee.",
			Price:       usd("3.95"),
			Category:    models.CategoryFood,
		},
		{
			ID:          "10",
			Name:        "Avocado Toast",
			Description: "Smashed avocado on artisan sourdough, topped with everything seasoning and a drizzle of olive oil.",
			Price:       usd("8.95"),
			Category:    models.CategoryFood,
			IsPopular:   true,
		},
		{
			ID:          "11",
			Name:        "Breakfast Sandwich",
			Description: "Fresh egg, aged cheddar, and applewood bacon on a toasted English muffin.",
			Price:       usd("7.50"),
			Category:    models.CategoryFood,
		},
		{
			ID:          "12",
			Name:        "Blueberry Muffin",
			Description: "House-made muffin bursting with fresh blueberries and a golden, tender crumb.",
			Price:       usd("4.25"),
			Category:    models.CategoryFood,
		},
		{
			ID:          "13",
			Name:        "Tiramisu",
			Description: "Classic Italian dessert with coffee-soaked ladyfingers and mascarpone cream.",
			Price:       usd("6.95"),
			Category:    models.CategoryDessert,
			IsPopular:   true,
		},
		{
			ID:          "14",
			Name:        "Chocolate Brownie",
			Description: "Decadent fudge brownie made with premium dark chocolate. Served warm with a scoop of vanilla ice cream.",
			Price:       usd("5.75"),
			Category:    models.CategoryDessert,
		},
		{
			ID:          "15",
			Name:        "New York Cheesecake",
			Description: "Creamy, rich cheesecake with a graham cracker crust and your choice of berry compote.",
			Price:       usd("6.50"),
			Category:    models.CategoryDessert,
		},
	}
}

func seedStores() []models.Store {
	return []models.Store{
		{
			ID: "1", Name: "Downtown Main Store", Address: "123 Coffee Street",
			City: "New York", State: "NY", ZipCode: "10001", Phone: "(555) 123-4567",
			Amenities: []string{"Free WiFi", "Outdoor Seating", "Meeting Rooms", "Live Music"},
		},
		{
			ID: "2", Name: "University District", Address: "456 Campus Avenue",
			City: "New York", State: "NY", ZipCode: "10003", Phone: "(555) 234-5678",
			Amenities: []string{"Free WiFi", "Study Area", "Power Outlets", "24/7 Access"},
		},
		{
			ID: "3", Name: "Suburban Express", Address: "789 Shopping Plaza",
			City: "Queens", State: "NY", ZipCode: "11101", Phone: "(555) 345-6789", DriveThru: true,
			Amenities: []string{"Drive-Thru", "Parking", "Family Friendly", "Mobile Ordering"},
		},
		{
			ID: "4", Name: "Business District", Address: "321 Financial Way",
			City: "New York", State: "NY", ZipCode: "10004", Phone: "(555) 456-7890",
			Amenities: []string{"Express Service", "Corporate Catering", "Mobile Ordering", "Loyalty Rewards"},
		},
		{
			ID: "5", Name: "Riverside Cafe", Address: "654 River Road",
			City: "Brooklyn", State: "NY", ZipCode: "11201", Phone: "(555) 567-8901",
			Amenities: []string{"River View", "Outdoor Seating", "Pet Friendly", "Local Art"},
		},
	}
}
