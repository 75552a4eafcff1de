package models

type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type Address struct {
	ID        string `json:"id,omitempty"`
	Label     string `json:"label,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zipCode,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

type PaymentType string

const (
	PaymentCard   PaymentType = "card"
	PaymentPaypal PaymentType = "paypal"
	PaymentCash   PaymentType = "cash"
)

type PaymentMethod struct {
	ID        string      `json:"id"`
	Type      PaymentType `json:"type"`
	Label     string      `json:"label"`
	LastFour  string      `json:"lastFour,omitempty"`
	IsDefault bool        `json:"isDefault,omitempty"`
}

// DefaultPaymentMethod is recorded on every order; no payment is processed.
var DefaultPaymentMethod = PaymentMethod{ID: "card", Type: PaymentCard, Label: "Credit Card", IsDefault: true}

type UserPreferences struct {
	FavoriteProducts      []string                           `json:"favoriteProducts"`
	DefaultCustomizations map[string][]SelectedCustomization `json:"defaultCustomizations"`
	DeliveryAddress       *Address                           `json:"deliveryAddress"`
	PaymentMethods        []PaymentMethod                    `json:"paymentMethods"`
}

// PreferencesPatch carries a partial update; nil fields are left alone.
type PreferencesPatch struct {
	FavoriteProducts      []string                           `json:"favoriteProducts,omitempty"`
	DefaultCustomizations map[string][]SelectedCustomization `json:"defaultCustomizations,omitempty"`
	DeliveryAddress       *Address                           `json:"deliveryAddress,omitempty"`
	PaymentMethods        []PaymentMethod                    `json:"paymentMethods,omitempty"`
}
