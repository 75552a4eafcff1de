package actors

import (
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/session"
)

// Reply answers every session request. Value holds the typed result.
type Reply struct {
	Value interface{}
	Err   error
}

// Cart messages. Mutations answer with the updated session.CartSummary.
type GetCart struct{}

type AddToCart struct {
	Request session.AddRequest
}

type UpdateCartLine struct {
	LineID   string
	Quantity int
}

type RemoveCartLine struct {
	LineID string
}

type ClearCart struct{}

// Order messages answer with models.Order or []models.Order.
type PlaceOrder struct {
	Request orders.Request
}

type ListOrders struct{}

type GetOrder struct {
	OrderID string
}

type UpdateOrderStatus struct {
	OrderID string
	Status  models.OrderStatus
}

// ConfigureProduct answers with a session.Configuration.
type ConfigureProduct struct {
	ProductID string
}

// Favorites and preferences.
type ListFavorites struct{}

// ToggleFavorite answers with whether the product is now a favorite.
type ToggleFavorite struct {
	ProductID string
}

type GetPreferences struct{}

type UpdatePreferences struct {
	Patch models.PreferencesPatch
}

type SendNotification struct {
	Recipient string
	Type      string // order_placed, order_status
	Message   string
}
