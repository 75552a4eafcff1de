package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var statusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPreparing: 1,
	OrderStatusReady:     2,
	OrderStatusCompleted: 3,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == OrderStatusCancelled
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether an order may move from s to next. Orders only
// move forward; cancellation is allowed from any non-terminal status.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == OrderTypePickup || t == OrderTypeDelivery
}

// Order is a snapshot of the cart at checkout. Only Status changes afterwards.
type Order struct {
	ID              string          `json:"id"`
	Items           []CartLine      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	OrderDate       time.Time       `json:"orderDate"`
	EstimatedTime   int             `json:"estimatedTime"`
	OrderType       OrderType       `json:"orderType"`
	StoreID         string          `json:"storeId,omitempty"`
	DeliveryAddress *Address        `json:"deliveryAddress,omitempty"`
	Customer        CustomerInfo    `json:"customerInfo"`
	Notes           string          `json:"notes,omitempty"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	IdempotencyKey  string          `json:"idempotencyKey,omitempty"`
}

// ItemCount sums line quantities.
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// OrderRecord is the archived row of a placed order.
type OrderRecord struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID     string          `gorm:"type:varchar(64);index" json:"session_id"`
	CustomerName  string          `gorm:"type:varchar(100)" json:"customer_name"`
	CustomerPhone string          `gorm:"type:varchar(20)" json:"customer_phone"`
	OrderType     string          `gorm:"type:varchar(10)" json:"order_type"`
	StoreID       string          `gorm:"type:varchar(36)" json:"store_id"`
	Items         string          `gorm:"type:text" json:"items"` // JSON string
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status        string          `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (OrderRecord) TableName() string {
	return "orders"
}

type OrderRecordItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size,omitempty"`
	Options     []string        `json:"options,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}
