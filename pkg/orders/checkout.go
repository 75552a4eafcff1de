// Package orders turns a cart into a placed order and keeps the session's
// order history.
package orders

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/example/brewbuddy/pkg/cart"
	"github.com/example/brewbuddy/pkg/catalog"
	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Sink receives order events after the order is stored. Sinks run in the
// background with their own timeout; errors are logged and never fail the
// operation that produced the event.
type Sink interface {
	OrderPlaced(ctx context.Context, sessionID string, order models.Order) error
	OrderStatusChanged(ctx context.Context, sessionID string, order models.Order, from models.OrderStatus) error
}

type Options struct {
	TaxRate         decimal.Decimal
	PickupMinutes   int
	DeliveryMinutes int
	ProcessingDelay time.Duration
	SinkTimeout     time.Duration
}

func DefaultOptions() Options {
	return Options{
		TaxRate:         pricing.DefaultTaxRate,
		PickupMinutes:   15,
		DeliveryMinutes: 30,
		ProcessingDelay: 2 * time.Second,
		SinkTimeout:     DefaultSinkTimeout,
	}
}

func OptionsFromConfig(cfg *config.CheckoutConfig) Options {
	opts := DefaultOptions()
	opts.TaxRate = decimal.NewFromFloat(cfg.TaxRate)
	opts.ProcessingDelay = cfg.ProcessingDelay
	if cfg.PickupMinutes > 0 {
		opts.PickupMinutes = cfg.PickupMinutes
	}
	if cfg.DeliveryMinutes > 0 {
		opts.DeliveryMinutes = cfg.DeliveryMinutes
	}
	if cfg.SinkTimeout > 0 {
		opts.SinkTimeout = cfg.SinkTimeout
	}
	return opts
}

// Request is what the customer submits at checkout. An empty OrderType means
// pickup and an empty StoreID picks the first store.
type Request struct {
	OrderType       models.OrderType      `json:"orderType"`
	StoreID         string                `json:"storeId,omitempty"`
	DeliveryAddress *models.Address       `json:"deliveryAddress,omitempty"`
	Customer        models.CustomerInfo   `json:"customerInfo"`
	Notes           string                `json:"notes,omitempty"`
	PaymentMethod   *models.PaymentMethod `json:"paymentMethod,omitempty"`
	IdempotencyKey  string                `json:"idempotencyKey,omitempty"`
}

type Checkout struct {
	sessionID string
	cart      *cart.Cart
	history   *History
	catalog   *catalog.Catalog
	opts      Options
	events    *dispatcher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string

	group    singleflight.Group
	mu       sync.Mutex
	inFlight string
}

func NewCheckout(sessionID string, c *cart.Cart, h *History, cat *catalog.Catalog, opts Options, logger *zap.Logger, sinks ...Sink) *Checkout {
	logger = logger.Named("checkout").With(zap.String("session", sessionID))
	return &Checkout{
		sessionID: sessionID,
		cart:      c,
		history:   h,
		catalog:   cat,
		opts:      opts,
		events:    newDispatcher(sinks, opts.SinkTimeout, logger),
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Submit places an order from the current cart. Only one submission runs at a
// time; a retry carrying the idempotency key of a placed or in-flight order
// gets that order back instead of a second one.
func (c *Checkout) Submit(ctx context.Context, req Request) (models.Order, error) {
	if order, ok := c.replay(req.IdempotencyKey); ok {
		return order, nil
	}
	if err := c.validate(&req); err != nil {
		return models.Order{}, err
	}

	flight := req.IdempotencyKey
	if flight == "" {
		flight = c.newID()
	}

	c.mu.Lock()
	if c.inFlight != "" && c.inFlight != flight {
		c.mu.Unlock()
		c.logger.Warn("Rejected concurrent checkout")
		return models.Order{}, ErrCheckoutInProgress
	}
	c.inFlight = flight
	c.mu.Unlock()

	v, err, _ := c.group.Do(flight, func() (interface{}, error) {
		defer c.release(flight)
		return c.place(ctx, req)
	})
	if err != nil {
		return models.Order{}, err
	}
	return v.(models.Order), nil
}

// InFlight reports whether a submission is being processed.
func (c *Checkout) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight != ""
}

// Wait blocks until the sinks have received every event dispatched so far.
func (c *Checkout) Wait() {
	c.events.wait()
}

// UpdateStatus advances an order and notifies the sinks.
func (c *Checkout) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (models.Order, error) {
	order, prev, err := c.history.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return models.Order{}, err
	}

	c.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(prev)),
		zap.String("to", string(status)))

	c.events.dispatch(order.ID, func(ctx context.Context, sink Sink) error {
		return sink.OrderStatusChanged(ctx, c.sessionID, order, prev)
	})
	return order, nil
}

func (c *Checkout) validate(req *Request) error {
	if c.cart.IsEmpty() {
		return ErrEmptyCart
	}

	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Phone = strings.TrimSpace(req.Customer.Phone)
	if req.Customer.Name == "" || req.Customer.Phone == "" {
		return ErrMissingCustomerInfo
	}

	if req.OrderType == "" {
		req.OrderType = models.OrderTypePickup
	}

	switch req.OrderType {
	case models.OrderTypePickup:
		req.DeliveryAddress = nil
		if req.StoreID == "" {
			store, ok := c.catalog.DefaultStore()
			if !ok {
				return ErrUnknownStore
			}
			req.StoreID = store.ID
		}
		if _, ok := c.catalog.Store(req.StoreID); !ok {
			return ErrUnknownStore
		}
	case models.OrderTypeDelivery:
		req.StoreID = ""
		addr := req.DeliveryAddress
		if addr == nil || strings.TrimSpace(addr.Street) == "" || strings.TrimSpace(addr.City) == "" {
			return ErrMissingAddress
		}
	default:
		return ErrInvalidOrderType
	}
	return nil
}

func (c *Checkout) place(ctx context.Context, req Request) (models.Order, error) {
	if order, ok := c.replay(req.IdempotencyKey); ok {
		return order, nil
	}

	items := c.cart.Lines()
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	subtotal := c.cart.Total()

	if c.opts.ProcessingDelay > 0 {
		timer := time.NewTimer(c.opts.ProcessingDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			c.logger.Warn("Checkout cancelled", zap.Error(ctx.Err()))
			return models.Order{}, NewAborted(MsgCheckoutCancelled)
		case <-timer.C:
		}
	}

	payment := models.DefaultPaymentMethod
	if req.PaymentMethod != nil {
		payment = *req.PaymentMethod
	}

	estimated := c.opts.PickupMinutes
	if req.OrderType == models.OrderTypeDelivery {
		estimated = c.opts.DeliveryMinutes
	}

	order := models.Order{
		ID:              c.newID(),
		Items:           items,
		Subtotal:        subtotal,
		Tax:             pricing.Tax(subtotal, c.opts.TaxRate),
		TotalAmount:     pricing.WithTax(subtotal, c.opts.TaxRate),
		Status:          models.OrderStatusPending,
		OrderDate:       c.now().UTC(),
		EstimatedTime:   estimated,
		OrderType:       req.OrderType,
		StoreID:         req.StoreID,
		DeliveryAddress: req.DeliveryAddress,
		Customer:        req.Customer,
		Notes:           req.Notes,
		PaymentMethod:   payment,
		IdempotencyKey:  req.IdempotencyKey,
	}

	c.history.Add(ctx, order)
	c.cart.Clear(ctx)
	if !c.cart.IsEmpty() {
		c.logger.Error("Cart not cleared after order was recorded", zap.String("order_id", order.ID))
	}

	c.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("order_type", string(order.OrderType)),
		zap.Int("items", order.ItemCount()),
		zap.String("total", pricing.Format(order.TotalAmount)))

	c.events.dispatch(order.ID, func(ctx context.Context, sink Sink) error {
		return sink.OrderPlaced(ctx, c.sessionID, order)
	})
	return order, nil
}

func (c *Checkout) replay(key string) (models.Order, bool) {
	if key == "" {
		return models.Order{}, false
	}
	order, ok := c.history.ByIdempotencyKey(key)
	if ok {
		c.logger.Info("Returning existing order for idempotency key",
			zap.String("order_id", order.ID),
			zap.String("idempotency_key", key))
	}
	return order, ok
}

func (c *Checkout) release(flight string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight == flight {
		c.inFlight = ""
	}
}
