package orders

import (
	"context"
	"slices"
	"sync"

	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/storage"
)

const StorageKey = "orders"

// History is the session's order list, newest first.
type History struct {
	mu     sync.Mutex
	store  *storage.Store
	orders []models.Order
}

func NewHistory(ctx context.Context, store *storage.Store) *History {
	h := &History{store: store, orders: []models.Order{}}
	store.Load(ctx, StorageKey, &h.orders)
	if h.orders == nil {
		h.orders = []models.Order{}
	}
	return h
}

// Add prepends the order.
func (h *History) Add(ctx context.Context, order models.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.orders = slices.Insert(h.orders, 0, cloneOrder(order))
	h.store.Save(ctx, StorageKey, h.orders)
}

func (h *History) List() []models.Order {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]models.Order, len(h.orders))
	for i, o := range h.orders {
		out[i] = cloneOrder(o)
	}
	return out
}

func (h *History) Get(id string) (models.Order, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i := h.indexOf(id)
	if i < 0 {
		return models.Order{}, false
	}
	return cloneOrder(h.orders[i]), true
}

// ByIdempotencyKey finds the order placed with the given key.
func (h *History) ByIdempotencyKey(key string) (models.Order, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i := slices.IndexFunc(h.orders, func(o models.Order) bool { return o.IdempotencyKey == key })
	if i < 0 {
		return models.Order{}, false
	}
	return cloneOrder(h.orders[i]), true
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.orders)
}

// UpdateStatus moves an order to a new status and returns the updated order
// with its previous status. Only the status field ever changes.
func (h *History) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, models.OrderStatus, error) {
	if !status.Valid() {
		return models.Order{}, "", ErrInvalidStatus
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	i := h.indexOf(id)
	if i < 0 {
		return models.Order{}, "", ErrOrderNotFound
	}

	prev := h.orders[i].Status
	if !prev.CanTransition(status) {
		return models.Order{}, prev, NewFailedPreconditionf("Order cannot move from %s to %s", prev, status)
	}
	h.orders[i].Status = status
	h.store.Save(ctx, StorageKey, h.orders)
	return cloneOrder(h.orders[i]), prev, nil
}

func (h *History) indexOf(id string) int {
	return slices.IndexFunc(h.orders, func(o models.Order) bool { return o.ID == id })
}

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	if o.DeliveryAddress != nil {
		addr := *o.DeliveryAddress
		o.DeliveryAddress = &addr
	}
	return o
}
