// Package actors runs every storefront session inside its own actor so that
// all operations on a session are processed one at a time.
package actors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/pricing"
	"github.com/example/brewbuddy/pkg/session"
	"go.uber.org/zap"
)

var ErrUnknownMessage = errors.New("unknown message")

// SessionActor owns one session. The session is restored from storage when
// the actor starts.
type SessionActor struct {
	id      string
	deps    session.Deps
	timeout time.Duration
	logger  *zap.Logger
	session *session.Session
}

func (a *SessionActor) Receive(ctx actor.Context) {
	switch ctx.Message().(type) {
	case *actor.Started:
		a.session = session.New(context.Background(), a.id, a.deps)
		a.logger.Debug("Session actor started")
		return

	case *actor.Stopping:
		a.logger.Debug("Session actor stopping")
		if a.session != nil {
			a.session.Checkout.Wait()
		}
		return

	case *actor.Stopped, *actor.Restarting:
		return
	}

	opCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	value, err := a.handle(opCtx, ctx.Message())
	if ctx.Sender() != nil {
		ctx.Respond(&Reply{Value: value, Err: err})
	}
}

func (a *SessionActor) handle(ctx context.Context, message interface{}) (interface{}, error) {
	s := a.session

	switch msg := message.(type) {
	case *GetCart:
		return s.CartSummary(), nil

	case *AddToCart:
		return s.AddToCart(ctx, msg.Request)

	case *UpdateCartLine:
		if err := s.Cart.UpdateQuantity(ctx, msg.LineID, msg.Quantity); err != nil {
			return nil, err
		}
		return s.CartSummary(), nil

	case *RemoveCartLine:
		s.Cart.Remove(ctx, msg.LineID)
		return s.CartSummary(), nil

	case *ClearCart:
		s.Cart.Clear(ctx)
		return s.CartSummary(), nil

	case *PlaceOrder:
		return s.Checkout.Submit(ctx, msg.Request)

	case *ListOrders:
		return s.History.List(), nil

	case *GetOrder:
		order, ok := s.History.Get(msg.OrderID)
		if !ok {
			return nil, orders.ErrOrderNotFound
		}
		return order, nil

	case *UpdateOrderStatus:
		return s.Checkout.UpdateStatus(ctx, msg.OrderID, msg.Status)

	case *ConfigureProduct:
		sel, err := s.Configure(msg.ProductID)
		if err != nil {
			return nil, err
		}
		return session.Describe(sel), nil

	case *ListFavorites:
		return s.FavoriteProducts(), nil

	case *ToggleFavorite:
		if _, ok := s.Catalog.Product(msg.ProductID); !ok {
			return nil, fmt.Errorf("%w: %q", session.ErrUnknownProduct, msg.ProductID)
		}
		return s.Favorites.Toggle(ctx, msg.ProductID), nil

	case *GetPreferences:
		return s.Preferences.Get(), nil

	case *UpdatePreferences:
		return s.Preferences.Update(ctx, msg.Patch), nil

	default:
		a.logger.Warn("Unknown message", zap.String("type", fmt.Sprintf("%T", message)))
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, message)
	}
}

// NotificationActor delivers customer notifications. Delivery is a log line
// until a real channel is configured.
type NotificationActor struct {
	logger *zap.Logger
}

func (a *NotificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *SendNotification:
		a.logger.Info("Sending notification",
			zap.String("recipient", msg.Recipient),
			zap.String("type", msg.Type),
			zap.String("message", msg.Message))

	case *actor.Started:
		a.logger.Info("Notification actor started")
	}
}

// Notifier is an orders.Sink that hands confirmations to the notification
// actor without waiting.
type Notifier struct {
	root *actor.RootContext
	pid  *actor.PID
}

func (n *Notifier) OrderPlaced(_ context.Context, _ string, order models.Order) error {
	n.root.Send(n.pid, &SendNotification{
		Recipient: order.Customer.Phone,
		Type:      "order_placed",
		Message: fmt.Sprintf("Order #%s placed. Total %s. Estimated time: %d minutes",
			order.ID, pricing.Format(order.TotalAmount), order.EstimatedTime),
	})
	return nil
}

func (n *Notifier) OrderStatusChanged(_ context.Context, _ string, order models.Order, _ models.OrderStatus) error {
	n.root.Send(n.pid, &SendNotification{
		Recipient: order.Customer.Phone,
		Type:      "order_status",
		Message:   fmt.Sprintf("Order #%s is now %s", order.ID, order.Status),
	})
	return nil
}
