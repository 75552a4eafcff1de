package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/example/brewbuddy/pkg/discovery"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/session"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Client calls a remote storefront service.
type Client struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
	logger *zap.Logger
}

// Resolve looks the service up in etcd and falls back to the given address
// when discovery is unavailable or has no instances.
func Resolve(ctx context.Context, disc *discovery.ServiceDiscovery, serviceName, fallback string, logger *zap.Logger) string {
	if disc == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	instances, err := disc.Discover(ctx, serviceName)
	if err != nil || len(instances) == 0 {
		logger.Info("Using default address for storefront service", zap.String("address", fallback), zap.Error(err))
		return fallback
	}

	target := instances[0].Addr()
	logger.Info("Discovered storefront service", zap.String("address", target))
	return target
}

// NewClient prepares a connection to target. Extra options are applied after
// the defaults (insecure transport, JSON content-subtype).
func NewClient(target string, logger *zap.Logger, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storefront service: %w", err)
	}

	logger.Debug("Storefront client created", zap.String("target", target))
	return &Client{
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
		logger: logger,
	}, nil
}

func (c *Client) Health(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName}, grpc.CallContentSubtype("proto"))
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func (c *Client) GetCart(ctx context.Context, sessionID string) (*session.CartSummary, error) {
	out := new(session.CartSummary)
	if err := c.conn.Invoke(ctx, fullMethod("GetCart"), &GetCartRequest{SessionID: sessionID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCart(ctx context.Context, sessionID string, item session.AddRequest) (*AddToCartResponse, error) {
	out := new(AddToCartResponse)
	if err := c.conn.Invoke(ctx, fullMethod("AddToCart"), &AddToCartRequest{SessionID: sessionID, Item: item}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Checkout(ctx context.Context, sessionID string, req orders.Request) (*models.Order, error) {
	out := new(models.Order)
	if err := c.conn.Invoke(ctx, fullMethod("Checkout"), &CheckoutRequest{SessionID: sessionID, Order: req}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrders(ctx context.Context, sessionID string) (*ListOrdersResponse, error) {
	out := new(ListOrdersResponse)
	if err := c.conn.Invoke(ctx, fullMethod("ListOrders"), &ListOrdersRequest{SessionID: sessionID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, sessionID, orderID string) (*models.Order, error) {
	out := new(models.Order)
	if err := c.conn.Invoke(ctx, fullMethod("GetOrder"), &GetOrderRequest{SessionID: sessionID, OrderID: orderID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, sessionID, orderID string, status models.OrderStatus) (*models.Order, error) {
	out := new(models.Order)
	req := &UpdateOrderStatusRequest{SessionID: sessionID, OrderID: orderID, Status: status}
	if err := c.conn.Invoke(ctx, fullMethod("UpdateOrderStatus"), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
