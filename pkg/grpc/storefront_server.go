package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/example/brewbuddy/pkg/actors"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/session"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// StorefrontServer answers storefront RPCs by forwarding them to the
// session actors.
type StorefrontServer struct {
	registry *actors.Registry
	logger   *zap.Logger
	health   *health.Server
	srv      *grpc.Server
}

func NewStorefrontServer(registry *actors.Registry, logger *zap.Logger) *StorefrontServer {
	s := &StorefrontServer{
		registry: registry,
		logger:   logger.Named("grpc"),
		health:   health.NewServer(),
	}

	s.srv = grpc.NewServer(grpc.ChainUnaryInterceptor(s.logCalls))
	RegisterStorefrontServer(s.srv, s)
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return s
}

// Start listens on addr and serves until Stop.
func (s *StorefrontServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.logger.Info("Storefront service started", zap.String("address", lis.Addr().String()))
	return s.Serve(lis)
}

// Serve blocks until Stop. Stopping before Serve is not an error.
func (s *StorefrontServer) Serve(lis net.Listener) error {
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop marks the service as not serving and drains in-flight calls.
func (s *StorefrontServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func (s *StorefrontServer) logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		code := ErrorCode(err)
		fields := []zap.Field{zap.String("method", info.FullMethod), zap.String("code", code.String())}
		if code == codes.Internal {
			s.logger.Error("RPC failed", append(fields, zap.Error(err))...)
		} else {
			s.logger.Debug("RPC rejected", append(fields, zap.Error(err))...)
		}
		return nil, toStatus(err)
	}
	return resp, nil
}

func (s *StorefrontServer) GetCart(ctx context.Context, req *GetCartRequest) (*session.CartSummary, error) {
	summary, err := actors.Ask[session.CartSummary](ctx, s.registry, req.SessionID, &actors.GetCart{})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *StorefrontServer) AddToCart(ctx context.Context, req *AddToCartRequest) (*AddToCartResponse, error) {
	line, err := actors.Ask[models.CartLine](ctx, s.registry, req.SessionID, &actors.AddToCart{Request: req.Item})
	if err != nil {
		return nil, err
	}
	summary, err := actors.Ask[session.CartSummary](ctx, s.registry, req.SessionID, &actors.GetCart{})
	if err != nil {
		return nil, err
	}
	return &AddToCartResponse{Line: line, Cart: summary}, nil
}

func (s *StorefrontServer) Checkout(ctx context.Context, req *CheckoutRequest) (*models.Order, error) {
	order, err := actors.Ask[models.Order](ctx, s.registry, req.SessionID, &actors.PlaceOrder{Request: req.Order})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *StorefrontServer) ListOrders(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error) {
	list, err := actors.Ask[[]models.Order](ctx, s.registry, req.SessionID, &actors.ListOrders{})
	if err != nil {
		return nil, err
	}
	return &ListOrdersResponse{Orders: list, Total: len(list)}, nil
}

func (s *StorefrontServer) GetOrder(ctx context.Context, req *GetOrderRequest) (*models.Order, error) {
	order, err := actors.Ask[models.Order](ctx, s.registry, req.SessionID, &actors.GetOrder{OrderID: req.OrderID})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *StorefrontServer) UpdateOrderStatus(ctx context.Context, req *UpdateOrderStatusRequest) (*models.Order, error) {
	order, err := actors.Ask[models.Order](ctx, s.registry, req.SessionID, &actors.UpdateOrderStatus{
		OrderID: req.OrderID,
		Status:  req.Status,
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
