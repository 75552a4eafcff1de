package grpc

import (
	"context"

	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/session"
	"google.golang.org/grpc"
)

const ServiceName = "brewbuddy.v1.Storefront"

type GetCartRequest struct {
	SessionID string `json:"sessionId"`
}

type AddToCartRequest struct {
	SessionID string             `json:"sessionId"`
	Item      session.AddRequest `json:"item"`
}

type AddToCartResponse struct {
	Line models.CartLine     `json:"line"`
	Cart session.CartSummary `json:"cart"`
}

type CheckoutRequest struct {
	SessionID string         `json:"sessionId"`
	Order     orders.Request `json:"order"`
}

type ListOrdersRequest struct {
	SessionID string `json:"sessionId"`
}

type ListOrdersResponse struct {
	Orders []models.Order `json:"orders"`
	Total  int            `json:"total"`
}

type GetOrderRequest struct {
	SessionID string `json:"sessionId"`
	OrderID   string `json:"orderId"`
}

type UpdateOrderStatusRequest struct {
	SessionID string             `json:"sessionId"`
	OrderID   string             `json:"orderId"`
	Status    models.OrderStatus `json:"status"`
}

// StorefrontService is the server side of brewbuddy.v1.Storefront.
type StorefrontService interface {
	GetCart(context.Context, *GetCartRequest) (*session.CartSummary, error)
	AddToCart(context.Context, *AddToCartRequest) (*AddToCartResponse, error)
	Checkout(context.Context, *CheckoutRequest) (*models.Order, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*models.Order, error)
	UpdateOrderStatus(context.Context, *UpdateOrderStatusRequest) (*models.Order, error)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler[Req, Resp any](method string, call func(StorefrontService, context.Context, *Req) (*Resp, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StorefrontService), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(StorefrontService), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var StorefrontServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StorefrontService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCart", Handler: unaryHandler("GetCart", StorefrontService.GetCart)},
		{MethodName: "AddToCart", Handler: unaryHandler("AddToCart", StorefrontService.AddToCart)},
		{MethodName: "Checkout", Handler: unaryHandler("Checkout", StorefrontService.Checkout)},
		{MethodName: "ListOrders", Handler: unaryHandler("ListOrders", StorefrontService.ListOrders)},
		{MethodName: "GetOrder", Handler: unaryHandler("GetOrder", StorefrontService.GetOrder)},
		{MethodName: "UpdateOrderStatus", Handler: unaryHandler("UpdateOrderStatus", StorefrontService.UpdateOrderStatus)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "brewbuddy/v1/storefront",
}

func RegisterStorefrontServer(s grpc.ServiceRegistrar, srv StorefrontService) {
	s.RegisterService(&StorefrontServiceDesc, srv)
}
