package grpc

import (
	"context"
	"errors"

	"github.com/example/brewbuddy/pkg/actors"
	"github.com/example/brewbuddy/pkg/cart"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/selection"
	"github.com/example/brewbuddy/pkg/session"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode classifies a storefront error. The HTTP gateway maps the same
// codes onto status codes.
func ErrorCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}

	var orderErr *orders.Error
	if errors.As(err, &orderErr) {
		switch orderErr.Code {
		case orders.CodeInvalidArgument:
			return codes.InvalidArgument
		case orders.CodeFailedPrecondition:
			return codes.FailedPrecondition
		case orders.CodeNotFound:
			return codes.NotFound
		case orders.CodeAborted:
			return codes.Aborted
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, session.ErrUnknownProduct),
		errors.Is(err, cart.ErrLineNotFound):
		return codes.NotFound
	case errors.Is(err, actors.ErrInvalidSession),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidCandidate),
		errors.Is(err, selection.ErrUnknownSize),
		errors.Is(err, selection.ErrUnknownCustomization),
		errors.Is(err, selection.ErrUnknownOption),
		errors.Is(err, selection.ErrMaxSelections),
		errors.Is(err, selection.ErrRequiredCustomization):
		return codes.InvalidArgument
	}

	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Internal
}

func toStatus(err error) error {
	if err == nil {
		return nil
	}
	code := ErrorCode(err)
	if code == codes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}
