package orders

import "fmt"

type Code int

const (
	CodeInvalidArgument Code = iota
	CodeFailedPrecondition
	CodeNotFound
	CodeAborted
)

// Messages shown to the customer.
const (
	MsgCartEmpty            = "Your cart is empty"
	MsgCustomerInfoRequired = "Please fill in required customer information"
	MsgAddressRequired      = "Please provide a delivery address"
	MsgUnknownStore         = "Unknown pickup store"
	MsgInvalidOrderType     = "Order type must be pickup or delivery"
	MsgCheckoutInProgress   = "An order is already being placed"
	MsgOrderNotFound        = "Order not found"
	MsgInvalidStatus        = "Unknown order status"
	MsgCheckoutCancelled    = "Checkout was cancelled"
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeFailedPrecondition:
		return "FAILED_PRECONDITION"
	case CodeNotFound:
		return "NOT_FOUND"
	case CodeAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// Error is a rejected order operation. Two errors match under errors.Is when
// code and message are equal.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == e.Message
}

var (
	ErrEmptyCart           = NewFailedPrecondition(MsgCartEmpty)
	ErrMissingCustomerInfo = NewInvalidArgument(MsgCustomerInfoRequired)
	ErrMissingAddress      = NewInvalidArgument(MsgAddressRequired)
	ErrUnknownStore        = NewInvalidArgument(MsgUnknownStore)
	ErrInvalidOrderType    = NewInvalidArgument(MsgInvalidOrderType)
	ErrCheckoutInProgress  = NewAborted(MsgCheckoutInProgress)
	ErrOrderNotFound       = NewNotFound(MsgOrderNotFound)
	ErrInvalidStatus       = NewInvalidArgument(MsgInvalidStatus)
)

func NewInvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

func NewFailedPrecondition(message string) *Error {
	return &Error{Code: CodeFailedPrecondition, Message: message}
}

func NewFailedPreconditionf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeFailedPrecondition, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func NewAborted(message string) *Error {
	return &Error{Code: CodeAborted, Message: message}
}
