package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount   = 4001
	CodeInvalidRequest  = 4002
	CodeAmountTooLarge  = 4003
	CodeInvalidCurrency = 4004
	CodeUnauthorized    = 4010
	CodeNotFound        = 4040
	CodeInvalidState    = 4090

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeGatewayRejected    = 5020
	CodeGatewayUnavailable = 5021
)

// Base error types
var (
	// ErrInvalidAmount is returned when the payment amount format is invalid
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when the payment amount is zero or negative
	ErrNegativeAmount = errors.New("amount must be positive")

	// ErrAmountTooLarge is returned when the amount exceeds the configured ceiling
	ErrAmountTooLarge = errors.New("amount exceeds the allowed maximum")

	// ErrInvalidCurrency is returned when the currency code is not supported
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthorized is returned when the caller does not own the transaction
	ErrUnauthorized = errors.New("transaction belongs to a different owner")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrMerchantNotFound is returned when no merchant profile exists for an owner
	ErrMerchantNotFound = errors.New("merchant profile not found")

	// ErrInvalidStateTransition is returned when a status change violates the
	// transaction state machine
	ErrInvalidStateTransition = errors.New("illegal transaction state transition")

	// ErrGatewayRejected is returned when the gateway refused the request for
	// business reasons (a 4xx or an error envelope in the response body)
	ErrGatewayRejected = errors.New("payment gateway rejected the request")

	// ErrGatewayUnavailable is returned when network failures or 5xx responses
	// exhausted the retry budget
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrGatewayTimeout is returned when the soft timeout elapsed before the
	// gateway answered
	ErrGatewayTimeout = errors.New("payment gateway timed out")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrAmountTooLarge):
		return CodeAmountTooLarge
	case errors.Is(err, ErrInvalidCurrency):
		return CodeInvalidCurrency
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrMerchantNotFound),
		errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidStateTransition):
		return CodeInvalidState
	case errors.Is(err, ErrGatewayRejected):
		return CodeGatewayRejected
	case errors.Is(err, ErrGatewayUnavailable), errors.Is(err, ErrGatewayTimeout):
		return CodeGatewayUnavailable
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps a domain error to the HTTP status the boundary layer
// should answer with. Gateway internals are never leaked to the caller.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrNegativeAmount),
		errors.Is(err, ErrAmountTooLarge),
		errors.Is(err, ErrInvalidCurrency),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrMerchantNotFound),
		errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, ErrGatewayRejected):
		return http.StatusBadGateway
	case errors.Is(err, ErrGatewayUnavailable), errors.Is(err, ErrGatewayTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Gateway failure classes, machine-readable per the retry policy
const (
	GatewayFailureNetwork    = "network"
	GatewayFailureHTTPStatus = "http_status"
	GatewayFailureBusiness   = "gateway"
)

// GatewayError carries the classified outcome of a failed gateway call
type GatewayError struct {
	Op         string // createPayment, getPaymentStatus, refundPayment
	OrderID    string
	Failure    string // one of the GatewayFailure* classes
	HTTPStatus int    // last observed HTTP status, 0 for network failures
	Attempts   int
	Message    string
	Err        error
}

// Error implements the error interface for GatewayError
func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed for order %q after %d attempt(s) (%s): %s: %v",
		e.Op, e.OrderID, e.Attempts, e.Failure, e.Message, e.Err)
}

// Unwrap returns the underlying error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *GatewayError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "gateway_error",
		"operation":   e.Op,
		"order_id":    e.OrderID,
		"failure":     e.Failure,
		"http_status": e.HTTPStatus,
		"attempts":    e.Attempts,
		"message":     e.Message,
		"error":       e.Err.Error(),
		"error_code":  ErrorCode(e.Err),
	}
}

// NewGatewayError creates a classified gateway error
func NewGatewayError(op, orderID, failure string, httpStatus, attempts int, message string, err error) error {
	return &GatewayError{
		Op:         op,
		OrderID:    orderID,
		Failure:    failure,
		HTTPStatus: httpStatus,
		Attempts:   attempts,
		Message:    message,
		Err:        err,
	}
}

// StateTransitionError describes an attempted illegal status change
type StateTransitionError struct {
	TransactionID string
	From          string
	To            string
}

// Error implements the error interface
func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("transaction %s cannot move from %q to %q", e.TransactionID, e.From, e.To)
}

// Is checks if the target error is an ErrInvalidStateTransition
func (e *StateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// LogFields returns a map of fields for structured logging
func (e *StateTransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "state_transition_error",
		"transaction_id": e.TransactionID,
		"from_status":    e.From,
		"to_status":      e.To,
		"error_code":     CodeInvalidState,
	}
}

// NewStateTransitionError creates a new illegal state transition error
func NewStateTransitionError(transactionID, from, to string) error {
	return &StateTransitionError{TransactionID: transactionID, From: from, To: to}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrMerchantNotFound)
}

// IsGatewayError checks if the error originated in a gateway call
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrGatewayRejected) ||
		errors.Is(err, ErrGatewayUnavailable) ||
		errors.Is(err, ErrGatewayTimeout)
}

// IsRetryExhaustedError checks if the error means the gateway could not be
// reached at all (callers should treat the payment state as unknown)
func IsRetryExhaustedError(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable) || errors.Is(err, ErrGatewayTimeout)
}
