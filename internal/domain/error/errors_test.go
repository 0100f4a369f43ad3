package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid amount", ErrInvalidAmount, CodeInvalidAmount},
		{"negative amount", ErrNegativeAmount, CodeInvalidAmount},
		{"amount too large", ErrAmountTooLarge, CodeAmountTooLarge},
		{"invalid currency", ErrInvalidCurrency, CodeInvalidCurrency},
		{"unauthorized", ErrUnauthorized, CodeUnauthorized},
		{"transaction not found", ErrTransactionNotFound, CodeNotFound},
		{"merchant not found", ErrMerchantNotFound, CodeNotFound},
		{"invalid state", ErrInvalidStateTransition, CodeInvalidState},
		{"gateway rejected", ErrGatewayRejected, CodeGatewayRejected},
		{"gateway unavailable", ErrGatewayUnavailable, CodeGatewayUnavailable},
		{"gateway timeout", ErrGatewayTimeout, CodeGatewayUnavailable},
		{"unknown error", errors.New("boom"), CodeInternalServer},
		{"wrapped error", fmt.Errorf("context: %w", ErrAmountTooLarge), CodeAmountTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", ErrNegativeAmount, http.StatusBadRequest},
		{"unauthorized", ErrUnauthorized, http.StatusForbidden},
		{"not found", ErrTransactionNotFound, http.StatusNotFound},
		{"invalid state", ErrInvalidStateTransition, http.StatusConflict},
		{"gateway rejected", ErrGatewayRejected, http.StatusBadGateway},
		{"gateway unavailable", ErrGatewayUnavailable, http.StatusServiceUnavailable},
		{"internal", ErrInternalServer, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HTTPStatus(tc.err))
		})
	}
}

func TestGatewayError(t *testing.T) {
	err := NewGatewayError("createPayment", "pay-123", GatewayFailureHTTPStatus,
		http.StatusBadGateway, 3, "upstream exploded", ErrGatewayUnavailable)

	assert.True(t, errors.Is(err, ErrGatewayUnavailable))
	assert.True(t, IsGatewayError(err))
	assert.True(t, IsRetryExhaustedError(err))

	var gwErr *GatewayError
	assert.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "createPayment", gwErr.Op)
	assert.Equal(t, 3, gwErr.Attempts)

	fields := gwErr.LogFields()
	assert.Equal(t, "gateway_error", fields["error_type"])
	assert.Equal(t, CodeGatewayUnavailable, fields["error_code"])
	assert.Contains(t, err.Error(), "pay-123")
}

func TestStateTransitionError(t *testing.T) {
	err := NewStateTransitionError("txn-1", "completed", "cancelled")

	assert.True(t, errors.Is(err, ErrInvalidStateTransition))
	assert.Equal(t, CodeInvalidState, ErrorCode(err))

	var stErr *StateTransitionError
	assert.True(t, errors.As(err, &stErr))
	assert.Equal(t, "completed", stErr.From)
	assert.Equal(t, "cancelled", stErr.To)
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrTransactionNotFound))
	assert.True(t, IsNotFoundError(ErrMerchantNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrap: %w", ErrNotFound)))
	assert.False(t, IsNotFoundError(ErrUnauthorized))
}
