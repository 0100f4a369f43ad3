package usecase

import (
	"context"
	"time"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	"github.com/slikapay/payment-engine/internal/domain/port/persistence"
)

// CreatePaymentRequest is the caller-facing input for opening a payment
type CreatePaymentRequest struct {
	Amount          string // Major units, e.g. "100.50"
	Currency        string // Optional, defaults to the merchant profile's currency
	Description     string
	Items           []entity.LineItem
	Customer        *entity.CustomerInfo
	MaxInstallments int
	CustomFields    map[string]string
	Metadata        map[string]string
}

// CreatePaymentResult bundles the persisted transaction with the artifacts
// the caller needs to hand to the customer
type CreatePaymentResult struct {
	Transaction *entity.Transaction
	PaymentURL  string
	QRCode      []byte // PNG of the payment URL, nil if rendering failed
}

// WebhookResult is the structured answer the webhook endpoint always gets,
// whatever went wrong inside
type WebhookResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Error         string `json:"error,omitempty"`
}

// PaymentUseCase is the reconciliation engine's exposed surface. Every
// operation is total: it returns a result or a classified error within its
// soft timeout, never leaving a request hanging.
type PaymentUseCase interface {
	// CreatePayment validates, opens the payment with the gateway, persists
	// a pending transaction, and renders the QR artifact
	CreatePayment(ctx context.Context, ownerID string, req CreatePaymentRequest) (*CreatePaymentResult, error)

	// GetPaymentStatus returns the transaction after best-effort
	// reconciliation with the gateway (settled statuses are never re-queried)
	GetPaymentStatus(ctx context.Context, ownerID, transactionID string) (*entity.Transaction, error)

	// GetPayment returns the stored transaction without touching the gateway
	GetPayment(ctx context.Context, ownerID, transactionID string) (*entity.Transaction, error)

	// ListPayments returns a page of the owner's transactions (newest first)
	// together with the owner's total count
	ListPayments(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Transaction, int64, error)

	// RefundPayment refunds a completed transaction, guarding against
	// duplicate refunds via the gateway's own view of the order. An empty
	// amount means a full refund.
	RefundPayment(ctx context.Context, ownerID, transactionID, amount string) (*entity.Transaction, error)

	// CancelPayment cancels a pending transaction locally
	CancelPayment(ctx context.Context, ownerID, transactionID string) (*entity.Transaction, error)

	// DeletePayment soft-deletes any non-completed transaction
	DeletePayment(ctx context.Context, ownerID, transactionID string) error

	// OwnerStats aggregates the owner's transactions per status within a
	// date range
	OwnerStats(ctx context.Context, ownerID string, from, to time.Time) ([]persistence.StatusStat, error)

	// ProcessWebhook verifies and applies a gateway status notification.
	// It never returns an error: the webhook endpoint must always answer.
	ProcessWebhook(ctx context.Context, payload []byte, signature string) WebhookResult
}
