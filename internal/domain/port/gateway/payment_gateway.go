package gateway

import (
	"context"

	"github.com/slikapay/payment-engine/internal/domain/entity"
)

// CreatePaymentInput is everything needed to open a payment with the gateway
type CreatePaymentInput struct {
	Amount          string // Total in major units, e.g. "100.50"
	Merchant        entity.MerchantProfile
	Description     string
	Items           []entity.LineItem // Empty means a single synthetic item equal to the total
	Customer        *entity.CustomerInfo
	MaxInstallments int
	CustomFields    map[string]string
}

// CreatePaymentResult is the gateway's answer to an accepted payment request
type CreatePaymentResult struct {
	PaymentURL string // Hosted payment page the customer is redirected to
	OrderID    string // The order identifier we generated for this payment
}

// RefundOutcome distinguishes a full refund from a partial one
type RefundOutcome string

// Refund outcomes reported by the gateway
const (
	RefundFull    RefundOutcome = "refunded"
	RefundPartial RefundOutcome = "partial_refund"
)

// MerchantProvider resolves the gateway credentials and defaults for an
// authenticated owner. A missing mapping surfaces as ErrMerchantNotFound.
type MerchantProvider interface {
	ProfileFor(ctx context.Context, ownerID string) (*entity.MerchantProfile, error)
}

// PaymentGateway is the signed-protocol client to the payment processor.
// Create/status/refund calls carry their own soft timeouts and bounded
// retry; validation and health probing never return errors.
type PaymentGateway interface {
	// CreatePayment opens a payment and returns the hosted page URL plus
	// the generated order identifier
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*CreatePaymentResult, error)

	// GetPaymentStatus returns the gateway's raw status code for an order.
	// An error means "status unknown", never a terminal payment state.
	GetPaymentStatus(ctx context.Context, merchant entity.MerchantProfile, orderID string) (string, error)

	// RefundPayment refunds amountMinor (minor units) against an order and
	// reports whether the gateway treated it as a full or partial refund
	RefundPayment(ctx context.Context, merchant entity.MerchantProfile, orderID string, amountMinor int64, itemAmounts []int64) (RefundOutcome, error)

	// ValidateWebhookSignature reports whether a webhook's signature matches
	// its payload. Returns false on any malformed input, never panics.
	ValidateWebhookSignature(payload map[string]any, signature string) bool

	// HealthCheck probes gateway reachability, swallowing all errors
	HealthCheck(ctx context.Context) bool
}
