package entity

import (
	"time"

	errs "github.com/slikapay/payment-engine/internal/domain/error"
	tport "github.com/slikapay/payment-engine/internal/domain/port/core"
)

// TransactionStatus defines the closed set of states a payment can be in
type TransactionStatus string

// Transaction statuses
const (
	StatusPending           TransactionStatus = "pending"
	StatusCompleted         TransactionStatus = "completed"
	StatusFailed            TransactionStatus = "failed"
	StatusCancelled         TransactionStatus = "cancelled"
	StatusRefunded          TransactionStatus = "refunded"
	StatusPartiallyRefunded TransactionStatus = "partially_refunded"
)

// transitions is the single choke point for status legality:
// pending settles or dies, completed can only be unwound by a refund.
var transitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:   {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted: {StatusRefunded, StatusPartiallyRefunded},
}

// IsValid reports whether s is a member of the status set
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed,
		StatusCancelled, StatusRefunded, StatusPartiallyRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to target is legal.
// Re-applying the current status is allowed so that concurrent
// reconciliations of the same gateway ground truth stay idempotent.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	if s == target {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsSettled reports whether the gateway will never change this status again
// on its own (completed and failed are never re-queried)
func (s TransactionStatus) IsSettled() bool {
	return s == StatusCompleted || s == StatusFailed
}

// LineItem is a single purchasable unit within a payment. Price stays in
// major currency units; only the payment total is converted to minor units
// for the gateway.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// CustomerInfo carries optional contact fields forwarded to the gateway
type CustomerInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Transaction is the unit of record for one payment attempt
type Transaction struct {
	ID                   string            // Internal unique identifier
	OwnerID              string            // Merchant/user that owns this payment
	OrderID              string            // Order identifier we generated and sent to the gateway
	GatewayTransactionID string            // Identifier the gateway assigns asynchronously
	Amount               string            // Total in major units with 2 decimal places
	AmountMinor          int64             // Total in minor currency units
	Currency             string            // ISO currency code
	PaymentURL           string            // Hosted payment page returned by the gateway
	Description          string            // Free-form description
	Items                []LineItem        // Optional line items
	Customer             *CustomerInfo     // Optional customer contact fields
	Metadata             map[string]string // Optional caller metadata
	Status               TransactionStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            *time.Time // Soft-delete marker, rows are never physically removed
}

// NewTransaction builds a pending transaction for a payment the gateway has
// just accepted. maxAmountMinor is the configured ceiling in minor units.
func NewTransaction(
	ownerID string,
	orderID string,
	amount string,
	currency string,
	paymentURL string,
	description string,
	maxAmountMinor int64,
	timeProvider tport.TimeProvider,
) (*Transaction, error) {
	if ownerID == "" {
		return nil, errs.ErrUnauthorized
	}
	if orderID == "" {
		return nil, errs.ErrInvalidRequest
	}
	if len(currency) != 3 {
		return nil, errs.ErrInvalidCurrency
	}

	amountMinor, err := ValidateAmount(amount, maxAmountMinor)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Transaction{
		OwnerID:     ownerID,
		OrderID:     orderID,
		Amount:      EnsureTwoDecimalPlaces(amount),
		AmountMinor: amountMinor,
		Currency:    currency,
		PaymentURL:  paymentURL,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsOwnedBy reports whether ownerID may mutate this transaction
func (t *Transaction) IsOwnedBy(ownerID string) bool {
	return t.OwnerID == ownerID
}

// TransitionTo validates and applies a status change
func (t *Transaction) TransitionTo(target TransactionStatus, timeProvider tport.TimeProvider) error {
	if !t.Status.CanTransitionTo(target) {
		return errs.NewStateTransitionError(t.ID, string(t.Status), string(target))
	}
	t.Status = target
	t.UpdatedAt = timeProvider.Now()
	return nil
}
