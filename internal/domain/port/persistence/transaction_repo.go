package persistence

import (
	"context"
	"time"

	"github.com/slikapay/payment-engine/internal/domain/entity"
)

// StatusStat is one row of an owner's aggregate report: how many
// transactions sit in a status and what they sum to, in minor units
type StatusStat struct {
	Status     entity.TransactionStatus
	Count      int64
	TotalMinor int64
}

// TransactionRepository persists transaction records. The repository is
// deliberately dumb about authorization: owner scoping of reads and the
// legality of status transitions are enforced by the use-case layer.
type TransactionRepository interface {
	// Create persists a new transaction and assigns its internal ID
	Create(ctx context.Context, txn *entity.Transaction) error

	// GetByID retrieves a transaction by internal ID
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)

	// GetByOrderID retrieves a transaction by the order identifier we sent
	// to the gateway
	GetByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error)

	// GetByGatewayTransactionID retrieves a transaction by the identifier
	// the gateway assigned asynchronously
	GetByGatewayTransactionID(ctx context.Context, gatewayTxnID string) (*entity.Transaction, error)

	// ListByOwner returns an owner's transactions, most recent first
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Transaction, error)

	// CountByOwner returns the total number of an owner's transactions
	CountByOwner(ctx context.Context, ownerID string) (int64, error)

	// UpdateStatus atomically applies a status change together with the
	// updated-at timestamp. gatewayTxnID, when non-empty, backfills the
	// gateway-assigned identifier in the same write. Re-applying the
	// current status is a no-op.
	UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus, gatewayTxnID string) error

	// SoftDelete marks a non-completed transaction as cancelled without
	// removing the row. Completed transactions cannot be deleted.
	SoftDelete(ctx context.Context, id string) error

	// StatsByOwner returns per-status counts and sums for an owner within
	// [from, to)
	StatsByOwner(ctx context.Context, ownerID string, from, to time.Time) ([]StatusStat, error)
}
