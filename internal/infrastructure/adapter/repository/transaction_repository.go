package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	coreport "github.com/slikapay/payment-engine/internal/domain/port/core"
	"github.com/slikapay/payment-engine/internal/domain/port/persistence"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/model"
)

// TransactionRepository implements persistence.TransactionRepository using GORM
type TransactionRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// entityToModel converts a transaction entity to a database model
func entityToModel(txn *entity.Transaction) (model.Transaction, error) {
	items, err := marshalJSON(txn.Items)
	if err != nil {
		return model.Transaction{}, err
	}
	customer, err := marshalJSON(txn.Customer)
	if err != nil {
		return model.Transaction{}, err
	}
	metadata, err := marshalJSON(txn.Metadata)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:                   txn.ID,
		OwnerID:              txn.OwnerID,
		OrderID:              txn.OrderID,
		GatewayTransactionID: txn.GatewayTransactionID,
		Amount:               txn.Amount,
		AmountMinor:          txn.AmountMinor,
		Currency:             txn.Currency,
		PaymentURL:           txn.PaymentURL,
		Description:          txn.Description,
		Items:                items,
		Customer:             customer,
		Metadata:             metadata,
		Status:               string(txn.Status),
		CreatedAt:            txn.CreatedAt,
		UpdatedAt:            txn.UpdatedAt,
		DeletedAt:            txn.DeletedAt,
	}, nil
}

// modelToEntity converts a database model back to an entity
func modelToEntity(m *model.Transaction) (*entity.Transaction, error) {
	txn := &entity.Transaction{
		ID:                   m.ID,
		OwnerID:              m.OwnerID,
		OrderID:              m.OrderID,
		GatewayTransactionID: m.GatewayTransactionID,
		Amount:               m.Amount,
		AmountMinor:          m.AmountMinor,
		Currency:             m.Currency,
		PaymentURL:           m.PaymentURL,
		Description:          m.Description,
		Status:               entity.TransactionStatus(m.Status),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
		DeletedAt:            m.DeletedAt,
	}

	if len(m.Items) > 0 {
		if err := json.Unmarshal(m.Items, &txn.Items); err != nil {
			return nil, fmt.Errorf("%w: decoding items: %s", errs.ErrInternalServer, err.Error())
		}
	}
	if len(m.Customer) > 0 {
		if err := json.Unmarshal(m.Customer, &txn.Customer); err != nil {
			return nil, fmt.Errorf("%w: decoding customer: %s", errs.ErrInternalServer, err.Error())
		}
	}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &txn.Metadata); err != nil {
			return nil, fmt.Errorf("%w: decoding metadata: %s", errs.ErrInternalServer, err.Error())
		}
	}

	return txn, nil
}

func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}
	return b, nil
}

// Create persists a new transaction and assigns its internal ID
func (r *TransactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}

	m, err := entityToModel(txn)
	if err != nil {
		return err
	}

	if result := r.db.WithContext(ctx).Create(&m); result.Error != nil {
		r.logger.Error("Failed to create transaction", map[string]any{
			"transaction_id": txn.ID,
			"order_id":       txn.OrderID,
			"error":          result.Error.Error(),
		})
		return mapDBError(result.Error)
	}

	r.logger.Debug("Transaction created", map[string]any{
		"transaction_id": txn.ID,
		"order_id":       txn.OrderID,
		"owner_id":       txn.OwnerID,
	})
	return nil
}

// GetByID retrieves a transaction by internal ID
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return r.getBy(ctx, "id = ?", id)
}

// GetByOrderID retrieves a transaction by the gateway order identifier
func (r *TransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error) {
	return r.getBy(ctx, "order_id = ?", orderID)
}

// GetByGatewayTransactionID retrieves a transaction by the identifier the
// gateway assigned asynchronously
func (r *TransactionRepository) GetByGatewayTransactionID(ctx context.Context, gatewayTxnID string) (*entity.Transaction, error) {
	return r.getBy(ctx, "gateway_transaction_id = ?", gatewayTxnID)
}

func (r *TransactionRepository) getBy(ctx context.Context, query string, arg any) (*entity.Transaction, error) {
	var m model.Transaction
	result := r.db.WithContext(ctx).Where(query, arg).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		return nil, mapDBError(result.Error)
	}
	return modelToEntity(&m)
}

// ListByOwner returns an owner's transactions ordered by creation time,
// most recent first
func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Transaction, error) {
	var models []model.Transaction
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models)
	if result.Error != nil {
		return nil, mapDBError(result.Error)
	}

	txns := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		txn, err := modelToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// CountByOwner returns the total number of an owner's transactions
func (r *TransactionRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("owner_id = ?", ownerID).
		Count(&count)
	if result.Error != nil {
		return 0, mapDBError(result.Error)
	}
	return count, nil
}

// UpdateStatus atomically applies a status change together with the
// updated-at timestamp. A non-empty gatewayTxnID backfills the gateway's
// identifier in the same write. Re-applying the current status is a no-op
// at the row level, which is what makes concurrent webhook deliveries and
// status polls safe without locks: both derive the same target from the
// same gateway ground truth. Deployments needing to detect genuinely
// conflicting writes can add an optimistic-concurrency column; the
// current protocol does not require one.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus, gatewayTxnID string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", errs.ErrInvalidRequest, string(status))
	}

	updates := map[string]any{
		"status":     string(status),
		"updated_at": r.timeProvider.Now(),
	}
	if gatewayTxnID != "" {
		updates["gateway_transaction_id"] = gatewayTxnID
	}

	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Failed to update transaction status", map[string]any{
			"transaction_id": id,
			"status":         string(status),
			"error":          result.Error.Error(),
		})
		return mapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrTransactionNotFound
	}

	r.logger.Debug("Transaction status updated", map[string]any{
		"transaction_id": id,
		"status":         string(status),
	})
	return nil
}

// SoftDelete marks a non-completed transaction as cancelled without
// removing the row. The status guard lives in the WHERE clause so the
// check and the write are one atomic statement.
func (r *TransactionRepository) SoftDelete(ctx context.Context, id string) error {
	now := r.timeProvider.Now()
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND status <> ?", id, string(entity.StatusCompleted)).
		Updates(map[string]any{
			"status":     string(entity.StatusCancelled),
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return mapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the row is missing or it is completed; disambiguate
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return errs.NewStateTransitionError(id, string(entity.StatusCompleted), string(entity.StatusCancelled))
	}
	return nil
}

// statusStatRow is the scan target for the aggregate query
type statusStatRow struct {
	Status     string
	Count      int64
	TotalMinor int64
}

// StatsByOwner returns per-status counts and sums for an owner within
// [from, to). A zero "to" means "until now".
func (r *TransactionRepository) StatsByOwner(ctx context.Context, ownerID string, from, to time.Time) ([]persistence.StatusStat, error) {
	if to.IsZero() {
		to = r.timeProvider.Now()
	}

	var rows []statusStatRow
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount_minor), 0) AS total_minor").
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, from, to).
		Group("status").
		Scan(&rows)
	if result.Error != nil {
		return nil, mapDBError(result.Error)
	}

	stats := make([]persistence.StatusStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, persistence.StatusStat{
			Status:     entity.TransactionStatus(row.Status),
			Count:      row.Count,
			TotalMinor: row.TotalMinor,
		})
	}
	return stats, nil
}
