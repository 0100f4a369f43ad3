package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	coreport "github.com/slikapay/payment-engine/internal/domain/port/core"
	gwport "github.com/slikapay/payment-engine/internal/domain/port/gateway"
	"github.com/slikapay/payment-engine/internal/domain/port/persistence"
	ucport "github.com/slikapay/payment-engine/internal/domain/port/usecase"
)

// Config carries the engine's business knobs
type Config struct {
	// MaxAmountMinor is the payment ceiling in minor units (0 disables it)
	MaxAmountMinor int64
	// HistoryDefaultLimit is used when the caller passes limit <= 0
	HistoryDefaultLimit int
	// HistoryMaxLimit caps the caller-supplied limit
	HistoryMaxLimit int
	// QRSize is the rendered QR edge length in pixels
	QRSize int
}

func (c *Config) applyDefaults() {
	if c.HistoryDefaultLimit <= 0 {
		c.HistoryDefaultLimit = 50
	}
	if c.HistoryMaxLimit <= 0 {
		c.HistoryMaxLimit = 100
	}
	if c.QRSize <= 0 {
		c.QRSize = 256
	}
}

// Service is the reconciliation engine: it orchestrates gateway calls and
// the transaction store, owns the status mapping, and enforces ownership
// and state-transition legality. All cross-request coordination happens
// through the store's atomic writes; the service holds no locks.
type Service struct {
	gateway      gwport.PaymentGateway
	repo         persistence.TransactionRepository
	merchants    gwport.MerchantProvider
	qr           coreport.QRGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	cfg          Config
}

// NewService wires the engine from its collaborators
func NewService(
	gateway gwport.PaymentGateway,
	repo persistence.TransactionRepository,
	merchants gwport.MerchantProvider,
	qr coreport.QRGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	cfg Config,
) ucport.PaymentUseCase {
	cfg.applyDefaults()
	return &Service{
		gateway:      gateway,
		repo:         repo,
		merchants:    merchants,
		qr:           qr,
		timeProvider: timeProvider,
		logger:       logger,
		cfg:          cfg,
	}
}

// getOwned loads a transaction and verifies ownership. Owner mismatch is
// Unauthorized, distinct from NotFound.
func (s *Service) getOwned(ctx context.Context, ownerID, transactionID string) (*entity.Transaction, error) {
	txn, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsOwnedBy(ownerID) {
		s.logger.Warn("Owner mismatch on transaction access", map[string]any{
			"transaction_id": transactionID,
			"owner_id":       ownerID,
		})
		return nil, errs.ErrUnauthorized
	}
	return txn, nil
}

// GetPayment returns the stored transaction without consulting the gateway
func (s *Service) GetPayment(ctx context.Context, ownerID, transactionID string) (*entity.Transaction, error) {
	return s.getOwned(ctx, ownerID, transactionID)
}

// ListPayments returns a page of the owner's history, newest first
func (s *Service) ListPayments(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Transaction, int64, error) {
	if limit <= 0 {
		limit = s.cfg.HistoryDefaultLimit
	}
	if limit > s.cfg.HistoryMaxLimit {
		limit = s.cfg.HistoryMaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	txns, err := s.repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// DeletePayment soft-deletes a non-completed transaction. The row survives
// with status cancelled; completed payments can only be unwound by refund.
func (s *Service) DeletePayment(ctx context.Context, ownerID, transactionID string) error {
	txn, err := s.getOwned(ctx, ownerID, transactionID)
	if err != nil {
		return err
	}
	if txn.Status == entity.StatusCompleted {
		return errs.NewStateTransitionError(txn.ID, string(txn.Status), string(entity.StatusCancelled))
	}
	if err := s.repo.SoftDelete(ctx, txn.ID); err != nil {
		return fmt.Errorf("soft delete failed: %w", err)
	}
	s.logger.Info("Transaction soft-deleted", map[string]any{
		"transaction_id": txn.ID,
		"owner_id":       ownerID,
	})
	return nil
}

// OwnerStats aggregates the owner's transactions per status within [from, to)
func (s *Service) OwnerStats(ctx context.Context, ownerID string, from, to time.Time) ([]persistence.StatusStat, error) {
	if !to.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", errs.ErrInvalidRequest)
	}
	return s.repo.StatsByOwner(ctx, ownerID, from, to)
}
