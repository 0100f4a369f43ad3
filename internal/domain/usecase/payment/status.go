package payment

import (
	"context"

	"github.com/slikapay/payment-engine/internal/domain/entity"
)

// GetPaymentStatus returns the transaction, reconciling a pending one with
// the gateway first. Reconciliation is read-repair: a gateway failure is
// swallowed and the last known local state is returned.
func (s *Service) GetPaymentStatus(ctx context.Context, ownerID, transactionID string) (*entity.Transaction, error) {
	txn, err := s.getOwned(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}

	// Settled and locally-finalized states are never re-queried: the
	// gateway may forget old orders, and its answer could not change
	// anything we would accept.
	if txn.Status != entity.StatusPending {
		return txn, nil
	}

	profile, err := s.merchants.ProfileFor(ctx, ownerID)
	if err != nil {
		return txn, nil
	}

	rawStatus, err := s.gateway.GetPaymentStatus(ctx, *profile, txn.OrderID)
	if err != nil {
		s.logger.Debug("Gateway status refresh failed, keeping local state", map[string]any{
			"transaction_id": txn.ID,
			"order_id":       txn.OrderID,
			"error":          err.Error(),
		})
		return txn, nil
	}

	mapped := mapGatewayStatus(rawStatus)
	if mapped == txn.Status {
		return txn, nil
	}

	if err := s.repo.UpdateStatus(ctx, txn.ID, mapped, ""); err != nil {
		s.logger.Warn("Persisting reconciled status failed", map[string]any{
			"transaction_id": txn.ID,
			"target_status":  string(mapped),
			"error":          err.Error(),
		})
		return txn, nil
	}

	s.logger.Info("Transaction status reconciled from gateway", map[string]any{
		"transaction_id": txn.ID,
		"order_id":       txn.OrderID,
		"from_status":    string(txn.Status),
		"to_status":      string(mapped),
		"raw_status":     rawStatus,
	})

	if err := txn.TransitionTo(mapped, s.timeProvider); err != nil {
		return nil, err
	}
	return txn, nil
}
