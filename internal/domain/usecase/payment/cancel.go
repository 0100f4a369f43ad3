package payment

import (
	"context"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
)

// CancelPayment cancels a pending transaction. Cancellation is purely
// local: the customer simply never completes the hosted payment page, so
// there is nothing to tell the gateway.
func (s *Service) CancelPayment(ctx context.Context, ownerID, transactionID string) (*entity.Transaction, error) {
	txn, err := s.getOwned(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}

	if txn.Status != entity.StatusPending {
		return nil, errs.NewStateTransitionError(txn.ID, string(txn.Status), string(entity.StatusCancelled))
	}

	if err := s.repo.UpdateStatus(ctx, txn.ID, entity.StatusCancelled, ""); err != nil {
		return nil, err
	}

	s.logger.Info("Payment cancelled", map[string]any{
		"transaction_id": txn.ID,
		"order_id":       txn.OrderID,
		"owner_id":       ownerID,
	})

	if err := txn.TransitionTo(entity.StatusCancelled, s.timeProvider); err != nil {
		return nil, err
	}
	return txn, nil
}
