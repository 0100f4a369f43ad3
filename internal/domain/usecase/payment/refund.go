package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	gwport "github.com/slikapay/payment-engine/internal/domain/port/gateway"
)

// RefundPayment refunds a completed transaction. Before issuing the refund
// the engine re-queries the gateway's own view of the order: if the gateway
// already reports it refunded, local state is synchronized and no second
// refund is sent. That makes retried and double-clicked refund requests
// idempotent without any locks.
func (s *Service) RefundPayment(ctx context.Context, ownerID, transactionID, amount string) (*entity.Transaction, error) {
	txn, err := s.getOwned(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}

	if txn.Status != entity.StatusCompleted {
		return nil, errs.NewStateTransitionError(txn.ID, string(txn.Status), string(entity.StatusRefunded))
	}

	// Default to a full refund, clamp to the original amount
	refundMinor := txn.AmountMinor
	if strings.TrimSpace(amount) != "" {
		requested, err := entity.ValidateAmount(amount, 0)
		if err != nil {
			return nil, err
		}
		if requested < txn.AmountMinor {
			refundMinor = requested
		}
	}

	profile, err := s.merchants.ProfileFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// The gateway must agree the order is settled before we refund it
	rawStatus, err := s.gateway.GetPaymentStatus(ctx, *profile, txn.OrderID)
	if err != nil {
		return nil, fmt.Errorf("refund precheck: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(rawStatus)) {
	case rawStatusRefunded:
		return s.syncRefundState(ctx, txn, entity.StatusRefunded)
	case rawStatusPartialRefund:
		return s.syncRefundState(ctx, txn, entity.StatusPartiallyRefunded)
	}

	if mapped := mapGatewayStatus(rawStatus); mapped != entity.StatusCompleted {
		return nil, fmt.Errorf("%w: gateway reports order %s as %q, not settled",
			errs.ErrGatewayRejected, txn.OrderID, rawStatus)
	}

	outcome, err := s.gateway.RefundPayment(ctx, *profile, txn.OrderID, refundMinor, nil)
	if err != nil {
		return nil, err
	}

	target, err := refundOutcomeStatus(outcome)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, txn.ID, target, ""); err != nil {
		return nil, err
	}

	s.logger.Info("Payment refunded", map[string]any{
		"transaction_id": txn.ID,
		"order_id":       txn.OrderID,
		"refund_minor":   refundMinor,
		"status":         string(target),
	})

	if err := txn.TransitionTo(target, s.timeProvider); err != nil {
		return nil, err
	}
	return txn, nil
}

// syncRefundState aligns local state with a refund the gateway already
// performed, without issuing another refund call
func (s *Service) syncRefundState(ctx context.Context, txn *entity.Transaction, target entity.TransactionStatus) (*entity.Transaction, error) {
	if err := s.repo.UpdateStatus(ctx, txn.ID, target, ""); err != nil {
		return nil, err
	}
	s.logger.Info("Gateway already reports refund, local state synchronized", map[string]any{
		"transaction_id": txn.ID,
		"order_id":       txn.OrderID,
		"status":         string(target),
	})
	if err := txn.TransitionTo(target, s.timeProvider); err != nil {
		return nil, err
	}
	return txn, nil
}

// refundOutcomeStatus maps the gateway's refund response to internal status
func refundOutcomeStatus(outcome gwport.RefundOutcome) (entity.TransactionStatus, error) {
	switch outcome {
	case gwport.RefundFull:
		return entity.StatusRefunded, nil
	case gwport.RefundPartial:
		return entity.StatusPartiallyRefunded, nil
	default:
		return "", fmt.Errorf("%w: unexpected refund response %q", errs.ErrGatewayRejected, string(outcome))
	}
}
