package payment

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	ucport "github.com/slikapay/payment-engine/internal/domain/port/usecase"
)

// ProcessWebhook verifies and applies a gateway status notification.
// Nothing may escape this boundary: a gateway that receives errors keeps
// retrying the delivery, so every outcome is a structured result.
func (s *Service) ProcessWebhook(ctx context.Context, payload []byte, signature string) ucport.WebhookResult {
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ucport.WebhookResult{Success: false, Error: "malformed payload"}
	}

	// Signature first: an invalid webhook never touches the store
	if !s.gateway.ValidateWebhookSignature(fields, signature) {
		s.logger.Warn("Webhook rejected: invalid signature", map[string]any{
			"order_id": stringField(fields, "orderId"),
		})
		return ucport.WebhookResult{Success: false, Error: "invalid signature"}
	}

	gatewayTxnID := stringField(fields, "transactionId")
	orderID := stringField(fields, "orderId")
	rawStatus := stringField(fields, "status")

	txn, err := s.resolveWebhookTransaction(ctx, gatewayTxnID, orderID)
	if err != nil {
		s.logger.Warn("Webhook transaction not resolved", map[string]any{
			"gateway_txn_id": gatewayTxnID,
			"order_id":       orderID,
			"error":          err.Error(),
		})
		return ucport.WebhookResult{Success: false, Error: "transaction not found"}
	}

	mapped := mapGatewayStatus(rawStatus)
	if mapped == txn.Status {
		// Duplicate delivery or a concurrent poll got here first. The
		// gateway identifier is still backfilled when this delivery is
		// the first to carry it, so later webhooks resolve directly.
		if gatewayTxnID != "" && txn.GatewayTransactionID != gatewayTxnID {
			if err := s.repo.UpdateStatus(ctx, txn.ID, txn.Status, gatewayTxnID); err != nil {
				s.logger.Warn("Webhook gateway id backfill failed", map[string]any{
					"transaction_id": txn.ID,
					"gateway_txn_id": gatewayTxnID,
					"error":          err.Error(),
				})
			}
		}
		return ucport.WebhookResult{Success: true, TransactionID: txn.ID}
	}

	if !txn.Status.CanTransitionTo(mapped) {
		s.logger.Warn("Webhook status ignored: illegal transition", map[string]any{
			"transaction_id": txn.ID,
			"from_status":    string(txn.Status),
			"to_status":      string(mapped),
			"raw_status":     rawStatus,
		})
		return ucport.WebhookResult{Success: false, TransactionID: txn.ID, Error: "illegal state transition"}
	}

	if err := s.repo.UpdateStatus(ctx, txn.ID, mapped, gatewayTxnID); err != nil {
		s.logger.Error("Webhook status update failed", map[string]any{
			"transaction_id": txn.ID,
			"to_status":      string(mapped),
			"error":          err.Error(),
		})
		return ucport.WebhookResult{Success: false, TransactionID: txn.ID, Error: "status update failed"}
	}

	s.logger.Info("Webhook applied", map[string]any{
		"transaction_id": txn.ID,
		"order_id":       txn.OrderID,
		"from_status":    string(txn.Status),
		"to_status":      string(mapped),
	})
	return ucport.WebhookResult{Success: true, TransactionID: txn.ID}
}

// resolveWebhookTransaction finds the transaction a webhook refers to.
// The gateway-assigned identifier is the primary correlation key; the
// order-id path is a best-effort fallback that may legitimately miss.
func (s *Service) resolveWebhookTransaction(ctx context.Context, gatewayTxnID, orderID string) (*entity.Transaction, error) {
	if gatewayTxnID != "" {
		txn, err := s.repo.GetByGatewayTransactionID(ctx, gatewayTxnID)
		if err == nil {
			return txn, nil
		}
		if !errs.IsNotFoundError(err) {
			return nil, err
		}
	}
	if orderID != "" {
		return s.repo.GetByOrderID(ctx, orderID)
	}
	return nil, errs.ErrTransactionNotFound
}

// stringField reads a JSON field as a string, tolerating the gateway's
// habit of sending numbers where words are documented
func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
