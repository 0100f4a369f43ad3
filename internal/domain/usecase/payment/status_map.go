package payment

import (
	"strings"

	"github.com/slikapay/payment-engine/internal/domain/entity"
)

// gatewayStatusTable is the fixed lookup from the gateway's status
// vocabulary to internal statuses. The gateway mixes numeric and word
// codes depending on the endpoint, so both are listed.
var gatewayStatusTable = map[string]entity.TransactionStatus{
	"1":           entity.StatusCompleted,
	"success":     entity.StatusCompleted,
	"approved":    entity.StatusCompleted,
	"completed":   entity.StatusCompleted,
	"0":           entity.StatusFailed,
	"declined":    entity.StatusFailed,
	"error":       entity.StatusFailed,
	"expired":     entity.StatusFailed,
	"timeout":     entity.StatusFailed,
	"failed":      entity.StatusFailed,
	"cancelled":   entity.StatusCancelled,
	"canceled":    entity.StatusCancelled,
	"pending":     entity.StatusPending,
	"processing":  entity.StatusPending,
	"in_progress": entity.StatusPending,
}

// mapGatewayStatus translates a raw gateway status code to an internal
// status. Unrecognized codes map to failed: treating an unknown answer as
// success would ship goods without money.
func mapGatewayStatus(code string) entity.TransactionStatus {
	if status, ok := gatewayStatusTable[strings.ToLower(strings.TrimSpace(code))]; ok {
		return status
	}
	return entity.StatusFailed
}

// Raw refund-view codes the gateway may report from a status query on an
// already-refunded order
const (
	rawStatusRefunded      = "refunded"
	rawStatusPartialRefund = "partial_refund"
)
