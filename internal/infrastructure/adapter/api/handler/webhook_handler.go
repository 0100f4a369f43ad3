package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/slikapay/payment-engine/internal/domain/port/core"
	ucport "github.com/slikapay/payment-engine/internal/domain/port/usecase"
)

// SignatureHeader carries the gateway's webhook signature
const SignatureHeader = "X-Gateway-Signature"

// WebhookHandler receives asynchronous payment notifications from the gateway
type WebhookHandler struct {
	payments ucport.PaymentUseCase
	logger   coreport.Logger
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(payments ucport.PaymentUseCase, logger coreport.Logger) *WebhookHandler {
	return &WebhookHandler{
		payments: payments,
		logger:   logger,
	}
}

// HandleGatewayWebhook handles POST /api/webhook/gateway. The endpoint
// always answers 200 with a structured body: returning HTTP errors would
// only make the gateway redeliver a notification we cannot process.
func (h *WebhookHandler) HandleGatewayWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warn("Webhook body read failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusOK, ucport.WebhookResult{Success: false, Error: "unreadable body"})
		return
	}

	signature := c.GetHeader(SignatureHeader)
	if signature == "" {
		// Some gateway versions embed the signature in the payload instead
		signature = embeddedSignature(payload)
	}

	result := h.payments.ProcessWebhook(c.Request.Context(), payload, signature)
	c.JSON(http.StatusOK, result)
}

// embeddedSignature extracts a "sign" field from the raw payload
func embeddedSignature(payload []byte) string {
	var fields struct {
		Sign string `json:"sign"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	return fields.Sign
}
