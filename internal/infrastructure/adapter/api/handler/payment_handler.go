package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainerr "github.com/slikapay/payment-engine/internal/domain/error"
	coreport "github.com/slikapay/payment-engine/internal/domain/port/core"
	ucport "github.com/slikapay/payment-engine/internal/domain/port/usecase"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/api/dto"
)

// OwnerIDHeader identifies the calling merchant. The surrounding system
// authenticates the caller and injects this header; the engine trusts it.
const OwnerIDHeader = "X-Owner-ID"

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	payments ucport.PaymentUseCase
	logger   coreport.Logger
}

// NewPaymentHandler creates a new payment handler instance
func NewPaymentHandler(payments ucport.PaymentUseCase, logger coreport.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

// ownerID extracts the authenticated owner from the request headers.
// Returns an empty string after writing the error response.
func (h *PaymentHandler) ownerID(c *gin.Context) string {
	owner := c.GetHeader(OwnerIDHeader)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrUnauthorized),
			Message: "Missing required header: " + OwnerIDHeader,
		})
	}
	return owner
}

// writeError maps a domain error to its HTTP response
func (h *PaymentHandler) writeError(c *gin.Context, err error) {
	c.JSON(domainerr.HTTPStatus(err), dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	})
}

// CreatePayment handles POST /api/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	owner := h.ownerID(c)
	if owner == "" {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid create payment request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.payments.CreatePayment(c.Request.Context(), owner, req.ToUseCaseRequest())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromCreateResult(result))
}

// GetPayment handles GET /api/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	owner := h.ownerID(c)
	if owner == "" {
		return
	}

	txn, err := h.payments.GetPayment(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTransaction(txn))
}

// GetPaymentStatus handles GET /api/payments/:id/status
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	owner := h.ownerID(c)
	if owner == "" {
		return
	}

	txn, err := h.payments.GetPaymentStatus(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTransaction(txn))
}

// ListPayments handles GET /api/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	owner := h.ownerID(c)
	if owner == "" {
		return
	}

	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	txns, total, err := h.payments.ListPayments(c.Request.Context(), owner, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTransactions(txns, total, limit, offset))
}

// RefundPayment handles POST /api/payments/:id/refund
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	owner := h.ownerID(c)
	if owner == "" {
		return
	}

	// The body is optional: no body means a full refund
	var req dto.RefundPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid request format: " + err.Error(),
			})
			return
		}
	}

	txn, err := h.payments.RefundPayment(c.Request.Context(), owner, c.Param("id"), req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTransaction(txn))
}

// CancelPayment handles POST /api/payments/:id/cancel
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	owner := h.ownerID(c)
	if owner == "" {
		return
	}

	txn, err := h.payments.CancelPayment(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTransaction(txn))
}

// DeletePayment handles DELETE /api/payments/:id
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	owner := h.ownerID(c)
	if owner == "" {
		return
	}

	if err := h.payments.DeletePayment(c.Request.Context(), owner, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats handles GET /api/payments/stats
func (h *PaymentHandler) Stats(c *gin.Context) {
	owner := h.ownerID(c)
	if owner == "" {
		return
	}

	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	stats, err := h.payments.OwnerStats(c.Request.Context(), owner, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStats(stats))
}

// queryInt reads an integer query parameter with a default
func queryInt(c *gin.Context, name string, defaultVal int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return val
}

// queryTime reads an RFC3339 query parameter, writing the error response
// itself when the value is malformed
func queryTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	val, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid " + name + " parameter, expected RFC3339 timestamp",
		})
		return time.Time{}, false
	}
	return val, true
}
