package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	gwport "github.com/slikapay/payment-engine/internal/domain/port/gateway"
)

// HealthHandler reports the service's own health plus its dependencies'
type HealthHandler struct {
	db      *gorm.DB
	gateway gwport.PaymentGateway
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(db *gorm.DB, gateway gwport.PaymentGateway) *HealthHandler {
	return &HealthHandler{
		db:      db,
		gateway: gateway,
	}
}

// HealthResponse is the health probe answer
type HealthResponse struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	Gateway  bool   `json:"gateway"`
}

// Health handles GET /health. The probe degrades rather than fails: a dead
// gateway still leaves reads and webhook ingestion working.
func (h *HealthHandler) Health(c *gin.Context) {
	dbUp := h.pingDatabase(c)
	gatewayUp := h.gateway.HealthCheck(c.Request.Context())

	resp := HealthResponse{
		Status:   "ok",
		Database: dbUp,
		Gateway:  gatewayUp,
	}

	switch {
	case !dbUp:
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
	case !gatewayUp:
		resp.Status = "degraded"
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusOK, resp)
	}
}

func (h *HealthHandler) pingDatabase(c *gin.Context) bool {
	sqlDB, err := h.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(c.Request.Context()) == nil
}
