package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/slikapay/payment-engine/internal/domain/port/core"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/api/handler"
	"github.com/slikapay/payment-engine/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	paymentHandler *handler.PaymentHandler,
	webhookHandler *handler.WebhookHandler,
	healthHandler *handler.HealthHandler,
) {
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		payments := api.Group("/payments")
		{
			payments.POST("", paymentHandler.CreatePayment)
			payments.GET("", paymentHandler.ListPayments)
			payments.GET("/stats", paymentHandler.Stats)
			payments.GET("/:id", paymentHandler.GetPayment)
			payments.GET("/:id/status", paymentHandler.GetPaymentStatus)
			payments.POST("/:id/refund", paymentHandler.RefundPayment)
			payments.POST("/:id/cancel", paymentHandler.CancelPayment)
			payments.DELETE("/:id", paymentHandler.DeletePayment)
		}

		api.POST("/webhook/gateway", webhookHandler.HandleGatewayWebhook)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
