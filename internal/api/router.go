package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/digital-banking/account-service/internal/api/handler"
	"github.com/digital-banking/account-service/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	customerHandler *handler.CustomerHandler,
	accountHandler *handler.AccountHandler,
	operationHandler *handler.OperationHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Customer directory
		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.GET("", customerHandler.List)
			customers.GET("/:id", customerHandler.GetByID)
			customers.PUT("/:id", customerHandler.Update)
			customers.DELETE("/:id", customerHandler.Delete)
			customers.GET("/:id/accounts", accountHandler.ListByCustomer)
		}

		// Account lifecycle and operations
		accounts := v1.Group("/accounts")
		{
			accounts.POST("/current", accountHandler.CreateCurrent)
			accounts.POST("/saving", accountHandler.CreateSaving)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.POST("/:id/activate", accountHandler.Activate)
			accounts.POST("/:id/suspend", accountHandler.Suspend)

			accounts.POST("/:id/credit", operationHandler.Credit)
			accounts.POST("/:id/debit", operationHandler.Debit)
			accounts.POST("/transfer", operationHandler.Transfer)
			accounts.GET("/:id/operations", operationHandler.History)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
