package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/handler"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/api/middleware"
)

// AdminGuard carries what the operator route group needs to authenticate
type AdminGuard struct {
	Secret     string
	AllowedIDs []int64
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	walletHandler *handler.WalletHandler,
	webhookHandler *handler.WebhookHandler,
	adminHandler *handler.AdminHandler,
	authHandler *handler.AuthHandler,
	guard AdminGuard,
	logger coreport.Logger,
) {
	// Wallet routes
	walletRoutes := router.Group("/wallet")
	{
		walletRoutes.POST("", walletHandler.EnsureUser)
		walletRoutes.GET("/:userId/balance", walletHandler.GetBalance)
	}

	router.POST("/deposits", walletHandler.RequestDeposit)
	router.POST("/withdrawals", walletHandler.RequestWithdrawal)
	router.GET("/transactions/:id", walletHandler.GetTransaction)

	// Payment processor callbacks
	router.POST("/webhooks/payments", webhookHandler.HandlePaymentEvent)

	// Operator token issuance
	router.POST("/auth/token", authHandler.IssueToken)

	// Operator routes, bearer token required
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AdminAuth(guard.Secret, guard.AllowedIDs, logger))
	{
		adminRoutes.PUT("/users/:userId/balance", adminHandler.SetBalance)
		adminRoutes.POST("/users/:userId/adjust", adminHandler.AdjustBalance)
		adminRoutes.GET("/users/:userId/last-activity", adminHandler.LastActivity)
		adminRoutes.GET("/withdrawals", adminHandler.PendingWithdrawals)
		adminRoutes.POST("/withdrawals/:id/start", adminHandler.StartWithdrawal)
		adminRoutes.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
		adminRoutes.POST("/withdrawals/:id/refuse", adminHandler.RefuseWithdrawal)
		adminRoutes.GET("/withdrawals/:id/fee", adminHandler.WithdrawalFee)
		adminRoutes.GET("/profit", adminHandler.Profit)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}
