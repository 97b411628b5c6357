package server

import (
	"github.com/labstack/echo/v4"

	"example.com/finwise/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	transactionHandler *handlers.TransactionHandler,
	budgetHandler *handlers.BudgetHandler,
	billHandler *handlers.BillHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	advisorHandler *handlers.AdvisorHandler,
	eventHandler *handlers.EventHandler,
	webhookRateLimiter echo.MiddlewareFunc,
	advisorRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api")

	api.GET("/webhook", transactionHandler.Webhook, webhookRateLimiter)
	api.POST("/webhook", transactionHandler.Webhook, webhookRateLimiter)

	transactions := api.Group("/transactions")
	transactions.GET("", transactionHandler.List)
	transactions.POST("", transactionHandler.Create)
	transactions.GET("/export/csv", transactionHandler.ExportCSV)

	budgets := api.Group("/budgets")
	budgets.GET("", budgetHandler.List)
	budgets.POST("", budgetHandler.Create)
	budgets.PUT("/:id", budgetHandler.UpdateLimit)
	budgets.POST("/recompute", budgetHandler.Recompute)

	bills := api.Group("/bills")
	bills.GET("", billHandler.List)
	bills.POST("", billHandler.Create)
	bills.POST("/:id/pay", billHandler.Pay)

	api.GET("/scan-anomalies", analyticsHandler.ScanAnomalies)
	api.GET("/forecast", analyticsHandler.Forecast)
	api.GET("/risks", analyticsHandler.Risks)

	api.POST("/advisor/chat", advisorHandler.Chat, advisorRateLimiter)

	api.GET("/events/stream", eventHandler.Stream)
}
