package handler

import (
	"github.com/HoussamEddineSmati/SpendKiler/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Expense   *ExpenseHandler
	Settings  *SettingsHandler
	Category  *CategoryHandler
	Cycle     *CycleHandler
	Backup    *BackupHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes sets up all API routes. rateLimiter may be nil to disable limiting.
func RegisterRoutes(e *echo.Echo, tokenAuth *middleware.TokenAuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(tokenAuth.Authenticate())
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.GET("", h.Expense.GetExpenses)
	expenses.POST("", h.Expense.CreateExpense)
	expenses.GET("/export.csv", h.Expense.ExportCSV)
	expenses.POST("/import.csv", h.Expense.ImportCSV)
	expenses.GET("/:id", h.Expense.GetExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)

	// Settings routes
	settings := api.Group("/settings")
	settings.GET("", h.Settings.GetSettings)
	settings.PATCH("", h.Settings.UpdateSettings)

	api.GET("/categories", h.Category.GetCategories)

	// Cycle routes
	cycle := api.Group("/cycle")
	cycle.GET("/summary", h.Cycle.GetSummary)
	cycle.GET("/analysis", h.Cycle.GetAnalysis)
	cycle.GET("/analysis/chart.png", h.Cycle.GetAnalysisChart)

	if h.Backup != nil {
		api.POST("/backups", h.Backup.CreateBackup)
	}

	// WebSocket (browsers cannot set headers, so the token may come as ?token=)
	e.GET("/ws", h.WebSocket.HandleWS, tokenAuth.Authenticate())
}
