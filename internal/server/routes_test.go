package server

import (
	"testing"

	"github.com/labstack/echo/v4"

	"example.com/finwise/backend/internal/handlers"
)

func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

// TestRegisterRoutes проверяет таблицу маршрутов: вебхук живет под /api,
// как и остальные операции, вне /api остается только /health.
func TestRegisterRoutes(t *testing.T) {
	e := echo.New()

	registerRoutes(
		e,
		&handlers.TransactionHandler{},
		&handlers.BudgetHandler{},
		&handlers.BillHandler{},
		&handlers.AnalyticsHandler{},
		&handlers.AdvisorHandler{},
		&handlers.EventHandler{},
		passthrough,
		passthrough,
	)

	registered := make(map[string]bool)
	for _, route := range e.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"GET /health",
		"GET /api/webhook",
		"POST /api/webhook",
		"GET /api/transactions",
		"POST /api/transactions",
		"GET /api/transactions/export/csv",
		"GET /api/budgets",
		"POST /api/budgets",
		"PUT /api/budgets/:id",
		"POST /api/budgets/recompute",
		"GET /api/bills",
		"POST /api/bills",
		"POST /api/bills/:id/pay",
		"GET /api/scan-anomalies",
		"GET /api/forecast",
		"GET /api/risks",
		"POST /api/advisor/chat",
		"GET /api/events/stream",
	}

	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %s is not registered", route)
		}
	}

	if registered["GET /webhook"] || registered["POST /webhook"] {
		t.Error("webhook must not be registered outside /api")
	}
}
