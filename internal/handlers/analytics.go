package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/finwise/backend/internal/analytics"
	"example.com/finwise/backend/internal/config"
	"example.com/finwise/backend/internal/repository"
)

type AnalyticsHandler struct {
	Transactions *repository.TransactionRepository
	Budgets      *repository.BudgetRepository
	Bills        *repository.BillRepository
	Config       config.AnalyticsConfig
}

// NewAnalyticsHandler создает обработчик аналитики леджера.
func NewAnalyticsHandler(transactions *repository.TransactionRepository, budgets *repository.BudgetRepository, bills *repository.BillRepository, cfg config.AnalyticsConfig) *AnalyticsHandler {
	return &AnalyticsHandler{
		Transactions: transactions,
		Budgets:      budgets,
		Bills:        bills,
		Config:       cfg,
	}
}

type AnomaliesResponse struct {
	Status    string              `json:"status"`
	Window    string              `json:"window"`
	Anomalies []analytics.Anomaly `json:"anomalies"`
}

type ForecastResponse struct {
	Status      string                       `json:"status"`
	Months      int                          `json:"months"`
	Predictions []analytics.CategoryForecast `json:"predictions"`
}

type RisksResponse struct {
	Status string                 `json:"status"`
	Risks  []analytics.RiskSignal `json:"risks"`
}

// ScanAnomalies сканирует недавнее окно леджера на крупные транзакции и
// дубли. Результат не сохраняется и пересчитывается при каждом вызове;
// ошибка чтения леджера валит весь скан, частичных результатов нет.
func (h *AnalyticsHandler) ScanAnomalies(c echo.Context) error {
	window := h.Config.AnomalyWindow
	if raw := c.QueryParam("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid window")
		}
		window = parsed
	}

	since := time.Now().UTC().Add(-window)
	transactions, err := h.Transactions.ListSince(c.Request().Context(), since)
	if err != nil {
		return serverError(c)
	}

	anomalies := analytics.ScanAnomalies(analytics.DetectorConfig{
		HighValueThreshold: h.Config.HighValueThreshold,
		FlagFirstDuplicate: h.Config.FlagFirstDuplicate,
	}, transactions)

	return c.JSON(http.StatusOK, AnomaliesResponse{
		Status:    "success",
		Window:    window.String(),
		Anomalies: anomalies,
	})
}

// Forecast строит прогноз расходов по категориям на следующий период.
func (h *AnalyticsHandler) Forecast(c echo.Context) error {
	months := h.Config.ForecastMonths
	if raw := c.QueryParam("months"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			return badRequest(c, "invalid months")
		}
		if parsed > 24 {
			parsed = 24
		}
		months = parsed
	}

	since := monthsAgo(time.Now().UTC(), months)
	transactions, err := h.Transactions.ListSince(c.Request().Context(), since)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, ForecastResponse{
		Status:      "success",
		Months:      months,
		Predictions: analytics.Forecast(transactions),
	})
}

// Risks возвращает ранжированный список рисков: бюджеты, затем счета.
func (h *AnalyticsHandler) Risks(c echo.Context) error {
	ctx := c.Request().Context()

	budgets, err := h.Budgets.List(ctx)
	if err != nil {
		return serverError(c)
	}

	bills, err := h.Bills.List(ctx, false)
	if err != nil {
		return serverError(c)
	}

	risks := analytics.AssessRisk(analytics.RiskConfig{
		EarlyWarnUsage:        h.Config.EarlyWarnUsage,
		EarlyWarnDay:          h.Config.EarlyWarnDay,
		BillPressureThreshold: h.Config.BillPressureThreshold,
	}, budgets, bills, time.Now())

	return c.JSON(http.StatusOK, RisksResponse{
		Status: "success",
		Risks:  risks,
	})
}

// monthsAgo возвращает начало календарного месяца на months-1 месяцев
// раньше указанного: окно прогноза покрывает текущий месяц и полные
// предыдущие.
func monthsAgo(now time.Time, months int) time.Time {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return firstOfMonth.AddDate(0, -(months - 1), 0)
}

func parsePositiveInt(raw string) (int, error) {
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be greater than 0")
	}
	return parsed, nil
}
