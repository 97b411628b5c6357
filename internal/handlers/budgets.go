package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/finwise/backend/internal/events"
	"example.com/finwise/backend/internal/models"
	"example.com/finwise/backend/internal/repository"
)

type BudgetHandler struct {
	Budgets  *repository.BudgetRepository
	Notifier *events.Hub
}

// NewBudgetHandler создает обработчик бюджетов.
func NewBudgetHandler(budgets *repository.BudgetRepository, notifier *events.Hub) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets, Notifier: notifier}
}

type BudgetRequest struct {
	Category    string `json:"category" validate:"required,max=100"`
	LimitAmount int64  `json:"limit_amount" validate:"gte=0"`
}

type BudgetLimitRequest struct {
	LimitAmount int64 `json:"limit_amount" validate:"gte=0"`
}

type BudgetResponse struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	LimitAmount int64     `json:"limit_amount"`
	Spent       int64     `json:"spent"`
	Remaining   int64     `json:"remaining"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RecomputeResponse struct {
	Status         string `json:"status"`
	BudgetsUpdated int64  `json:"budgets_updated"`
}

// List возвращает все бюджеты с текущим агрегатом spent.
func (h *BudgetHandler) List(c echo.Context) error {
	budgets, err := h.Budgets.List(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	response := make([]BudgetResponse, 0, len(budgets))
	for _, budget := range budgets {
		response = append(response, toBudgetResponse(budget))
	}

	return c.JSON(http.StatusOK, map[string][]BudgetResponse{"budgets": response})
}

// Create создает бюджет; категория и лимит обязательны.
func (h *BudgetHandler) Create(c echo.Context) error {
	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(c, "category and limit_amount are required")
	}

	budget, err := h.Budgets.Create(c.Request().Context(), req.Category, req.LimitAmount)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "category and limit_amount are required")
		}
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "budget for this category already exists")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// UpdateLimit меняет лимит существующего бюджета.
func (h *BudgetHandler) UpdateLimit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid budget id")
	}

	var req BudgetLimitRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(c, "limit_amount must not be negative")
	}

	budget, err := h.Budgets.UpdateLimit(c.Request().Context(), id, req.LimitAmount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "budget not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "limit_amount must not be negative")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// Recompute запускает полный пересчет агрегатов spent по леджеру.
func (h *BudgetHandler) Recompute(c echo.Context) error {
	updated, err := h.Budgets.RecomputeSpent(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	h.Notifier.Publish(events.Event{
		Type: events.TypeBudgetsRecomputed,
		Data: map[string]int64{"budgets_updated": updated},
	})

	return c.JSON(http.StatusOK, RecomputeResponse{
		Status:         "success",
		BudgetsUpdated: updated,
	})
}

func toBudgetResponse(budget models.Budget) BudgetResponse {
	return BudgetResponse{
		ID:          budget.ID,
		Category:    budget.Category,
		LimitAmount: budget.LimitAmount,
		Spent:       budget.Spent,
		Remaining:   budget.LimitAmount - budget.Spent,
		UpdatedAt:   budget.UpdatedAt,
	}
}
