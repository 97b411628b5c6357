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

const dateLayout = "2006-01-02"

type BillHandler struct {
	Bills    *repository.BillRepository
	Notifier *events.Hub
}

// NewBillHandler создает обработчик счетов.
func NewBillHandler(bills *repository.BillRepository, notifier *events.Hub) *BillHandler {
	return &BillHandler{Bills: bills, Notifier: notifier}
}

type BillRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Amount      int64  `json:"amount" validate:"gte=0"`
	DueDate     string `json:"due_date" validate:"required"`
	IsRecurring bool   `json:"is_recurring"`
}

type BillResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Amount      int64     `json:"amount"`
	DueDate     string    `json:"due_date"`
	Status      string    `json:"status"`
	IsRecurring bool      `json:"is_recurring"`
}

type PayBillResponse struct {
	Status        string    `json:"status"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

// List возвращает счета; ?unpaid=true оставляет только pending и overdue.
func (h *BillHandler) List(c echo.Context) error {
	unpaidOnly := c.QueryParam("unpaid") == "true"

	bills, err := h.Bills.List(c.Request().Context(), unpaidOnly)
	if err != nil {
		return serverError(c)
	}

	response := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		response = append(response, toBillResponse(bill))
	}

	return c.JSON(http.StatusOK, map[string][]BillResponse{"bills": response})
}

// Create создает счет со статусом pending.
func (h *BillHandler) Create(c echo.Context) error {
	var req BillRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(c, "name, amount and due_date are required")
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return badRequest(c, "due_date must be YYYY-MM-DD")
	}

	bill, err := h.Bills.Create(c.Request().Context(), req.Name, req.Amount, dueDate, req.IsRecurring)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "name, amount and due_date are required")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toBillResponse(bill))
}

// Pay проводит оплату счета. Повторная оплата возвращает 409,
// неизвестный счет 404; в обоих случаях состояние не меняется.
func (h *BillHandler) Pay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid bill id")
	}

	transactionID, err := h.Bills.Pay(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "bill not found")
		}
		if errors.Is(err, repository.ErrAlreadyPaid) {
			return conflict(c, "bill already paid")
		}
		return serverError(c)
	}

	h.Notifier.Publish(events.Event{
		Type: events.TypeBillPaid,
		Data: map[string]string{
			"bill_id":        id.String(),
			"transaction_id": transactionID.String(),
		},
	})

	return c.JSON(http.StatusOK, PayBillResponse{
		Status:        "success",
		TransactionID: transactionID,
	})
}

func toBillResponse(bill models.Bill) BillResponse {
	return BillResponse{
		ID:          bill.ID,
		Name:        bill.Name,
		Amount:      bill.Amount,
		DueDate:     bill.DueDate.Format(dateLayout),
		Status:      string(bill.Status),
		IsRecurring: bill.IsRecurring,
	}
}
