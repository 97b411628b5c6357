package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/finwise/backend/internal/events"
	"example.com/finwise/backend/internal/models"
	"example.com/finwise/backend/internal/repository"
)

// Значения по умолчанию для вебхука: n8n присылает неполные payload'ы,
// и транзакция все равно должна попасть в леджер.
const (
	defaultWebhookCategory    = "Uncategorized"
	defaultWebhookDescription = "From n8n"
	defaultWebhookSource      = "Email"
)

type TransactionHandler struct {
	Transactions *repository.TransactionRepository
	Notifier     *events.Hub
}

// NewTransactionHandler создает обработчик транзакций.
func NewTransactionHandler(transactions *repository.TransactionRepository, notifier *events.Hub) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions, Notifier: notifier}
}

type TransactionRequest struct {
	Date        string `json:"date"`
	Amount      int64  `json:"amount" validate:"gte=0"`
	Type        string `json:"type" validate:"required,oneof=expense income"`
	Category    string `json:"category" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Source      string `json:"source" validate:"max=100"`
}

type WebhookRequest struct {
	Timestamp   string `json:"timestamp"`
	Amount      int64  `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

type TransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
}

// List возвращает леджер в порядке убывания даты.
func (h *TransactionHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid limit")
		}
		limit = parsed
	}

	transactions, err := h.Transactions.List(c.Request().Context(), limit)
	if err != nil {
		return serverError(c)
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response = append(response, toTransactionResponse(t))
	}

	return c.JSON(http.StatusOK, map[string][]TransactionResponse{"transactions": response})
}

// Create добавляет транзакцию, введенную вручную.
func (h *TransactionHandler) Create(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(c, "amount, type and category are required")
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return badRequest(c, "date must be RFC3339")
		}
		date = parsed
	}

	source := req.Source
	if strings.TrimSpace(source) == "" {
		source = "Manual"
	}

	created, err := h.Transactions.Create(c.Request().Context(), models.Transaction{
		Date:        date,
		Amount:      req.Amount,
		Type:        models.TransactionType(req.Type),
		Category:    req.Category,
		Description: req.Description,
		Source:      source,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid transaction")
		}
		return serverError(c)
	}

	h.Notifier.Publish(events.Event{
		Type: events.TypeTransactionIngested,
		Data: toTransactionResponse(created),
	})

	return c.JSON(http.StatusCreated, toTransactionResponse(created))
}

// Webhook принимает данные из n8n. GET отвечает статусом активности,
// POST дополняет payload значениями по умолчанию и записывает транзакцию
// через атомарный инкрементальный путь. Повторная доставка не
// блокируется: дубли остаются детектору, а не предотвращаются на входе.
func (h *TransactionHandler) Webhook(c echo.Context) error {
	if c.Request().Method == http.MethodGet {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "active",
			"message": "Webhook is running. Send POST requests to this endpoint.",
		})
	}

	var req WebhookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	created, err := h.Transactions.Create(c.Request().Context(), webhookTransaction(req, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid transaction")
		}
		return serverError(c)
	}

	h.Notifier.Publish(events.Event{
		Type: events.TypeTransactionIngested,
		Data: toTransactionResponse(created),
	})

	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// ExportCSV выгружает весь леджер в CSV-файл, без среза по количеству строк.
func (h *TransactionHandler) ExportCSV(c echo.Context) error {
	transactions, err := h.Transactions.ListAll(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"id", "date", "amount", "type", "category", "description", "source"}); err != nil {
		return serverError(c)
	}

	for _, t := range transactions {
		record := []string{
			t.ID.String(),
			t.Date.Format(time.RFC3339),
			strconv.FormatInt(t.Amount, 10),
			string(t.Type),
			t.Category,
			t.Description,
			t.Source,
		}
		if err := writer.Write(record); err != nil {
			return serverError(c)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// webhookTransaction собирает транзакцию из payload вебхука, подставляя
// значения по умолчанию для отсутствующих полей.
func webhookTransaction(req WebhookRequest, now time.Time) models.Transaction {
	date := now
	if req.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			date = parsed
		}
	}

	transactionType := models.TransactionType(req.Type)
	if transactionType != models.TransactionTypeExpense && transactionType != models.TransactionTypeIncome {
		transactionType = models.TransactionTypeExpense
	}

	category := req.Category
	if strings.TrimSpace(category) == "" {
		category = defaultWebhookCategory
	}

	description := req.Description
	if strings.TrimSpace(description) == "" {
		description = defaultWebhookDescription
	}

	source := req.Source
	if strings.TrimSpace(source) == "" {
		source = defaultWebhookSource
	}

	return models.Transaction{
		Date:        date,
		Amount:      req.Amount,
		Type:        transactionType,
		Category:    category,
		Description: description,
		Source:      source,
	}
}

func toTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Date:        t.Date,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		Source:      t.Source,
	}
}
