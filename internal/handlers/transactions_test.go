package handlers

import (
	"testing"
	"time"

	"example.com/finwise/backend/internal/models"
)

// TestWebhookTransactionDefaults проверяет подстановку значений по умолчанию
// для пустого payload вебхука.
func TestWebhookTransactionDefaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := webhookTransaction(WebhookRequest{}, now)

	if !got.Date.Equal(now) {
		t.Fatalf("expected fallback date %v, got %v", now, got.Date)
	}
	if got.Type != models.TransactionTypeExpense {
		t.Fatalf("expected expense fallback, got %s", got.Type)
	}
	if got.Category != defaultWebhookCategory {
		t.Fatalf("unexpected category: %s", got.Category)
	}
	if got.Description != defaultWebhookDescription {
		t.Fatalf("unexpected description: %s", got.Description)
	}
	if got.Source != defaultWebhookSource {
		t.Fatalf("unexpected source: %s", got.Source)
	}
}

// TestWebhookTransactionTimestamp проверяет разбор ISO-метки времени с Z.
func TestWebhookTransactionTimestamp(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := webhookTransaction(WebhookRequest{Timestamp: "2024-05-30T08:15:00Z", Amount: 125_000, Type: "expense", Category: "Food"}, now)

	want := time.Date(2024, 5, 30, 8, 15, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got.Date)
	}
	if got.Category != "Food" {
		t.Fatalf("unexpected category: %s", got.Category)
	}
}

// TestWebhookTransactionBadTimestamp проверяет откат к текущему времени
// при неразборчивой метке.
func TestWebhookTransactionBadTimestamp(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := webhookTransaction(WebhookRequest{Timestamp: "yesterday"}, now)
	if !got.Date.Equal(now) {
		t.Fatalf("expected fallback to now, got %v", got.Date)
	}
}

// TestWebhookTransactionUnknownType проверяет нормализацию неизвестного типа в expense.
func TestWebhookTransactionUnknownType(t *testing.T) {
	got := webhookTransaction(WebhookRequest{Type: "transfer"}, time.Now())
	if got.Type != models.TransactionTypeExpense {
		t.Fatalf("expected expense, got %s", got.Type)
	}
}
