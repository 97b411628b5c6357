package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/finwise/backend/internal/models"
)

func expense(amount int64, category string) models.Transaction {
	return models.Transaction{
		ID:       uuid.New(),
		Date:     time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
		Amount:   amount,
		Type:     models.TransactionTypeExpense,
		Category: category,
	}
}

// TestAggregationEquivalence проверяет, что инкрементальный агрегат после
// последовательности вставок совпадает с полным пересчетом по леджеру.
func TestAggregationEquivalence(t *testing.T) {
	ledger := []models.Transaction{
		expense(100_000, "Groceries"),
		expense(250_000, "Transport"),
		{ID: uuid.New(), Amount: 5_000_000, Type: models.TransactionTypeIncome, Category: "Groceries"},
		expense(75_000, "Groceries"),
		expense(40_000, "Entertainment"),
		expense(60_000, "Transport"),
	}

	incremental := make(map[string]int64)
	for _, tx := range ledger {
		ApplyExpense(incremental, tx)
	}

	recomputed := SpentByCategory(ledger)

	if len(incremental) != len(recomputed) {
		t.Fatalf("expected %d categories, got %d", len(recomputed), len(incremental))
	}

	for category, want := range recomputed {
		if got := incremental[category]; got != want {
			t.Fatalf("category %s: incremental %d, recomputed %d", category, got, want)
		}
	}

	if recomputed["Groceries"] != 175_000 {
		t.Fatalf("expected Groceries total 175000, got %d", recomputed["Groceries"])
	}
}

// TestSpentByCategoryIgnoresIncome проверяет, что доходы не попадают в агрегат.
func TestSpentByCategoryIgnoresIncome(t *testing.T) {
	ledger := []models.Transaction{
		{ID: uuid.New(), Amount: 1_000_000, Type: models.TransactionTypeIncome, Category: "Salary"},
	}

	totals := SpentByCategory(ledger)
	if len(totals) != 0 {
		t.Fatalf("expected empty totals, got %v", totals)
	}
}

// TestCategoryKeyExactMatch проверяет, что ключ категории не нормализуется.
func TestCategoryKeyExactMatch(t *testing.T) {
	if CategoryKey("Groceries") == CategoryKey("groceries") {
		t.Fatal("expected case-sensitive category keys")
	}

	if CategoryKey("Groceries ") == CategoryKey("Groceries") {
		t.Fatal("expected whitespace-sensitive category keys")
	}
}

// TestRecomputeIdempotent проверяет, что повторный пересчет дает тот же результат.
func TestRecomputeIdempotent(t *testing.T) {
	ledger := []models.Transaction{
		expense(100, "A"),
		expense(200, "B"),
	}

	first := SpentByCategory(ledger)
	second := SpentByCategory(ledger)

	for category, want := range first {
		if second[category] != want {
			t.Fatalf("category %s: %d != %d", category, second[category], want)
		}
	}
}
