package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/finwise/backend/internal/models"
)

func windowTx(day int, amount int64, description string) models.Transaction {
	return models.Transaction{
		ID:          uuid.New(),
		Date:        time.Date(2024, 6, day, 9, 30, 0, 0, time.UTC),
		Amount:      amount,
		Type:        models.TransactionTypeExpense,
		Category:    "Shopping",
		Description: description,
	}
}

// TestHighValueStrictThreshold проверяет строгое неравенство для порога:
// сумма ровно на пороге не помечается, порог+1 помечается.
func TestHighValueStrictThreshold(t *testing.T) {
	cfg := DetectorConfig{HighValueThreshold: 10_000_000}

	atThreshold := ScanAnomalies(cfg, []models.Transaction{windowTx(1, 10_000_000, "tv")})
	if len(atThreshold) != 0 {
		t.Fatalf("expected no anomalies at threshold, got %d", len(atThreshold))
	}

	above := ScanAnomalies(cfg, []models.Transaction{windowTx(1, 10_000_001, "tv")})
	if len(above) != 1 {
		t.Fatalf("expected 1 anomaly above threshold, got %d", len(above))
	}
	if above[0].Kind != AnomalyKindHighValue {
		t.Fatalf("expected HIGH_VALUE, got %s", above[0].Kind)
	}
	if above[0].Severity != AnomalySeverityCritical {
		t.Fatalf("expected critical severity, got %s", above[0].Severity)
	}
}

// TestDuplicateFlagsLaterMembers проверяет политику "first-seen не помечается":
// из трех одинаковых транзакций за день аномалиями становятся две,
// отличающаяся описанием не дает ни одной.
func TestDuplicateFlagsLaterMembers(t *testing.T) {
	transactions := []models.Transaction{
		windowTx(5, 150_000, "coffee"),
		windowTx(5, 150_000, "coffee"),
		windowTx(5, 150_000, "coffee"),
		windowTx(5, 150_000, "lunch"),
	}

	anomalies := ScanAnomalies(DetectorConfig{}, transactions)

	duplicates := 0
	for _, a := range anomalies {
		if a.Kind == AnomalyKindDuplicate {
			duplicates++
		}
	}

	if duplicates != 2 {
		t.Fatalf("expected 2 duplicate anomalies, got %d", duplicates)
	}
}

// TestDuplicateDifferentDays проверяет, что одинаковые транзакции в разные
// дни не считаются дублями.
func TestDuplicateDifferentDays(t *testing.T) {
	transactions := []models.Transaction{
		windowTx(5, 150_000, "coffee"),
		windowTx(6, 150_000, "coffee"),
	}

	anomalies := ScanAnomalies(DetectorConfig{}, transactions)
	if len(anomalies) != 0 {
		t.Fatalf("expected no anomalies, got %d", len(anomalies))
	}
}

// TestDuplicateFlagFirstPolicy проверяет включение политики пометки
// и первой транзакции группы.
func TestDuplicateFlagFirstPolicy(t *testing.T) {
	transactions := []models.Transaction{
		windowTx(5, 150_000, "coffee"),
		windowTx(5, 150_000, "coffee"),
		windowTx(5, 150_000, "coffee"),
	}

	anomalies := ScanAnomalies(DetectorConfig{FlagFirstDuplicate: true}, transactions)
	if len(anomalies) != 3 {
		t.Fatalf("expected 3 duplicate anomalies with flag-first policy, got %d", len(anomalies))
	}
}

// TestAnomalyOrdering проверяет порядок выдачи: сначала крупные транзакции,
// затем дубли.
func TestAnomalyOrdering(t *testing.T) {
	transactions := []models.Transaction{
		windowTx(5, 150_000, "coffee"),
		windowTx(5, 12_000_000, "rent"),
		windowTx(5, 150_000, "coffee"),
	}

	anomalies := ScanAnomalies(DetectorConfig{HighValueThreshold: 10_000_000}, transactions)
	if len(anomalies) != 2 {
		t.Fatalf("expected 2 anomalies, got %d", len(anomalies))
	}
	if anomalies[0].Kind != AnomalyKindHighValue {
		t.Fatalf("expected HIGH_VALUE first, got %s", anomalies[0].Kind)
	}
	if anomalies[1].Kind != AnomalyKindDuplicate {
		t.Fatalf("expected DUPLICATE second, got %s", anomalies[1].Kind)
	}
}

// TestFormatAmount проверяет формат суммы с разделителями разрядов.
func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(10_000_000); got != "10,000,000" {
		t.Fatalf("expected 10,000,000, got %s", got)
	}
}
