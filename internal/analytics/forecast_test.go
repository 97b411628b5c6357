package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/finwise/backend/internal/models"
)

func monthlyExpense(month time.Month, amount int64, category string) models.Transaction {
	return models.Transaction{
		ID:       uuid.New(),
		Date:     time.Date(2024, month, 12, 10, 0, 0, 0, time.UTC),
		Amount:   amount,
		Type:     models.TransactionTypeExpense,
		Category: category,
	}
}

// TestForecastMovingAverage проверяет среднее по месяцам с данными:
// суммы 100/200/300 за три месяца дают прогноз 200.
func TestForecastMovingAverage(t *testing.T) {
	transactions := []models.Transaction{
		monthlyExpense(time.March, 100, "Food"),
		monthlyExpense(time.April, 200, "Food"),
		monthlyExpense(time.May, 300, "Food"),
	}

	forecasts := Forecast(transactions)
	if len(forecasts) != 1 {
		t.Fatalf("expected 1 forecast, got %d", len(forecasts))
	}

	f := forecasts[0]
	if f.Category != "Food" {
		t.Fatalf("unexpected category: %s", f.Category)
	}
	if f.PredictedAmount != 200 {
		t.Fatalf("expected predicted amount 200, got %d", f.PredictedAmount)
	}
	if f.MonthsObserved != 3 {
		t.Fatalf("expected 3 months observed, got %d", f.MonthsObserved)
	}
}

// TestForecastMonthsWithDataOnly проверяет, что пустые месяцы не считаются
// нулями в знаменателе.
func TestForecastMonthsWithDataOnly(t *testing.T) {
	transactions := []models.Transaction{
		monthlyExpense(time.January, 300, "Transport"),
		monthlyExpense(time.May, 100, "Transport"),
	}

	forecasts := Forecast(transactions)
	if len(forecasts) != 1 {
		t.Fatalf("expected 1 forecast, got %d", len(forecasts))
	}
	if forecasts[0].PredictedAmount != 200 {
		t.Fatalf("expected mean over 2 months with data, got %d", forecasts[0].PredictedAmount)
	}
	if forecasts[0].MonthsObserved != 2 {
		t.Fatalf("expected 2 months observed, got %d", forecasts[0].MonthsObserved)
	}
}

// TestForecastOmitsInactiveCategories проверяет, что категории без расходов
// не попадают в результат даже с нулевым прогнозом.
func TestForecastOmitsInactiveCategories(t *testing.T) {
	transactions := []models.Transaction{
		monthlyExpense(time.May, 500, "Food"),
		{ID: uuid.New(), Date: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), Amount: 900, Type: models.TransactionTypeIncome, Category: "Salary"},
	}

	forecasts := Forecast(transactions)
	if len(forecasts) != 1 {
		t.Fatalf("expected 1 forecast, got %d", len(forecasts))
	}
	if forecasts[0].Category != "Food" {
		t.Fatalf("expected only Food, got %s", forecasts[0].Category)
	}
}

// TestForecastRoundsDown проверяет округление среднего вниз.
func TestForecastRoundsDown(t *testing.T) {
	transactions := []models.Transaction{
		monthlyExpense(time.March, 100, "Food"),
		monthlyExpense(time.April, 101, "Food"),
	}

	forecasts := Forecast(transactions)
	if forecasts[0].PredictedAmount != 100 {
		t.Fatalf("expected floor mean 100, got %d", forecasts[0].PredictedAmount)
	}
}

// TestForecastSortedByCategory проверяет стабильный порядок результата.
func TestForecastSortedByCategory(t *testing.T) {
	transactions := []models.Transaction{
		monthlyExpense(time.May, 100, "Transport"),
		monthlyExpense(time.May, 100, "Food"),
	}

	forecasts := Forecast(transactions)
	if len(forecasts) != 2 || forecasts[0].Category != "Food" || forecasts[1].Category != "Transport" {
		t.Fatalf("expected categories sorted, got %v", forecasts)
	}
}
