package analytics

import (
	"sort"

	"example.com/finwise/backend/internal/models"
)

const DefaultForecastMonths = 3

type CategoryForecast struct {
	Category        string `json:"category"`
	PredictedAmount int64  `json:"predicted_amount"`
	MonthsObserved  int    `json:"months_observed"`
}

// Forecast строит прогноз расходов на следующий период: расходы
// группируются по (категория, календарный месяц), и для каждой категории
// берется среднее месячных сумм. В знаменателе только месяцы с данными,
// поэтому деления на ноль не бывает: у попавшей в результат категории
// всегда хотя бы один месяц. Категории без расходов в окне опускаются.
func Forecast(transactions []models.Transaction) []CategoryForecast {
	type monthKey struct {
		category string
		month    string
	}

	monthly := make(map[monthKey]int64)
	for _, t := range transactions {
		if !t.IsExpense() {
			continue
		}

		key := monthKey{
			category: CategoryKey(t.Category),
			month:    t.Date.Format("2006-01"),
		}
		monthly[key] += t.Amount
	}

	sums := make(map[string]int64)
	months := make(map[string]int)
	for key, total := range monthly {
		sums[key.category] += total
		months[key.category]++
	}

	forecasts := make([]CategoryForecast, 0, len(sums))
	for category, total := range sums {
		observed := months[category]
		forecasts = append(forecasts, CategoryForecast{
			Category:        category,
			PredictedAmount: total / int64(observed), // целочисленное среднее, округление вниз
			MonthsObserved:  observed,
		})
	}

	sort.Slice(forecasts, func(i, j int) bool {
		return forecasts[i].Category < forecasts[j].Category
	})

	return forecasts
}
