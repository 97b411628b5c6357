package analytics

import "example.com/finwise/backend/internal/models"

// CategoryKey возвращает ключ категории для агрегации.
// Сопоставление категорий делается строгим строковым равенством, без нормализации
// регистра и пробелов: бюджет и транзакция "делят" категорию только при
// точном совпадении. Любое изменение этого правила должно проходить
// через эту функцию.
func CategoryKey(category string) string {
	return category
}

// SpentByCategory считает суммы расходов по категориям за один проход
// по леджеру. Это эталонная (recompute) реализация агрегата spent:
// инкрементальный путь обязан давать тот же результат на том же
// состоянии леджера.
func SpentByCategory(transactions []models.Transaction) map[string]int64 {
	totals := make(map[string]int64)
	for _, t := range transactions {
		if !t.IsExpense() {
			continue
		}
		totals[CategoryKey(t.Category)] += t.Amount
	}

	return totals
}

// ApplyExpense выполняет инкрементальный шаг агрегатора: добавляет сумму
// расходной транзакции к агрегату её категории. Для доходных
// транзакций ничего не делает.
func ApplyExpense(totals map[string]int64, t models.Transaction) {
	if !t.IsExpense() {
		return
	}

	totals[CategoryKey(t.Category)] += t.Amount
}
