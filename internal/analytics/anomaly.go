package analytics

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"example.com/finwise/backend/internal/models"
)

type AnomalyKind string

type AnomalySeverity string

const (
	AnomalyKindHighValue AnomalyKind = "HIGH_VALUE"
	AnomalyKindDuplicate AnomalyKind = "DUPLICATE"

	AnomalySeverityCritical AnomalySeverity = "critical"
	AnomalySeverityWarning  AnomalySeverity = "warning"
)

const (
	DefaultAnomalyWindow      = 24 * time.Hour
	DefaultHighValueThreshold = int64(10_000_000)
)

// DetectorConfig задает параметры сканера аномалий. Окно выборки
// применяется на уровне чтения леджера, сканер видит уже срезанный список.
type DetectorConfig struct {
	HighValueThreshold int64
	// FlagFirstDuplicate включает пометку и первой транзакции группы
	// дублей, а не только последующих.
	FlagFirstDuplicate bool
}

type Anomaly struct {
	Kind        AnomalyKind        `json:"kind"`
	Severity    AnomalySeverity    `json:"severity"`
	Message     string             `json:"message"`
	Transaction models.Transaction `json:"transaction"`
}

// duplicateKey задает сигнатуру для поиска дублей: календарный день,
// сумма и описание.
type duplicateKey struct {
	day         string
	amount      int64
	description string
}

var amountPrinter = message.NewPrinter(language.English)

// ScanAnomalies ищет аномалии в переданном окне транзакций: сначала все
// крупные транзакции, затем подозрения на дубли, каждая группа в порядке
// выдачи леджера. Функция чистая: ничего не пишет и не хранит, результат
// пересчитывается при каждом вызове.
func ScanAnomalies(cfg DetectorConfig, transactions []models.Transaction) []Anomaly {
	threshold := cfg.HighValueThreshold
	if threshold <= 0 {
		threshold = DefaultHighValueThreshold
	}

	anomalies := make([]Anomaly, 0)

	for _, t := range transactions {
		// Строго больше порога: транзакция ровно на пороге не аномальна.
		if t.Amount > threshold {
			anomalies = append(anomalies, Anomaly{
				Kind:        AnomalyKindHighValue,
				Severity:    AnomalySeverityCritical,
				Message:     fmt.Sprintf("Large transaction: %s (%s), %s", t.Description, t.Category, FormatAmount(t.Amount)),
				Transaction: t,
			})
		}
	}

	seen := make(map[duplicateKey]models.Transaction)
	flaggedFirst := make(map[duplicateKey]bool)

	for _, t := range transactions {
		key := duplicateKey{
			day:         t.Date.Format("2006-01-02"),
			amount:      t.Amount,
			description: t.Description,
		}

		first, ok := seen[key]
		if !ok {
			// Первая транзакция задает сигнатуру группы и сама
			// по умолчанию не помечается.
			seen[key] = t
			continue
		}

		if cfg.FlagFirstDuplicate && !flaggedFirst[key] {
			flaggedFirst[key] = true
			anomalies = append(anomalies, duplicateAnomaly(first))
		}

		anomalies = append(anomalies, duplicateAnomaly(t))
	}

	return anomalies
}

func duplicateAnomaly(t models.Transaction) Anomaly {
	return Anomaly{
		Kind:        AnomalyKindDuplicate,
		Severity:    AnomalySeverityWarning,
		Message:     fmt.Sprintf("Possible duplicate: %s on %s, %s", t.Description, t.Date.Format("2006-01-02"), FormatAmount(t.Amount)),
		Transaction: t,
	}
}

// FormatAmount выводит сумму в минорных единицах с разделителями разрядов.
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d", amount)
}
