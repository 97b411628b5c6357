package analytics

import (
	"fmt"
	"time"

	"example.com/finwise/backend/internal/models"
)

type RiskKind string

type RiskLevel string

const (
	RiskKindBudgetRisk     RiskKind = "BUDGET_RISK"
	RiskKindBudgetOverflow RiskKind = "BUDGET_OVERFLOW"
	RiskKindBillPressure   RiskKind = "BILL_PRESSURE"

	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

const (
	DefaultEarlyWarnUsage        = 0.80
	DefaultEarlyWarnDay          = 20
	DefaultBillPressureThreshold = int64(2_000_000)
)

// RiskConfig задает пороги оценки рисков.
type RiskConfig struct {
	EarlyWarnUsage        float64
	EarlyWarnDay          int
	BillPressureThreshold int64
}

type RiskSignal struct {
	Kind           RiskKind  `json:"kind"`
	Level          RiskLevel `json:"level"`
	Message        string    `json:"message"`
	Category       string    `json:"category,omitempty"`
	Usage          float64   `json:"usage,omitempty"`
	OverflowAmount int64     `json:"overflow_amount,omitempty"`
	UnpaidCount    int       `json:"unpaid_count,omitempty"`
	UnpaidTotal    int64     `json:"unpaid_total,omitempty"`
}

// AssessRisk объединяет два независимых семейства сигналов: риски по
// бюджетам, затем давление неоплаченных счетов. Бюджеты с нулевым
// лимитом не дают сигнала вовсе, guard заодно исключает деление на ноль.
func AssessRisk(cfg RiskConfig, budgets []models.Budget, bills []models.Bill, now time.Time) []RiskSignal {
	earlyUsage := cfg.EarlyWarnUsage
	if earlyUsage <= 0 {
		earlyUsage = DefaultEarlyWarnUsage
	}

	earlyDay := cfg.EarlyWarnDay
	if earlyDay <= 0 {
		earlyDay = DefaultEarlyWarnDay
	}

	pressureThreshold := cfg.BillPressureThreshold
	if pressureThreshold <= 0 {
		pressureThreshold = DefaultBillPressureThreshold
	}

	signals := make([]RiskSignal, 0)

	for _, budget := range budgets {
		if budget.LimitAmount <= 0 {
			continue
		}

		usage := float64(budget.Spent) / float64(budget.LimitAmount)

		// Ранний перерасход проверяется первым и перекрывает overflow:
		// бюджет, который до 20 числа и выше 80%, и выше 100%,
		// отчитывается только как BUDGET_RISK.
		switch {
		case usage > earlyUsage && now.Day() < earlyDay:
			signals = append(signals, RiskSignal{
				Kind:     RiskKindBudgetRisk,
				Level:    RiskLevelHigh,
				Message:  fmt.Sprintf("Budget %q is at %.0f%% before day %d of the month", budget.Category, usage*100, earlyDay),
				Category: budget.Category,
				Usage:    usage,
			})
		case usage > 1.0:
			signals = append(signals, RiskSignal{
				Kind:           RiskKindBudgetOverflow,
				Level:          RiskLevelCritical,
				Message:        fmt.Sprintf("Budget %q exceeded by %s", budget.Category, FormatAmount(budget.Spent-budget.LimitAmount)),
				Category:       budget.Category,
				Usage:          usage,
				OverflowAmount: budget.Spent - budget.LimitAmount,
			})
		}
	}

	var unpaidCount int
	var unpaidTotal int64
	for _, bill := range bills {
		if bill.Status == models.BillStatusPending || bill.Status == models.BillStatusOverdue {
			unpaidCount++
			unpaidTotal += bill.Amount
		}
	}

	if unpaidTotal > 0 {
		level := RiskLevelMedium
		if unpaidTotal >= pressureThreshold {
			level = RiskLevelHigh
		}

		signals = append(signals, RiskSignal{
			Kind:        RiskKindBillPressure,
			Level:       level,
			Message:     fmt.Sprintf("%d unpaid bills totalling %s", unpaidCount, FormatAmount(unpaidTotal)),
			UnpaidCount: unpaidCount,
			UnpaidTotal: unpaidTotal,
		})
	}

	return signals
}
