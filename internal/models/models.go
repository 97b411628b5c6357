package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

type BillStatus string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"

	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
	BillStatusOverdue BillStatus = "overdue"
)

// Transaction описывает запись в леджере. После создания не изменяется и не удаляется.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Source      string          `json:"source"`
}

// Budget хранит лимит по категории; spent держится как производное значение,
// которое меняет только агрегатор.
type Budget struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	LimitAmount int64     `json:"limit_amount"`
	Spent       int64     `json:"spent"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Bill struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Amount      int64      `json:"amount"`
	DueDate     time.Time  `json:"due_date"`
	Status      BillStatus `json:"status"`
	IsRecurring bool       `json:"is_recurring"`
}

// IsExpense сообщает, участвует ли транзакция в агрегации расходов.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}
