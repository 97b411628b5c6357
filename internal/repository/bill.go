package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/finwise/backend/internal/models"
)

// Категория и источник расходной транзакции, которую порождает оплата счета.
const (
	BillPaymentCategory = "Bill Payment"
	BillPaymentSource   = "Bank"
)

type BillRepository struct {
	db *pgxpool.Pool
}

// NewBillRepository создает репозиторий счетов.
func NewBillRepository(db *pgxpool.Pool) *BillRepository {
	return &BillRepository{db: db}
}

// Create создает счет со статусом pending.
func (r *BillRepository) Create(ctx context.Context, name string, amount int64, dueDate time.Time, isRecurring bool) (models.Bill, error) {
	var bill models.Bill

	if strings.TrimSpace(name) == "" || amount < 0 {
		return bill, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO bills (id, name, amount, due_date, status, is_recurring)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, name, amount, due_date, status, is_recurring`,
		uuid.New(), name, amount, dueDate, models.BillStatusPending, isRecurring,
	).Scan(&bill.ID, &bill.Name, &bill.Amount, &bill.DueDate, &bill.Status, &bill.IsRecurring)
	if err != nil {
		return bill, err
	}

	return bill, nil
}

// List возвращает счета; при unpaidOnly только pending и overdue.
func (r *BillRepository) List(ctx context.Context, unpaidOnly bool) ([]models.Bill, error) {
	query := `SELECT id, name, amount, due_date, status, is_recurring
		 FROM bills
		 ORDER BY due_date, name`
	if unpaidOnly {
		query = `SELECT id, name, amount, due_date, status, is_recurring
		 FROM bills
		 WHERE status IN ('pending', 'overdue')
		 ORDER BY due_date, name`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := make([]models.Bill, 0)
	for rows.Next() {
		var bill models.Bill

		err := rows.Scan(&bill.ID, &bill.Name, &bill.Amount, &bill.DueDate, &bill.Status, &bill.IsRecurring)
		if err != nil {
			return nil, err
		}

		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bills, nil
}

// Pay проводит оплату счета: переводит pending/overdue в paid и добавляет
// в леджер одну расходную транзакцию на сумму счета, включая инкрементальное
// обновление агрегата spent. Смена статуса и вставка транзакции фиксируются
// вместе; при любой ошибке не применяется ничего. Повторная оплата дает
// ErrAlreadyPaid без изменения состояния.
func (r *BillRepository) Pay(ctx context.Context, billID uuid.UUID) (uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var bill models.Bill
	err = tx.QueryRow(ctx,
		`SELECT id, name, amount, due_date, status, is_recurring
		 FROM bills
		 WHERE id = $1
		 FOR UPDATE`,
		billID,
	).Scan(&bill.ID, &bill.Name, &bill.Amount, &bill.DueDate, &bill.Status, &bill.IsRecurring)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}

	if bill.Status == models.BillStatusPaid {
		return uuid.Nil, ErrAlreadyPaid
	}

	_, err = tx.Exec(ctx,
		`UPDATE bills
		 SET status = $2
		 WHERE id = $1`,
		bill.ID, models.BillStatusPaid,
	)
	if err != nil {
		return uuid.Nil, err
	}

	paymentID := uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (id, date, amount, type, category, description, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		paymentID, time.Now().UTC(), bill.Amount, models.TransactionTypeExpense,
		BillPaymentCategory, fmt.Sprintf("Bill payment: %s", bill.Name), BillPaymentSource,
	)
	if err != nil {
		return uuid.Nil, err
	}

	// Платеж записывается обычной расходной вставкой, поэтому агрегат обновляется
	// тем же инкрементальным путем.
	_, err = tx.Exec(ctx,
		`UPDATE budgets
		 SET spent = spent + $1,
		     updated_at = NOW()
		 WHERE category = $2`,
		bill.Amount, BillPaymentCategory,
	)
	if err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, err
	}

	return paymentID, nil
}
