package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/finwise/backend/internal/models"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

// NewTransactionRepository создает репозиторий транзакций.
func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create добавляет транзакцию в леджер и инкрементально обновляет агрегат
// spent всех бюджетов с той же категорией. Вставка и обновление агрегата
// выполняются в одной транзакции БД: не существует окна, в котором
// транзакция уже записана, а агрегат еще не обновлен. Если ни один бюджет
// не совпал по категории, обновление проходит как no-op.
func (r *TransactionRepository) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if err := validateTransaction(t); err != nil {
		return models.Transaction{}, err
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var created models.Transaction
	err = tx.QueryRow(ctx,
		`INSERT INTO transactions (id, date, amount, type, category, description, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, date, amount, type, category, description, source`,
		t.ID, t.Date, t.Amount, t.Type, t.Category, t.Description, t.Source,
	).Scan(&created.ID, &created.Date, &created.Amount, &created.Type, &created.Category, &created.Description, &created.Source)
	if err != nil {
		return models.Transaction{}, err
	}

	if created.IsExpense() {
		_, err = tx.Exec(ctx,
			`UPDATE budgets
			 SET spent = spent + $1,
			     updated_at = NOW()
			 WHERE category = $2`,
			created.Amount, created.Category,
		)
		if err != nil {
			return models.Transaction{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Transaction{}, err
	}

	return created, nil
}

// List возвращает леджер в порядке убывания даты.
func (r *TransactionRepository) List(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, date, amount, type, category, description, source
		 FROM transactions
		 ORDER BY date DESC, id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListAll возвращает весь леджер без среза по количеству строк. На нем
// работает полная CSV-выгрузка.
func (r *TransactionRepository) ListAll(ctx context.Context) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, date, amount, type, category, description, source
		 FROM transactions
		 ORDER BY date DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListSince возвращает окно леджера от заданного момента в естественном
// порядке запроса (по возрастанию даты). На этом окне работают детектор
// аномалий и прогноз.
func (r *TransactionRepository) ListSince(ctx context.Context, since time.Time) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, date, amount, type, category, description, source
		 FROM transactions
		 WHERE date >= $1
		 ORDER BY date, id`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction

		err := rows.Scan(&t.ID, &t.Date, &t.Amount, &t.Type, &t.Category, &t.Description, &t.Source)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

func validateTransaction(t models.Transaction) error {
	if t.Amount < 0 {
		return ErrInvalid
	}

	if t.Type != models.TransactionTypeExpense && t.Type != models.TransactionTypeIncome {
		return ErrInvalid
	}

	if strings.TrimSpace(t.Category) == "" {
		return ErrInvalid
	}

	return nil
}
