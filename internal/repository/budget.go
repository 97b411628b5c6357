package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/finwise/backend/internal/models"
)

type BudgetRepository struct {
	db *pgxpool.Pool
}

// NewBudgetRepository создает репозиторий бюджетов.
func NewBudgetRepository(db *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// Create создает бюджет. Категория и лимит обязательны; категория
// уникальна в рамках таблицы.
func (r *BudgetRepository) Create(ctx context.Context, category string, limitAmount int64) (models.Budget, error) {
	var budget models.Budget

	if strings.TrimSpace(category) == "" || limitAmount < 0 {
		return budget, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO budgets (id, category, limit_amount, spent)
		 VALUES ($1, $2, $3, 0)
		 RETURNING id, category, limit_amount, spent, updated_at`,
		uuid.New(), category, limitAmount,
	).Scan(&budget.ID, &budget.Category, &budget.LimitAmount, &budget.Spent, &budget.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return budget, ErrConflict
		}
		return budget, err
	}

	return budget, nil
}

// UpdateLimit меняет лимит бюджета по явному действию пользователя.
// Поле spent при этом не трогается.
func (r *BudgetRepository) UpdateLimit(ctx context.Context, id uuid.UUID, limitAmount int64) (models.Budget, error) {
	var budget models.Budget

	if limitAmount < 0 {
		return budget, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`UPDATE budgets
		 SET limit_amount = $2,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, category, limit_amount, spent, updated_at`,
		id, limitAmount,
	).Scan(&budget.ID, &budget.Category, &budget.LimitAmount, &budget.Spent, &budget.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return budget, ErrNotFound
		}
		return budget, err
	}

	return budget, nil
}

// List возвращает все бюджеты.
func (r *BudgetRepository) List(ctx context.Context) ([]models.Budget, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, category, limit_amount, spent, updated_at
		 FROM budgets
		 ORDER BY category`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]models.Budget, 0)
	for rows.Next() {
		var budget models.Budget

		err := rows.Scan(&budget.ID, &budget.Category, &budget.LimitAmount, &budget.Spent, &budget.UpdatedAt)
		if err != nil {
			return nil, err
		}

		budgets = append(budgets, budget)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return budgets, nil
}

// RecomputeSpent полностью пересчитывает агрегат spent каждого бюджета по
// леджеру: сбрасывает все значения в ноль, затем проставляет суммы расходов
// по категориям. Операция идемпотентна и самовосстанавливающая: повторный
// запуск дает тот же результат и исправляет любой дрейф после прямых правок
// данных. Оба шага идут в одной транзакции БД.
func (r *BudgetRepository) RecomputeSpent(ctx context.Context) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx,
		`UPDATE budgets
		 SET spent = 0,
		     updated_at = NOW()`,
	)
	if err != nil {
		return 0, err
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE budgets b
		 SET spent = t.total_spent
		 FROM (
			SELECT category, SUM(amount) AS total_spent
			FROM transactions
			WHERE type = 'expense'
			GROUP BY category
		 ) t
		 WHERE b.category = t.category`,
	)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}
