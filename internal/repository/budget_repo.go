package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"observer-finance/internal/domain"
)

// BudgetRepository define el contrato de persistencia para presupuestos.
type BudgetRepository interface {
	Create(ctx context.Context, budget domain.Budget) (domain.Budget, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Budget, error)
	GetByID(ctx context.Context, id, userID int64) (domain.Budget, error)
	Save(ctx context.Context, budget domain.Budget) (domain.Budget, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// PgBudgetRepository implementa BudgetRepository usando pgxpool.
type PgBudgetRepository struct {
	pool *pgxpool.Pool
}

func NewPgBudgetRepository(pool *pgxpool.Pool) *PgBudgetRepository {
	return &PgBudgetRepository{pool: pool}
}

func (r *PgBudgetRepository) Create(ctx context.Context, budget domain.Budget) (domain.Budget, error) {
	const query = `
		INSERT INTO budgets (user_id, label, category, spending_limit, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		budget.UserID,
		budget.Label,
		budget.Category,
		budget.Limit,
		nullIfEmpty(budget.Description),
	).Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	return budget, err
}

func (r *PgBudgetRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Budget, error) {
	const query = `
		SELECT id, user_id, label, category, spending_limit, description, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

func (r *PgBudgetRepository) GetByID(ctx context.Context, id, userID int64) (domain.Budget, error) {
	const query = `
		SELECT id, user_id, label, category, spending_limit, description, created_at, updated_at
		FROM budgets
		WHERE id = $1 AND user_id = $2
	`
	return scanBudget(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *PgBudgetRepository) Save(ctx context.Context, budget domain.Budget) (domain.Budget, error) {
	const query = `
		UPDATE budgets SET label = $3, category = $4, spending_limit = $5, description = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		budget.ID,
		budget.UserID,
		budget.Label,
		budget.Category,
		budget.Limit,
		nullIfEmpty(budget.Description),
	).Scan(&budget.CreatedAt, &budget.UpdatedAt)
	return budget, err
}

func (r *PgBudgetRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanBudget(row rowScanner) (domain.Budget, error) {
	var (
		budget      domain.Budget
		description *string
	)
	err := row.Scan(
		&budget.ID,
		&budget.UserID,
		&budget.Label,
		&budget.Category,
		&budget.Limit,
		&description,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		return domain.Budget{}, err
	}
	if description != nil {
		budget.Description = *description
	}
	return budget, nil
}
