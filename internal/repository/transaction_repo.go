package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"observer-finance/internal/domain"
)

// TransactionRepository define el contrato de persistencia para movimientos.
type TransactionRepository interface {
	Create(ctx context.Context, trx domain.Transaction) (domain.Transaction, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error)
	ListByType(ctx context.Context, userID int64, trxType domain.TransactionType) ([]domain.Transaction, error)
	ListByCategory(ctx context.Context, userID int64, category string) ([]domain.Transaction, error)
	TotalByType(ctx context.Context, userID int64, trxType domain.TransactionType) (float64, error)
	GetByID(ctx context.Context, id, userID int64) (domain.Transaction, error)
	Save(ctx context.Context, trx domain.Transaction) (domain.Transaction, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// PgTransactionRepository implementa TransactionRepository usando pgxpool.
type PgTransactionRepository struct {
	pool *pgxpool.Pool
}

func NewPgTransactionRepository(pool *pgxpool.Pool) *PgTransactionRepository {
	return &PgTransactionRepository{pool: pool}
}

const transactionColumns = `
	id, user_id, merchant, category, type, status, amount, date, description,
	created_at, updated_at
`

func (r *PgTransactionRepository) Create(ctx context.Context, trx domain.Transaction) (domain.Transaction, error) {
	const query = `
		INSERT INTO transactions (user_id, merchant, category, type, status, amount, date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		trx.UserID,
		trx.Merchant,
		trx.Category,
		trx.Type,
		trx.Status,
		trx.Amount,
		trx.Date,
		nullIfEmpty(trx.Description),
	).Scan(&trx.ID, &trx.CreatedAt, &trx.UpdatedAt)
	return trx, err
}

func (r *PgTransactionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	const query = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
	`
	return r.list(ctx, query, userID)
}

func (r *PgTransactionRepository) ListByType(ctx context.Context, userID int64, trxType domain.TransactionType) ([]domain.Transaction, error) {
	const query = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND type = $2
		ORDER BY date DESC, id DESC
	`
	return r.list(ctx, query, userID, trxType)
}

func (r *PgTransactionRepository) ListByCategory(ctx context.Context, userID int64, category string) ([]domain.Transaction, error) {
	const query = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND category = $2
		ORDER BY date DESC, id DESC
	`
	return r.list(ctx, query, userID, category)
}

func (r *PgTransactionRepository) TotalByType(ctx context.Context, userID int64, trxType domain.TransactionType) (float64, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND type = $2`
	var total float64
	err := r.pool.QueryRow(ctx, query, userID, trxType).Scan(&total)
	return total, err
}

func (r *PgTransactionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		trx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, trx)
	}
	return transactions, rows.Err()
}

func (r *PgTransactionRepository) GetByID(ctx context.Context, id, userID int64) (domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	return scanTransaction(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *PgTransactionRepository) Save(ctx context.Context, trx domain.Transaction) (domain.Transaction, error) {
	const query = `
		UPDATE transactions SET
			merchant = $3, category = $4, type = $5, status = $6,
			amount = $7, date = $8, description = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		trx.ID,
		trx.UserID,
		trx.Merchant,
		trx.Category,
		trx.Type,
		trx.Status,
		trx.Amount,
		trx.Date,
		nullIfEmpty(trx.Description),
	).Scan(&trx.CreatedAt, &trx.UpdatedAt)
	return trx, err
}

func (r *PgTransactionRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		trx         domain.Transaction
		description *string
	)
	err := row.Scan(
		&trx.ID,
		&trx.UserID,
		&trx.Merchant,
		&trx.Category,
		&trx.Type,
		&trx.Status,
		&trx.Amount,
		&trx.Date,
		&description,
		&trx.CreatedAt,
		&trx.UpdatedAt,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	if description != nil {
		trx.Description = *description
	}
	return trx, nil
}
