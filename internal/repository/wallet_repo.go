package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"observer-finance/internal/domain"
)

// WalletRepository define el contrato de persistencia para billeteras.
type WalletRepository interface {
	Create(ctx context.Context, wallet domain.Wallet) (domain.Wallet, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Wallet, error)
	GetByID(ctx context.Context, id, userID int64) (domain.Wallet, error)
	Save(ctx context.Context, wallet domain.Wallet) (domain.Wallet, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// PgWalletRepository implementa WalletRepository usando pgxpool.
type PgWalletRepository struct {
	pool *pgxpool.Pool
}

func NewPgWalletRepository(pool *pgxpool.Pool) *PgWalletRepository {
	return &PgWalletRepository{pool: pool}
}

func (r *PgWalletRepository) Create(ctx context.Context, wallet domain.Wallet) (domain.Wallet, error) {
	const query = `
		INSERT INTO wallets (user_id, name, balance, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		wallet.UserID,
		wallet.Name,
		wallet.Balance,
		wallet.Currency,
	).Scan(&wallet.ID, &wallet.CreatedAt, &wallet.UpdatedAt)
	return wallet, err
}

func (r *PgWalletRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Wallet, error) {
	const query = `
		SELECT id, user_id, name, balance, currency, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := []domain.Wallet{}
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *PgWalletRepository) GetByID(ctx context.Context, id, userID int64) (domain.Wallet, error) {
	const query = `
		SELECT id, user_id, name, balance, currency, created_at, updated_at
		FROM wallets
		WHERE id = $1 AND user_id = $2
	`
	var w domain.Wallet
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&w.ID, &w.UserID, &w.Name, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

func (r *PgWalletRepository) Save(ctx context.Context, wallet domain.Wallet) (domain.Wallet, error) {
	const query = `
		UPDATE wallets SET name = $3, balance = $4, currency = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.Name,
		wallet.Balance,
		wallet.Currency,
	).Scan(&wallet.CreatedAt, &wallet.UpdatedAt)
	return wallet, err
}

func (r *PgWalletRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wallets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
