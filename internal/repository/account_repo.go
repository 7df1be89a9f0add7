package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"observer-finance/internal/domain"
)

// AccountRepository define el contrato de persistencia para cuentas.
// Las ausencias se senalan con pgx.ErrNoRows.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByResetDigest(ctx context.Context, digest string) (domain.Account, error)
	Save(ctx context.Context, account domain.Account) (domain.Account, error)
	Delete(ctx context.Context, id int64) error
}

// PgAccountRepository implementa AccountRepository usando pgxpool.
type PgAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPgAccountRepository(pool *pgxpool.Pool) *PgAccountRepository {
	return &PgAccountRepository{pool: pool}
}

const accountColumns = `
	id, email, password_hash, first_name, last_name, is_email_verified,
	email_verification_digest, email_verification_expires_at,
	password_reset_digest, password_reset_expires_at,
	created_at, updated_at
`

func (r *PgAccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
		INSERT INTO users (
			email, password_hash, first_name, last_name, is_email_verified,
			email_verification_digest, email_verification_expires_at,
			password_reset_digest, password_reset_expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.EmailVerified,
		nullIfEmpty(account.VerificationDigest),
		account.VerificationExpiresAt,
		nullIfEmpty(account.ResetDigest),
		account.ResetExpiresAt,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	return account, err
}

func (r *PgAccountRepository) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE id = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *PgAccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE email = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *PgAccountRepository) GetByResetDigest(ctx context.Context, digest string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE password_reset_digest = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, digest))
}

func (r *PgAccountRepository) Save(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
		UPDATE users SET
			email = $2,
			password_hash = $3,
			first_name = $4,
			last_name = $5,
			is_email_verified = $6,
			email_verification_digest = $7,
			email_verification_expires_at = $8,
			password_reset_digest = $9,
			password_reset_expires_at = $10,
			updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.EmailVerified,
		nullIfEmpty(account.VerificationDigest),
		account.VerificationExpiresAt,
		nullIfEmpty(account.ResetDigest),
		account.ResetExpiresAt,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	return account, err
}

func (r *PgAccountRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgAccountRepository) scanAccount(row rowScanner) (domain.Account, error) {
	var (
		a                  domain.Account
		verificationDigest *string
		resetDigest        *string
		verificationExpiry *time.Time
		resetExpiry        *time.Time
	)
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.FirstName,
		&a.LastName,
		&a.EmailVerified,
		&verificationDigest,
		&verificationExpiry,
		&resetDigest,
		&resetExpiry,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if verificationDigest != nil {
		a.VerificationDigest = *verificationDigest
	}
	a.VerificationExpiresAt = verificationExpiry
	if resetDigest != nil {
		a.ResetDigest = *resetDigest
	}
	a.ResetExpiresAt = resetExpiry
	return a, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
