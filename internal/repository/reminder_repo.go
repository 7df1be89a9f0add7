package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"observer-finance/internal/domain"
)

// ReminderRepository define el contrato de persistencia para recordatorios de pago.
type ReminderRepository interface {
	Create(ctx context.Context, reminder domain.PaymentReminder) (domain.PaymentReminder, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.PaymentReminder, error)
	GetByID(ctx context.Context, id, userID int64) (domain.PaymentReminder, error)
	Save(ctx context.Context, reminder domain.PaymentReminder) (domain.PaymentReminder, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// PgReminderRepository implementa ReminderRepository usando pgxpool.
type PgReminderRepository struct {
	pool *pgxpool.Pool
}

func NewPgReminderRepository(pool *pgxpool.Pool) *PgReminderRepository {
	return &PgReminderRepository{pool: pool}
}

func (r *PgReminderRepository) Create(ctx context.Context, reminder domain.PaymentReminder) (domain.PaymentReminder, error) {
	const query = `
		INSERT INTO payment_reminders (user_id, name, category, amount, due_date, auto_pay, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		reminder.UserID,
		reminder.Name,
		reminder.Category,
		reminder.Amount,
		reminder.DueDate,
		reminder.AutoPay,
		nullIfEmpty(reminder.Status),
	).Scan(&reminder.ID, &reminder.CreatedAt, &reminder.UpdatedAt)
	return reminder, err
}

func (r *PgReminderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.PaymentReminder, error) {
	const query = `
		SELECT id, user_id, name, category, amount, due_date, auto_pay, status, created_at, updated_at
		FROM payment_reminders
		WHERE user_id = $1
		ORDER BY due_date, id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []domain.PaymentReminder{}
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

func (r *PgReminderRepository) GetByID(ctx context.Context, id, userID int64) (domain.PaymentReminder, error) {
	const query = `
		SELECT id, user_id, name, category, amount, due_date, auto_pay, status, created_at, updated_at
		FROM payment_reminders
		WHERE id = $1 AND user_id = $2
	`
	return scanReminder(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *PgReminderRepository) Save(ctx context.Context, reminder domain.PaymentReminder) (domain.PaymentReminder, error) {
	const query = `
		UPDATE payment_reminders SET
			name = $3, category = $4, amount = $5, due_date = $6,
			auto_pay = $7, status = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Name,
		reminder.Category,
		reminder.Amount,
		reminder.DueDate,
		reminder.AutoPay,
		nullIfEmpty(reminder.Status),
	).Scan(&reminder.CreatedAt, &reminder.UpdatedAt)
	return reminder, err
}

func (r *PgReminderRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payment_reminders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanReminder(row rowScanner) (domain.PaymentReminder, error) {
	var (
		reminder domain.PaymentReminder
		status   *string
	)
	err := row.Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.Name,
		&reminder.Category,
		&reminder.Amount,
		&reminder.DueDate,
		&reminder.AutoPay,
		&status,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
	)
	if err != nil {
		return domain.PaymentReminder{}, err
	}
	if status != nil {
		reminder.Status = *status
	}
	return reminder, nil
}
