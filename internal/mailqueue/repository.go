package mailqueue

import (
	"context"
	"database/sql"
	"time"

	"velvetvogue-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	FindPending(ctx context.Context, recipient, emailType string, orderID *uint) (*FailedEmail, error)
	Insert(ctx context.Context, e *FailedEmail) error
	UpdateRetry(ctx context.Context, id uint, attempts int, errMsg string, nextAttempt time.Time) error
	DueEntries(ctx context.Context, now time.Time, leaseCutoff time.Time) ([]FailedEmail, error)
	ClaimSending(ctx context.Context, id uint, now time.Time, leaseCutoff time.Time) (bool, error)
	Delete(ctx context.Context, id uint) error
	Reschedule(ctx context.Context, id uint, errMsg string, nextAttempt time.Time) error
	MarkFailed(ctx context.Context, id uint, errMsg string) error
	Stats(ctx context.Context) (*QueueStats, error)
	List(ctx context.Context, limit int) ([]FailedEmail, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const failedEmailColumns = `
	id, email_type, recipient, subject, html_content, order_id,
	attempts, max_attempts, last_attempt, next_attempt,
	COALESCE(error_message, ''), status, created_at
`

func scanFailedEmail(row interface{ Scan(...any) error }) (*FailedEmail, error) {
	var e FailedEmail
	err := row.Scan(
		&e.ID, &e.EmailType, &e.Recipient, &e.Subject, &e.HTMLContent, &e.OrderID,
		&e.Attempts, &e.MaxAttempts, &e.LastAttempt, &e.NextAttempt,
		&e.ErrorMessage, &e.Status, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindPending looks up the dedupe target: a still-pending entry for the same
// recipient, type and order. Returns nil when there is none.
func (r *repository) FindPending(ctx context.Context, recipient, emailType string, orderID *uint) (*FailedEmail, error) {
	query := `
		SELECT ` + failedEmailColumns + `
		FROM failed_emails
		WHERE recipient = $1 AND email_type = $2 AND status = 'pending'
	`
	args := []any{recipient, emailType}
	if orderID != nil {
		query += ` AND order_id = $3`
		args = append(args, *orderID)
	} else {
		query += ` AND order_id IS NULL`
	}
	query += ` LIMIT 1`

	e, err := scanFailedEmail(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) Insert(ctx context.Context, e *FailedEmail) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO failed_emails (
			email_type, recipient, subject, html_content, order_id,
			attempts, max_attempts, last_attempt, next_attempt,
			error_message, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at
	`,
		e.EmailType, e.Recipient, e.Subject, e.HTMLContent, e.OrderID,
		e.Attempts, e.MaxAttempts, e.LastAttempt, e.NextAttempt,
		e.ErrorMessage, e.Status,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *repository) UpdateRetry(ctx context.Context, id uint, attempts int, errMsg string, nextAttempt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE failed_emails
		SET attempts = $2, last_attempt = NOW(), error_message = $3, next_attempt = $4
		WHERE id = $1
	`, id, attempts, errMsg, nextAttempt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DueEntries selects everything eligible for this sweep: pending entries
// whose next_attempt has arrived and still have attempts left, plus entries
// stuck in "sending" past the lease cutoff (crashed mid-attempt).
func (r *repository) DueEntries(ctx context.Context, now time.Time, leaseCutoff time.Time) ([]FailedEmail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+failedEmailColumns+`
		FROM failed_emails
		WHERE (status = 'pending' AND attempts < max_attempts AND next_attempt <= $1)
		   OR (status = 'sending' AND last_attempt <= $2)
		ORDER BY next_attempt ASC
	`, now, leaseCutoff)
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed DueEntries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []FailedEmail
	for rows.Next() {
		e, err := scanFailedEmail(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ClaimSending transitions an entry to "sending" and bumps its attempt
// counter. The WHERE clause makes the claim exclusive: a concurrent sweep
// that already claimed the entry leaves zero rows for this one.
func (r *repository) ClaimSending(ctx context.Context, id uint, now time.Time, leaseCutoff time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE failed_emails
		SET status = 'sending', attempts = attempts + 1, last_attempt = $2
		WHERE id = $1
		  AND (status = 'pending' OR (status = 'sending' AND last_attempt <= $3))
	`, id, now, leaseCutoff)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Delete removes a successfully delivered entry. Sent mail is not retained.
func (r *repository) Delete(ctx context.Context, id uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM failed_emails WHERE id = $1`, id)
	return err
}

func (r *repository) Reschedule(ctx context.Context, id uint, errMsg string, nextAttempt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE failed_emails
		SET status = 'pending', error_message = $2, next_attempt = $3
		WHERE id = $1
	`, id, errMsg, nextAttempt)
	return err
}

// MarkFailed is terminal: no further automatic retries.
func (r *repository) MarkFailed(ctx context.Context, id uint, errMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE failed_emails
		SET status = 'failed', error_message = $2
		WHERE id = $1
	`, id, errMsg)
	return err
}

func (r *repository) Stats(ctx context.Context) (*QueueStats, error) {
	var s QueueStats
	var oldest sql.NullTime

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'sending'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			MIN(created_at) FILTER (WHERE status = 'pending')
		FROM failed_emails
	`).Scan(&s.Total, &s.Pending, &s.Sending, &s.Failed, &oldest)
	if err != nil {
		return nil, err
	}

	if oldest.Valid {
		s.OldestPending = &oldest.Time
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]FailedEmail, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+failedEmailColumns+`
		FROM failed_emails
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []FailedEmail
	for rows.Next() {
		e, err := scanFailedEmail(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
