/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface. It contains all the SQL needed to interact with the
 * applications, payments, newsletter_subscribers, notifications and
 * email_outbox tables.
 *
 * @dependencies
 * - context, time, errors: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/choiceproperties/marketplace-service/internal/domain"
)

var (
	ErrApplicationNotFound       = errors.New("application not found")
	ErrApplicationStatusConflict = errors.New("application status changed concurrently")
	ErrDuplicateApplicationID    = errors.New("duplicate application id")
	ErrPaymentNotFound           = errors.New("payment not found")
	ErrPaymentNotProcessing      = errors.New("payment is not in processing state")
	ErrDuplicateTransactionID    = errors.New("duplicate transaction id")
	ErrSubscriberNotFound        = errors.New("subscriber not found")
	ErrNotificationNotFound      = errors.New("notification not found")
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const applicationColumns = `
	application_id, user_id, first_name, last_name, email, phone, ssn_hash, dob,
	employment_status, employer, job_title, annual_income, employment_start_date,
	reference1_name, reference1_phone, reference2_name, reference2_phone,
	pet_info, desired_move_date, property_id,
	status, background_check_status, submitted_at, updated_at`

func scanApplication(row rowScanner) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ApplicationID, &app.UserID, &app.FirstName, &app.LastName, &app.Email,
		&app.Phone, &app.SSNHash, &app.DOB,
		&app.EmploymentStatus, &app.Employer, &app.JobTitle, &app.AnnualIncome, &app.EmploymentStartDate,
		&app.Reference1Name, &app.Reference1Phone, &app.Reference2Name, &app.Reference2Phone,
		&app.PetInfo, &app.DesiredMoveDate, &app.PropertyID,
		&app.Status, &app.BackgroundCheckStatus, &app.SubmittedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateApplication inserts a new application row. A unique-key collision on
// application_id is reported as ErrDuplicateApplicationID so the service can
// regenerate the id and retry.
func (r *PostgresRepository) CreateApplication(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err := r.db.Exec(ctx, query,
		app.ApplicationID, app.UserID, app.FirstName, app.LastName, app.Email,
		app.Phone, app.SSNHash, app.DOB,
		app.EmploymentStatus, app.Employer, app.JobTitle, app.AnnualIncome, app.EmploymentStartDate,
		app.Reference1Name, app.Reference1Phone, app.Reference2Name, app.Reference2Phone,
		app.PetInfo, app.DesiredMoveDate, app.PropertyID,
		app.Status, app.BackgroundCheckStatus, app.SubmittedAt, app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateApplicationID
		}
		return err
	}
	return nil
}

// FindApplicationByID retrieves one application by its human-readable id.
func (r *PostgresRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE application_id = $1`
	app, err := scanApplication(r.db.QueryRow(ctx, query, applicationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *PostgresRepository) queryApplications(ctx context.Context, query string, args ...interface{}) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// FindApplicationsByUserID returns a user's applications, newest first.
func (r *PostgresRepository) FindApplicationsByUserID(ctx context.Context, userID string) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 ORDER BY submitted_at DESC`
	return r.queryApplications(ctx, query, userID)
}

// FindAllApplications returns every application, newest first.
func (r *PostgresRepository) FindAllApplications(ctx context.Context) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY submitted_at DESC`
	return r.queryApplications(ctx, query)
}

// UpdateApplicationStatus performs a guarded status transition. The row is
// only updated while it still carries expectedStatus, which keeps concurrent
// admin updates from stacking onto a state the caller never saw.
func (r *PostgresRepository) UpdateApplicationStatus(ctx context.Context, applicationID, expectedStatus, newStatus string, backgroundCheckStatus *string) (*domain.Application, error) {
	query := `
		UPDATE applications
		SET status = $3,
		    background_check_status = COALESCE($4, background_check_status),
		    updated_at = now()
		WHERE application_id = $1 AND status = $2
		RETURNING ` + applicationColumns
	app, err := scanApplication(r.db.QueryRow(ctx, query, applicationID, expectedStatus, newStatus, backgroundCheckStatus))
	if err == nil {
		return app, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	// Zero rows matched: distinguish a missing application from a lost race.
	var current string
	err = r.db.QueryRow(ctx, `SELECT status FROM applications WHERE application_id = $1`, applicationID).Scan(&current)
	if err == pgx.ErrNoRows {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrApplicationStatusConflict
}

const paymentColumns = `
	transaction_id, user_id, amount_cents, currency, description,
	card_last_four, cardholder_name, status,
	authorization_stage, verification_stage, processing_stage, finalization_stage,
	error_message, retry_count, created_at, completed_at, updated_at`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.TransactionID, &p.UserID, &p.AmountCents, &p.Currency, &p.Description,
		&p.CardLastFour, &p.CardholderName, &p.Status,
		&p.AuthorizationStage, &p.VerificationStage, &p.ProcessingStage, &p.FinalizationStage,
		&p.ErrorMessage, &p.RetryCount, &p.CreatedAt, &p.CompletedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePayment inserts a new payment row.
func (r *PostgresRepository) CreatePayment(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.Exec(ctx, query,
		p.TransactionID, p.UserID, p.AmountCents, p.Currency, p.Description,
		p.CardLastFour, p.CardholderName, p.Status,
		p.AuthorizationStage, p.VerificationStage, p.ProcessingStage, p.FinalizationStage,
		p.ErrorMessage, p.RetryCount, p.CreatedAt, p.CompletedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTransactionID
		}
		return err
	}
	return nil
}

// FindPaymentByTransactionID retrieves one payment by its transaction id.
func (r *PostgresRepository) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`
	p, err := scanPayment(r.db.QueryRow(ctx, query, transactionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) queryPayments(ctx context.Context, query string, args ...interface{}) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// FindPaymentsByUserID returns a user's payments, newest first.
func (r *PostgresRepository) FindPaymentsByUserID(ctx context.Context, userID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryPayments(ctx, query, userID)
}

// FindAllPayments returns every payment, newest first.
func (r *PostgresRepository) FindAllPayments(ctx context.Context) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`
	return r.queryPayments(ctx, query)
}

// finalizePayment runs a terminal-state update guarded on status='processing'
// and maps a zero-row result to the right sentinel.
func (r *PostgresRepository) finalizePayment(ctx context.Context, transactionID, query string, args ...interface{}) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, query, args...))
	if err == nil {
		return p, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	var current string
	err = r.db.QueryRow(ctx, `SELECT status FROM payments WHERE transaction_id = $1`, transactionID).Scan(&current)
	if err == pgx.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrPaymentNotProcessing
}

// MarkPaymentCompleted finalizes a processing payment as completed, setting
// all four stage flags and the completion timestamp.
func (r *PostgresRepository) MarkPaymentCompleted(ctx context.Context, transactionID string, completedAt time.Time) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = 'completed',
		    authorization_stage = TRUE,
		    verification_stage = TRUE,
		    processing_stage = TRUE,
		    finalization_stage = TRUE,
		    completed_at = $2,
		    updated_at = now()
		WHERE transaction_id = $1 AND status = 'processing'
		RETURNING ` + paymentColumns
	return r.finalizePayment(ctx, transactionID, query, transactionID, completedAt)
}

// MarkPaymentFailed finalizes a processing payment as failed, recording the
// decline message and bumping the retry counter. Stage flags are untouched.
func (r *PostgresRepository) MarkPaymentFailed(ctx context.Context, transactionID, errorMessage string) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = 'failed',
		    error_message = $2,
		    retry_count = retry_count + 1,
		    updated_at = now()
		WHERE transaction_id = $1 AND status = 'processing'
		RETURNING ` + paymentColumns
	return r.finalizePayment(ctx, transactionID, query, transactionID, errorMessage)
}

// PurgeStalePayments deletes non-terminal payments older than the cutoff.
// Only 'pending' and 'processing' rows are eligible; completed and failed
// records are retained for audit.
func (r *PostgresRepository) PurgeStalePayments(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM payments WHERE status IN ('pending', 'processing') AND created_at < $1`,
		olderThan,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const subscriberColumns = `
	email, subscription_status, subscribed_at, unsubscribed_at,
	emails_received, last_email_sent, frequency,
	pref_new_listings, pref_market_trends, pref_tips, pref_promotions`

func scanSubscriber(row rowScanner) (*domain.Subscriber, error) {
	var s domain.Subscriber
	err := row.Scan(
		&s.Email, &s.SubscriptionStatus, &s.SubscribedAt, &s.UnsubscribedAt,
		&s.EmailsReceived, &s.LastEmailSent, &s.Frequency,
		&s.Preferences.NewListings, &s.Preferences.MarketTrends, &s.Preferences.Tips, &s.Preferences.Promotions,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSubscriberByEmail retrieves one subscriber by email.
func (r *PostgresRepository) FindSubscriberByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE email = lower(btrim($1))`
	s, err := scanSubscriber(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSubscriberNotFound
		}
		return nil, err
	}
	return s, nil
}

// CreateSubscriber inserts a new subscriber row.
func (r *PostgresRepository) CreateSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	query := `
		INSERT INTO newsletter_subscribers (` + subscriberColumns + `)
		VALUES (lower(btrim($1)), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		sub.Email, sub.SubscriptionStatus, sub.SubscribedAt, sub.UnsubscribedAt,
		sub.EmailsReceived, sub.LastEmailSent, sub.Frequency,
		sub.Preferences.NewListings, sub.Preferences.MarketTrends, sub.Preferences.Tips, sub.Preferences.Promotions,
	)
	return err
}

// ReactivateSubscriber flips an unsubscribed row back to active, resetting the
// subscription timestamp and clearing the unsubscription one.
func (r *PostgresRepository) ReactivateSubscriber(ctx context.Context, email string, at time.Time) (*domain.Subscriber, error) {
	query := `
		UPDATE newsletter_subscribers
		SET subscription_status = 'active', subscribed_at = $2, unsubscribed_at = NULL
		WHERE email = lower(btrim($1))
		RETURNING ` + subscriberColumns
	s, err := scanSubscriber(r.db.QueryRow(ctx, query, email, at))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSubscriberNotFound
		}
		return nil, err
	}
	return s, nil
}

// UnsubscribeSubscriber marks a subscriber unsubscribed and records when.
func (r *PostgresRepository) UnsubscribeSubscriber(ctx context.Context, email string, at time.Time) (*domain.Subscriber, error) {
	query := `
		UPDATE newsletter_subscribers
		SET subscription_status = 'unsubscribed', unsubscribed_at = $2
		WHERE email = lower(btrim($1))
		RETURNING ` + subscriberColumns
	s, err := scanSubscriber(r.db.QueryRow(ctx, query, email, at))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSubscriberNotFound
		}
		return nil, err
	}
	return s, nil
}

// UpdateSubscriberPreferences applies a partial update of the per-category
// flags and/or the delivery frequency.
func (r *PostgresRepository) UpdateSubscriberPreferences(ctx context.Context, email string, prefs *domain.SubscriberPreferences, frequency *string) (*domain.Subscriber, error) {
	query := `
		UPDATE newsletter_subscribers
		SET frequency = COALESCE($2, frequency),
		    pref_new_listings = COALESCE($3, pref_new_listings),
		    pref_market_trends = COALESCE($4, pref_market_trends),
		    pref_tips = COALESCE($5, pref_tips),
		    pref_promotions = COALESCE($6, pref_promotions)
		WHERE email = lower(btrim($1))
		RETURNING ` + subscriberColumns

	var newListings, marketTrends, tips, promotions *bool
	if prefs != nil {
		newListings = &prefs.NewListings
		marketTrends = &prefs.MarketTrends
		tips = &prefs.Tips
		promotions = &prefs.Promotions
	}

	s, err := scanSubscriber(r.db.QueryRow(ctx, query, email, frequency, newListings, marketTrends, tips, promotions))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSubscriberNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) querySubscribers(ctx context.Context, query string, args ...interface{}) ([]domain.Subscriber, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}

// FindActiveSubscribers returns active subscribers, newest first.
func (r *PostgresRepository) FindActiveSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE subscription_status = 'active' ORDER BY subscribed_at DESC`
	return r.querySubscribers(ctx, query)
}

// FindAllSubscribers returns every subscriber regardless of status.
func (r *PostgresRepository) FindAllSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers ORDER BY subscribed_at DESC`
	return r.querySubscribers(ctx, query)
}

const notificationColumns = `id, user_id, type, title, message, related_id, action_url, read, created_at, expires_at`

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
		&n.RelatedID, &n.ActionURL, &n.Read, &n.CreatedAt, &n.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNotification inserts one notification row.
func (r *PostgresRepository) CreateNotification(ctx context.Context, n domain.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Message,
		n.RelatedID, n.ActionURL, n.Read, n.CreatedAt, n.ExpiresAt,
	)
	return err
}

// CreateNotifications batch-inserts notifications via COPY, used by the admin
// bulk fan-out.
func (r *PostgresRepository) CreateNotifications(ctx context.Context, items []domain.Notification) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(items))
	for _, n := range items {
		rows = append(rows, []interface{}{
			n.ID, n.UserID, n.Type, n.Title, n.Message,
			n.RelatedID, n.ActionURL, n.Read, n.CreatedAt, n.ExpiresAt,
		})
	}
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"notifications"},
		[]string{"id", "user_id", "type", "title", "message", "related_id", "action_url", "read", "created_at", "expires_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert notifications: %w", err)
	}
	return nil
}

// ListNotifications returns a page of a user's notifications, newest first.
// Expired rows are excluded even before the purge job removes them.
func (r *PostgresRepository) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND expires_at > now()
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// CountUnreadNotifications returns the unread badge count for a user.
func (r *PostgresRepository) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND read = FALSE AND expires_at > now()`,
		userID,
	).Scan(&count)
	return count, err
}

// MarkNotificationRead flags one notification as read.
func (r *PostgresRepository) MarkNotificationRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 RETURNING ` + notificationColumns
	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

// MarkAllNotificationsRead flags every unread notification of a user as read.
func (r *PostgresRepository) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteNotification removes one notification. Deleting an absent row is not
// an error, matching the delete semantics of the public API.
func (r *PostgresRepository) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}

// PurgeExpiredNotifications deletes rows past their expiry.
func (r *PostgresRepository) PurgeExpiredNotifications(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// EnqueueEmail appends one message to the email outbox.
func (r *PostgresRepository) EnqueueEmail(ctx context.Context, msg EmailOutboxMessage) error {
	query := `
		INSERT INTO email_outbox (recipient, subject, html_body, status, attempts, next_attempt_at, created_at)
		VALUES ($1, $2, $3, 'pending', 0, now(), now())
	`
	_, err := r.db.Exec(ctx, query, msg.Recipient, msg.Subject, msg.HTMLBody)
	return err
}

// ClaimEmailOutbox atomically claims a batch of deliverable messages for the
// dispatcher. Messages stuck in 'processing' longer than staleAfterSeconds are
// reclaimed, so a crashed dispatcher run cannot strand them.
func (r *PostgresRepository) ClaimEmailOutbox(ctx context.Context, batchSize, staleAfterSeconds int) ([]EmailOutboxMessage, error) {
	query := `
		UPDATE email_outbox
		SET status = 'processing', attempts = attempts + 1
		WHERE id IN (
			SELECT id FROM email_outbox
			WHERE (status = 'pending' AND next_attempt_at <= now())
			   OR (status = 'processing' AND next_attempt_at <= now() - make_interval(secs => $2))
			ORDER BY id
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, recipient, subject, html_body, status, attempts, next_attempt_at, last_error, created_at, sent_at
	`
	rows, err := r.db.Query(ctx, query, batchSize, staleAfterSeconds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []EmailOutboxMessage
	for rows.Next() {
		var m EmailOutboxMessage
		if err := rows.Scan(
			&m.ID, &m.Recipient, &m.Subject, &m.HTMLBody, &m.Status,
			&m.Attempts, &m.NextAttemptAt, &m.LastError, &m.CreatedAt, &m.SentAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkEmailSent records a successful delivery.
func (r *PostgresRepository) MarkEmailSent(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE email_outbox SET status = 'sent', sent_at = $2, last_error = NULL WHERE id = $1`,
		id, at,
	)
	return err
}

// MarkEmailFailed schedules a retry with backoff, or dead-letters the message
// when the dispatcher has given up on it.
func (r *PostgresRepository) MarkEmailFailed(ctx context.Context, id int64, retryAfterSeconds int, reason string, dead bool) error {
	status := "pending"
	if dead {
		status = "dead"
	}
	_, err := r.db.Exec(ctx,
		`UPDATE email_outbox
		 SET status = $2, last_error = $3, next_attempt_at = now() + make_interval(secs => $4)
		 WHERE id = $1`,
		id, status, reason, retryAfterSeconds,
	)
	return err
}

// CountApplications returns the total number of applications.
func (r *PostgresRepository) CountApplications(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM applications`).Scan(&count)
	return count, err
}

// CountPayments returns the total number of payments.
func (r *PostgresRepository) CountPayments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM payments`).Scan(&count)
	return count, err
}

// CountPaymentsByStatus returns the number of payments with a given status.
func (r *PostgresRepository) CountPaymentsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM payments WHERE status = $1`, status).Scan(&count)
	return count, err
}

// SumCompletedPaymentCents totals the revenue of completed payments.
func (r *PostgresRepository) SumCompletedPaymentCents(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(sum(amount_cents), 0) FROM payments WHERE status = 'completed'`,
	).Scan(&sum)
	return sum, err
}

// CountActiveSubscribers returns the number of active newsletter subscribers.
func (r *PostgresRepository) CountActiveSubscribers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM newsletter_subscribers WHERE subscription_status = 'active'`,
	).Scan(&count)
	return count, err
}

// GroupApplicationsByStatus returns the application count per lifecycle status.
func (r *PostgresRepository) GroupApplicationsByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []domain.StatusCount
	for rows.Next() {
		var b domain.StatusCount
		if err := rows.Scan(&b.Status, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// CompletedRevenueTrend returns per-day completed revenue for the trailing
// window, oldest day first.
func (r *PostgresRepository) CompletedRevenueTrend(ctx context.Context, days int) ([]domain.RevenuePoint, error) {
	query := `
		SELECT to_char(created_at::date, 'YYYY-MM-DD') AS day, sum(amount_cents)
		FROM payments
		WHERE status = 'completed' AND created_at >= now() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.RevenuePoint
	for rows.Next() {
		var date string
		var cents int64
		if err := rows.Scan(&date, &cents); err != nil {
			return nil, err
		}
		points = append(points, domain.RevenuePoint{Date: date, Revenue: float64(cents) / 100})
	}
	return points, rows.Err()
}
