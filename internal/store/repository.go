/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access operations the marketplace service needs. Defining an interface
 * decouples the business logic from the PostgreSQL implementation and lets
 * tests substitute hand-written stubs.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid: For notification ids.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/choiceproperties/marketplace-service/internal/domain"
)

// EmailOutboxMessage is one queued outbound email. Rows are written alongside
// the primary mutation and drained by the outbox dispatcher, so a mailer
// outage never fails or rolls back the operation that queued the message.
type EmailOutboxMessage struct {
	ID            int64
	Recipient     string
	Subject       string
	HTMLBody      string
	Status        string // 'pending', 'processing', 'sent', 'dead'
	Attempts      int
	NextAttemptAt time.Time
	LastError     *string
	CreatedAt     time.Time
	SentAt        *time.Time
}

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Application methods
	CreateApplication(ctx context.Context, app *domain.Application) error
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error)
	FindApplicationsByUserID(ctx context.Context, userID string) ([]domain.Application, error)
	FindAllApplications(ctx context.Context) ([]domain.Application, error)
	// UpdateApplicationStatus applies the new status only when the row still
	// carries expectedStatus, so racing admin updates cannot double-apply.
	UpdateApplicationStatus(ctx context.Context, applicationID, expectedStatus, newStatus string, backgroundCheckStatus *string) (*domain.Application, error)

	// Payment methods
	CreatePayment(ctx context.Context, p *domain.Payment) error
	FindPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	FindPaymentsByUserID(ctx context.Context, userID string) ([]domain.Payment, error)
	FindAllPayments(ctx context.Context) ([]domain.Payment, error)
	// MarkPaymentCompleted and MarkPaymentFailed only match rows still in the
	// 'processing' state; a finalized row yields ErrPaymentNotProcessing.
	MarkPaymentCompleted(ctx context.Context, transactionID string, completedAt time.Time) (*domain.Payment, error)
	MarkPaymentFailed(ctx context.Context, transactionID, errorMessage string) (*domain.Payment, error)
	PurgeStalePayments(ctx context.Context, olderThan time.Time) (int64, error)

	// Newsletter methods
	FindSubscriberByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	CreateSubscriber(ctx context.Context, sub *domain.Subscriber) error
	ReactivateSubscriber(ctx context.Context, email string, at time.Time) (*domain.Subscriber, error)
	UnsubscribeSubscriber(ctx context.Context, email string, at time.Time) (*domain.Subscriber, error)
	UpdateSubscriberPreferences(ctx context.Context, email string, prefs *domain.SubscriberPreferences, frequency *string) (*domain.Subscriber, error)
	FindActiveSubscribers(ctx context.Context) ([]domain.Subscriber, error)
	FindAllSubscribers(ctx context.Context) ([]domain.Subscriber, error)

	// Notification methods
	CreateNotification(ctx context.Context, n domain.Notification) error
	CreateNotifications(ctx context.Context, items []domain.Notification) error
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, id uuid.UUID) error
	PurgeExpiredNotifications(ctx context.Context, now time.Time) (int64, error)

	// Email outbox methods
	EnqueueEmail(ctx context.Context, msg EmailOutboxMessage) error
	ClaimEmailOutbox(ctx context.Context, batchSize, staleAfterSeconds int) ([]EmailOutboxMessage, error)
	MarkEmailSent(ctx context.Context, id int64, at time.Time) error
	MarkEmailFailed(ctx context.Context, id int64, retryAfterSeconds int, reason string, dead bool) error

	// Admin aggregate methods
	CountApplications(ctx context.Context) (int64, error)
	CountPayments(ctx context.Context) (int64, error)
	CountPaymentsByStatus(ctx context.Context, status string) (int64, error)
	SumCompletedPaymentCents(ctx context.Context) (int64, error)
	CountActiveSubscribers(ctx context.Context) (int64, error)
	GroupApplicationsByStatus(ctx context.Context) ([]domain.StatusCount, error)
	CompletedRevenueTrend(ctx context.Context, days int) ([]domain.RevenuePoint, error)
}
