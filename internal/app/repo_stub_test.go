package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/choiceproperties/marketplace-service/internal/domain"
	"github.com/choiceproperties/marketplace-service/internal/store"
)

// stubRepo embeds the Repository interface so tests only implement the
// methods they exercise; calling anything else panics loudly.
type stubRepo struct {
	store.Repository

	createApplicationFn       func(ctx context.Context, app *domain.Application) error
	findApplicationByIDFn     func(ctx context.Context, applicationID string) (*domain.Application, error)
	updateApplicationStatusFn func(ctx context.Context, applicationID, expectedStatus, newStatus string, backgroundCheckStatus *string) (*domain.Application, error)

	createPaymentFn              func(ctx context.Context, p *domain.Payment) error
	findPaymentByTransactionIDFn func(ctx context.Context, transactionID string) (*domain.Payment, error)
	markPaymentCompletedFn       func(ctx context.Context, transactionID string, completedAt time.Time) (*domain.Payment, error)
	markPaymentFailedFn          func(ctx context.Context, transactionID, errorMessage string) (*domain.Payment, error)

	findSubscriberByEmailFn       func(ctx context.Context, email string) (*domain.Subscriber, error)
	createSubscriberFn            func(ctx context.Context, sub *domain.Subscriber) error
	reactivateSubscriberFn        func(ctx context.Context, email string, at time.Time) (*domain.Subscriber, error)
	unsubscribeSubscriberFn       func(ctx context.Context, email string, at time.Time) (*domain.Subscriber, error)
	updateSubscriberPreferencesFn func(ctx context.Context, email string, prefs *domain.SubscriberPreferences, frequency *string) (*domain.Subscriber, error)

	createNotificationFn       func(ctx context.Context, n domain.Notification) error
	createNotificationsFn      func(ctx context.Context, items []domain.Notification) error
	listNotificationsFn        func(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error)
	countUnreadNotificationsFn func(ctx context.Context, userID string) (int64, error)
	markNotificationReadFn     func(ctx context.Context, id uuid.UUID) (*domain.Notification, error)

	enqueueEmailFn     func(ctx context.Context, msg store.EmailOutboxMessage) error
	claimEmailOutboxFn func(ctx context.Context, batchSize, staleAfterSeconds int) ([]store.EmailOutboxMessage, error)
	markEmailSentFn    func(ctx context.Context, id int64, at time.Time) error
	markEmailFailedFn  func(ctx context.Context, id int64, retryAfterSeconds int, reason string, dead bool) error
}

func (s *stubRepo) CreateApplication(ctx context.Context, app *domain.Application) error {
	return s.createApplicationFn(ctx, app)
}

func (s *stubRepo) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	return s.findApplicationByIDFn(ctx, applicationID)
}

func (s *stubRepo) UpdateApplicationStatus(ctx context.Context, applicationID, expectedStatus, newStatus string, backgroundCheckStatus *string) (*domain.Application, error) {
	return s.updateApplicationStatusFn(ctx, applicationID, expectedStatus, newStatus, backgroundCheckStatus)
}

func (s *stubRepo) CreatePayment(ctx context.Context, p *domain.Payment) error {
	return s.createPaymentFn(ctx, p)
}

func (s *stubRepo) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	return s.findPaymentByTransactionIDFn(ctx, transactionID)
}

func (s *stubRepo) MarkPaymentCompleted(ctx context.Context, transactionID string, completedAt time.Time) (*domain.Payment, error) {
	return s.markPaymentCompletedFn(ctx, transactionID, completedAt)
}

func (s *stubRepo) MarkPaymentFailed(ctx context.Context, transactionID, errorMessage string) (*domain.Payment, error) {
	return s.markPaymentFailedFn(ctx, transactionID, errorMessage)
}

func (s *stubRepo) FindSubscriberByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	return s.findSubscriberByEmailFn(ctx, email)
}

func (s *stubRepo) CreateSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	return s.createSubscriberFn(ctx, sub)
}

func (s *stubRepo) ReactivateSubscriber(ctx context.Context, email string, at time.Time) (*domain.Subscriber, error) {
	return s.reactivateSubscriberFn(ctx, email, at)
}

func (s *stubRepo) UnsubscribeSubscriber(ctx context.Context, email string, at time.Time) (*domain.Subscriber, error) {
	return s.unsubscribeSubscriberFn(ctx, email, at)
}

func (s *stubRepo) UpdateSubscriberPreferences(ctx context.Context, email string, prefs *domain.SubscriberPreferences, frequency *string) (*domain.Subscriber, error) {
	return s.updateSubscriberPreferencesFn(ctx, email, prefs, frequency)
}

func (s *stubRepo) CreateNotification(ctx context.Context, n domain.Notification) error {
	if s.createNotificationFn == nil {
		return nil
	}
	return s.createNotificationFn(ctx, n)
}

func (s *stubRepo) CreateNotifications(ctx context.Context, items []domain.Notification) error {
	return s.createNotificationsFn(ctx, items)
}

func (s *stubRepo) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	return s.listNotificationsFn(ctx, userID, limit, offset)
}

func (s *stubRepo) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	return s.countUnreadNotificationsFn(ctx, userID)
}

func (s *stubRepo) MarkNotificationRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.markNotificationReadFn(ctx, id)
}

func (s *stubRepo) EnqueueEmail(ctx context.Context, msg store.EmailOutboxMessage) error {
	if s.enqueueEmailFn == nil {
		return nil
	}
	return s.enqueueEmailFn(ctx, msg)
}

func (s *stubRepo) ClaimEmailOutbox(ctx context.Context, batchSize, staleAfterSeconds int) ([]store.EmailOutboxMessage, error) {
	return s.claimEmailOutboxFn(ctx, batchSize, staleAfterSeconds)
}

func (s *stubRepo) MarkEmailSent(ctx context.Context, id int64, at time.Time) error {
	return s.markEmailSentFn(ctx, id, at)
}

func (s *stubRepo) MarkEmailFailed(ctx context.Context, id int64, retryAfterSeconds int, reason string, dead bool) error {
	return s.markEmailFailedFn(ctx, id, retryAfterSeconds, reason, dead)
}
