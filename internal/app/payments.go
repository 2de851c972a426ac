/**
 * @description
 * This file contains the business logic for the simulated card payment flow.
 * Payments are created directly in the `processing` state, then finalized by
 * an explicit process call whose outcome comes from an injected decider.
 *
 * Key features:
 * - Amount bounds enforced in cents to avoid float drift.
 * - A conditional store update guards finalization so a payment can only be
 *   completed or failed once; reprocessing a finalized payment is rejected.
 * - The success/decline draw is an injected `OutcomeDecider`, making the flow
 *   deterministic under test.
 *
 * @dependencies
 * - context, errors, fmt, log, math/rand, strconv, strings, time: Standard Go libraries.
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/mailer, pkg/rabbitmq: Email templating and event publishing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/choiceproperties/marketplace-service/internal/domain"
	"github.com/choiceproperties/marketplace-service/internal/store"
	"github.com/choiceproperties/marketplace-service/pkg/mailer"
	"github.com/choiceproperties/marketplace-service/pkg/rabbitmq"
)

// ErrPaymentFinalized is returned when a process call targets a payment that
// has already completed or failed.
var ErrPaymentFinalized = errors.New("payment has already been finalized")

// ErrPaymentDeclined is returned when the simulated authorization declines the
// card. The payment record is finalized as failed before this is returned.
var ErrPaymentDeclined = errors.New(domain.PaymentDeclinedMessage)

// OutcomeDecider decides whether a given payment authorization succeeds.
// Production uses a seeded random draw; tests inject fixed outcomes.
type OutcomeDecider interface {
	Approve(p *domain.Payment) bool
}

// RandomOutcomeDecider approves payments with a fixed probability.
type RandomOutcomeDecider struct {
	SuccessRate float64
	rng         *rand.Rand
}

// NewRandomOutcomeDecider creates a decider approving roughly successRate of
// all authorizations (0.9 mirrors the gateway sandbox default).
func NewRandomOutcomeDecider(successRate float64) *RandomOutcomeDecider {
	return &RandomOutcomeDecider{
		SuccessRate: successRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Approve draws the simulated authorization outcome.
func (d *RandomOutcomeDecider) Approve(_ *domain.Payment) bool {
	return d.rng.Float64() < d.SuccessRate
}

// PaymentService provides the business logic for the payment lifecycle.
type PaymentService struct {
	repo          store.Repository
	decider       OutcomeDecider
	eventProducer rabbitmq.Publisher
	eventExchange string
}

// NewPaymentService creates a new payment service instance.
func NewPaymentService(repo store.Repository, decider OutcomeDecider, producer rabbitmq.Publisher, eventExchange string) *PaymentService {
	return &PaymentService{
		repo:          repo,
		decider:       decider,
		eventProducer: producer,
		eventExchange: eventExchange,
	}
}

// newTransactionID builds a unique transaction id: millisecond timestamp plus
// a random base36 suffix, upper-cased (TXN-1717171717171-X9Q0PL2RT).
func newTransactionID(now time.Time) string {
	return strings.ToUpper("TXN-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + randomBase36(9))
}

// Initiate validates a payment request and records the payment in the
// `processing` state, ready for the finalization call.
func (s *PaymentService) Initiate(ctx context.Context, req domain.InitiatePaymentRequest) (*domain.Payment, error) {
	if errs := validatePayment(req); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	now := time.Now().UTC()
	p := &domain.Payment{
		UserID:         req.UserID,
		AmountCents:    dollarsToCents(req.Amount),
		Currency:       "USD",
		Description:    strings.TrimSpace(req.Description),
		CardLastFour:   digitsOnly(req.CardLastFour),
		CardholderName: strings.TrimSpace(req.CardholderName),
		Status:         domain.PaymentStatusProcessing,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var err error
	for attempt := 0; attempt < idGenerationAttempts; attempt++ {
		p.TransactionID = newTransactionID(now)
		err = s.repo.CreatePayment(ctx, p)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicateTransactionID) {
			return nil, fmt.Errorf("failed to create payment: %w", err)
		}
		log.Printf("level=warn component=payments msg=\"transaction id collision; regenerating\" attempt=%d", attempt+1)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	log.Printf("level=info component=payments msg=\"payment initiated\" transaction_id=%s amount_cents=%d", p.TransactionID, p.AmountCents)
	return p, nil
}

// Process finalizes a processing payment through the injected outcome decider.
// On approval the payment completes, the payer is emailed a receipt, an
// in-app notification is created, and a `payment.completed` event is
// published. On decline the payment fails with the fixed decline message and
// ErrPaymentDeclined is returned. Finalized payments cannot be reprocessed.
func (s *PaymentService) Process(ctx context.Context, req domain.ProcessPaymentRequest) (*domain.Payment, error) {
	transactionID := strings.TrimSpace(req.TransactionID)
	if transactionID == "" {
		return nil, &ValidationError{Errors: []string{"Transaction ID is required"}}
	}

	p, err := s.repo.FindPaymentByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentStatusProcessing {
		return nil, fmt.Errorf("%w: status=%s", ErrPaymentFinalized, p.Status)
	}

	if !s.decider.Approve(p) {
		failed, err := s.repo.MarkPaymentFailed(ctx, transactionID, domain.PaymentDeclinedMessage)
		if err != nil {
			if errors.Is(err, store.ErrPaymentNotProcessing) {
				return nil, fmt.Errorf("%w: concurrent finalization", ErrPaymentFinalized)
			}
			return nil, fmt.Errorf("failed to record payment decline: %w", err)
		}
		log.Printf("level=info component=payments msg=\"payment declined\" transaction_id=%s", transactionID)
		return failed, ErrPaymentDeclined
	}

	completed, err := s.repo.MarkPaymentCompleted(ctx, transactionID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrPaymentNotProcessing) {
			return nil, fmt.Errorf("%w: concurrent finalization", ErrPaymentFinalized)
		}
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}

	s.afterCompletion(ctx, completed, strings.TrimSpace(req.Email))
	log.Printf("level=info component=payments msg=\"payment completed\" transaction_id=%s", transactionID)
	return completed, nil
}

func (s *PaymentService) afterCompletion(ctx context.Context, p *domain.Payment, recipient string) {
	if recipient != "" {
		email := mailer.PaymentConfirmation(p.TransactionID, p.AmountDollars())
		err := s.repo.EnqueueEmail(ctx, store.EmailOutboxMessage{
			Recipient: recipient,
			Subject:   email.Subject,
			HTMLBody:  email.HTMLBody,
		})
		if err != nil {
			log.Printf("level=warn component=payments msg=\"receipt enqueue failed\" transaction_id=%s err=%v", p.TransactionID, err)
		}
	}

	if p.UserID != nil {
		n := domain.Notification{
			ID:        newNotificationID(),
			UserID:    *p.UserID,
			Type:      domain.NotificationTypePayment,
			Title:     "Payment Received",
			Message:   fmt.Sprintf("Your payment of $%.2f was processed successfully.", p.AmountDollars()),
			RelatedID: &p.TransactionID,
			CreatedAt: time.Now().UTC(),
			ExpiresAt: time.Now().UTC().Add(domain.NotificationTTL),
		}
		if err := s.repo.CreateNotification(ctx, n); err != nil {
			log.Printf("level=warn component=payments msg=\"payment notification create failed\" transaction_id=%s err=%v", p.TransactionID, err)
		}
	}

	if s.eventProducer != nil {
		event := rabbitmq.PaymentEvent{
			TransactionID: p.TransactionID,
			AmountCents:   p.AmountCents,
			Currency:      p.Currency,
			Status:        p.Status,
			Timestamp:     time.Now().UTC(),
		}
		if err := s.eventProducer.Publish(ctx, s.eventExchange, "payment.completed", event); err != nil {
			log.Printf("level=warn component=payments msg=\"event publish failed\" routing_key=payment.completed err=%v", err)
		}
	}
}

// GetStatus returns one payment by transaction id.
func (s *PaymentService) GetStatus(ctx context.Context, transactionID string) (*domain.Payment, error) {
	return s.repo.FindPaymentByTransactionID(ctx, transactionID)
}

// ListByUser returns a user's payments, newest first.
func (s *PaymentService) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return s.repo.FindPaymentsByUserID(ctx, userID)
}

// ListAll returns every payment, newest first.
func (s *PaymentService) ListAll(ctx context.Context) ([]domain.Payment, error) {
	return s.repo.FindAllPayments(ctx)
}
