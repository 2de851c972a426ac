/**
 * @description
 * Asynchronous email dispatcher. Services enqueue outgoing mail into a
 * durable outbox table; this dispatcher polls the table, claims a batch, and
 * delivers each message through the configured mailer. Transient failures
 * back off exponentially; messages that exhaust their attempts move to the
 * dead state for operator inspection.
 *
 * @dependencies
 * - context, log, time: Standard Go libraries.
 * - internal/store: Outbox claim and state-transition queries.
 * - pkg/mailer: Actual email delivery.
 */

package app

import (
	"context"
	"log"
	"time"

	"github.com/choiceproperties/marketplace-service/internal/store"
	"github.com/choiceproperties/marketplace-service/pkg/mailer"
)

const (
	defaultEmailBatchSize       = 50
	defaultEmailPollInterval    = 1200 * time.Millisecond
	defaultEmailStaleProcessing = 2 * time.Minute
	defaultEmailSendTimeout     = 15 * time.Second
	defaultEmailMaxAttempts     = 5
)

// EmailDispatcher drains the email outbox in the background.
type EmailDispatcher struct {
	repo                store.Repository
	mailer              mailer.Mailer
	batchSize           int
	pollInterval        time.Duration
	staleProcessingTime time.Duration
	sendTimeout         time.Duration
	maxAttempts         int
}

// NewEmailDispatcher creates a dispatcher with production defaults.
func NewEmailDispatcher(repo store.Repository, m mailer.Mailer) *EmailDispatcher {
	return &EmailDispatcher{
		repo:                repo,
		mailer:              m,
		batchSize:           defaultEmailBatchSize,
		pollInterval:        defaultEmailPollInterval,
		staleProcessingTime: defaultEmailStaleProcessing,
		sendTimeout:         defaultEmailSendTimeout,
		maxAttempts:         defaultEmailMaxAttempts,
	}
}

// Run polls the outbox until the context is cancelled. Intended to run as a
// dedicated goroutine alongside the HTTP server.
func (d *EmailDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.flushOnce(ctx); err != nil {
				log.Printf("level=error component=email_dispatcher msg=\"outbox flush error\" err=%v", err)
			}
		}
	}
}

func (d *EmailDispatcher) flushOnce(ctx context.Context) error {
	staleAfterSeconds := int(d.staleProcessingTime.Seconds())
	messages, err := d.repo.ClaimEmailOutbox(ctx, d.batchSize, staleAfterSeconds)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	for _, message := range messages {
		if err := d.deliver(ctx, message); err != nil {
			dead := message.Attempts >= d.maxAttempts
			retryAfter := emailRetryDelaySeconds(message.Attempts)
			if markErr := d.repo.MarkEmailFailed(ctx, message.ID, retryAfter, err.Error(), dead); markErr != nil {
				log.Printf("level=error component=email_dispatcher msg=\"failed to mark email failed\" id=%d err=%v", message.ID, markErr)
			}
			if dead {
				log.Printf("level=error component=email_dispatcher msg=\"email moved to dead letter\" id=%d recipient=%s attempts=%d", message.ID, message.Recipient, message.Attempts)
			}
			continue
		}
		if err := d.repo.MarkEmailSent(ctx, message.ID, time.Now().UTC()); err != nil {
			log.Printf("level=error component=email_dispatcher msg=\"failed to mark email sent\" id=%d err=%v", message.ID, err)
		}
	}
	return nil
}

func (d *EmailDispatcher) deliver(ctx context.Context, message store.EmailOutboxMessage) error {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	return d.mailer.Send(sendCtx, mailer.Email{
		To:       message.Recipient,
		Subject:  message.Subject,
		HTMLBody: message.HTMLBody,
	})
}

// emailRetryDelaySeconds backs off exponentially per attempt, capped at five
// minutes.
func emailRetryDelaySeconds(attempt int) int {
	if attempt < 1 {
		return 1
	}
	delay := 1 << minInt(attempt, 8)
	if delay > 300 {
		return 300
	}
	return delay
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
