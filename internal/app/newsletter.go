/**
 * @description
 * This file contains the business logic for newsletter subscriptions:
 * subscribe (with reactivation of previously unsubscribed addresses),
 * unsubscribe, preference updates, and subscriber listings.
 *
 * @dependencies
 * - context, errors, log, strings, time: Standard Go libraries.
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/mailer: Welcome email templating.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/choiceproperties/marketplace-service/internal/domain"
	"github.com/choiceproperties/marketplace-service/internal/store"
	"github.com/choiceproperties/marketplace-service/pkg/mailer"
)

// ErrAlreadySubscribed is returned when the address already has an active
// subscription.
var ErrAlreadySubscribed = errors.New("email is already subscribed")

// NewsletterService provides the business logic for newsletter subscriptions.
type NewsletterService struct {
	repo        store.Repository
	siteBaseURL string
}

// NewNewsletterService creates a new newsletter service instance.
func NewNewsletterService(repo store.Repository, siteBaseURL string) *NewsletterService {
	return &NewsletterService{repo: repo, siteBaseURL: siteBaseURL}
}

// Subscribe registers an email address. A brand-new address gets a fresh row
// with default preferences; a previously unsubscribed address is reactivated
// in place, keeping its history. An already-active address is rejected. Both
// successful paths enqueue the welcome email best-effort.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, &ValidationError{Errors: []string{"Valid email is required"}}
	}

	existing, err := s.repo.FindSubscriberByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrSubscriberNotFound) {
		return nil, fmt.Errorf("failed to look up subscriber: %w", err)
	}

	now := time.Now().UTC()
	var sub *domain.Subscriber
	switch {
	case existing == nil:
		sub = &domain.Subscriber{
			Email:              email,
			SubscriptionStatus: domain.SubscriptionActive,
			SubscribedAt:       now,
			Frequency:          "weekly",
			Preferences:        domain.DefaultSubscriberPreferences(),
		}
		if err := s.repo.CreateSubscriber(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to create subscriber: %w", err)
		}
	case existing.SubscriptionStatus == domain.SubscriptionActive:
		return existing, ErrAlreadySubscribed
	default:
		sub, err = s.repo.ReactivateSubscriber(ctx, email, now)
		if err != nil {
			return nil, fmt.Errorf("failed to reactivate subscriber: %w", err)
		}
	}

	welcome := mailer.NewsletterWelcome(s.siteBaseURL)
	err = s.repo.EnqueueEmail(ctx, store.EmailOutboxMessage{
		Recipient: email,
		Subject:   welcome.Subject,
		HTMLBody:  welcome.HTMLBody,
	})
	if err != nil {
		log.Printf("level=warn component=newsletter msg=\"welcome enqueue failed\" email=%s err=%v", email, err)
	}

	log.Printf("level=info component=newsletter msg=\"subscriber active\" email=%s", email)
	return sub, nil
}

// Unsubscribe deactivates a subscription, recording the unsubscribe time.
// Unknown addresses map to store.ErrSubscriberNotFound; unsubscribing an
// already-inactive address is a no-op success.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, &ValidationError{Errors: []string{"Valid email is required"}}
	}

	existing, err := s.repo.FindSubscriberByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing.SubscriptionStatus == domain.SubscriptionUnsubscribed {
		return existing, nil
	}
	return s.repo.UnsubscribeSubscriber(ctx, email, time.Now().UTC())
}

// UpdatePreferences applies a partial update to a subscriber's delivery
// preferences and/or frequency. Fields left nil keep their stored values.
func (s *NewsletterService) UpdatePreferences(ctx context.Context, req domain.UpdatePreferencesRequest) (*domain.Subscriber, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	var errs []string
	if !validEmail(email) {
		errs = append(errs, "Valid email is required")
	}
	if req.Frequency != nil && !validFrequency(*req.Frequency) {
		errs = append(errs, "Frequency must be one of: daily, weekly, monthly")
	}
	if req.Preferences == nil && req.Frequency == nil {
		errs = append(errs, "No preference changes provided")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return s.repo.UpdateSubscriberPreferences(ctx, email, req.Preferences, req.Frequency)
}

// GetSubscriber returns one subscription record by email.
func (s *NewsletterService) GetSubscriber(ctx context.Context, email string) (*domain.Subscriber, error) {
	return s.repo.FindSubscriberByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// ListActive returns all active subscribers.
func (s *NewsletterService) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	return s.repo.FindActiveSubscribers(ctx)
}

// ListAll returns every subscriber regardless of status.
func (s *NewsletterService) ListAll(ctx context.Context) ([]domain.Subscriber, error) {
	return s.repo.FindAllSubscribers(ctx)
}
