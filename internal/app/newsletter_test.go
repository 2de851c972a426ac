package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/choiceproperties/marketplace-service/internal/domain"
	"github.com/choiceproperties/marketplace-service/internal/store"
)

func TestSubscribe_NewAddressGetsDefaults(t *testing.T) {
	var created *domain.Subscriber
	var welcomed []store.EmailOutboxMessage
	repo := &stubRepo{
		findSubscriberByEmailFn: func(_ context.Context, _ string) (*domain.Subscriber, error) {
			return nil, store.ErrSubscriberNotFound
		},
		createSubscriberFn: func(_ context.Context, sub *domain.Subscriber) error {
			created = sub
			return nil
		},
		enqueueEmailFn: func(_ context.Context, msg store.EmailOutboxMessage) error {
			welcomed = append(welcomed, msg)
			return nil
		},
	}
	svc := NewNewsletterService(repo, "https://example.com")

	sub, err := svc.Subscribe(context.Background(), "  Renter@Example.COM ")
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected subscriber to be created")
	}
	if sub.Email != "renter@example.com" {
		t.Fatalf("expected normalized email, got %q", sub.Email)
	}
	if sub.SubscriptionStatus != domain.SubscriptionActive {
		t.Fatalf("expected active status, got %q", sub.SubscriptionStatus)
	}
	if sub.Frequency != "weekly" {
		t.Fatalf("expected weekly default, got %q", sub.Frequency)
	}
	prefs := sub.Preferences
	if !prefs.NewListings || !prefs.MarketTrends || !prefs.Tips || prefs.Promotions {
		t.Fatalf("unexpected default preferences: %+v", prefs)
	}
	if len(welcomed) != 1 {
		t.Fatalf("expected one welcome email, got %d", len(welcomed))
	}
}

func TestSubscribe_ReactivatesUnsubscribedAddress(t *testing.T) {
	reactivated := false
	repo := &stubRepo{
		findSubscriberByEmailFn: func(_ context.Context, email string) (*domain.Subscriber, error) {
			return &domain.Subscriber{
				Email:              email,
				SubscriptionStatus: domain.SubscriptionUnsubscribed,
				EmailsReceived:     7,
			}, nil
		},
		reactivateSubscriberFn: func(_ context.Context, email string, _ time.Time) (*domain.Subscriber, error) {
			reactivated = true
			return &domain.Subscriber{
				Email:              email,
				SubscriptionStatus: domain.SubscriptionActive,
				EmailsReceived:     7,
			}, nil
		},
	}
	svc := NewNewsletterService(repo, "https://example.com")

	sub, err := svc.Subscribe(context.Background(), "renter@example.com")
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	if !reactivated {
		t.Fatal("expected reactivation path, not a fresh insert")
	}
	if sub.EmailsReceived != 7 {
		t.Fatal("reactivation must keep subscription history")
	}
}

func TestSubscribe_ActiveAddressIsRejected(t *testing.T) {
	repo := &stubRepo{
		findSubscriberByEmailFn: func(_ context.Context, email string) (*domain.Subscriber, error) {
			return &domain.Subscriber{Email: email, SubscriptionStatus: domain.SubscriptionActive}, nil
		},
	}
	svc := NewNewsletterService(repo, "https://example.com")

	sub, err := svc.Subscribe(context.Background(), "renter@example.com")
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
	if sub == nil || sub.Email != "renter@example.com" {
		t.Fatal("expected the existing subscriber to be returned alongside the error")
	}
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	svc := NewNewsletterService(&stubRepo{}, "https://example.com")

	_, err := svc.Subscribe(context.Background(), "not an email")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUnsubscribe_InactiveIsNoOp(t *testing.T) {
	repo := &stubRepo{
		findSubscriberByEmailFn: func(_ context.Context, email string) (*domain.Subscriber, error) {
			return &domain.Subscriber{Email: email, SubscriptionStatus: domain.SubscriptionUnsubscribed}, nil
		},
		unsubscribeSubscriberFn: func(_ context.Context, _ string, _ time.Time) (*domain.Subscriber, error) {
			t.Fatal("store unsubscribe must not run for an inactive address")
			return nil, nil
		},
	}
	svc := NewNewsletterService(repo, "https://example.com")

	sub, err := svc.Unsubscribe(context.Background(), "renter@example.com")
	if err != nil {
		t.Fatalf("Unsubscribe returned error: %v", err)
	}
	if sub.SubscriptionStatus != domain.SubscriptionUnsubscribed {
		t.Fatalf("expected unsubscribed, got %q", sub.SubscriptionStatus)
	}
}

func TestUnsubscribe_UnknownAddress(t *testing.T) {
	repo := &stubRepo{
		findSubscriberByEmailFn: func(_ context.Context, _ string) (*domain.Subscriber, error) {
			return nil, store.ErrSubscriberNotFound
		},
	}
	svc := NewNewsletterService(repo, "https://example.com")

	_, err := svc.Unsubscribe(context.Background(), "ghost@example.com")
	if !errors.Is(err, store.ErrSubscriberNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePreferences_Validation(t *testing.T) {
	svc := NewNewsletterService(&stubRepo{}, "https://example.com")

	bad := "hourly"
	_, err := svc.UpdatePreferences(context.Background(), domain.UpdatePreferencesRequest{
		Email:     "renter@example.com",
		Frequency: &bad,
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for bad frequency, got %v", err)
	}

	_, err = svc.UpdatePreferences(context.Background(), domain.UpdatePreferencesRequest{
		Email: "renter@example.com",
	})
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for empty update, got %v", err)
	}
}

func TestUpdatePreferences_PartialUpdate(t *testing.T) {
	weekly := "weekly"
	repo := &stubRepo{
		updateSubscriberPreferencesFn: func(_ context.Context, email string, prefs *domain.SubscriberPreferences, frequency *string) (*domain.Subscriber, error) {
			if prefs != nil {
				t.Fatal("preferences were not part of this update")
			}
			if frequency == nil || *frequency != "weekly" {
				t.Fatalf("expected weekly frequency, got %v", frequency)
			}
			return &domain.Subscriber{Email: email, Frequency: *frequency}, nil
		},
	}
	svc := NewNewsletterService(repo, "https://example.com")

	if _, err := svc.UpdatePreferences(context.Background(), domain.UpdatePreferencesRequest{
		Email:     "renter@example.com",
		Frequency: &weekly,
	}); err != nil {
		t.Fatalf("UpdatePreferences returned error: %v", err)
	}
}
