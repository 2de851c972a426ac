package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/choiceproperties/marketplace-service/internal/domain"
	"github.com/choiceproperties/marketplace-service/internal/store"
)

func TestSubmit_PersistsApplicationWithHashedSSN(t *testing.T) {
	var created *domain.Application
	var enqueued []store.EmailOutboxMessage
	repo := &stubRepo{
		createApplicationFn: func(_ context.Context, app *domain.Application) error {
			created = app
			return nil
		},
		enqueueEmailFn: func(_ context.Context, msg store.EmailOutboxMessage) error {
			enqueued = append(enqueued, msg)
			return nil
		},
	}
	svc := NewService(repo, nil, "marketplace.events", "https://example.com")

	app, err := svc.Submit(context.Background(), validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected application to be persisted")
	}
	if !strings.HasPrefix(app.ApplicationID, "APP-") {
		t.Fatalf("expected APP- prefix, got %q", app.ApplicationID)
	}
	if app.ApplicationID != strings.ToUpper(app.ApplicationID) {
		t.Fatalf("expected upper-cased id, got %q", app.ApplicationID)
	}
	if app.Status != domain.ApplicationStatusSubmitted {
		t.Fatalf("expected submitted status, got %q", app.Status)
	}
	if app.BackgroundCheckStatus != domain.BackgroundCheckPending {
		t.Fatalf("expected pending background check, got %q", app.BackgroundCheckStatus)
	}
	if strings.Contains(app.SSNHash, "123456789") {
		t.Fatal("ssn hash must not contain the raw ssn")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(app.SSNHash), []byte("123456789")); err != nil {
		t.Fatalf("ssn hash does not verify against the submitted ssn: %v", err)
	}
	if len(enqueued) != 1 {
		t.Fatalf("expected one confirmation email enqueued, got %d", len(enqueued))
	}
	if enqueued[0].Recipient != "jordan.reyes@example.com" {
		t.Fatalf("unexpected confirmation recipient %q", enqueued[0].Recipient)
	}
}

func TestSubmit_ReturnsAllValidationErrors(t *testing.T) {
	svc := NewService(&stubRepo{}, nil, "marketplace.events", "https://example.com")

	_, err := svc.Submit(context.Background(), domain.SubmitApplicationRequest{})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Errors) != 10 {
		t.Fatalf("expected 10 violations, got %d: %v", len(validationErr.Errors), validationErr.Errors)
	}
}

func TestSubmit_RejectsUnparseableDates(t *testing.T) {
	svc := NewService(&stubRepo{}, nil, "marketplace.events", "https://example.com")

	req := validSubmitRequest()
	req.DOB = "17/04/1992"
	_, err := svc.Submit(context.Background(), req)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Errors[0] != "Valid date of birth is required" {
		t.Fatalf("unexpected violation %v", validationErr.Errors)
	}
}

func TestSubmit_RegeneratesIDOnCollision(t *testing.T) {
	var seen []string
	repo := &stubRepo{
		createApplicationFn: func(_ context.Context, app *domain.Application) error {
			seen = append(seen, app.ApplicationID)
			if len(seen) == 1 {
				return store.ErrDuplicateApplicationID
			}
			return nil
		},
	}
	svc := NewService(repo, nil, "marketplace.events", "https://example.com")

	app, err := svc.Submit(context.Background(), validSubmitRequest())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected exactly one retry, got %d attempts", len(seen))
	}
	if seen[0] == seen[1] {
		t.Fatal("expected a fresh id on retry")
	}
	if app.ApplicationID != seen[1] {
		t.Fatalf("returned id %q does not match persisted id %q", app.ApplicationID, seen[1])
	}
}

func TestSubmit_EmailEnqueueFailureDoesNotFailSubmission(t *testing.T) {
	repo := &stubRepo{
		createApplicationFn: func(_ context.Context, _ *domain.Application) error { return nil },
		enqueueEmailFn: func(_ context.Context, _ store.EmailOutboxMessage) error {
			return errors.New("outbox unavailable")
		},
	}
	svc := NewService(repo, nil, "marketplace.events", "https://example.com")

	if _, err := svc.Submit(context.Background(), validSubmitRequest()); err != nil {
		t.Fatalf("submission must stand when email enqueue fails, got %v", err)
	}
}

func TestUpdateStatus_TransitionTable(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{domain.ApplicationStatusSubmitted, domain.ApplicationStatusScreening, true},
		{domain.ApplicationStatusSubmitted, domain.ApplicationStatusApproved, false},
		{domain.ApplicationStatusSubmitted, domain.ApplicationStatusRejected, false},
		{domain.ApplicationStatusScreening, domain.ApplicationStatusApproved, true},
		{domain.ApplicationStatusScreening, domain.ApplicationStatusRejected, true},
		{domain.ApplicationStatusScreening, domain.ApplicationStatusSubmitted, false},
		{domain.ApplicationStatusApproved, domain.ApplicationStatusRejected, false},
		{domain.ApplicationStatusApproved, domain.ApplicationStatusScreening, false},
		{domain.ApplicationStatusRejected, domain.ApplicationStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			current := &domain.Application{
				ApplicationID:         "APP-TEST-1",
				Email:                 "a@b.com",
				FirstName:             "A",
				Status:                tt.from,
				BackgroundCheckStatus: domain.BackgroundCheckPending,
			}
			repo := &stubRepo{
				findApplicationByIDFn: func(_ context.Context, _ string) (*domain.Application, error) {
					return current, nil
				},
				updateApplicationStatusFn: func(_ context.Context, _, expected, newStatus string, _ *string) (*domain.Application, error) {
					updated := *current
					updated.Status = newStatus
					updated.UpdatedAt = time.Now()
					return &updated, nil
				},
			}
			svc := NewService(repo, nil, "marketplace.events", "https://example.com")

			updated, err := svc.UpdateStatus(context.Background(), "APP-TEST-1", domain.UpdateApplicationStatusRequest{Status: tt.to})
			if tt.allowed {
				if err != nil {
					t.Fatalf("transition %s -> %s should be allowed, got %v", tt.from, tt.to, err)
				}
				if updated.Status != tt.to {
					t.Fatalf("expected status %q, got %q", tt.to, updated.Status)
				}
			} else {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Fatalf("transition %s -> %s should be rejected, got %v", tt.from, tt.to, err)
				}
			}
		})
	}
}

func TestUpdateStatus_UnknownStatusIsValidationError(t *testing.T) {
	svc := NewService(&stubRepo{}, nil, "marketplace.events", "https://example.com")

	_, err := svc.UpdateStatus(context.Background(), "APP-TEST-1", domain.UpdateApplicationStatusRequest{Status: "archived"})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for unknown status, got %v", err)
	}
}

func TestUpdateStatus_BackgroundCheckTransitions(t *testing.T) {
	passed := domain.BackgroundCheckPassed
	pending := domain.BackgroundCheckPending

	current := &domain.Application{
		ApplicationID:         "APP-TEST-2",
		Email:                 "a@b.com",
		Status:                domain.ApplicationStatusScreening,
		BackgroundCheckStatus: domain.BackgroundCheckPassed,
	}
	repo := &stubRepo{
		findApplicationByIDFn: func(_ context.Context, _ string) (*domain.Application, error) {
			return current, nil
		},
	}
	svc := NewService(repo, nil, "marketplace.events", "https://example.com")

	// passed -> pending is not in the graph
	_, err := svc.UpdateStatus(context.Background(), "APP-TEST-2", domain.UpdateApplicationStatusRequest{
		Status:                domain.ApplicationStatusApproved,
		BackgroundCheckStatus: &pending,
	})
	if !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("reverting a finished background check should be rejected, got %v", err)
	}

	// same value is a no-op, not a transition
	repo.updateApplicationStatusFn = func(_ context.Context, _, _, newStatus string, _ *string) (*domain.Application, error) {
		updated := *current
		updated.Status = newStatus
		return &updated, nil
	}
	if _, err := svc.UpdateStatus(context.Background(), "APP-TEST-2", domain.UpdateApplicationStatusRequest{
		Status:                domain.ApplicationStatusApproved,
		BackgroundCheckStatus: &passed,
	}); err != nil {
		t.Fatalf("unchanged background check should pass, got %v", err)
	}
}

func TestUpdateStatus_NotFoundHasNoSideEffects(t *testing.T) {
	enqueued := 0
	repo := &stubRepo{
		findApplicationByIDFn: func(_ context.Context, _ string) (*domain.Application, error) {
			return nil, store.ErrApplicationNotFound
		},
		enqueueEmailFn: func(_ context.Context, _ store.EmailOutboxMessage) error {
			enqueued++
			return nil
		},
	}
	svc := NewService(repo, nil, "marketplace.events", "https://example.com")

	_, err := svc.UpdateStatus(context.Background(), "APP-MISSING", domain.UpdateApplicationStatusRequest{Status: domain.ApplicationStatusScreening})
	if !errors.Is(err, store.ErrApplicationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if enqueued != 0 {
		t.Fatal("no email may be enqueued for a missing application")
	}
}

func TestNewApplicationID_Format(t *testing.T) {
	id := newApplicationID(time.Now())
	if !strings.HasPrefix(id, "APP-") {
		t.Fatalf("expected APP- prefix, got %q", id)
	}
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("expected APP-<ts>-<rand>, got %q", id)
	}
	if len(parts[2]) != 9 {
		t.Fatalf("expected 9-char random suffix, got %q", parts[2])
	}
	if id != strings.ToUpper(id) {
		t.Fatalf("expected upper case, got %q", id)
	}
}
