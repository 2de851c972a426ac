/**
 * @description
 * This file contains the core business logic for tenant application intake.
 * The `Service` struct orchestrates validation, identifier generation, SSN
 * hashing, persistence, and the best-effort side effects (confirmation email,
 * in-app notification, domain event).
 *
 * Key features:
 * - Collects every validation violation into a single typed error.
 * - Generates collision-resistant human-readable application ids and retries
 *   with a fresh id if the store reports a unique-key collision.
 * - Hashes the SSN with bcrypt before the record ever reaches the store.
 * - Enforces an explicit status-transition table on admin updates.
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - golang.org/x/crypto/bcrypt: One-way SSN hashing.
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/mailer, pkg/rabbitmq: Email templating and event publishing.
 */

package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/choiceproperties/marketplace-service/internal/domain"
	"github.com/choiceproperties/marketplace-service/internal/store"
	"github.com/choiceproperties/marketplace-service/pkg/mailer"
	"github.com/choiceproperties/marketplace-service/pkg/rabbitmq"
)

// ErrInvalidStatusTransition is returned when an admin update requests a
// transition the lifecycle does not allow.
var ErrInvalidStatusTransition = errors.New("invalid application status transition")

const (
	// SSNHashCost keeps bcrypt latency in the tens of milliseconds.
	SSNHashCost = 10

	// idGenerationAttempts bounds the regenerate-and-retry loop on the
	// (vanishingly unlikely) application id collision.
	idGenerationAttempts = 3
)

// applicationTransitions is the legal status graph. Terminal states carry no
// outgoing edges and accept no further transitions.
var applicationTransitions = map[string][]string{
	domain.ApplicationStatusSubmitted: {domain.ApplicationStatusScreening},
	domain.ApplicationStatusScreening: {domain.ApplicationStatusApproved, domain.ApplicationStatusRejected},
}

// backgroundCheckTransitions is the legal graph for the independent
// background-check sub-status.
var backgroundCheckTransitions = map[string][]string{
	domain.BackgroundCheckPending: {domain.BackgroundCheckPassed, domain.BackgroundCheckFailed},
}

// Service provides the core business logic for application intake.
type Service struct {
	repo          store.Repository
	eventProducer rabbitmq.Publisher
	eventExchange string
	siteBaseURL   string
}

// NewService creates a new application intake service instance. The event
// producer may be nil when the broker is unavailable; publishing then degrades
// to a no-op.
func NewService(repo store.Repository, producer rabbitmq.Publisher, eventExchange, siteBaseURL string) *Service {
	return &Service{
		repo:          repo,
		eventProducer: producer,
		eventExchange: eventExchange,
		siteBaseURL:   siteBaseURL,
	}
}

// randomBase36 returns n base36 characters from a CSPRNG.
func randomBase36(n int) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to a time-derived suffix rather than crash intake.
		return strconv.FormatInt(time.Now().UnixNano(), 36)[:n]
	}
	s := new(big.Int).SetBytes(buf).Text(36)
	for len(s) < n {
		s = "0" + s
	}
	return s[:n]
}

// newApplicationID builds a human-readable unique id: time-based base36
// prefix plus a random base36 suffix, upper-cased (APP-MB3K2J1A-X9Q0PL2RT).
func newApplicationID(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	return strings.ToUpper("APP-" + ts + "-" + randomBase36(9))
}

func dollarsToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// parseDate accepts the date-only wire format used by the frontend and full
// RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Submit validates, persists and acknowledges a tenant application.
// Notification side effects are best-effort: a failed email enqueue or event
// publish is logged and never fails or rolls back the submission.
func (s *Service) Submit(ctx context.Context, req domain.SubmitApplicationRequest) (*domain.Application, error) {
	errs := validateApplication(req)

	var dob, moveDate time.Time
	var parseErr error
	if strings.TrimSpace(req.DOB) != "" {
		if dob, parseErr = parseDate(req.DOB); parseErr != nil {
			errs = append(errs, "Valid date of birth is required")
		}
	}
	if strings.TrimSpace(req.DesiredMoveDate) != "" {
		if moveDate, parseErr = parseDate(req.DesiredMoveDate); parseErr != nil {
			errs = append(errs, "Valid desired move date is required")
		}
	}
	var employmentStart *time.Time
	if req.EmploymentStartDate != nil && strings.TrimSpace(*req.EmploymentStartDate) != "" {
		t, err := parseDate(*req.EmploymentStartDate)
		if err != nil {
			errs = append(errs, "Valid employment start date is required")
		} else {
			employmentStart = &t
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	// The SSN is hashed once here and only the hash travels further.
	ssnHash, err := bcrypt.GenerateFromPassword([]byte(digitsOnly(req.SSN)), SSNHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash ssn: %w", err)
	}

	now := time.Now().UTC()
	app := &domain.Application{
		UserID:                req.UserID,
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		Email:                 strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:                 digitsOnly(req.Phone),
		SSNHash:               string(ssnHash),
		DOB:                   dob,
		EmploymentStatus:      req.EmploymentStatus,
		Employer:              req.Employer,
		JobTitle:              req.JobTitle,
		AnnualIncome:          req.AnnualIncome,
		EmploymentStartDate:   employmentStart,
		Reference1Name:        strings.TrimSpace(req.Reference1Name),
		Reference1Phone:       digitsOnly(req.Reference1Phone),
		Reference2Name:        req.Reference2Name,
		Reference2Phone:       req.Reference2Phone,
		PetInfo:               req.PetInfo,
		DesiredMoveDate:       moveDate,
		PropertyID:            req.PropertyID,
		Status:                domain.ApplicationStatusSubmitted,
		BackgroundCheckStatus: domain.BackgroundCheckPending,
		SubmittedAt:           now,
		UpdatedAt:             now,
	}

	// Insert with a bounded regenerate-on-collision loop. The id space makes a
	// collision negligible, but the unique index is the source of truth.
	for attempt := 0; attempt < idGenerationAttempts; attempt++ {
		app.ApplicationID = newApplicationID(now)
		err = s.repo.CreateApplication(ctx, app)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicateApplicationID) {
			return nil, fmt.Errorf("failed to create application: %w", err)
		}
		log.Printf("level=warn component=app msg=\"application id collision; regenerating\" attempt=%d", attempt+1)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.enqueueEmail(ctx, app.Email, mailer.ApplicationConfirmation(app.ApplicationID))
	s.publishEvent(ctx, "application.submitted", rabbitmq.ApplicationEvent{
		ApplicationID: app.ApplicationID,
		Status:        app.Status,
		Email:         app.Email,
		Timestamp:     now,
	})

	log.Printf("level=info component=app msg=\"application submitted\" application_id=%s", app.ApplicationID)
	return app, nil
}

// GetByApplicationID returns one application or store.ErrApplicationNotFound.
func (s *Service) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error) {
	return s.repo.FindApplicationByID(ctx, applicationID)
}

// ListByUser returns a user's applications, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	return s.repo.FindApplicationsByUserID(ctx, userID)
}

// ListAll returns every application, newest first.
func (s *Service) ListAll(ctx context.Context) ([]domain.Application, error) {
	return s.repo.FindAllApplications(ctx)
}

func transitionAllowed(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus applies an admin status change. Only transitions in the legal
// graph are accepted; terminal states reject everything. On success the
// applicant gets a templated status email and, when the application is tied
// to an account, an in-app notification.
func (s *Service) UpdateStatus(ctx context.Context, applicationID string, req domain.UpdateApplicationStatusRequest) (*domain.Application, error) {
	newStatus := strings.TrimSpace(req.Status)
	switch newStatus {
	case domain.ApplicationStatusSubmitted, domain.ApplicationStatusScreening,
		domain.ApplicationStatusApproved, domain.ApplicationStatusRejected:
	default:
		return nil, &ValidationError{Errors: []string{"Unknown application status: " + newStatus}}
	}
	if req.BackgroundCheckStatus != nil {
		switch *req.BackgroundCheckStatus {
		case domain.BackgroundCheckPending, domain.BackgroundCheckPassed, domain.BackgroundCheckFailed:
		default:
			return nil, &ValidationError{Errors: []string{"Unknown background check status: " + *req.BackgroundCheckStatus}}
		}
	}

	current, err := s.repo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(applicationTransitions, current.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, newStatus)
	}
	if req.BackgroundCheckStatus != nil && *req.BackgroundCheckStatus != current.BackgroundCheckStatus {
		if !transitionAllowed(backgroundCheckTransitions, current.BackgroundCheckStatus, *req.BackgroundCheckStatus) {
			return nil, fmt.Errorf("%w: background check %s -> %s", ErrInvalidStatusTransition, current.BackgroundCheckStatus, *req.BackgroundCheckStatus)
		}
	}

	updated, err := s.repo.UpdateApplicationStatus(ctx, applicationID, current.Status, newStatus, req.BackgroundCheckStatus)
	if err != nil {
		return nil, err
	}

	s.enqueueEmail(ctx, updated.Email, mailer.ApplicationStatusChange(newStatus, updated.ApplicationID, updated.FirstName))
	if updated.UserID != nil {
		s.createStatusNotification(ctx, updated, newStatus)
	}
	s.publishEvent(ctx, "application.status_changed", rabbitmq.ApplicationEvent{
		ApplicationID: updated.ApplicationID,
		Status:        newStatus,
		Email:         updated.Email,
		Timestamp:     time.Now().UTC(),
	})

	log.Printf("level=info component=app msg=\"application status updated\" application_id=%s status=%s", applicationID, newStatus)
	return updated, nil
}

func (s *Service) createStatusNotification(ctx context.Context, app *domain.Application, newStatus string) {
	actionURL := s.siteBaseURL + "/applications/" + app.ApplicationID
	n := domain.Notification{
		ID:        newNotificationID(),
		UserID:    *app.UserID,
		Type:      domain.NotificationTypeApplication,
		Title:     "Application " + titleCase(newStatus),
		Message:   "Your application " + app.ApplicationID + " is now " + newStatus + ".",
		RelatedID: &app.ApplicationID,
		ActionURL: &actionURL,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(domain.NotificationTTL),
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		log.Printf("level=warn component=app msg=\"status notification create failed\" application_id=%s err=%v", app.ApplicationID, err)
	}
}

// enqueueEmail appends one message to the outbox. Failure is logged and
// swallowed so the primary write stands.
func (s *Service) enqueueEmail(ctx context.Context, recipient string, email mailer.Email) {
	err := s.repo.EnqueueEmail(ctx, store.EmailOutboxMessage{
		Recipient: recipient,
		Subject:   email.Subject,
		HTMLBody:  email.HTMLBody,
	})
	if err != nil {
		log.Printf("level=warn component=app msg=\"email enqueue failed\" recipient=%s err=%v", recipient, err)
	}
}

func (s *Service) publishEvent(ctx context.Context, routingKey string, body interface{}) {
	if s.eventProducer == nil {
		return
	}
	if err := s.eventProducer.Publish(ctx, s.eventExchange, routingKey, body); err != nil {
		log.Printf("level=warn component=app msg=\"event publish failed\" routing_key=%s err=%v", routingKey, err)
	}
}
