/**
 * @description
 * This file contains the business logic for user-scoped in-app notifications:
 * listing with unread counts, read-state updates, deletion, and the admin
 * bulk fan-out.
 *
 * @dependencies
 * - context, strings, time, unicode: Standard Go libraries.
 * - github.com/google/uuid: Notification identifiers.
 * - internal/domain, internal/store: Domain models and data access.
 */

package app

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/choiceproperties/marketplace-service/internal/domain"
	"github.com/choiceproperties/marketplace-service/internal/store"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

func newNotificationID() uuid.UUID {
	return uuid.New()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// NotificationService provides the business logic for the notification inbox.
type NotificationService struct {
	repo store.Repository
}

// NewNotificationService creates a new notification service instance.
func NewNotificationService(repo store.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// NotificationPage is one page of a user's inbox plus the unread badge count.
type NotificationPage struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
	Limit         int                   `json:"limit"`
	Offset        int                   `json:"offset"`
}

// List returns a page of a user's notifications, newest first, together with
// the user's total unread count. Limit is clamped to [1, 100].
func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) (*NotificationPage, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.repo.ListNotifications(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return &NotificationPage{
		Notifications: items,
		UnreadCount:   unread,
		Limit:         limit,
		Offset:        offset,
	}, nil
}

// MarkRead flips one notification to read and returns the updated record.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.repo.MarkNotificationRead(ctx, id)
}

// MarkAllRead marks every unread notification for a user as read and returns
// how many were flipped.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllNotificationsRead(ctx, userID)
}

// Delete removes one notification.
func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteNotification(ctx, id)
}

// CreateBulk fans one notification out to a list of users in a single batch
// insert. The type defaults to `system` when omitted.
func (s *NotificationService) CreateBulk(ctx context.Context, req domain.BulkNotificationRequest) (int, error) {
	var errs []string
	if len(req.UserIDs) == 0 {
		errs = append(errs, "At least one user ID is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "Title is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		errs = append(errs, "Message is required")
	}
	nType := req.Type
	if nType == "" {
		nType = domain.NotificationTypeSystem
	}
	switch nType {
	case domain.NotificationTypeApplication, domain.NotificationTypePayment,
		domain.NotificationTypeMessage, domain.NotificationTypeSystem:
	default:
		errs = append(errs, "Unknown notification type: "+nType)
	}
	if len(errs) > 0 {
		return 0, &ValidationError{Errors: errs}
	}

	now := time.Now().UTC()
	items := make([]domain.Notification, 0, len(req.UserIDs))
	for _, userID := range req.UserIDs {
		userID = strings.TrimSpace(userID)
		if userID == "" {
			continue
		}
		items = append(items, domain.Notification{
			ID:        newNotificationID(),
			UserID:    userID,
			Type:      nType,
			Title:     strings.TrimSpace(req.Title),
			Message:   strings.TrimSpace(req.Message),
			CreatedAt: now,
			ExpiresAt: now.Add(domain.NotificationTTL),
		})
	}
	if len(items) == 0 {
		return 0, &ValidationError{Errors: []string{"At least one user ID is required"}}
	}

	if err := s.repo.CreateNotifications(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}
