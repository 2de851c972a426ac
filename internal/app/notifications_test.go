package app

import (
	"context"
	"errors"
	"testing"

	"github.com/choiceproperties/marketplace-service/internal/domain"
)

func TestNotificationList_ClampsLimitAndOffset(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &stubRepo{
		listNotificationsFn: func(_ context.Context, _ string, limit, offset int) ([]domain.Notification, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
		countUnreadNotificationsFn: func(_ context.Context, _ string) (int64, error) {
			return 2, nil
		},
	}
	svc := NewNotificationService(repo)

	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", 0, 0, 20, 0},
		{"negative offset", 10, -5, 10, 0},
		{"over maximum", 500, 40, 100, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(context.Background(), "user_1", tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if gotLimit != tt.wantLimit || gotOffset != tt.wantOffset {
				t.Fatalf("expected limit=%d offset=%d, got limit=%d offset=%d", tt.wantLimit, tt.wantOffset, gotLimit, gotOffset)
			}
			if page.UnreadCount != 2 {
				t.Fatalf("expected unread count 2, got %d", page.UnreadCount)
			}
			if page.Notifications == nil {
				t.Fatal("empty page must serialize as [], not null")
			}
		})
	}
}

func TestCreateBulk_DefaultsToSystemType(t *testing.T) {
	var created []domain.Notification
	repo := &stubRepo{
		createNotificationsFn: func(_ context.Context, items []domain.Notification) error {
			created = items
			return nil
		},
	}
	svc := NewNotificationService(repo)

	n, err := svc.CreateBulk(context.Background(), domain.BulkNotificationRequest{
		UserIDs: []string{"user_1", "user_2", "  "},
		Title:   "Scheduled maintenance",
		Message: "The portal will be unavailable Sunday 2-4 AM.",
	})
	if err != nil {
		t.Fatalf("CreateBulk returned error: %v", err)
	}
	if n != 2 || len(created) != 2 {
		t.Fatalf("expected 2 notifications (blank user skipped), got %d", n)
	}
	for _, item := range created {
		if item.Type != domain.NotificationTypeSystem {
			t.Fatalf("expected system type default, got %q", item.Type)
		}
		if item.ExpiresAt.Sub(item.CreatedAt) != domain.NotificationTTL {
			t.Fatalf("expected %v ttl, got %v", domain.NotificationTTL, item.ExpiresAt.Sub(item.CreatedAt))
		}
	}
}

func TestCreateBulk_Validation(t *testing.T) {
	svc := NewNotificationService(&stubRepo{})

	tests := []struct {
		name string
		req  domain.BulkNotificationRequest
	}{
		{"no users", domain.BulkNotificationRequest{Title: "t", Message: "m"}},
		{"no title", domain.BulkNotificationRequest{UserIDs: []string{"u"}, Message: "m"}},
		{"no message", domain.BulkNotificationRequest{UserIDs: []string{"u"}, Title: "t"}},
		{"bad type", domain.BulkNotificationRequest{UserIDs: []string{"u"}, Title: "t", Message: "m", Type: "marketing"}},
		{"only blank users", domain.BulkNotificationRequest{UserIDs: []string{" ", ""}, Title: "t", Message: "m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBulk(context.Background(), tt.req)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("approved"); got != "Approved" {
		t.Fatalf("expected Approved, got %q", got)
	}
	if got := titleCase(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
