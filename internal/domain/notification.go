/**
 * @description
 * Domain models for user-scoped in-app notifications. Notifications carry a
 * fixed expiry and are purged by the retention job once expired.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationTypeApplication = "application"
	NotificationTypePayment     = "payment"
	NotificationTypeMessage     = "message"
	NotificationTypeSystem      = "system"
)

// NotificationTTL is how long a notification stays eligible for display.
const NotificationTTL = 30 * 24 * time.Hour

// Notification represents one inbox entry for a user.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID *string   `json:"relatedId,omitempty"`
	ActionURL *string   `json:"actionUrl,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// BulkNotificationRequest is the DTO for the admin fan-out endpoint.
type BulkNotificationRequest struct {
	UserIDs []string `json:"userIds"`
	Type    string   `json:"type,omitempty"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
}
