/**
 * @description
 * Domain models for newsletter subscribers and their delivery preferences.
 */

package domain

import "time"

// Subscription statuses.
const (
	SubscriptionActive       = "active"
	SubscriptionUnsubscribed = "unsubscribed"
)

// Delivery frequencies.
var NewsletterFrequencies = []string{"daily", "weekly", "monthly"}

// SubscriberPreferences holds the per-category delivery flags.
type SubscriberPreferences struct {
	NewListings  bool `json:"newListings"`
	MarketTrends bool `json:"marketTrends"`
	Tips         bool `json:"tips"`
	Promotions   bool `json:"promotions"`
}

// DefaultSubscriberPreferences returns the flags applied to new subscribers.
func DefaultSubscriberPreferences() SubscriberPreferences {
	return SubscriberPreferences{
		NewListings:  true,
		MarketTrends: true,
		Tips:         true,
		Promotions:   false,
	}
}

// Subscriber represents one newsletter subscription. Re-subscribing an
// unsubscribed address reactivates the existing row rather than duplicating it.
type Subscriber struct {
	Email              string                `json:"email"`
	SubscriptionStatus string                `json:"subscriptionStatus"`
	SubscribedAt       time.Time             `json:"subscribedAt"`
	UnsubscribedAt     *time.Time            `json:"unsubscribedAt,omitempty"`
	EmailsReceived     int                   `json:"emailsReceived"`
	LastEmailSent      *time.Time            `json:"lastEmailSent,omitempty"`
	Frequency          string                `json:"frequency"`
	Preferences        SubscriberPreferences `json:"preferences"`
}

// UpdatePreferencesRequest is the DTO for partial preference updates.
type UpdatePreferencesRequest struct {
	Email       string                 `json:"email"`
	Preferences *SubscriberPreferences `json:"preferences,omitempty"`
	Frequency   *string                `json:"frequency,omitempty"`
}
