/**
 * @description
 * Typed event payloads published to the marketplace topic exchange. Routing
 * keys follow the `<entity>.<action>` convention: application.submitted,
 * application.status_changed, payment.completed.
 */

package rabbitmq

import "time"

// ApplicationEvent is published when an application is submitted or its
// status changes.
type ApplicationEvent struct {
	ApplicationID string    `json:"applicationId"`
	Status        string    `json:"status"`
	Email         string    `json:"email"`
	Timestamp     time.Time `json:"timestamp"`
}

// PaymentEvent is published when a payment completes.
type PaymentEvent struct {
	TransactionID string    `json:"transactionId"`
	AmountCents   int64     `json:"amountCents"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}
