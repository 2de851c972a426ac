/**
 * @description
 * This file defines the domain models for simulated payment transactions.
 *
 * @notes
 * - Amounts are stored as `int64` cents to avoid floating-point inaccuracies
 *   with financial data. The API accepts and reports dollar amounts; the
 *   conversion happens at the service boundary.
 * - Only the last four card digits and the cardholder name are ever retained.
 */

package domain

import "time"

// Payment statuses.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
)

// Payment amount bounds, in cents.
const (
	PaymentMinAmountCents int64 = 1        // $0.01
	PaymentMaxAmountCents int64 = 10000000 // $100,000
)

// PaymentDeclinedMessage is the fixed error recorded on a simulated decline.
const PaymentDeclinedMessage = "Payment authorization failed. Please check your card details and try again."

// Payment represents one simulated payment attempt. Amount and card metadata
// are immutable after creation; only status, stage flags, error fields and the
// completion timestamp change afterwards.
type Payment struct {
	TransactionID string  `json:"transactionId"`
	UserID        *string `json:"userId,omitempty"`

	AmountCents    int64  `json:"amountCents"`
	Currency       string `json:"currency"`
	Description    string `json:"description"`
	CardLastFour   string `json:"cardLastFour"`
	CardholderName string `json:"cardholderName"`

	Status string `json:"status"`

	// Stage flags record how far a successful attempt progressed through the
	// nominal pipeline. On failure they reflect partial progress.
	AuthorizationStage bool `json:"authorizationStage"`
	VerificationStage  bool `json:"verificationStage"`
	ProcessingStage    bool `json:"processingStage"`
	FinalizationStage  bool `json:"finalizationStage"`

	ErrorMessage *string `json:"errorMessage,omitempty"`
	RetryCount   int     `json:"retryCount"`

	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AmountDollars returns the amount in dollars for display and templating.
func (p *Payment) AmountDollars() float64 {
	return float64(p.AmountCents) / 100
}

// InitiatePaymentRequest is the DTO for creating a new payment attempt.
// Amount is in dollars, as submitted by the client.
type InitiatePaymentRequest struct {
	UserID         *string `json:"userId,omitempty"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
	CardholderName string  `json:"cardholderName"`
	CardLastFour   string  `json:"cardLastFour"`
	Email          string  `json:"email"`
}

// ProcessPaymentRequest is the DTO for running the processing step on a
// previously initiated payment.
type ProcessPaymentRequest struct {
	TransactionID string `json:"transactionId"`
	Email         string `json:"email"`
}
