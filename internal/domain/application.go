/**
 * @description
 * This file defines the domain models for tenant rental applications. These
 * structs represent the application entity persisted in the `applications`
 * table plus the DTOs used by the API layer.
 *
 * @notes
 * - The SSN is never stored or transmitted in plaintext. The domain model only
 *   ever carries the bcrypt hash; the raw value exists solely inside the
 *   submission request during validation.
 * - `applicationId` is the human-readable unique identifier (APP-...) exposed
 *   to applicants; the row itself is keyed by it.
 */

package domain

import "time"

// Application lifecycle statuses.
const (
	ApplicationStatusSubmitted = "submitted"
	ApplicationStatusScreening = "screening"
	ApplicationStatusApproved  = "approved"
	ApplicationStatusRejected  = "rejected"
)

// Background check sub-statuses, tracked independently of the overall status.
const (
	BackgroundCheckPending = "pending"
	BackgroundCheckPassed  = "passed"
	BackgroundCheckFailed  = "failed"
)

// EmploymentStatuses enumerates the accepted employment status values.
var EmploymentStatuses = []string{"employed", "self-employed", "retired", "student", "unemployed"}

// Application represents one tenant's rental application record.
type Application struct {
	ApplicationID string  `json:"applicationId"`
	UserID        *string `json:"userId,omitempty"`

	// Personal
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	SSNHash   string    `json:"-"`
	DOB       time.Time `json:"dob"`

	// Employment
	EmploymentStatus    string     `json:"employmentStatus"`
	Employer            *string    `json:"employer,omitempty"`
	JobTitle            *string    `json:"jobTitle,omitempty"`
	AnnualIncome        *int64     `json:"annualIncome,omitempty"`
	EmploymentStartDate *time.Time `json:"employmentStartDate,omitempty"`

	// References
	Reference1Name  string  `json:"reference1Name"`
	Reference1Phone string  `json:"reference1Phone"`
	Reference2Name  *string `json:"reference2Name,omitempty"`
	Reference2Phone *string `json:"reference2Phone,omitempty"`

	// Additional
	PetInfo         *string   `json:"petInfo,omitempty"`
	DesiredMoveDate time.Time `json:"desiredMoveDate"`
	PropertyID      *string   `json:"propertyId,omitempty"`

	// Status
	Status                string `json:"status"`
	BackgroundCheckStatus string `json:"backgroundCheckStatus"`

	SubmittedAt time.Time `json:"submittedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SubmitApplicationRequest is the DTO for incoming application submissions.
// SSN arrives in plaintext here, is validated and hashed, and is never
// persisted or echoed back.
type SubmitApplicationRequest struct {
	UserID *string `json:"userId,omitempty"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	SSN       string `json:"ssn"`
	DOB       string `json:"dob"`

	EmploymentStatus    string  `json:"employmentStatus"`
	Employer            *string `json:"employer,omitempty"`
	JobTitle            *string `json:"jobTitle,omitempty"`
	AnnualIncome        *int64  `json:"annualIncome,omitempty"`
	EmploymentStartDate *string `json:"employmentStartDate,omitempty"`

	Reference1Name  string  `json:"reference1Name"`
	Reference1Phone string  `json:"reference1Phone"`
	Reference2Name  *string `json:"reference2Name,omitempty"`
	Reference2Phone *string `json:"reference2Phone,omitempty"`

	PetInfo         *string `json:"petInfo,omitempty"`
	DesiredMoveDate string  `json:"desiredMoveDate"`
	PropertyID      *string `json:"propertyId,omitempty"`
}

// UpdateApplicationStatusRequest is the DTO for admin status updates.
type UpdateApplicationStatusRequest struct {
	Status                string  `json:"status"`
	BackgroundCheckStatus *string `json:"backgroundCheckStatus,omitempty"`
}
