/**
 * @description
 * Input validation for the intake and payment services. Validation collects
 * every violated rule instead of stopping at the first, so clients get one
 * itemized response per bad submission.
 */

package app

import (
	"regexp"
	"strings"

	"github.com/choiceproperties/marketplace-service/internal/domain"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// ValidationError carries the full list of violated rules for a request.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func validEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// digitsOnly strips all non-digit characters, matching how clients submit
// formatted phone numbers ("(555) 123-4567") and SSNs ("123-45-6789").
func digitsOnly(s string) string {
	return nonDigitPattern.ReplaceAllString(s, "")
}

func validPhone(phone string) bool {
	return len(digitsOnly(phone)) == 10
}

func validSSN(ssn string) bool {
	return len(digitsOnly(ssn)) == 9
}

func validEmploymentStatus(status string) bool {
	for _, s := range domain.EmploymentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func validFrequency(frequency string) bool {
	for _, f := range domain.NewsletterFrequencies {
		if f == frequency {
			return true
		}
	}
	return false
}

// validateApplication checks every intake rule and returns the violations.
func validateApplication(req domain.SubmitApplicationRequest) []string {
	var errs []string

	if strings.TrimSpace(req.FirstName) == "" {
		errs = append(errs, "First name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs = append(errs, "Last name is required")
	}
	if !validEmail(req.Email) {
		errs = append(errs, "Valid email is required")
	}
	if !validPhone(req.Phone) {
		errs = append(errs, "Valid phone number is required")
	}
	if !validSSN(req.SSN) {
		errs = append(errs, "Valid SSN (9 digits) is required")
	}
	if strings.TrimSpace(req.DOB) == "" {
		errs = append(errs, "Date of birth is required")
	}
	if !validEmploymentStatus(req.EmploymentStatus) {
		errs = append(errs, "Employment status is required")
	}
	if strings.TrimSpace(req.Reference1Name) == "" {
		errs = append(errs, "Primary reference name is required")
	}
	if !validPhone(req.Reference1Phone) {
		errs = append(errs, "Valid primary reference phone is required")
	}
	if strings.TrimSpace(req.DesiredMoveDate) == "" {
		errs = append(errs, "Desired move date is required")
	}

	return errs
}

// validatePayment checks every initiation rule and returns the violations.
// Bounds are inclusive: $0.01 and $100,000 are both valid amounts.
func validatePayment(req domain.InitiatePaymentRequest) []string {
	var errs []string

	cents := dollarsToCents(req.Amount)
	if cents < domain.PaymentMinAmountCents || cents > domain.PaymentMaxAmountCents {
		errs = append(errs, "Amount must be between $0.01 and $100,000")
	}
	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, "Description is required")
	}
	if len(req.CardLastFour) != 4 || digitsOnly(req.CardLastFour) != req.CardLastFour {
		errs = append(errs, "Valid card last 4 digits required")
	}
	if strings.TrimSpace(req.CardholderName) == "" {
		errs = append(errs, "Cardholder name is required")
	}
	if !validEmail(req.Email) {
		errs = append(errs, "Valid email is required")
	}

	return errs
}
