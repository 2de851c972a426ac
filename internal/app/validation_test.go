package app

import (
	"strings"
	"testing"

	"github.com/choiceproperties/marketplace-service/internal/domain"
)

func validSubmitRequest() domain.SubmitApplicationRequest {
	return domain.SubmitApplicationRequest{
		FirstName:        "Jordan",
		LastName:         "Reyes",
		Email:            "jordan.reyes@example.com",
		Phone:            "(555) 123-4567",
		SSN:              "123-45-6789",
		DOB:              "1992-04-17",
		EmploymentStatus: "employed",
		Reference1Name:   "Sam Ortiz",
		Reference1Phone:  "5559876543",
		DesiredMoveDate:  "2026-10-01",
	}
}

func TestValidateApplication_AcceptsValidRequest(t *testing.T) {
	if errs := validateApplication(validSubmitRequest()); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestValidateApplication_CollectsAllViolations(t *testing.T) {
	errs := validateApplication(domain.SubmitApplicationRequest{})
	if len(errs) != 10 {
		t.Fatalf("expected 10 violations on empty request, got %d: %v", len(errs), errs)
	}
}

func TestValidateApplication_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.SubmitApplicationRequest)
		wantErr string
	}{
		{
			name:    "missing first name",
			mutate:  func(r *domain.SubmitApplicationRequest) { r.FirstName = "   " },
			wantErr: "First name is required",
		},
		{
			name:    "malformed email",
			mutate:  func(r *domain.SubmitApplicationRequest) { r.Email = "not-an-email" },
			wantErr: "Valid email is required",
		},
		{
			name:    "phone too short",
			mutate:  func(r *domain.SubmitApplicationRequest) { r.Phone = "555-1234" },
			wantErr: "Valid phone number is required",
		},
		{
			name:    "ssn wrong length",
			mutate:  func(r *domain.SubmitApplicationRequest) { r.SSN = "12-34-5678" },
			wantErr: "Valid SSN (9 digits) is required",
		},
		{
			name:    "unknown employment status",
			mutate:  func(r *domain.SubmitApplicationRequest) { r.EmploymentStatus = "freelancing" },
			wantErr: "Employment status is required",
		},
		{
			name:    "reference phone invalid",
			mutate:  func(r *domain.SubmitApplicationRequest) { r.Reference1Phone = "123" },
			wantErr: "Valid primary reference phone is required",
		},
		{
			name:    "missing move date",
			mutate:  func(r *domain.SubmitApplicationRequest) { r.DesiredMoveDate = "" },
			wantErr: "Desired move date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmitRequest()
			tt.mutate(&req)
			errs := validateApplication(req)
			if len(errs) != 1 {
				t.Fatalf("expected exactly one violation, got %v", errs)
			}
			if errs[0] != tt.wantErr {
				t.Fatalf("expected %q, got %q", tt.wantErr, errs[0])
			}
		})
	}
}

func TestValidateApplication_FormattedInputsAccepted(t *testing.T) {
	req := validSubmitRequest()
	req.Phone = "(555) 123-4567"
	req.SSN = "123-45-6789"
	if errs := validateApplication(req); len(errs) != 0 {
		t.Fatalf("formatted phone/ssn should pass, got %v", errs)
	}
}

func validPaymentRequest() domain.InitiatePaymentRequest {
	return domain.InitiatePaymentRequest{
		Amount:         1250.00,
		Description:    "Security deposit",
		CardholderName: "Jordan Reyes",
		CardLastFour:   "4242",
		Email:          "jordan.reyes@example.com",
	}
}

func TestValidatePayment_AmountBoundsInclusive(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		wantOK bool
	}{
		{"below minimum", 0.0, false},
		{"exact minimum", 0.01, true},
		{"ordinary", 1250.00, true},
		{"exact maximum", 100000.00, true},
		{"above maximum", 100000.01, false},
		{"negative", -5.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validPaymentRequest()
			req.Amount = tt.amount
			errs := validatePayment(req)
			hasAmountErr := false
			for _, e := range errs {
				if strings.Contains(e, "Amount must be between") {
					hasAmountErr = true
				}
			}
			if tt.wantOK && hasAmountErr {
				t.Fatalf("amount %v should be accepted, got %v", tt.amount, errs)
			}
			if !tt.wantOK && !hasAmountErr {
				t.Fatalf("amount %v should be rejected", tt.amount)
			}
		})
	}
}

func TestValidatePayment_CardRules(t *testing.T) {
	req := validPaymentRequest()
	req.CardLastFour = "42a2"
	errs := validatePayment(req)
	if len(errs) != 1 || errs[0] != "Valid card last 4 digits required" {
		t.Fatalf("expected card digits violation, got %v", errs)
	}

	req = validPaymentRequest()
	req.CardLastFour = "42421"
	if errs := validatePayment(req); len(errs) != 1 {
		t.Fatalf("five digits should be rejected, got %v", errs)
	}
}

func TestDollarsToCents_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		dollars float64
		cents   int64
	}{
		{0.01, 1},
		{1250.00, 125000},
		{19.99, 1999},
		{0.105, 11},
		{100000.00, 10000000},
	}
	for _, tt := range tests {
		if got := dollarsToCents(tt.dollars); got != tt.cents {
			t.Fatalf("dollarsToCents(%v) = %d, want %d", tt.dollars, got, tt.cents)
		}
	}
}
