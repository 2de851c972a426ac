package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/choiceproperties/marketplace-service/internal/app"
	"github.com/choiceproperties/marketplace-service/internal/store"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	h := &Handlers{}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"application not found", store.ErrApplicationNotFound, http.StatusNotFound, "Application not found"},
		{"payment not found", store.ErrPaymentNotFound, http.StatusNotFound, "Payment not found"},
		{"subscriber not found", store.ErrSubscriberNotFound, http.StatusNotFound, "Email not found"},
		{"notification not found", store.ErrNotificationNotFound, http.StatusNotFound, "Notification not found"},
		{"invalid transition", app.ErrInvalidStatusTransition, http.StatusConflict, app.ErrInvalidStatusTransition.Error()},
		{"status conflict", store.ErrApplicationStatusConflict, http.StatusConflict, store.ErrApplicationStatusConflict.Error()},
		{"payment finalized", app.ErrPaymentFinalized, http.StatusConflict, "Payment has already been processed"},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
		{"wrapped sentinel", fmt.Errorf("fetching payment: %w", store.ErrPaymentNotFound), http.StatusNotFound, "Payment not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to parse response body: %v", err)
			}
			if body.Success {
				t.Fatal("error responses must carry success=false")
			}
			if body.Message != tt.wantMessage {
				t.Fatalf("expected message %q, got %q", tt.wantMessage, body.Message)
			}
		})
	}
}

func TestWriteServiceError_ValidationCarriesViolations(t *testing.T) {
	h := &Handlers{}
	rec := httptest.NewRecorder()

	h.writeServiceError(rec, &app.ValidationError{Errors: []string{
		"First name is required",
		"Valid email is required",
	}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	if body.Success || body.Message != "Validation failed" {
		t.Fatalf("unexpected envelope: success=%v message=%q", body.Success, body.Message)
	}
	if len(body.Errors) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(body.Errors), body.Errors)
	}
}

func TestWriteJSON_AddsSuccessFlag(t *testing.T) {
	h := &Handlers{}
	rec := httptest.NewRecorder()

	h.writeJSON(rec, http.StatusCreated, envelope{"status": "processing"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}
	var body struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	if !body.Success || body.Status != "processing" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
