/**
 * @description
 * This file contains the shared handler plumbing for the API: the Handlers
 * struct wiring every service, the JSON response helpers, and the central
 * service-error-to-HTTP-status mapping. Every response carries a `success`
 * boolean alongside its payload.
 *
 * @dependencies
 * - encoding/json, errors, log, net/http: Standard Go libraries.
 * - internal/app, internal/store: For service logic and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/choiceproperties/marketplace-service/internal/app"
	"github.com/choiceproperties/marketplace-service/internal/store"
)

// Handlers holds the application services that handlers will use.
type Handlers struct {
	applications  *app.Service
	payments      *app.PaymentService
	newsletter    *app.NewsletterService
	notifications *app.NotificationService
	admin         *app.AdminService
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(
	applications *app.Service,
	payments *app.PaymentService,
	newsletter *app.NewsletterService,
	notifications *app.NotificationService,
	admin *app.AdminService,
) *Handlers {
	return &Handlers{
		applications:  applications,
		payments:      payments,
		newsletter:    newsletter,
		notifications: notifications,
		admin:         admin,
	}
}

// envelope is the response body shape shared by every endpoint.
type envelope map[string]interface{}

// writeJSON writes the body with success=true merged in.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = true
	h.writeRaw(w, status, body)
}

// writeRaw writes a JSON body verbatim, without touching the success flag.
func (h *Handlers) writeRaw(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError writes a failure response with success=false and a message.
func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeRaw(w, status, envelope{"success": false, "message": message})
}

// writeServiceError maps service and store errors onto HTTP statuses.
// Validation failures carry the itemized violation list; unknown errors are
// logged and reported as an opaque 500.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *app.ValidationError
	if errors.As(err, &validationErr) {
		h.writeRaw(w, http.StatusBadRequest, envelope{
			"success": false,
			"message": "Validation failed",
			"errors":  validationErr.Errors,
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrApplicationNotFound):
		h.writeError(w, http.StatusNotFound, "Application not found")
	case errors.Is(err, store.ErrPaymentNotFound):
		h.writeError(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, store.ErrSubscriberNotFound):
		h.writeError(w, http.StatusNotFound, "Email not found")
	case errors.Is(err, store.ErrNotificationNotFound):
		h.writeError(w, http.StatusNotFound, "Notification not found")
	case errors.Is(err, app.ErrInvalidStatusTransition), errors.Is(err, store.ErrApplicationStatusConflict):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrPaymentFinalized):
		h.writeError(w, http.StatusConflict, "Payment has already been processed")
	default:
		log.Printf("level=error component=api msg=\"unhandled service error\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
