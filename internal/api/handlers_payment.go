/**
 * @description
 * HTTP handlers for the simulated payment endpoints: initiation, processing,
 * status lookup, the per-user payment history, and the admin listing.
 *
 * @dependencies
 * - encoding/json, errors, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/app, internal/domain: Service logic and models.
 */

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choiceproperties/marketplace-service/internal/app"
	"github.com/choiceproperties/marketplace-service/internal/domain"
)

// InitiatePaymentHandler handles POST /api/payments/initiate. The payment is
// recorded in the processing state and must be finalized by the process
// endpoint.
func (h *Handlers) InitiatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if userID, ok := GetUserID(r.Context()); ok {
		req.UserID = &userID
	}

	payment, err := h.payments.Initiate(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, envelope{
		"message":       "Payment initiated",
		"transactionId": payment.TransactionID,
		"payment":       payment,
	})
}

// ProcessPaymentHandler handles POST /api/payments/process. A simulated
// decline returns 402 with the decline message and the failed payment; a
// payment that was already finalized returns 409.
func (h *Handlers) ProcessPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.payments.Process(r.Context(), req)
	if err != nil {
		if errors.Is(err, app.ErrPaymentDeclined) {
			h.writeRaw(w, http.StatusPaymentRequired, envelope{
				"success":       false,
				"message":       domain.PaymentDeclinedMessage,
				"transactionId": payment.TransactionID,
				"status":        domain.PaymentStatusFailed,
				"payment":       payment,
			})
			return
		}
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{
		"message":       "Payment completed successfully",
		"transactionId": payment.TransactionID,
		"status":        payment.Status,
		"payment":       payment,
	})
}

// GetPaymentStatusHandler handles GET /api/payments/status/{transactionID}.
func (h *Handlers) GetPaymentStatusHandler(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	payment, err := h.payments.GetStatus(r.Context(), transactionID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{"payment": payment})
}

// GetUserPaymentsHandler handles GET /api/payments/user/{userID}.
func (h *Handlers) GetUserPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	payments, err := h.payments.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	h.writeJSON(w, http.StatusOK, envelope{"payments": payments})
}

// ListPaymentsHandler handles GET /api/payments/all and the
// /api/admin/payments alias.
func (h *Handlers) ListPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	h.writeJSON(w, http.StatusOK, envelope{
		"count":    len(payments),
		"payments": payments,
	})
}
