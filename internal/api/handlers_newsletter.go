/**
 * @description
 * HTTP handlers for the newsletter endpoints: public subscribe, unsubscribe,
 * preference updates and subscriber lookup, plus the admin listing.
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

type emailRequest struct {
	Email string `json:"email"`
}

// SubscribeHandler handles POST /api/newsletter/subscribe. Subscribing an
// already-active address is a 200 no-op; a new or reactivated subscription
// returns 201.
func (h *Handlers) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	subscriber, err := h.newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, app.ErrAlreadySubscribed) {
			h.writeJSON(w, http.StatusOK, envelope{
				"message":    "Already subscribed",
				"subscriber": subscriber,
			})
			return
		}
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, envelope{
		"message":    "Subscribed successfully",
		"subscriber": subscriber,
	})
}

// UnsubscribeHandler handles POST /api/newsletter/unsubscribe.
func (h *Handlers) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	subscriber, err := h.newsletter.Unsubscribe(r.Context(), req.Email)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope{
		"message":    "Unsubscribed successfully",
		"subscriber": subscriber,
	})
}

// UpdatePreferencesHandler handles PUT /api/newsletter/preferences. Fields
// omitted from the request keep their stored values.
func (h *Handlers) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	subscriber, err := h.newsletter.UpdatePreferences(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{
		"message":    "Preferences updated",
		"subscriber": subscriber,
	})
}

// GetSubscriberHandler handles GET /api/newsletter/get/{email}.
func (h *Handlers) GetSubscriberHandler(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	subscriber, err := h.newsletter.GetSubscriber(r.Context(), email)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{"subscriber": subscriber})
}

// ListSubscribersHandler handles GET /api/newsletter/all and the
// /api/admin/subscribers alias.
func (h *Handlers) ListSubscribersHandler(w http.ResponseWriter, r *http.Request) {
	subscribers, err := h.newsletter.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if subscribers == nil {
		subscribers = []domain.Subscriber{}
	}
	h.writeJSON(w, http.StatusOK, envelope{
		"count":       len(subscribers),
		"subscribers": subscribers,
	})
}
