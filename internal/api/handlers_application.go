/**
 * @description
 * HTTP handlers for the tenant application endpoints: public submission and
 * status lookup, the authenticated per-user listing, and the admin listing
 * and status update.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/domain: Request and response models.
 */

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choiceproperties/marketplace-service/internal/domain"
)

// SubmitApplicationHandler handles POST /api/applications/submit.
// Authentication is optional; when a valid token is present the application
// is tied to the account so status changes surface as in-app notifications.
func (h *Handlers) SubmitApplicationHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if userID, ok := GetUserID(r.Context()); ok {
		req.UserID = &userID
	}

	application, err := h.applications.Submit(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, envelope{
		"message":       "Application submitted successfully",
		"applicationId": application.ApplicationID,
		"application":   application,
	})
}

// GetApplicationHandler handles GET /api/applications/get/{applicationID}
// and its /status/ alias.
func (h *Handlers) GetApplicationHandler(w http.ResponseWriter, r *http.Request) {
	applicationID := chi.URLParam(r, "applicationID")

	application, err := h.applications.GetByApplicationID(r.Context(), applicationID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{"application": application})
}

// GetUserApplicationsHandler handles GET /api/applications/user/{userID}.
func (h *Handlers) GetUserApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	applications, err := h.applications.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if applications == nil {
		applications = []domain.Application{}
	}
	h.writeJSON(w, http.StatusOK, envelope{"applications": applications})
}

// ListApplicationsHandler handles GET /api/applications/all and the
// /api/admin/applications alias.
func (h *Handlers) ListApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	applications, err := h.applications.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if applications == nil {
		applications = []domain.Application{}
	}
	h.writeJSON(w, http.StatusOK, envelope{
		"count":        len(applications),
		"applications": applications,
	})
}

// UpdateApplicationStatusHandler handles
// PUT /api/applications/update/{applicationID}.
func (h *Handlers) UpdateApplicationStatusHandler(w http.ResponseWriter, r *http.Request) {
	applicationID := chi.URLParam(r, "applicationID")

	var req domain.UpdateApplicationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	application, err := h.applications.UpdateStatus(r.Context(), applicationID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{
		"message":     "Application status updated",
		"application": application,
	})
}
