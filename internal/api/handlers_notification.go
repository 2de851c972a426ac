/**
 * @description
 * HTTP handlers for the in-app notification endpoints. All routes require
 * authentication; the bulk fan-out is admin only.
 */

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/choiceproperties/marketplace-service/internal/domain"
)

// ListNotificationsHandler handles GET /api/notifications/{userId}. Supports
// limit and skip query parameters and returns the unread badge count
// alongside the page.
func (h *Handlers) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

	page, err := h.notifications.List(r.Context(), userID, limit, skip)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{
		"notifications": page.Notifications,
		"unreadCount":   page.UnreadCount,
	})
}

// MarkNotificationReadHandler handles PUT /api/notifications/{id}/read.
func (h *Handlers) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	notification, err := h.notifications.MarkRead(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{"notification": notification})
}

// MarkAllNotificationsReadHandler handles PUT /api/notifications/{userId}/read-all.
func (h *Handlers) MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if _, err := h.notifications.MarkAllRead(r.Context(), userID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{"message": "All notifications marked as read"})
}

// DeleteNotificationHandler handles DELETE /api/notifications/{id}.
func (h *Handlers) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notifications.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{"message": "Notification deleted"})
}

// SendBulkNotificationsHandler handles POST /api/notifications/send/bulk.
func (h *Handlers) SendBulkNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.BulkNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.notifications.CreateBulk(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, envelope{
		"message": "Notifications sent",
		"count":   created,
	})
}
