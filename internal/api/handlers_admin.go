/**
 * @description
 * HTTP handlers for the admin dashboard: aggregated stats and typed exports.
 */

package api

import (
	"net/http"
)

// DashboardStatsHandler handles GET /api/admin/stats.
func (h *Handlers) DashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.DashboardStats(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{"stats": stats})
}

// ExportHandler handles GET /api/admin/export?type=applications|payments|subscribers.
func (h *Handlers) ExportHandler(w http.ResponseWriter, r *http.Request) {
	exportType := r.URL.Query().Get("type")

	data, err := h.admin.Export(r.Context(), exportType)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{
		"type": exportType,
		"data": data,
	})
}
