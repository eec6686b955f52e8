package handler

import (
	"net/http"
)

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Dashboard retrieved.", summary)
}
