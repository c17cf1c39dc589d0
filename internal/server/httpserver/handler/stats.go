package handler

import "net/http"

// handleStats handles GET /stats.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.stats())
}
