package httpapi

import "net/http"

// HandleHealth returns API health status and record counts
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Counts(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"})
		return
	}

	h.logger.Debug().Int("essays", counts.Essays).Msg("health check")

	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Counts: counts,
	})
}
