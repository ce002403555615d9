package handlers

import (
	"net/http"
)

type HealthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.HealthCheck(); err != nil {
		h.Log.WithError(err).Error("health check failed")
		writeSuccess(w, HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
		return
	}
	writeSuccess(w, HealthResponse{Status: "ok"}, http.StatusOK)
}
