package handler

import (
	"context"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and the reachability of the revocation store.
type HealthHandler struct {
	redis pinger
}

func NewHealthHandler(redis pinger) *HealthHandler { return &HealthHandler{redis: redis} }

type healthStatus struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.redis.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "degraded", Redis: "down"})
		return
	}
	writeJSON(w, http.StatusOK, healthStatus{Status: "ok", Redis: "up"})
}
