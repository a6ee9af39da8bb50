package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/you/parkcast/models"
)

// Pinger reports whether the zone store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// MLStatusService defines the model diagnostics needed by HealthHandler
type MLStatusService interface {
	Status(ctx context.Context) models.MLStatusResponse
	Test(ctx context.Context) (models.MLTestResponse, error)
}

// HealthHandler handles liveness and model diagnostics endpoints
type HealthHandler struct {
	db Pinger // nil when zones come from the YAML catalog only
	ml MLStatusService
}

// NewHealthHandler creates a new handler. db may be nil.
func NewHealthHandler(db Pinger, ml MLStatusService) *HealthHandler {
	return &HealthHandler{db: db, ml: ml}
}

// Health handles GET /health with a database connectivity check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"database":  "not configured",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "error",
			"database":  "disconnected",
			"timestamp": time.Now().UTC(),
			"error":     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC(),
	})
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ping handles GET /api/ping
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

// MLStatus handles GET /api/v1/ml-status
func (h *HealthHandler) MLStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.ml.Status(ctx))
}

// MLTest handles GET /api/v1/ml-test
// Runs one fixed sample prediction through the full pipeline
func (h *HealthHandler) MLTest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.ml.Test(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Sample prediction failed",
			Details: map[string]interface{}{
				"internal": err.Error(),
			},
		})
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}
