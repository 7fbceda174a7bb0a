package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	blobs HealthChecker
	cache HealthChecker
	sizes func() map[string]int
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for blobs or cache when the dependency is not configured, and nil
// for sizes to omit entity counts.
func NewHealthHandler(blobs, cache HealthChecker, sizes func() map[string]int) *HealthHandler {
	return &HealthHandler{
		blobs: blobs,
		cache: cache,
		sizes: sizes,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	Entities map[string]int    `json:"entities,omitempty"`
}

// Healthz reports liveness.
// It returns 200 if the server is running.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz reports readiness.
// It checks the image store and Redis and returns 200 only if both are
// healthy or not configured.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	for name, checker := range map[string]HealthChecker{
		"blob_store": h.blobs,
		"redis":      h.cache,
	} {
		if checker == nil {
			checks[name] = "not configured"
			continue
		}
		if err := checker.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	response := HealthResponse{
		Status: "ok",
		Checks: checks,
	}
	if h.sizes != nil {
		response.Entities = h.sizes()
	}

	statusCode := http.StatusOK
	if !healthy {
		response.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}
