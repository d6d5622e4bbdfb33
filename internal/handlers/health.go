package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/sbilibin2017/dtc-admin/internal/logger"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HealthResponse lists the state of every dependency.
// swagger:model HealthResponse
type HealthResponse struct {
	// ok or unavailable
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewHealthHandler returns an HTTP handler running every check.
// @Summary Health check
// @Description Pings Postgres and Redis
// @Tags ops
// @Produce json
// @Success 200 {object} handlers.HealthResponse "All dependencies reachable"
// @Failure 503 {object} handlers.HealthResponse "A dependency is unreachable"
// @Router /health [get]
func NewHealthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK

		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logger.Log.Warnw("health check failed", "check", name, "error", err)
				resp.Checks[name] = err.Error()
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		writeJSON(w, status, resp)
	}
}
