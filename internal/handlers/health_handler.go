package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/securitylessons/backend/internal/lessons"
	"go.uber.org/zap"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// HealthHandler serves the liveness endpoint and the API index
type HealthHandler struct {
	BaseHandler
	checks map[string]HealthCheck
	mode   string
}

// NewHealthHandler creates a new health handler.
// "checks" maps a dependency name ("database", "redis") to its check.
func NewHealthHandler(checks map[string]HealthCheck, mode string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		checks:      checks,
		mode:        mode,
	}
}

// RegisterRoutes registers the health and index routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/healthz", h.Healthz)
}

// Healthz handles GET /healthz
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.Logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	h.RespondJSON(w, status, map[string]any{
		"status": lo.Ternary(status == http.StatusOK, "ok", "degraded"),
		"checks": results,
	})
}

// Index handles GET /
// @Summary API index
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router / [get]
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, map[string]any{
		"mode":    h.mode,
		"lessons": lo.Map(lessons.Lessons(), func(l *lessons.Lesson, _ int) string { return "/idor/" + l.Name + "/" }),
		"portals": lo.Map(PortalNames(), func(name string, _ int) string { return "/portal/" + name + "/" }),
	})
}
