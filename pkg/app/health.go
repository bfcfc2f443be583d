package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	httputil "stallmap/pkg/http"
	"stallmap/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

// HealthCheck is one dependency probed by /ready.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Info   map[string]any    `json:"info,omitempty"`
}

type HealthHandler struct {
	checks []HealthCheck
	info   func() map[string]any
	log    *logger.Logger
}

// NewHealthHandler serves /health unconditionally and /ready once every
// check passes. info, when set, adds service details to the ready report.
func NewHealthHandler(log *logger.Logger, info func() map[string]any, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, info: info, log: log}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ready", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.log.Error("Readiness check failed", "check", c.Name, "error", err, "path", r.URL.Path)
			resp.Checks[c.Name] = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name] = "ok"
	}
	if h.info != nil {
		resp.Info = h.info()
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
