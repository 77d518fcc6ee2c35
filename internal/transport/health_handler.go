package transport

import (
	"context"
	"net/http"
	"time"

	"catalogo-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HealthChecker reports the state of the store
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db     HealthChecker
	logger *zap.Logger
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger, now: time.Now}
}

// RegisterRoutes registers the health routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.Liveness)
	r.Get("/api/health/db", h.Readiness)
}

// Liveness reports that the process is serving requests
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, HealthResponse{
		Success:   true,
		Message:   "API funcionando corretamente",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// Readiness reports whether the database answers
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	stats := h.db.Health(r.Context())

	if stats["status"] != "up" {
		h.logger.Warn("Database health check failed", zap.String("error", stats["error"]))
		middleware.RespondWithJSON(w, http.StatusServiceUnavailable, middleware.Response{
			Success: false,
			Data:    stats,
			Error:   "Banco de dados indisponível",
		})
		return
	}

	middleware.RespondWithSuccess(w, http.StatusOK, stats, "")
}
