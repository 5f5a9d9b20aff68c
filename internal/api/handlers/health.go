package handlers

import (
	"net/http"

	"github.com/jsj9346/makenaide/pkg/database"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// HealthHandler reports service and database health
type HealthHandler struct {
	db     *database.DB
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: log,
	}
}

// Check returns server and database health status
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbStatus, err := h.db.HealthCheck(ctx)
	if err != nil || !dbStatus.Healthy {
		h.logger.WithError(err).Warn("Database health check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "degraded",
			"service":  "makenaide-api",
			"database": dbStatus,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"service":  "makenaide-api",
		"database": dbStatus,
	})
}
