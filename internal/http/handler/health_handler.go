package handler

import (
	"net/http"

	"github.com/straye-as/pipeline-api/internal/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewHealthHandler(db *gorm.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Live is the liveness probe
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the database is reachable
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := database.HealthCheck(r.Context(), h.db); err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"checks": map[string]string{"database": err.Error()},
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"checks": map[string]string{"database": "healthy"},
	})
}
