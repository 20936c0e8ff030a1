package handlers

import (
	"context"
	"net/http"
	"time"

	"eventplanner-backend/pkg/database"
	"eventplanner-backend/pkg/utils"
)

// HealthHandler 健康检查 / 连接池状态
type HealthHandler struct {
	*Base
	db database.DatabaseInterface
}

func NewHealthHandler(base *Base, db database.DatabaseInterface) *HealthHandler {
	return &HealthHandler{Base: base, db: db}
}

// Health GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		h.logger.Error().Err(err).Msg("health check failed")
		utils.WriteErrorResponseWithCode(w, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database unavailable", "")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"status":      "ok",
		"environment": h.config.Environment,
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}

// PoolStats GET /debug/db-pool (development only)
func (h *HealthHandler) PoolStats(w http.ResponseWriter, r *http.Request) {
	stats := database.GetConnectionStats()
	if stats["status"] == "no_connection" {
		// 未经过共享连接 (serve 命令直接打开)
		s := h.db.Stats()
		stats["driver"] = h.db.Driver()
		stats["pool"] = map[string]interface{}{
			"open_connections": s.OpenConnections,
			"in_use":           s.InUse,
			"idle":             s.Idle,
		}
	}
	utils.WriteSuccessResponse(w, stats)
}
