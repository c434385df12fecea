package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ECOTRACE_BACK-END/internal/analyzer"
	"ECOTRACE_BACK-END/internal/dto"
	"ECOTRACE_BACK-END/internal/utils"
)

// HealthHandler handles health check related requests
type HealthHandler struct {
	db       *pgxpool.Pool
	analyzer analyzer.Analyzer
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db *pgxpool.Pool, analyzer analyzer.Analyzer) *HealthHandler {
	return &HealthHandler{db: db, analyzer: analyzer}
}

// HealthCheck handles basic health check (no dependencies)
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// LivenessCheck handles process liveness check
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "alive"})
}

// ReadinessCheck handles readiness check (database and analyzer connectivity)
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	details := map[string]any{"db": "ok", "analyzer": "ok"}
	degraded := false

	if err := h.db.Ping(ctx); err != nil {
		details["db"] = err.Error()
		degraded = true
	}
	if err := h.analyzer.Ping(ctx); err != nil {
		details["analyzer"] = err.Error()
		degraded = true
	}

	if degraded {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{
			Status:  "degraded",
			Details: details,
		})
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{
		Status:  "ready",
		Details: details,
	})
}
