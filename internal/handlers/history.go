package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/dto"
	"ECOTRACE_BACK-END/internal/middleware"
	"ECOTRACE_BACK-END/internal/models"
	"ECOTRACE_BACK-END/internal/services"
	"ECOTRACE_BACK-END/internal/utils"
)

// HistoryHandler handles analysis history and journey requests
type HistoryHandler struct {
	history *services.HistoryService
	logger  *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler instance
func NewHistoryHandler(history *services.HistoryService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger}
}

// GetHistory returns one page of the caller's analysis history
// @Summary Get analysis history
// @Description List the caller's recorded analyses with optional filters; anonymous callers get an empty result
// @Tags history
// @Produce json
// @Param analysis_type query string false "Filter by analysis type"
// @Param category query string false "Filter by product category"
// @Param min_eco_score query int false "Minimum eco score"
// @Param max_eco_score query int false "Maximum eco score"
// @Param date_from query string false "RFC3339 lower bound"
// @Param date_to query string false "RFC3339 upper bound"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.HistoryResponse "History page"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /history [get]
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter, err := parseHistoryFilter(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}

	tokenStr := middleware.TokenFromContext(r.Context())
	resp, err := h.history.QueryHistory(r.Context(), tokenStr, filter)
	if err != nil {
		h.logger.Error("history query failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "History query failed", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// SaveComparison records a comparison of 2-3 analyzed products
// @Summary Save a product comparison
// @Description Record a comparison for the caller; anonymous callers are silently skipped
// @Tags history
// @Accept json
// @Produce json
// @Param request body dto.ComparisonRequest true "Products to compare"
// @Success 200 {object} dto.RecordResponse "Recording result"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /history/comparison [post]
func (h *HistoryHandler) SaveComparison(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.ComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(req.Products) < 2 || len(req.Products) > 3 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid comparison", "A comparison needs 2 to 3 products")
		return
	}

	products := make([]json.RawMessage, 0, len(req.Products))
	for _, product := range req.Products {
		raw, err := json.Marshal(product)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid comparison", err.Error())
			return
		}
		products = append(products, raw)
	}

	tokenStr := middleware.TokenFromContext(r.Context())
	id, err := h.history.RecordComparison(r.Context(), tokenStr, products, req.Notes)
	if err != nil {
		h.logger.Error("comparison save failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Comparison save failed", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.RecordResponse{Success: true, ID: id})
}

// GetJourney returns the caller's eco journey summary
// @Summary Get eco journey
// @Description Derive trend statistics, category breakdown, timeline and milestones from the caller's history
// @Tags history
// @Produce json
// @Success 200 {object} dto.JourneyResponse "Journey data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /history/journey [get]
func (h *HistoryHandler) GetJourney(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tokenStr := middleware.TokenFromContext(r.Context())
	resp, err := h.history.GetJourney(r.Context(), tokenStr)
	if err != nil {
		h.logger.Error("journey query failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Journey query failed", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

func parseHistoryFilter(r *http.Request) (dto.HistoryFilter, error) {
	var filter dto.HistoryFilter
	q := r.URL.Query()

	if v := q.Get("analysis_type"); v != "" {
		analysisType := models.AnalysisType(v)
		if !analysisType.Valid() {
			return filter, fmt.Errorf("unknown analysis type %q", v)
		}
		filter.AnalysisType = &analysisType
	}
	if v := q.Get("category"); v != "" {
		filter.Category = &v
	}
	if v := q.Get("min_eco_score"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.MinEcoScore = &score
	}
	if v := q.Get("max_eco_score"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.MaxEcoScore = &score
	}
	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &t
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Offset = offset
	}

	return filter, nil
}
