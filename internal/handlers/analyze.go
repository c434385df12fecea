package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ECOTRACE_BACK-END/internal/analyzer"
	"ECOTRACE_BACK-END/internal/dto"
	"ECOTRACE_BACK-END/internal/middleware"
	"ECOTRACE_BACK-END/internal/models"
	"ECOTRACE_BACK-END/internal/services"
	"ECOTRACE_BACK-END/internal/utils"
)

// AnalyzeHandler handles product analysis requests
type AnalyzeHandler struct {
	analyzer analyzer.Analyzer
	history  *services.HistoryService
	logger   *zap.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler instance
func NewAnalyzeHandler(analyzer analyzer.Analyzer, history *services.HistoryService, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, history: history, logger: logger}
}

// AnalyzeProduct analyzes a product by name or URL
// @Summary Analyze a product
// @Description Score a product's environmental impact by name or URL
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body dto.ProductRequest true "Product to analyze"
// @Success 200 {object} dto.EcoScoreResponse "Analysis result"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Analysis failed"
// @Router /analyze/product [post]
func (h *AnalyzeHandler) AnalyzeProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Query == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Query is required")
		return
	}

	analysisType := models.AnalysisTypeProductSearch
	if req.QueryType == "url" {
		analysisType = models.AnalysisTypeURLAnalysis
	}

	started := time.Now()
	analysis, err := h.analyzer.AnalyzeProduct(r.Context(), req.Query, req.QueryType)
	if err != nil {
		h.logger.Error("product analysis failed", zap.String("query", req.Query), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Analysis failed", err.Error())
		return
	}

	h.recordHistory(r, req.Query, analysis, analysisType, req.IsComparison)
	h.writeAnalysis(w, analysis, started)
}

// AnalyzeBarcode analyzes a product by barcode
// @Summary Analyze a barcode
// @Description Score the environmental impact of a product identified by barcode
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body dto.BarcodeRequest true "Barcode to analyze"
// @Success 200 {object} dto.EcoScoreResponse "Analysis result"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Analysis failed"
// @Router /analyze/barcode [post]
func (h *AnalyzeHandler) AnalyzeBarcode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.BarcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Barcode == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Barcode is required")
		return
	}

	started := time.Now()
	analysis, err := h.analyzer.AnalyzeBarcode(r.Context(), req.Barcode)
	if err != nil {
		h.logger.Error("barcode analysis failed", zap.String("barcode", req.Barcode), zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Barcode analysis failed", err.Error())
		return
	}

	h.recordHistory(r, req.Barcode, analysis, models.AnalysisTypeBarcodeScan, req.IsComparison)
	h.writeAnalysis(w, analysis, started)
}

// recordHistory saves the analysis for registered users. A recording
// failure must not unwind a successful analysis, so it is only logged.
func (h *AnalyzeHandler) recordHistory(r *http.Request, query string, analysis dto.ProductAnalysis, analysisType models.AnalysisType, isComparison bool) {
	raw, err := json.Marshal(analysis)
	if err != nil {
		h.logger.Error("failed to serialize analysis for history", zap.Error(err))
		return
	}

	tokenStr := middleware.TokenFromContext(r.Context())
	if _, err := h.history.RecordAnalysis(r.Context(), tokenStr, query, raw, analysisType, isComparison); err != nil {
		h.logger.Error("failed to record analysis history", zap.String("query", query), zap.Error(err))
	}
}

func (h *AnalyzeHandler) writeAnalysis(w http.ResponseWriter, analysis dto.ProductAnalysis, started time.Time) {
	elapsed := time.Since(started).Milliseconds()
	utils.WriteJSONResponse(w, http.StatusOK, dto.EcoScoreResponse{
		Success:          true,
		Analysis:         analysis,
		Timestamp:        time.Now().UTC(),
		ProcessingTimeMs: &elapsed,
	})
}
