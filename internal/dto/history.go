package dto

import (
	"time"

	"ECOTRACE_BACK-END/internal/models"
)

// HistoryFilter represents filter options for history queries.
// All set fields are combined conjunctively.
type HistoryFilter struct {
	AnalysisType *models.AnalysisType `json:"analysis_type,omitempty"`
	Category     *string              `json:"category,omitempty"`
	MinEcoScore  *int                 `json:"min_eco_score,omitempty" validate:"min=1,max=100"`
	MaxEcoScore  *int                 `json:"max_eco_score,omitempty" validate:"min=1,max=100"`
	DateFrom     *time.Time           `json:"date_from,omitempty"`
	DateTo       *time.Time           `json:"date_to,omitempty"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

// ComparisonRequest represents the request payload for saving a comparison
type ComparisonRequest struct {
	Products []ProductAnalysis `json:"products" validate:"required,min=2,max=3"`
	Notes    *string           `json:"notes,omitempty"`
}

// RecordResponse represents the response after recording an entry
type RecordResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// HistoryResponse represents the response for history queries
type HistoryResponse struct {
	Success     bool                     `json:"success"`
	Entries     []models.HistoryEntry    `json:"entries"`
	Comparisons []models.ComparisonEntry `json:"comparisons"`
	TotalCount  int                      `json:"total_count"`
	HasMore     bool                     `json:"has_more"`
}
