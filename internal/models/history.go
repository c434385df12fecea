package models

import (
	"encoding/json"
	"time"
)

// AnalysisType identifies how an analysis was initiated
type AnalysisType string

const (
	AnalysisTypeProductSearch AnalysisType = "product_search"
	AnalysisTypeBarcodeScan   AnalysisType = "barcode_scan"
	AnalysisTypeURLAnalysis   AnalysisType = "url_analysis"
	AnalysisTypeComparison    AnalysisType = "comparison"
)

// Valid reports whether t is one of the known analysis types
func (t AnalysisType) Valid() bool {
	switch t {
	case AnalysisTypeProductSearch, AnalysisTypeBarcodeScan, AnalysisTypeURLAnalysis, AnalysisTypeComparison:
		return true
	}
	return false
}

// HistoryEntry represents a single recorded analysis owned by one user.
// Entries are immutable once written. The analysis payload is stored as
// opaque JSON; only category and eco_score are read back for analytics.
type HistoryEntry struct {
	ID                   string          `json:"id" db:"id"`
	UserID               string          `json:"-" db:"user_id"`
	Timestamp            time.Time       `json:"timestamp" db:"timestamp"`
	AnalysisType         AnalysisType    `json:"analysis_type" db:"analysis_type"`
	Query                string          `json:"query" db:"query"`
	Analysis             json.RawMessage `json:"analysis" db:"analysis"`
	IsComparisonAnalysis bool            `json:"is_comparison_analysis" db:"is_comparison_analysis"`
}

// ComparisonEntry represents a saved comparison of 2-3 product analyses
type ComparisonEntry struct {
	ID              string            `json:"id" db:"id"`
	UserID          string            `json:"-" db:"user_id"`
	Timestamp       time.Time         `json:"timestamp" db:"timestamp"`
	Products        []json.RawMessage `json:"products" db:"products"`
	ComparisonNotes *string           `json:"comparison_notes,omitempty" db:"comparison_notes"`
}
