package dto

import (
	"time"

	"ECOTRACE_BACK-END/internal/models"
)

// JourneyStats represents aggregate statistics about a user's eco journey
type JourneyStats struct {
	TotalAnalyses      int        `json:"total_analyses"`
	TotalComparisons   int        `json:"total_comparisons"`
	AverageEcoScore    float64    `json:"average_eco_score"`
	BestEcoScore       int        `json:"best_eco_score"`
	WorstEcoScore      int        `json:"worst_eco_score"`
	FavoriteCategories []string   `json:"favorite_categories"`
	ImprovementTrend   float64    `json:"improvement_trend"` // Positive = improving, negative = declining
	DaysActive         int        `json:"days_active"`
	FirstAnalysisDate  *time.Time `json:"first_analysis_date,omitempty"`
	LastAnalysisDate   *time.Time `json:"last_analysis_date,omitempty"`
}

// CategoryStats represents statistics for a specific product category
type CategoryStats struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"average_score"`
	BestScore    int     `json:"best_score"`
	WorstScore   int     `json:"worst_score"`
	Trend        float64 `json:"trend"`
}

// TimelineEntry represents one point in the journey timeline visualization
type TimelineEntry struct {
	Date         time.Time           `json:"date"`
	EcoScore     int                 `json:"eco_score"`
	ProductName  string              `json:"product_name"`
	Category     *string             `json:"category,omitempty"`
	AnalysisType models.AnalysisType `json:"analysis_type"`
}

// EcoJourney represents the complete eco journey data for a user
type EcoJourney struct {
	Stats             JourneyStats    `json:"stats"`
	CategoryBreakdown []CategoryStats `json:"category_breakdown"`
	Timeline          []TimelineEntry `json:"timeline"`
	Milestones        []string        `json:"milestones"`
}

// JourneyResponse represents the response for eco journey queries
type JourneyResponse struct {
	Success bool       `json:"success"`
	Journey EcoJourney `json:"journey"`
}
