package dto

import "time"

// ImpactFactor represents an individual impact factor with score and description
type ImpactFactor struct {
	Name        string  `json:"name"`
	Score       int     `json:"score" validate:"min=1,max=100"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight" validate:"min=0,max=1"`
}

// ProductInfo represents basic product information
type ProductInfo struct {
	Name                 string   `json:"name"`
	Brand                *string  `json:"brand,omitempty"`
	Category             *string  `json:"category,omitempty"`
	Description          *string  `json:"description,omitempty"`
	Materials            []string `json:"materials,omitempty"`
	OriginCountry        *string  `json:"origin_country,omitempty"`
	ManufacturingProcess *string  `json:"manufacturing_process,omitempty"`
	Packaging            *string  `json:"packaging,omitempty"`
	Certifications       []string `json:"certifications,omitempty"`
}

// ProductAnalysis represents a detailed analysis of a product's environmental impact
type ProductAnalysis struct {
	ProductInfo     ProductInfo    `json:"product_info"`
	ImpactFactors   []ImpactFactor `json:"impact_factors"`
	EcoScore        int            `json:"eco_score" validate:"min=1,max=100"`
	ConfidenceLevel float64        `json:"confidence_level" validate:"min=0,max=1"`
	AnalysisSummary string         `json:"analysis_summary"`
	Recommendations []string       `json:"recommendations"`
	DataSources     []string       `json:"data_sources"`
}

// EcoScoreResponse represents the API response for an EcoScore analysis
type EcoScoreResponse struct {
	Success          bool            `json:"success"`
	Analysis         ProductAnalysis `json:"analysis"`
	Timestamp        time.Time       `json:"timestamp"`
	ProcessingTimeMs *int64          `json:"processing_time_ms,omitempty"`
}
