package dto

// ProductRequest represents the request payload for product analysis.
// IsComparison marks analyses requested only to feed a comparison; they
// are excluded from personal journey statistics.
type ProductRequest struct {
	Query        string `json:"query" validate:"required"`
	QueryType    string `json:"query_type"` // "name" or "url"
	IsComparison bool   `json:"is_comparison"`
}

// BarcodeRequest represents the request payload for barcode analysis
type BarcodeRequest struct {
	Barcode      string `json:"barcode" validate:"required"`
	IsComparison bool   `json:"is_comparison"`
}
