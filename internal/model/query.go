package model

// PriceAnalysisRequest represents POST /api/v1/price-analysis
type PriceAnalysisRequest struct {
	Property
	Refresh bool `json:"refresh,omitempty"`
}

// RegionsRequest represents POST /api/v1/regions
type RegionsRequest struct {
	Regions RegionSet `json:"regions"`
	Action  string    `json:"action" binding:"required"` // add, remove
	Region  string    `json:"region"`
}

// RegionsResponse represents the resulting working set of regions
type RegionsResponse struct {
	Regions RegionSet `json:"regions"`
	Count   int       `json:"count"`
}

// RecommendationsRequest represents POST /api/v1/recommendations
type RecommendationsRequest struct {
	Regions RegionSet `json:"regions"`
	Cap     int       `json:"cap,omitempty"`
	Refresh bool      `json:"refresh,omitempty"`
}

// RecommendationsResponse represents the ranked comparable properties
type RecommendationsResponse struct {
	Recommendations []RecommendedProperty `json:"recommendations"`
	Count           int                   `json:"count"`
	Took            int64                 `json:"took_ms"` // Response time in milliseconds
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Code  string `json:"code,omitempty"`
}
