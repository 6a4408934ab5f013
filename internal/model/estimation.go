package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Variation classifies a listed price against the market estimate
type Variation string

const (
	VariationAbove    Variation = "above_market"
	VariationBelow    Variation = "below_market"
	VariationAtMarket Variation = "at_market"
)

func (v Variation) String() string { return string(v) }

// Property is a listed property as the UI hands it over. Price and Bedroom
// keep whatever shape the listing source used (string or number).
type Property struct {
	City    string `json:"city"`
	Price   any    `json:"price"`
	Bedroom any    `json:"bedroom"`
}

// EstimationRequest is the unit of work for a single-property price check.
// Prices are in the canonical unit.
type EstimationRequest struct {
	Region       string
	BedroomCount int
	Price        decimal.Decimal
}

// NewEstimationRequest validates the region and builds the request
func NewEstimationRequest(region string, bedrooms int, price decimal.Decimal) (EstimationRequest, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return EstimationRequest{}, NewValidationError("region", ErrEmptyOrNonNumeric)
	}
	if price.IsNegative() {
		return EstimationRequest{}, NewValidationError("price", ErrEmptyOrNonNumeric)
	}
	return EstimationRequest{Region: region, BedroomCount: bedrooms, Price: price}, nil
}

// RecommendationRequest asks the service for neighbors of a non-empty region set
type RecommendationRequest struct {
	Regions RegionSet
}

// NewRecommendationRequest rejects empty region sets
func NewRecommendationRequest(regions RegionSet) (RecommendationRequest, error) {
	if regions.IsEmpty() {
		return RecommendationRequest{}, NewValidationError("regions", ErrEmptyRegionSet)
	}
	return RecommendationRequest{Regions: regions}, nil
}

// MarketEstimate is the typed answer of the estimation service to a price check
type MarketEstimate struct {
	PredictedPrice decimal.Decimal
	ServiceLabel   string
}

// EstimationResult is the price-comparison verdict handed back to the UI.
// Variation is always computed locally; ServiceLabel keeps the service's own
// wording for display.
type EstimationResult struct {
	Region         string          `json:"region"`
	BedroomCount   int             `json:"bedroom_count"`
	PredictedPrice decimal.Decimal `json:"predicted_price"`
	ListedPrice    decimal.Decimal `json:"listed_price"`
	Variation      Variation       `json:"variation"`
	ServiceLabel   string          `json:"service_label,omitempty"`
}

// RecommendedProperty is a comparable property returned by the service.
// Fields are passed through untouched apart from ranking.
type RecommendedProperty struct {
	Locality     string `json:"locality"`
	Region       string `json:"region"`
	PropertyType string `json:"type"`
	BedroomCount int    `json:"bhk"`
	Area         string `json:"area"`
	Status       string `json:"status"`
	Age          string `json:"age"`
}
