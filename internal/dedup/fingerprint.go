// Package dedup derives request identity and coalesces concurrent identical
// calls to the estimation service.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"propinsight/internal/model"
)

// Fingerprint is a stable key for a request's canonical fields
type Fingerprint string

func (f Fingerprint) String() string { return string(f) }

// DefaultPricePrecision is the number of decimal places (in the canonical
// price unit) kept when fingerprinting an estimation request.
const DefaultPricePrecision int32 = 4

const (
	kindEstimation     = "estimate"
	kindRecommendation = "recommend"
)

// Fingerprinter computes fingerprints with a fixed price precision
type Fingerprinter struct {
	precision int32
}

// NewFingerprinter creates a fingerprinter; a negative precision selects the default
func NewFingerprinter(precision int32) Fingerprinter {
	if precision < 0 {
		precision = DefaultPricePrecision
	}
	return Fingerprinter{precision: precision}
}

type estimationKey struct {
	Kind     string `json:"kind"`
	Region   string `json:"region"`
	Bedrooms int    `json:"bedrooms"`
	Price    string `json:"price"`
}

type recommendationKey struct {
	Kind    string   `json:"kind"`
	Regions []string `json:"regions"`
}

// Estimation keys a price check by (region, bedrooms, rounded price).
// Rounding keeps floating-point jitter from splitting identical requests.
func (f Fingerprinter) Estimation(req model.EstimationRequest) Fingerprint {
	return digest(estimationKey{
		Kind:     kindEstimation,
		Region:   req.Region,
		Bedrooms: req.BedroomCount,
		Price:    req.Price.Round(f.precision).StringFixed(f.precision),
	})
}

// Recommendation keys a neighbor query by its regions in sorted order, so
// the same regions entered in a different order share one key.
func (f Fingerprinter) Recommendation(req model.RecommendationRequest) Fingerprint {
	return digest(recommendationKey{
		Kind:    kindRecommendation,
		Regions: req.Regions.Sorted(),
	})
}

// ForEstimation fingerprints with DefaultPricePrecision
func ForEstimation(req model.EstimationRequest) Fingerprint {
	return NewFingerprinter(DefaultPricePrecision).Estimation(req)
}

// ForRecommendation fingerprints a neighbor query
func ForRecommendation(req model.RecommendationRequest) Fingerprint {
	return NewFingerprinter(DefaultPricePrecision).Recommendation(req)
}

func digest(key any) Fingerprint {
	// Marshalling a struct of strings and ints cannot fail.
	canonical, _ := json.Marshal(key)
	sum := sha256.Sum256(canonical)
	return Fingerprint(hex.EncodeToString(sum[:]))
}
