package service

import (
	"propinsight/internal/model"
)

// DefaultRecommendationCap bounds how many comparable properties are shown
const DefaultRecommendationCap = 6

// Ranker trims the service's recommendation list for display. Ranking
// authority stays with the remote service: entries are never re-scored.
type Ranker struct {
	defaultCap int
}

// NewRanker creates a ranker; a non-positive cap selects DefaultRecommendationCap
func NewRanker(defaultCap int) *Ranker {
	if defaultCap <= 0 {
		defaultCap = DefaultRecommendationCap
	}
	return &Ranker{defaultCap: defaultCap}
}

// DefaultCap returns the cap used when Rank is called with limit <= 0
func (r *Ranker) DefaultCap() int {
	return r.defaultCap
}

// dedupeKey holds the fields shown for a recommendation
type dedupeKey struct {
	locality     string
	region       string
	propertyType string
	bedrooms     int
}

// Rank drops repeated entries keeping the first occurrence, then returns the
// first limit survivors in service order
func (r *Ranker) Rank(raw []model.RecommendedProperty, limit int) []model.RecommendedProperty {
	if limit <= 0 {
		limit = r.defaultCap
	}

	results := make([]model.RecommendedProperty, 0, min(limit, len(raw)))
	seen := make(map[dedupeKey]struct{}, len(raw))

	for _, property := range raw {
		if len(results) == limit {
			break
		}

		key := dedupeKey{
			locality:     property.Locality,
			region:       property.Region,
			propertyType: property.PropertyType,
			bedrooms:     property.BedroomCount,
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, property)
	}

	return results
}
