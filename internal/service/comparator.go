package service

import (
	"github.com/shopspring/decimal"

	"propinsight/internal/model"
)

// DefaultAtMarketThreshold is the relative band (±2%) within which a listed
// price counts as at market
const DefaultAtMarketThreshold = 0.02

// PriceComparator classifies a listed price against a predicted one
type PriceComparator struct {
	threshold decimal.Decimal
}

// NewPriceComparator creates a comparator; a negative threshold selects the default
func NewPriceComparator(threshold float64) *PriceComparator {
	if threshold < 0 {
		threshold = DefaultAtMarketThreshold
	}
	return &PriceComparator{threshold: decimal.NewFromFloat(threshold)}
}

// Threshold returns the configured relative band
func (c *PriceComparator) Threshold() decimal.Decimal {
	return c.threshold
}

// Compare returns the variation of listed relative to predicted. The band is
// inclusive on both sides. A non-positive predicted price is reported as
// unavailable and never divided against.
func (c *PriceComparator) Compare(listed, predicted decimal.Decimal) (model.Variation, error) {
	if !predicted.IsPositive() {
		return "", model.NewEstimationUnavailable("the estimation service returned no usable price")
	}

	relative := listed.Sub(predicted).Div(predicted)
	switch {
	case relative.GreaterThan(c.threshold):
		return model.VariationAbove, nil
	case relative.LessThan(c.threshold.Neg()):
		return model.VariationBelow, nil
	default:
		return model.VariationAtMarket, nil
	}
}
