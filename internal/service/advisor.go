package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"propinsight/internal/cache"
	"propinsight/internal/config"
	"propinsight/internal/dedup"
	"propinsight/internal/model"
	"propinsight/internal/normalizer"
)

var (
	// ErrListingSourceDisabled is returned by AnalyzeListing without a listing source
	ErrListingSourceDisabled = errors.New("listing source is not configured")
	// ErrListingNotFound is returned by AnalyzeListing for unknown listings
	ErrListingNotFound = errors.New("listing not found")
)

// ListingSource looks up stored listings. It returns nil, nil for unknown IDs.
type ListingSource interface {
	GetListingByID(ctx context.Context, listingID int64) (*model.Listing, error)
}

// AdvisorOptions tunes the advisor
type AdvisorOptions struct {
	CallTimeout       time.Duration // Bounds each shared call to the estimation service
	CacheTTL          time.Duration
	CacheSize         int
	PricePrecision    int32 // Decimal places of the canonical price used in fingerprints
	AtMarketThreshold float64
	RecommendationCap int
}

// OptionsFromConfig builds AdvisorOptions from application config
func OptionsFromConfig(cfg *config.Config) AdvisorOptions {
	return AdvisorOptions{
		CallTimeout:       cfg.Estimator.Timeout,
		CacheTTL:          cfg.Cache.TTL,
		CacheSize:         cfg.Cache.MaxEntries,
		PricePrecision:    int32(cfg.Pricing.FingerprintPrecision),
		AtMarketThreshold: cfg.Pricing.AtMarketThreshold,
		RecommendationCap: cfg.Recommendation.Cap,
	}
}

// CacheStats reports both result caches
type CacheStats struct {
	Estimates       cache.Stats `json:"estimates"`
	Recommendations cache.Stats `json:"recommendations"`
}

// Advisor is the consumer-facing API: price checks, region editing and
// recommendations. Identical concurrent requests share one remote call and
// successful answers are memoized for a short TTL.
type Advisor struct {
	client       EstimationClient
	listings     ListingSource
	fingerprints dedup.Fingerprinter
	inflight     *dedup.Registry
	estimates    *cache.ResultCache[model.MarketEstimate]
	neighbors    *cache.ResultCache[[]model.RecommendedProperty]
	comparator   *PriceComparator
	ranker       *Ranker
	callTimeout  time.Duration
	logger       *zap.Logger
}

// NewAdvisor creates an advisor over client. listings may be nil.
func NewAdvisor(client EstimationClient, listings ListingSource, opts AdvisorOptions, logger *zap.Logger) (*Advisor, error) {
	if client == nil {
		return nil, errors.New("estimation client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 15 * time.Second
	}

	estimates, err := cache.New[model.MarketEstimate](opts.CacheSize, opts.CacheTTL)
	if err != nil {
		return nil, err
	}
	neighbors, err := cache.New[[]model.RecommendedProperty](opts.CacheSize, opts.CacheTTL)
	if err != nil {
		return nil, err
	}

	return &Advisor{
		client:       client,
		listings:     listings,
		fingerprints: dedup.NewFingerprinter(opts.PricePrecision),
		inflight:     dedup.NewRegistry(logger.Named("inflight")),
		estimates:    estimates,
		neighbors:    neighbors,
		comparator:   NewPriceComparator(opts.AtMarketThreshold),
		ranker:       NewRanker(opts.RecommendationCap),
		callTimeout:  opts.CallTimeout,
		logger:       logger,
	}, nil
}

// AnalyzePrice normalizes property, obtains a market estimate and classifies
// the listed price against it. refresh skips the cached estimate but still
// stores the fresh one.
func (a *Advisor) AnalyzePrice(ctx context.Context, property model.Property, refresh bool) (*model.EstimationResult, error) {
	price, err := normalizer.NormalizePrice(property.Price)
	if err != nil {
		return nil, err
	}

	bedrooms, parsed := normalizer.ParseBedroomCount(property.Bedroom)
	if !parsed {
		a.logger.Debug("Bedroom count defaulted",
			zap.Any("raw", property.Bedroom),
			zap.Int("bedrooms", bedrooms))
	}

	req, err := model.NewEstimationRequest(property.City, bedrooms, price)
	if err != nil {
		return nil, err
	}

	estimate, err := a.estimate(ctx, req, refresh)
	if err != nil {
		return nil, err
	}

	variation, err := a.comparator.Compare(req.Price, estimate.PredictedPrice)
	if err != nil {
		return nil, err
	}

	return &model.EstimationResult{
		Region:         req.Region,
		BedroomCount:   req.BedroomCount,
		PredictedPrice: estimate.PredictedPrice,
		ListedPrice:    req.Price,
		Variation:      variation,
		ServiceLabel:   estimate.ServiceLabel,
	}, nil
}

// AnalyzeListing runs AnalyzePrice on a stored listing
func (a *Advisor) AnalyzeListing(ctx context.Context, listingID int64, refresh bool) (*model.EstimationResult, error) {
	if a.listings == nil {
		return nil, ErrListingSourceDisabled
	}

	listing, err := a.listings.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	return a.AnalyzePrice(ctx, listing.ToProperty(), refresh)
}

// ManageRegions applies "add" or "remove" to set and returns the new set
func (a *Advisor) ManageRegions(set model.RegionSet, action, region string) (model.RegionSet, error) {
	parsed, err := ParseRegionAction(action)
	if err != nil {
		return set, err
	}
	return ApplyRegionAction(set, parsed, region)
}

// GetRecommendations returns at most limit comparable properties for
// regions. limit <= 0 selects the configured cap.
func (a *Advisor) GetRecommendations(ctx context.Context, regions model.RegionSet, limit int, refresh bool) ([]model.RecommendedProperty, error) {
	req, err := model.NewRecommendationRequest(regions)
	if err != nil {
		return nil, err
	}

	key := a.fingerprints.Recommendation(req)
	if refresh {
		a.neighbors.Invalidate(key)
	} else if raw, ok := a.neighbors.Get(key); ok {
		a.logger.Debug("Recommendations served from cache",
			zap.String("fingerprint", key.String()),
			zap.Strings("regions", req.Regions.Names()))
		return a.ranker.Rank(raw, limit), nil
	}

	raw, shared, err := dedup.Do(ctx, a.inflight, key, a.callTimeout, func(ctx context.Context) ([]model.RecommendedProperty, error) {
		raw, err := a.client.Recommend(ctx, req.Regions)
		if err != nil {
			return nil, err
		}
		a.neighbors.Put(key, raw, 0)
		return raw, nil
	})
	if err != nil {
		a.logger.Warn("Recommendation lookup failed",
			zap.String("fingerprint", key.String()),
			zap.Strings("regions", req.Regions.Names()),
			zap.Error(err))
		return nil, err
	}

	a.logger.Debug("Recommendations resolved",
		zap.String("fingerprint", key.String()),
		zap.Bool("shared", shared),
		zap.Int("raw", len(raw)))
	return a.ranker.Rank(raw, limit), nil
}

// CacheStats returns counters of both result caches
func (a *Advisor) CacheStats() CacheStats {
	return CacheStats{
		Estimates:       a.estimates.Stats(),
		Recommendations: a.neighbors.Stats(),
	}
}

// estimate serves req from cache or from a single shared remote call
func (a *Advisor) estimate(ctx context.Context, req model.EstimationRequest, refresh bool) (model.MarketEstimate, error) {
	key := a.fingerprints.Estimation(req)
	if refresh {
		a.estimates.Invalidate(key)
	} else if cached, ok := a.estimates.Get(key); ok {
		a.logger.Debug("Estimate served from cache",
			zap.String("fingerprint", key.String()),
			zap.String("region", req.Region))
		return cached, nil
	}

	estimate, shared, err := dedup.Do(ctx, a.inflight, key, a.callTimeout, func(ctx context.Context) (model.MarketEstimate, error) {
		estimate, err := a.client.EstimatePrice(ctx, req)
		if err != nil {
			return model.MarketEstimate{}, err
		}
		a.estimates.Put(key, estimate, 0)
		return estimate, nil
	})
	if err != nil {
		a.logger.Warn("Price estimation failed",
			zap.String("fingerprint", key.String()),
			zap.String("region", req.Region),
			zap.Int("bedrooms", req.BedroomCount),
			zap.Error(err))
		return model.MarketEstimate{}, err
	}

	a.logger.Debug("Estimate resolved",
		zap.String("fingerprint", key.String()),
		zap.Bool("shared", shared))
	return estimate, nil
}
