package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"propinsight/internal/config"
	"propinsight/internal/model"
	"propinsight/internal/utils"
)

// User-facing messages used when the service gives no reason of its own
const (
	MsgAnalyzeUnavailable   = "Unable to analyze price. Region may not be in our dataset."
	MsgRecommendUnavailable = "Unable to get recommendations. Try different regions."
)

const maxResponseBytes = 1 << 20

// EstimationClient is the boundary to the remote estimation service.
// Implementations map loose response shapes to typed values before returning.
type EstimationClient interface {
	// EstimatePrice asks for the market price of a property
	EstimatePrice(ctx context.Context, req model.EstimationRequest) (model.MarketEstimate, error)

	// Recommend asks for comparable properties in the given regions, in the
	// service's ranking order
	Recommend(ctx context.Context, regions model.RegionSet) ([]model.RecommendedProperty, error)
}

// HTTPEstimationClient talks to the estimation service over JSON/HTTP
type HTTPEstimationClient struct {
	config     *config.EstimatorConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure HTTPEstimationClient implements EstimationClient
var _ EstimationClient = (*HTTPEstimationClient)(nil)

// NewHTTPEstimationClient creates a client for the service at cfg.BaseURL
func NewHTTPEstimationClient(cfg *config.EstimatorConfig, logger *zap.Logger) *HTTPEstimationClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPEstimationClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("estimator"),
	}
}

// PredictPriceRequest is the body of POST /predict_price
type PredictPriceRequest struct {
	Region    string  `json:"region"`
	BHK       int     `json:"bhk"`
	UserPrice float64 `json:"user_price"`
}

// PredictPriceResponse is the answer of POST /predict_price
type PredictPriceResponse struct {
	PredictedPrice decimal.NullDecimal `json:"predicted_price"`
	UserPrice      decimal.NullDecimal `json:"user_price"`
	PriceVariation utils.FlexString    `json:"price_variation"`
}

// RecommendPropertiesRequest is the body of POST /recommend_properties
type RecommendPropertiesRequest struct {
	SearchedRegions []string `json:"searched_regions"`
}

// RecommendPropertiesResponse is the answer of POST /recommend_properties
type RecommendPropertiesResponse struct {
	Recommendations []RecommendationDTO `json:"recommendations"`
}

// RecommendationDTO is a recommendation as the service sends it. Numeric
// fields arrive either as numbers or strings.
type RecommendationDTO struct {
	Locality utils.FlexString `json:"locality"`
	Region   utils.FlexString `json:"region"`
	Type     utils.FlexString `json:"type"`
	BHK      utils.FlexInt    `json:"bhk"`
	Area     utils.FlexString `json:"area"`
	Status   utils.FlexString `json:"status"`
	Age      utils.FlexString `json:"age"`
}

// ToModel converts the DTO into the typed entity
func (d RecommendationDTO) ToModel() model.RecommendedProperty {
	return model.RecommendedProperty{
		Locality:     d.Locality.String(),
		Region:       d.Region.String(),
		PropertyType: d.Type.String(),
		BedroomCount: d.BHK.Int(),
		Area:         d.Area.String(),
		Status:       d.Status.String(),
		Age:          d.Age.String(),
	}
}

// EstimatePrice performs POST /predict_price
func (c *HTTPEstimationClient) EstimatePrice(ctx context.Context, req model.EstimationRequest) (model.MarketEstimate, error) {
	const op = "predict_price"

	body := PredictPriceRequest{
		Region:    req.Region,
		BHK:       req.BedroomCount,
		UserPrice: req.Price.InexactFloat64(),
	}

	var resp PredictPriceResponse
	if err := c.post(ctx, op, body, &resp, MsgAnalyzeUnavailable); err != nil {
		return model.MarketEstimate{}, err
	}

	if !resp.PredictedPrice.Valid || !resp.PredictedPrice.Decimal.IsPositive() {
		return model.MarketEstimate{}, model.NewEstimationUnavailable(MsgAnalyzeUnavailable)
	}

	return model.MarketEstimate{
		PredictedPrice: resp.PredictedPrice.Decimal,
		ServiceLabel:   strings.TrimSpace(resp.PriceVariation.String()),
	}, nil
}

// Recommend performs POST /recommend_properties
func (c *HTTPEstimationClient) Recommend(ctx context.Context, regions model.RegionSet) ([]model.RecommendedProperty, error) {
	const op = "recommend_properties"

	body := RecommendPropertiesRequest{SearchedRegions: regions.Names()}

	var resp RecommendPropertiesResponse
	if err := c.post(ctx, op, body, &resp, MsgRecommendUnavailable); err != nil {
		return nil, err
	}

	properties := make([]model.RecommendedProperty, 0, len(resp.Recommendations))
	for _, dto := range resp.Recommendations {
		properties = append(properties, dto.ToModel())
	}
	return properties, nil
}

// post sends payload to {base}/{op} and decodes the answer into target.
// 4xx answers are domain errors; everything else that fails is a transport error.
func (c *HTTPEstimationClient) post(ctx context.Context, op string, payload, target any, fallback string) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", op, err)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(c.config.BaseURL, "/"), op)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Estimation service unreachable",
			zap.String("op", op),
			zap.Duration("took", time.Since(started)),
			zap.Error(err))
		return &model.TransportError{Op: op, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &model.TransportError{Op: op, StatusCode: resp.StatusCode, Timeout: isTimeout(err), Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("Estimation service answered",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(started)))

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &model.DomainError{
			Code:    model.CodeRejected,
			Message: utils.ErrorMessage(body, fallback),
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &model.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.New(utils.ErrorMessage(body, http.StatusText(resp.StatusCode))),
		}
	}

	if err := utils.DecodeLenient(body, target); err != nil {
		return &model.TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
