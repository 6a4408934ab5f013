package handler

import (
	"context"
	"net/http"
	"strconv"

	"propinsight/internal/model"
	"propinsight/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LocationSource lists region names known to the listing store
type LocationSource interface {
	ListLocations(ctx context.Context, limit int) ([]string, error)
}

// RegionHandler handles region set and recommendation requests
type RegionHandler struct {
	advisor   *service.Advisor
	locations LocationSource
	logger    *zap.Logger
}

// NewRegionHandler creates a new region handler. locations may be nil.
func NewRegionHandler(advisor *service.Advisor, locations LocationSource, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{advisor: advisor, locations: locations, logger: orNop(logger)}
}

// Manage handles POST /api/v1/regions
func (h *RegionHandler) Manage(c *gin.Context) {
	var req model.RegionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	regions, err := h.advisor.ManageRegions(req.Regions, req.Action, req.Region)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.RegionsResponse{Regions: regions, Count: regions.Len()})
}

// Known handles GET /api/v1/regions/known
func (h *RegionHandler) Known(c *gin.Context) {
	if h.locations == nil {
		writeError(c, h.logger, service.ErrListingSourceDisabled)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid limit", Field: "limit"})
		return
	}

	locations, err := h.locations.ListLocations(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"regions": locations, "count": len(locations)})
}

// Recommend handles POST /api/v1/recommendations
func (h *RegionHandler) Recommend(c *gin.Context) {
	var req model.RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	recommendations, err := h.advisor.GetRecommendations(c.Request.Context(), req.Regions, req.Cap, req.Refresh)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.RecommendationsResponse{
		Recommendations: recommendations,
		Count:           len(recommendations),
		Took:            requestDuration(c).Milliseconds(),
	})
}
