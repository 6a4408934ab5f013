package handler

import (
	"net/http"
	"strconv"

	"propinsight/internal/model"
	"propinsight/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceHandler handles price analysis requests
type PriceHandler struct {
	advisor *service.Advisor
	logger  *zap.Logger
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(advisor *service.Advisor, logger *zap.Logger) *PriceHandler {
	return &PriceHandler{advisor: advisor, logger: orNop(logger)}
}

// Analyze handles POST /api/v1/price-analysis
func (h *PriceHandler) Analyze(c *gin.Context) {
	var req model.PriceAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	result, err := h.advisor.AnalyzePrice(c.Request.Context(), req.Property, req.Refresh)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzeListing handles GET /api/v1/listings/:id/price-analysis
func (h *PriceHandler) AnalyzeListing(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid listing ID", Field: "id"})
		return
	}

	refresh, _ := strconv.ParseBool(c.Query("refresh"))

	result, err := h.advisor.AnalyzeListing(c.Request.Context(), listingID, refresh)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CacheStats handles GET /api/v1/cache/stats
func (h *PriceHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.advisor.CacheStats())
}
