package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"propinsight/internal/service"
)

// BuildInfo is reported by /health and /version
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// RouterConfig wires the HTTP facade
type RouterConfig struct {
	Advisor        *service.Advisor
	Locations      LocationSource // Optional
	Logger         *zap.Logger
	AllowedOrigins []string
	Build          BuildInfo
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := orNop(cfg.Logger)

	router := gin.New()
	router.Use(RequestID(), AccessLog(logger), Recovery(logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "propinsight",
			"version":    cfg.Build.Version,
			"build_time": cfg.Build.BuildTime,
			"git_commit": cfg.Build.GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, cfg.Build)
	})

	priceHandler := NewPriceHandler(cfg.Advisor, logger)
	regionHandler := NewRegionHandler(cfg.Advisor, cfg.Locations, logger)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/price-analysis", priceHandler.Analyze)
		apiV1.GET("/listings/:id/price-analysis", priceHandler.AnalyzeListing)
		apiV1.GET("/cache/stats", priceHandler.CacheStats)

		apiV1.POST("/regions", regionHandler.Manage)
		apiV1.GET("/regions/known", regionHandler.Known)
		apiV1.POST("/recommendations", regionHandler.Recommend)
	}

	return router
}
