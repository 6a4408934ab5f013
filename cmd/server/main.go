package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"propinsight/internal/config"
	"propinsight/internal/handler"
	"propinsight/internal/logging"
	"propinsight/internal/repository"
	"propinsight/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Property price advisor",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Listing database is optional
	var (
		listings  service.ListingSource
		locations handler.LocationSource
	)
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer repo.Close()

		listings, locations = repo, repo
		logger.Info("Connected to PostgreSQL database")
	} else {
		logger.Warn("PostgreSQL is disabled - listing lookups will answer 503",
			zap.String("hint", "set PG_ENABLED=true to enable"))
	}

	// Initialize services
	client := service.NewHTTPEstimationClient(&cfg.Estimator, logger)
	advisor, err := service.NewAdvisor(client, listings, service.OptionsFromConfig(cfg), logger.Named("advisor"))
	if err != nil {
		logger.Fatal("Failed to initialize advisor", zap.Error(err))
	}

	logger.Info("Services initialized",
		zap.String("estimator_url", cfg.Estimator.BaseURL),
		zap.Duration("estimator_timeout", cfg.Estimator.Timeout),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.Float64("at_market_threshold", cfg.Pricing.AtMarketThreshold))

	router := handler.NewRouter(handler.RouterConfig{
		Advisor:        advisor,
		Locations:      locations,
		Logger:         logger.Named("http"),
		AllowedOrigins: splitOrigins(cfg.Server.AllowedOrigins),
		Build: handler.BuildInfo{
			Version:   Version,
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		},
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Estimator.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
