package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL     PostgreSQLConfig
	Server         ServerConfig
	Estimator      EstimatorConfig
	Cache          CacheConfig
	Pricing        PricingConfig
	Recommendation RecommendationConfig
	Logging        LoggingConfig
}

// PostgreSQLConfig holds the listing database configuration
type PostgreSQLConfig struct {
	Enabled            bool
	DSN                string // Full connection string, takes precedence over the parts below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// EstimatorConfig holds the remote estimation service settings
type EstimatorConfig struct {
	BaseURL string
	Timeout time.Duration // Bounds every shared remote call
}

// CacheConfig holds result cache settings
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// PricingConfig holds the price comparison business rules
type PricingConfig struct {
	AtMarketThreshold    float64 // Relative band treated as "at market", 0.02 = ±2%
	FingerprintPrecision int     // Decimal places of the canonical price kept in request keys
}

// RecommendationConfig holds neighbor query settings
type RecommendationConfig struct {
	Cap int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			Enabled:            getEnvAsBool("PG_ENABLED", false),
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "property_search"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Estimator: EstimatorConfig{
			BaseURL: getEnv("ESTIMATOR_URL", "http://localhost:5000"),
			Timeout: getEnvAsDuration("ESTIMATOR_TIMEOUT", 15*time.Second),
		},
		Cache: CacheConfig{
			TTL:        getEnvAsDuration("CACHE_TTL", 60*time.Second),
			MaxEntries: getEnvAsInt("CACHE_MAX_ENTRIES", 1024),
		},
		Pricing: PricingConfig{
			AtMarketThreshold:    getEnvAsFloat("PRICE_AT_MARKET_THRESHOLD", 0.02),
			FingerprintPrecision: getEnvAsInt("PRICE_FINGERPRINT_PRECISION", 4),
		},
		Recommendation: RecommendationConfig{
			Cap: getEnvAsInt("RECOMMENDATION_CAP", 6),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would break the business rules
func (c *Config) Validate() error {
	if c.Estimator.BaseURL == "" {
		return fmt.Errorf("ESTIMATOR_URL must not be empty")
	}
	if c.Pricing.AtMarketThreshold < 0 || c.Pricing.AtMarketThreshold >= 1 {
		return fmt.Errorf("PRICE_AT_MARKET_THRESHOLD must be in [0, 1), got %v", c.Pricing.AtMarketThreshold)
	}
	if c.Pricing.FingerprintPrecision < 0 || c.Pricing.FingerprintPrecision > 12 {
		return fmt.Errorf("PRICE_FINGERPRINT_PRECISION must be in [0, 12], got %d", c.Pricing.FingerprintPrecision)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("15s") or plain seconds ("15")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
	return defaultValue
}
