package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Estimator.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Estimator.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 0.02, cfg.Pricing.AtMarketThreshold)
	assert.Equal(t, 4, cfg.Pricing.FingerprintPrecision)
	assert.Equal(t, 6, cfg.Recommendation.Cap)
	assert.False(t, cfg.PostgreSQL.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ESTIMATOR_URL", "http://ml:5000")
	t.Setenv("ESTIMATOR_TIMEOUT", "3s")
	t.Setenv("CACHE_TTL", "90")
	t.Setenv("PRICE_AT_MARKET_THRESHOLD", "0.05")
	t.Setenv("RECOMMENDATION_CAP", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://ml:5000", cfg.Estimator.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Estimator.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 0.05, cfg.Pricing.AtMarketThreshold)
	assert.Equal(t, 6, cfg.Recommendation.Cap, "invalid values fall back to the default")
}

func TestLoad_RejectsBadThreshold(t *testing.T) {
	t.Setenv("PRICE_AT_MARKET_THRESHOLD", "1.5")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "listings", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=listings sslmode=disable", cfg.GetPostgreSQLDSN())

	cfg.PostgreSQL.DSN = "postgres://u:p@db/listings"
	assert.Equal(t, "postgres://u:p@db/listings", cfg.GetPostgreSQLDSN())
}
