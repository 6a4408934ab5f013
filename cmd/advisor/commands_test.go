package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEstimatorServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/predict_price", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predicted_price": 100, "user_price": 125, "price_variation": "Overpriced"}`))
	})
	mux.HandleFunc("/recommend_properties", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recommendations": [
			{"locality": "Hiranandani", "region": "Powai", "type": "Apartment", "bhk": 2, "area": 850, "status": "Ready", "age": 3},
			{"locality": "Hiranandani", "region": "Powai", "type": "Apartment", "bhk": 2, "area": 850, "status": "Ready", "age": 3}
		]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"advisor"}, args...))
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	server := newEstimatorServer(t)

	out, err := run(t, "--estimator-url", server.URL, "analyze",
		"--city", "Andheri West", "--price", "₹ 1,25,00,000", "--bedroom", "2 BHK")
	require.NoError(t, err)

	assert.Contains(t, out, "Andheri West")
	assert.Contains(t, out, "125.00")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "Above market")
	assert.Contains(t, out, "Overpriced")
}

func TestAnalyzeCommand_InvalidPrice(t *testing.T) {
	server := newEstimatorServer(t)

	_, err := run(t, "--estimator-url", server.URL, "analyze", "--city", "Powai", "--price", "on request")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--price")
}

func TestRecommendCommand_JSON(t *testing.T) {
	server := newEstimatorServer(t)

	out, err := run(t, "--estimator-url", server.URL, "--format", "json", "recommend", "--region", "Powai")
	require.NoError(t, err)
	assert.Contains(t, out, `"locality": "Hiranandani"`)
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte(`"locality"`)), "duplicates are dropped")
}

func TestRegionsCommand(t *testing.T) {
	out, err := run(t, "regions", "--region", "Andheri", "--region", "Bandra", "--add", "andheri", "--add", "Andheri", "--remove", "Bandra")
	require.NoError(t, err)
	assert.Equal(t, "Andheri\nandheri\n", out)
}
