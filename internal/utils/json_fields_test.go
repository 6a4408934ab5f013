package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLenient(t *testing.T) {
	type prediction struct {
		PredictedPrice *float64 `json:"predicted_price"`
		Label          string   `json:"price_variation"`
	}

	tests := []struct {
		name      string
		input     string
		wantPrice *float64
		wantLabel string
		wantErr   bool
	}{
		{
			name:      "Pure JSON",
			input:     `{"predicted_price": 85.5, "price_variation": "Fair"}`,
			wantPrice: float64Ptr(85.5),
			wantLabel: "Fair",
		},
		{
			name:      "NaN literal",
			input:     `{"predicted_price": NaN, "price_variation": "NaN stays in strings"}`,
			wantPrice: nil,
			wantLabel: "NaN stays in strings",
		},
		{
			name:      "Negative infinity",
			input:     `{"predicted_price": -Infinity}`,
			wantPrice: nil,
		},
		{
			name:      "JSON with surrounding text",
			input:     "upstream says: {\"predicted_price\": 12} (cached)",
			wantPrice: float64Ptr(12),
		},
		{
			name:    "HTML error page",
			input:   "<html><body>502 Bad Gateway</body></html>",
			wantErr: true,
		},
		{
			name:    "Empty",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got prediction
			err := DecodeLenient([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, got.PredictedPrice)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	const fallback = "Unable to analyze price."

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Error field", input: `{"error": "Region not found"}`, want: "Region not found"},
		{name: "Message field", input: `{"message": "bad bhk"}`, want: "bad bhk"},
		{name: "Blank error", input: `{"error": "  "}`, want: fallback},
		{name: "No JSON", input: `Internal Server Error`, want: fallback},
		{name: "Empty body", input: ``, want: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage([]byte(tt.input), fallback))
		})
	}
}

func TestFlexFields(t *testing.T) {
	var got struct {
		Area   FlexString `json:"area"`
		Age    FlexString `json:"age"`
		Status FlexString `json:"status"`
		BHK    FlexInt    `json:"bhk"`
		Rooms  FlexInt    `json:"rooms"`
		Floors FlexInt    `json:"floors"`
		Beds   FlexInt    `json:"beds"`
	}

	input := `{"area": 1200.5, "age": "5 years", "status": null, "bhk": "3 BHK", "rooms": 2.9, "floors": "abc", "beds": 4}`
	require.NoError(t, json.Unmarshal([]byte(input), &got))

	assert.Equal(t, "1200.5", got.Area.String())
	assert.Equal(t, "5 years", got.Age.String())
	assert.Equal(t, "", got.Status.String())
	assert.Equal(t, 3, got.BHK.Int())
	assert.Equal(t, 2, got.Rooms.Int())
	assert.Equal(t, 0, got.Floors.Int())
	assert.Equal(t, 4, got.Beds.Int())
}

func TestFlexString_RejectsObjects(t *testing.T) {
	var s FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"nested": true}`), &s))
}

func TestExtractBalancedBraces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Simple object", input: `{"a": 1} trailing`, want: `{"a": 1}`},
		{name: "Nested", input: `{"a": {"b": 2}}`, want: `{"a": {"b": 2}}`},
		{name: "Brace in string", input: `{"a": "}"}`, want: `{"a": "}"}`},
		{name: "Unbalanced", input: `{"a": 1`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBalancedBraces(tt.input, '{', '}'))
		})
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}
