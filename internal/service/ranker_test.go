package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"propinsight/internal/model"
)

func recommended(locality string, bhk int) model.RecommendedProperty {
	return model.RecommendedProperty{
		Locality:     locality,
		Region:       "Andheri West",
		PropertyType: "Apartment",
		BedroomCount: bhk,
		Area:         "650",
		Status:       "Ready to move",
		Age:          "5",
	}
}

func TestRanker_Rank(t *testing.T) {
	ranker := NewRanker(DefaultRecommendationCap)

	// 10 entries, 3 of them exact repeats of earlier ones
	raw := []model.RecommendedProperty{
		recommended("Lokhandwala", 2),
		recommended("Versova", 1),
		recommended("Lokhandwala", 2),
		recommended("Four Bungalows", 3),
		recommended("Versova", 1),
		recommended("Oshiwara", 2),
		recommended("Lokhandwala", 2),
		recommended("Seven Bungalows", 2),
		recommended("DN Nagar", 1),
		recommended("Juhu", 4),
	}

	got := ranker.Rank(raw, 6)

	want := []model.RecommendedProperty{
		recommended("Lokhandwala", 2),
		recommended("Versova", 1),
		recommended("Four Bungalows", 3),
		recommended("Oshiwara", 2),
		recommended("Seven Bungalows", 2),
		recommended("DN Nagar", 1),
	}
	assert.Equal(t, want, got)
}

func TestRanker_DisplayedFieldsOnly(t *testing.T) {
	ranker := NewRanker(DefaultRecommendationCap)

	a := recommended("Powai", 2)
	b := recommended("Powai", 2)
	b.Area = "700"
	b.Age = "New"
	c := recommended("Powai", 3)

	got := ranker.Rank([]model.RecommendedProperty{a, b, c}, 0)
	assert.Equal(t, []model.RecommendedProperty{a, c}, got)
}

func TestRanker_Bounds(t *testing.T) {
	ranker := NewRanker(0)
	assert.Equal(t, DefaultRecommendationCap, ranker.DefaultCap())

	raw := make([]model.RecommendedProperty, 0, 20)
	for i := 0; i < 20; i++ {
		raw = append(raw, recommended(fmt.Sprintf("Sector %d", i), 2))
	}

	tests := []struct {
		name  string
		raw   []model.RecommendedProperty
		limit int
		want  int
	}{
		{name: "Default cap", raw: raw, limit: 0, want: DefaultRecommendationCap},
		{name: "Negative cap", raw: raw, limit: -3, want: DefaultRecommendationCap},
		{name: "Custom cap", raw: raw, limit: 10, want: 10},
		{name: "Shorter than cap", raw: raw[:4], limit: 6, want: 4},
		{name: "Empty", raw: nil, limit: 6, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ranker.Rank(tt.raw, tt.limit)
			assert.Len(t, got, tt.want)
			assert.NotNil(t, got)
			for i := range got {
				assert.Equal(t, tt.raw[i], got[i], "service order must be kept")
			}
		})
	}
}
