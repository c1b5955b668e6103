package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductFilter_Normalized(t *testing.T) {
	tests := []struct {
		name      string
		in        ProductFilter
		wantPage  int
		wantLimit int
	}{
		{"defaults", ProductFilter{}, 1, 10},
		{"negative page", ProductFilter{Page: -3, Limit: 20}, 1, 20},
		{"zero limit", ProductFilter{Page: 2}, 2, 10},
		{"limit capped", ProductFilter{Page: 1, Limit: 500}, 1, 100},
		{"limit at cap", ProductFilter{Page: 1, Limit: 100}, 1, 100},
		{"valid untouched", ProductFilter{Page: 7, Limit: 25}, 7, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestProductFilter_Normalized_TrimsSearch(t *testing.T) {
	assert.Equal(t, "lamp", ProductFilter{Search: "  lamp "}.Normalized().Search)
	// A whitespace-only term means no text filter at all.
	assert.Empty(t, ProductFilter{Search: "   "}.Normalized().Search)
}

func TestProductFilter_NormalizedKeepsPredicates(t *testing.T) {
	min := int64(100)
	f := ProductFilter{Search: "lamp", CategoryID: "c-1", MinPrice: &min}

	got := f.Normalized()

	assert.Equal(t, "lamp", got.Search)
	assert.Equal(t, "c-1", got.CategoryID)
	assert.Equal(t, &min, got.MinPrice)
}

func TestProductFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, ProductFilter{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, ProductFilter{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 50, ProductFilter{Page: 3, Limit: 25}.Offset())
}
