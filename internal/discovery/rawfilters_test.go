package discovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/models"
)

func TestParseRawFilters(t *testing.T) {
	tests := []struct {
		name           string
		raw            map[string]interface{}
		validateOutput func(t *testing.T, req models.SearchFilterRequest)
	}{
		{
			name: "json typed values",
			raw: map[string]interface{}{
				"query":        "  electrician ",
				"category":     "electrical",
				"minPrice":     float64(100),
				"maxPrice":     300,
				"minRating":    float64(4),
				"verified":     true,
				"availableNow": false,
				"sortBy":       "rating",
				"limit":        float64(10),
			},
			validateOutput: func(t *testing.T, req models.SearchFilterRequest) {
				assert.Equal(t, "electrician", req.Query)
				assert.Equal(t, "electrical", req.CategoryID)
				assert.Equal(t, intP(100), req.MinPrice)
				assert.Equal(t, intP(300), req.MaxPrice)
				assert.Equal(t, floatP(4), req.MinRating)
				assert.Equal(t, boolP(true), req.Verified)
				assert.Equal(t, boolP(false), req.AvailableNow)
				assert.Equal(t, models.SortRating, req.SortBy)
				assert.Equal(t, intP(10), req.Limit)
				assert.Nil(t, req.Offset)
			},
		},
		{
			name: "query parameter strings",
			raw: map[string]interface{}{
				"q":               "zugrav",
				"priceRange":      "100-300",
				"responseTimeMax": "60",
				"minRating":       "4.5",
				"verified":        "true",
				"offset":          "20",
			},
			validateOutput: func(t *testing.T, req models.SearchFilterRequest) {
				assert.Equal(t, "zugrav", req.Query)
				assert.Equal(t, models.PriceBucket100To300, req.PriceRange)
				assert.Equal(t, intP(60), req.ResponseTimeMax)
				assert.Equal(t, floatP(4.5), req.MinRating)
				assert.Equal(t, boolP(true), req.Verified)
				assert.Equal(t, intP(20), req.Offset)
			},
		},
		{
			name: "empty strings and nulls stay unset",
			raw: map[string]interface{}{
				"category": "",
				"minPrice": "",
				"verified": nil,
				"limit":    " ",
			},
			validateOutput: func(t *testing.T, req models.SearchFilterRequest) {
				assert.Equal(t, models.SearchFilterRequest{}, req)
				assert.Empty(t, AppliedFilters(req))
			},
		},
		{
			name: "explicit zero is kept",
			raw:  map[string]interface{}{"limit": float64(0)},
			validateOutput: func(t *testing.T, req models.SearchFilterRequest) {
				require.NotNil(t, req.Limit)
				assert.Error(t, ValidateSearchRequest(req))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRawFilters(tt.raw)
			require.NoError(t, err)
			tt.validateOutput(t, req)
		})
	}
}

func TestParseRawFilters_TypeErrors(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]interface{}
		wantField string
	}{
		{name: "fractional limit", raw: map[string]interface{}{"limit": 2.5}, wantField: "limit"},
		{name: "word for price", raw: map[string]interface{}{"maxPrice": "cheap"}, wantField: "maxPrice"},
		{name: "bad rating", raw: map[string]interface{}{"minRating": "four"}, wantField: "minRating"},
		{name: "bad boolean", raw: map[string]interface{}{"availableNow": "maybe"}, wantField: "availableNow"},
		{name: "array for offset", raw: map[string]interface{}{"offset": []interface{}{1}}, wantField: "offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRawFilters(tt.raw)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidRequest))
		})
	}
}
