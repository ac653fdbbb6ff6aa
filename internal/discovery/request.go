// internal/discovery/request.go
package discovery

import (
	"fmt"
	"strings"

	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/models"
)

// ValidationError rejects a malformed request before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidRequest
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// priceRange is an inclusive price interval; max < 0 means unbounded.
type priceRange struct {
	min, max int
}

var priceBuckets = map[models.PriceBucket]priceRange{
	models.PriceBucket0To100:    {0, 100},
	models.PriceBucket100To300:  {100, 300},
	models.PriceBucket300To500:  {300, 500},
	models.PriceBucket500To1000: {500, 1000},
	models.PriceBucket1000AndUp: {1000, -1},
}

func (r priceRange) contains(price int) bool {
	return price >= r.min && (r.max < 0 || price <= r.max)
}

// ValidateSearchRequest checks every bound the filter and pagination stages rely on.
func ValidateSearchRequest(req models.SearchFilterRequest) error {
	if req.Limit != nil && (*req.Limit < 1 || *req.Limit > models.MaxSearchLimit) {
		return invalid("limit", "must be between 1 and %d, got %d", models.MaxSearchLimit, *req.Limit)
	}
	if req.Offset != nil && *req.Offset < 0 {
		return invalid("offset", "must be >= 0, got %d", *req.Offset)
	}
	if req.MinPrice != nil && *req.MinPrice < 0 {
		return invalid("minPrice", "must be >= 0, got %d", *req.MinPrice)
	}
	if req.MaxPrice != nil && *req.MaxPrice < 0 {
		return invalid("maxPrice", "must be >= 0, got %d", *req.MaxPrice)
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return invalid("minPrice", "%d is greater than maxPrice %d", *req.MinPrice, *req.MaxPrice)
	}
	if req.PriceRange != "" {
		if _, ok := priceBuckets[req.PriceRange]; !ok {
			return invalid("priceRange", "unknown bucket %q", req.PriceRange)
		}
	}
	if req.MinRating != nil && (*req.MinRating < 1 || *req.MinRating > 5) {
		return invalid("minRating", "must be between 1 and 5, got %g", *req.MinRating)
	}
	if req.ResponseTimeMax != nil && *req.ResponseTimeMax < 0 {
		return invalid("responseTimeMax", "must be >= 0, got %d", *req.ResponseTimeMax)
	}
	if req.SortBy != "" && !req.SortBy.Valid() {
		return invalid("sortBy", "unknown sort key %q", req.SortBy)
	}
	return nil
}

// ValidateSuggestRequest checks the typeahead query, type restriction and limit.
func ValidateSuggestRequest(req models.SuggestRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return invalid("query", "must contain at least one non-space character")
	}
	if !req.Type.Valid() {
		return invalid("type", "unknown suggestion type %q", req.Type)
	}
	if req.Limit != nil && (*req.Limit < 1 || *req.Limit > models.MaxSuggestionLimit) {
		return invalid("limit", "must be between 1 and %d, got %d", models.MaxSuggestionLimit, *req.Limit)
	}
	return nil
}

// AppliedFilters names the filter fields the request actually set, in a fixed order.
// Sort and pagination are not filters and never appear.
func AppliedFilters(req models.SearchFilterRequest) []string {
	applied := make([]string, 0, 10)
	add := func(set bool, name string) {
		if set {
			applied = append(applied, name)
		}
	}
	add(strings.TrimSpace(req.Query) != "", "query")
	add(req.CategoryID != "", "category")
	add(req.AreaID != "", "area")
	add(req.MinPrice != nil, "minPrice")
	add(req.MaxPrice != nil, "maxPrice")
	add(req.PriceRange != "", "priceRange")
	add(req.MinRating != nil, "minRating")
	add(req.Verified != nil, "verified")
	add(req.AvailableNow != nil, "availableNow")
	add(req.ResponseTimeMax != nil, "responseTimeMax")
	return applied
}

// CoarseQuery derives the predicates a profile store may push down. Stores may
// over-return against it; the filter pass re-checks everything.
func CoarseQuery(req models.SearchFilterRequest) models.ProfileQuery {
	q := models.ProfileQuery{
		CategoryID:      req.CategoryID,
		AreaID:          req.AreaID,
		Verified:        req.Verified,
		AvailableNow:    req.AvailableNow,
		MinRating:       req.MinRating,
		ResponseTimeMax: req.ResponseTimeMax,
		Query:           strings.TrimSpace(req.Query),
		SortHint:        req.EffectiveSort(),
	}

	bucket, hasBucket := priceBuckets[req.PriceRange]

	// tightest price floor and ceiling across the numeric bounds and the bucket
	floor := -1
	if req.MinPrice != nil {
		floor = *req.MinPrice
	}
	if hasBucket && bucket.min > floor {
		floor = bucket.min
	}
	if floor > 0 {
		q.MinPrice = &floor
	}

	ceiling := -1
	if req.MaxPrice != nil {
		ceiling = *req.MaxPrice
	}
	if hasBucket && bucket.max >= 0 {
		if ceiling < 0 || bucket.max < ceiling {
			ceiling = bucket.max
		}
	}
	if ceiling >= 0 {
		q.MaxPrice = &ceiling
	}
	return q
}

// SuggestQuery fetches the first professionals, in insertion order, whose names contain the query.
func SuggestQuery(req models.SuggestRequest) models.ProfileQuery {
	return models.ProfileQuery{
		Query:     strings.TrimSpace(req.Query),
		NamesOnly: true,
		SortHint:  models.SortInsertion,
		Limit:     models.MaxProfessionalSuggestions,
	}
}
