// internal/discovery/rawfilters.go
package discovery

import (
	"math"
	"strconv"
	"strings"

	"pro-discovery/internal/models"
)

// ParseRawFilters coerces a loosely typed filter document into a request. Numbers and
// booleans may arrive as JSON values or as strings (query parameters, form fields).
// Empty strings and nulls leave a field unset. Only type errors are reported here;
// bounds are checked by ValidateSearchRequest.
func ParseRawFilters(raw map[string]interface{}) (models.SearchFilterRequest, error) {
	var (
		req models.SearchFilterRequest
		err error
	)

	req.Query = rawString(raw, "query")
	if req.Query == "" {
		req.Query = rawString(raw, "q")
	}
	req.CategoryID = rawString(raw, "category")
	req.AreaID = rawString(raw, "area")
	req.PriceRange = models.PriceBucket(rawString(raw, "priceRange"))
	req.SortBy = models.SortKey(rawString(raw, "sortBy"))

	ints := []struct {
		key  string
		dest **int
	}{
		{"minPrice", &req.MinPrice},
		{"maxPrice", &req.MaxPrice},
		{"responseTimeMax", &req.ResponseTimeMax},
		{"limit", &req.Limit},
		{"offset", &req.Offset},
	}
	for _, f := range ints {
		if *f.dest, err = rawInt(raw, f.key); err != nil {
			return req, err
		}
	}

	if req.MinRating, err = rawFloat(raw, "minRating"); err != nil {
		return req, err
	}
	if req.Verified, err = rawBool(raw, "verified"); err != nil {
		return req, err
	}
	if req.AvailableNow, err = rawBool(raw, "availableNow"); err != nil {
		return req, err
	}
	return req, nil
}

func rawString(raw map[string]interface{}, key string) string {
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}

func rawInt(raw map[string]interface{}, key string) (*int, error) {
	switch v := raw[key].(type) {
	case nil:
		return nil, nil
	case int:
		return &v, nil
	case int64:
		n := int(v)
		return &n, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, invalid(key, "must be an integer, got %g", v)
		}
		n := int(v)
		return &n, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, invalid(key, "must be an integer, got %q", v)
		}
		return &n, nil
	default:
		return nil, invalid(key, "must be an integer")
	}
}

func rawFloat(raw map[string]interface{}, key string) (*float64, error) {
	switch v := raw[key].(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case int:
		f := float64(v)
		return &f, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return nil, invalid(key, "must be a number, got %q", v)
		}
		return &f, nil
	default:
		return nil, invalid(key, "must be a number")
	}
}

func rawBool(raw map[string]interface{}, key string) (*bool, error) {
	switch v := raw[key].(type) {
	case nil:
		return nil, nil
	case bool:
		return &v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, invalid(key, "must be true or false, got %q", v)
		}
		return &b, nil
	default:
		return nil, invalid(key, "must be true or false")
	}
}
