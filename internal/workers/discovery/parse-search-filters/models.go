// internal/workers/discovery/parse-search-filters/models.go
package parsesearchfilters

import "pro-discovery/internal/models"

type Input struct {
	RawFilters map[string]interface{} `json:"rawFilters"`
}

type Output struct {
	SearchRequest  models.SearchFilterRequest `json:"searchRequest"`
	AppliedFilters []string                   `json:"appliedFilters"`
}
