// internal/workers/data-access/query-elasticsearch/queries/builders.go
package queries

import (
	"errors"
	"fmt"

	"pro-discovery/internal/discovery"
	"pro-discovery/internal/models"
	"pro-discovery/internal/repository"
)

const (
	QueryTypeProfessionalProfiles = "professional_profiles"

	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ElasticsearchQuery defines one page of a profile search against an index.
type ElasticsearchQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery parses the raw filters and returns the request they imply together with
// the search body. Filter errors wrap apperrors.ErrInvalidRequest.
func BuildQuery(eq ElasticsearchQuery) (models.SearchFilterRequest, map[string]interface{}, error) {
	if eq.Index == "" {
		return models.SearchFilterRequest{}, nil, ErrMissingIndex
	}
	if eq.QueryType != "" && eq.QueryType != QueryTypeProfessionalProfiles {
		return models.SearchFilterRequest{}, nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	req, err := discovery.ParseRawFilters(eq.Filters)
	if err != nil {
		return req, nil, err
	}
	if err := discovery.ValidateSearchRequest(req); err != nil {
		return req, nil, err
	}

	body := repository.BuildProfileQuery(discovery.CoarseQuery(req), clampSize(eq.Pagination.Size))
	if eq.Pagination.From > 0 {
		body["from"] = eq.Pagination.From
	}
	return req, body, nil
}

func clampSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
