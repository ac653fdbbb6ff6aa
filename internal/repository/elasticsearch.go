// internal/repository/elasticsearch.go
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/models"
)

var (
	ErrIndexNotFound     = errors.New("index not found")
	ErrSearchQueryFailed = errors.New("search query failed")
)

// ElasticProfileRepository reads candidate profiles from an index whose documents use the
// profile JSON field names, with keyword sub-fields on the text fields.
type ElasticProfileRepository struct {
	client        *elasticsearch.Client
	index         string
	maxCandidates int
	logger        logger.Logger
}

// maxResultWindow is the index default for from+size; an unset cap falls back to it.
const maxResultWindow = 10000

func NewElasticProfileRepository(client *elasticsearch.Client, index string, maxCandidates int, log logger.Logger) *ElasticProfileRepository {
	if maxCandidates <= 0 || maxCandidates > maxResultWindow {
		maxCandidates = maxResultWindow
	}
	return &ElasticProfileRepository{
		client:        client,
		index:         index,
		maxCandidates: maxCandidates,
		logger:        log.WithFields(map[string]interface{}{"repository": "elasticsearch", "index": index}),
	}
}

// SearchHits is the decoded subset of an Elasticsearch search response.
type SearchHits struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r *ElasticProfileRepository) FetchProfiles(ctx context.Context, q models.ProfileQuery) ([]models.ProfessionalProfile, error) {
	// the total hit count detects an overflow, so a full-match fetch needs no extra row
	size := candidateWindow(q, r.maxCandidates)
	if q.Limit == 0 {
		size = r.maxCandidates
	}
	hits, err := Search(ctx, r.client, r.index, BuildProfileQuery(q, size))
	if err != nil {
		return nil, err
	}
	if err := checkCandidateCap(r.logger, q, int(hits.Hits.Total.Value), r.maxCandidates); err != nil {
		return nil, err
	}

	profiles := make([]models.ProfessionalProfile, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		var p models.ProfessionalProfile
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", hit.ID, err)
		}
		if p.ID == "" {
			p.ID = hit.ID
		}
		if p.CategoryIDs == nil {
			p.CategoryIDs = []string{}
		}
		if p.AreaIDs == nil {
			p.AreaIDs = []string{}
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

// Search runs body against index and decodes the hits.
func Search(ctx context.Context, client *elasticsearch.Client, index string, body map[string]interface{}) (*SearchHits, error) {
	if index == "" {
		return nil, ErrIndexNotFound
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode body: %v", ErrSearchQueryFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(payload),
	}
	res, err := req.Do(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
	}

	var hits SearchHits
	if err := json.NewDecoder(res.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchQueryFailed, err)
	}
	return &hits, nil
}

// BuildProfileQuery translates the pushed-down predicates into a bool filter query.
// The free-text predicate is a case-insensitive wildcard on the keyword sub-fields,
// so it stays a substring match rather than analyzed full-text relevance.
func BuildProfileQuery(q models.ProfileQuery, size int) map[string]interface{} {
	filters := []interface{}{}

	if q.CategoryID != "" {
		filters = append(filters, term("categoryIds", q.CategoryID))
	}
	if q.AreaID != "" {
		filters = append(filters, term("areaIds", q.AreaID))
	}
	if q.Verified != nil {
		filters = append(filters, term("verified", *q.Verified))
	}
	if q.AvailableNow != nil {
		filters = append(filters, term("active", *q.AvailableNow))
	}
	if q.MinPrice != nil {
		filters = append(filters, rangeClause("minPrice", "gte", *q.MinPrice))
	}
	if q.MaxPrice != nil {
		filters = append(filters, rangeClause("minPrice", "lte", *q.MaxPrice))
	}
	if q.MinRating != nil {
		filters = append(filters, rangeClause("ratingAvg", "gte", *q.MinRating))
	}
	if q.ResponseTimeMax != nil {
		filters = append(filters, rangeClause("responseTimeAvgMins", "lte", *q.ResponseTimeMax))
	}
	if q.Query != "" {
		pattern := "*" + escapeWildcard(q.Query) + "*"
		fields := []string{"displayName.keyword", "companyName.keyword", "about.keyword"}
		if q.NamesOnly {
			fields = fields[:2]
		}
		should := make([]interface{}, 0, len(fields))
		for _, field := range fields {
			should = append(should, map[string]interface{}{
				"wildcard": map[string]interface{}{
					field: map[string]interface{}{
						"value":            pattern,
						"case_insensitive": true,
					},
				},
			})
		}
		filters = append(filters, map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		})
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort":             esSort(q.SortHint),
		"track_total_hits": true,
	}
	if size > 0 {
		body["size"] = size
	}
	return body
}

func term(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"term": map[string]interface{}{field: value}}
}

func rangeClause(field, op string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"range": map[string]interface{}{field: map[string]interface{}{op: value}},
	}
}

func esSort(hint models.SortKey) []interface{} {
	order := func(field, dir string) map[string]interface{} {
		return map[string]interface{}{field: map[string]interface{}{"order": dir}}
	}
	switch hint {
	case models.SortInsertion:
		return []interface{}{order("createdAt", "asc"), order("id", "asc")}
	case models.SortRating:
		return []interface{}{order("ratingAvg", "desc"), order("ratingCount", "desc"), order("id", "asc")}
	case models.SortPriceLowToHigh:
		return []interface{}{order("minPrice", "asc"), order("id", "asc")}
	case models.SortPriceHighToLow:
		return []interface{}{order("minPrice", "desc"), order("id", "asc")}
	case models.SortResponseTime:
		return []interface{}{order("responseTimeAvgMins", "asc"), order("id", "asc")}
	case models.SortNewest:
		return []interface{}{order("createdAt", "desc"), order("id", "asc")}
	default:
		return []interface{}{order("verified", "desc"), order("ratingAvg", "desc"), order("id", "asc")}
	}
}

func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}
