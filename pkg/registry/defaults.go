// pkg/registry/defaults.go
package registry

import (
	"encoding/json"
	"time"

	"pro-discovery/internal/common/validation"
)

const defaultVersion = "1.0.0"

func object(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func typed(t string) map[string]interface{} {
	return map[string]interface{}{"type": t}
}

func mustSchema(src string) map[string]interface{} {
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(src), &out); err != nil {
		panic(err)
	}
	return out
}

// Default is the registry of every activity this service implements.
func Default() *ActivityRegistry {
	searchRequest := typed("object")

	reg := &ActivityRegistry{
		Version:     defaultVersion,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Activities: []Activity{
			{
				ID:          "parse-search-filters",
				DisplayName: "Parse Search Filters",
				Description: "Turns a raw filter document into a validated search request and lists the applied filters",
				Category:    CategoryDiscovery,
				TaskType:    "parse-search-filters",
				InputSchema: object(map[string]interface{}{
					"rawFilters": mustSchema(validation.SearchFiltersSchema),
				}, "rawFilters"),
				OutputSchema: object(map[string]interface{}{
					"searchRequest":  searchRequest,
					"appliedFilters": typed("array"),
				}),
				ErrorCodes: []string{"INVALID_FILTER_FORMAT", "INVALID_SEARCH_REQUEST"},
				Timeout:    "10s",
				Retries:    0,
				Tags:       []string{"search", "validation"},
			},
			{
				ID:          "search-professionals",
				DisplayName: "Search Professionals",
				Description: "Filters, ranks and paginates professional profiles",
				Category:    CategoryDiscovery,
				TaskType:    "search-professionals",
				InputSchema: object(map[string]interface{}{
					"searchRequest": searchRequest,
				}, "searchRequest"),
				OutputSchema: object(map[string]interface{}{
					"profiles":       typed("array"),
					"pagination":     typed("object"),
					"appliedFilters": typed("array"),
				}),
				ErrorCodes: []string{"INVALID_SEARCH_REQUEST", "DEPENDENCY_UNAVAILABLE", "TIMEOUT_ERROR"},
				Timeout:    "15s",
				Retries:    3,
				Tags:       []string{"search"},
			},
			{
				ID:          "apply-relevance-ranking",
				DisplayName: "Apply Relevance Ranking",
				Description: "Orders a list of profiles by a sort key and attaches recommended scores",
				Category:    CategoryDiscovery,
				TaskType:    "apply-relevance-ranking",
				InputSchema: object(map[string]interface{}{
					"profiles": typed("array"),
					"sortBy":   typed("string"),
					"maxItems": typed("integer"),
				}, "profiles"),
				OutputSchema: object(map[string]interface{}{
					"rankedProfiles": typed("array"),
					"totalRanked":    typed("integer"),
				}),
				ErrorCodes: []string{"INVALID_RANKING_INPUT"},
				Timeout:    "10s",
				Retries:    0,
				Tags:       []string{"ranking"},
			},
			{
				ID:          "search-suggestions",
				DisplayName: "Search Suggestions",
				Description: "Typeahead suggestions from professionals, categories and services",
				Category:    CategoryDiscovery,
				TaskType:    "search-suggestions",
				InputSchema: mustSchema(validation.SuggestRequestSchema),
				OutputSchema: object(map[string]interface{}{
					"suggestions": typed("array"),
					"count":       typed("integer"),
				}),
				ErrorCodes: []string{"INVALID_SUGGEST_REQUEST", "DEPENDENCY_UNAVAILABLE", "TIMEOUT_ERROR"},
				Timeout:    "5s",
				Retries:    3,
				Tags:       []string{"search", "typeahead"},
			},
			{
				ID:           "get-search-facets",
				DisplayName:  "Get Search Facets",
				Description:  "Filter options: categories, areas, price bands, sort, rating and response time",
				Category:     CategoryDiscovery,
				TaskType:     "get-search-facets",
				InputSchema:  object(map[string]interface{}{}),
				OutputSchema: object(map[string]interface{}{"facets": typed("object")}),
				ErrorCodes:   []string{"DEPENDENCY_UNAVAILABLE", "TIMEOUT_ERROR"},
				Timeout:      "5s",
				Retries:      3,
				Tags:         []string{"search", "taxonomy"},
			},
			{
				ID:          "query-postgresql",
				DisplayName: "Query PostgreSQL",
				Description: "Reads professional profiles, categories or areas from PostgreSQL",
				Category:    CategoryDataAccess,
				TaskType:    "query-postgresql",
				InputSchema: object(map[string]interface{}{
					"queryType": map[string]interface{}{
						"type": "string",
						"enum": []string{"professional_profiles", "categories", "areas"},
					},
					"filters": typed("object"),
				}, "queryType"),
				OutputSchema: object(map[string]interface{}{
					"data":               typed("array"),
					"rowCount":           typed("integer"),
					"queryExecutionTime": typed("integer"),
				}),
				ErrorCodes: []string{"INVALID_QUERY_TYPE", "INVALID_FILTER_FORMAT", "QUERY_EXECUTION_FAILED", "QUERY_TIMEOUT"},
				Timeout:    "30s",
				Retries:    3,
				Tags:       []string{"postgres"},
			},
			{
				ID:          "query-elasticsearch",
				DisplayName: "Query Elasticsearch",
				Description: "Reads one page of professional profiles from the search index",
				Category:    CategoryDataAccess,
				TaskType:    "query-elasticsearch",
				InputSchema: object(map[string]interface{}{
					"indexName":  typed("string"),
					"filters":    typed("object"),
					"pagination": typed("object"),
				}),
				OutputSchema: object(map[string]interface{}{
					"data":      typed("array"),
					"totalHits": typed("integer"),
					"took":      typed("integer"),
				}),
				ErrorCodes: []string{
					"INVALID_FILTER_FORMAT", "INDEX_NOT_FOUND", "SEARCH_QUERY_FAILED",
					"SEARCH_TIMEOUT", "ELASTICSEARCH_CONNECTION_FAILED",
				},
				Timeout: "30s",
				Retries: 3,
				Tags:    []string{"elasticsearch"},
			},
		},
	}
	for i := range reg.Activities {
		reg.Activities[i].Version = defaultVersion
		reg.Activities[i].ImplementationStatus = StatusCompleted
	}
	return reg
}
