// internal/workers/data-access/query-elasticsearch/models.go
package queryelasticsearch

import "pro-discovery/internal/models"

type Input struct {
	IndexName  string                 `json:"indexName"`
	QueryType  string                 `json:"queryType,omitempty"`
	Filters    map[string]interface{} `json:"filters"`
	Pagination Pagination             `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []models.ProfessionalProfile `json:"data"`
	TotalHits int64                        `json:"totalHits"`
	Took      int64                        `json:"took"` // milliseconds, as reported by the cluster
}
