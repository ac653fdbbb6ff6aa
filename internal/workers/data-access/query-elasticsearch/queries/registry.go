// internal/workers/data-access/query-elasticsearch/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"pro-discovery/internal/discovery"
	"pro-discovery/internal/models"
	"pro-discovery/internal/repository"
)

type QueryResult struct {
	Data      []models.ProfessionalProfile
	TotalHits int64
	Took      int64
}

// Execute runs one page of the query. TotalHits is the index count for the pushed-down
// predicates; Data holds only the page's hits that satisfy every filter.
func Execute(ctx context.Context, esClient *elasticsearch.Client, eq ElasticsearchQuery) (*QueryResult, error) {
	req, body, err := BuildQuery(eq)
	if err != nil {
		return nil, err
	}

	hits, err := repository.Search(ctx, esClient, eq.Index, body)
	if err != nil {
		return nil, err
	}

	data := make([]models.ProfessionalProfile, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		var p models.ProfessionalProfile
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			return nil, fmt.Errorf("%w: decode hit %s: %v", repository.ErrSearchQueryFailed, hit.ID, err)
		}
		if p.ID == "" {
			p.ID = hit.ID
		}
		if discovery.Matches(p, req) {
			data = append(data, p)
		}
	}

	return &QueryResult{
		Data:      data,
		TotalHits: hits.Hits.Total.Value,
		Took:      hits.Took,
	}, nil
}
