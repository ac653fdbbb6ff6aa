// internal/workers/discovery/apply-relevance-ranking/models.go
package applyrelevanceranking

import "pro-discovery/internal/models"

type Input struct {
	Profiles []models.ProfessionalProfile `json:"profiles"`
	SortBy   models.SortKey               `json:"sortBy,omitempty"`
	MaxItems int                          `json:"maxItems,omitempty"`
}

type Output struct {
	RankedProfiles []models.RankedProfile `json:"rankedProfiles"`
	TotalRanked    int                    `json:"totalRanked"`
}
