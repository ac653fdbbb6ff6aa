// internal/workers/discovery/search-professionals/models.go
package searchprofessionals

import "pro-discovery/internal/models"

type Input struct {
	SearchRequest models.SearchFilterRequest `json:"searchRequest"`
}

type Output struct {
	Profiles       []models.ProfessionalProfile `json:"profiles"`
	Pagination     models.Pagination            `json:"pagination"`
	AppliedFilters []string                     `json:"appliedFilters"`
}
