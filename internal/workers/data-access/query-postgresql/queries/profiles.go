// internal/workers/data-access/query-postgresql/queries/profiles.go
package queries

import (
	"context"
	"time"

	"pro-discovery/internal/discovery"
	"pro-discovery/internal/repository"
)

// ProfessionalProfiles returns the profiles matching a raw filter document, in the
// order implied by its sortBy. Filter errors wrap apperrors.ErrInvalidRequest.
func ProfessionalProfiles(ctx context.Context, env Env, filters map[string]interface{}) (interface{}, int, int64, error) {
	req, err := discovery.ParseRawFilters(filters)
	if err != nil {
		return nil, 0, 0, err
	}
	if err := discovery.ValidateSearchRequest(req); err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()

	repo := repository.NewPostgresProfileRepository(env.DB, env.MaxCandidates, env.Logger)
	candidates, err := repo.FetchProfiles(ctx, discovery.CoarseQuery(req))
	if err != nil {
		return nil, 0, 0, err
	}
	rows := discovery.Filter(candidates, req)

	execTime := time.Since(start).Milliseconds()
	return rows, len(rows), execTime, nil
}
