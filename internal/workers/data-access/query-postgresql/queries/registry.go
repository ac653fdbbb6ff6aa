// internal/workers/data-access/query-postgresql/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/models"
)

var ErrUnknownQueryType = errors.New("unknown query type")

// Env is what every query needs besides its filters.
type Env struct {
	DB            *sql.DB
	MaxCandidates int
	Logger        logger.Logger
}

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, env Env, filters map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeProfessionalProfiles: ProfessionalProfiles,
	models.QueryTypeCategories:           Categories,
	models.QueryTypeAreas:                Areas,
}

func Execute(ctx context.Context, env Env, queryType models.QueryType, filters map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, env, filters)
}
