// internal/workers/data-access/query-postgresql/queries/taxonomy.go
package queries

import (
	"context"
	"time"

	"pro-discovery/internal/repository"
)

func Categories(ctx context.Context, env Env, _ map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	categories, err := repository.NewPostgresTaxonomyStore(env.DB).FetchCategories(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return categories, len(categories), execTime, nil
}

func Areas(ctx context.Context, env Env, _ map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	areas, err := repository.NewPostgresTaxonomyStore(env.DB).FetchAreas(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return areas, len(areas), execTime, nil
}
