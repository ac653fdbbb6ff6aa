// internal/workers/discovery/get-search-facets/models.go
package getsearchfacets

import "pro-discovery/internal/models"

// Input carries no fields; the job only needs to exist.
type Input struct{}

type Output struct {
	Facets models.Facets `json:"facets"`
}
