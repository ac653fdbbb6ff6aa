// internal/discovery/repository.go
package discovery

import (
	"context"

	"pro-discovery/internal/models"
)

// ProfileRepository performs the coarse candidate fetch. Implementations may return
// profiles that fail the pushed-down predicates, but never omit one that satisfies them.
type ProfileRepository interface {
	FetchProfiles(ctx context.Context, query models.ProfileQuery) ([]models.ProfessionalProfile, error)
}

// TaxonomyStore serves the read-only category and area catalogs in catalog order.
type TaxonomyStore interface {
	FetchCategories(ctx context.Context) ([]models.Category, error)
	FetchAreas(ctx context.Context) ([]models.Area, error)
}
