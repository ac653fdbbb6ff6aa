// internal/discovery/filter.go
package discovery

import (
	"strings"

	"pro-discovery/internal/models"
)

// Filter returns the candidates matching every set predicate of req, in input order.
// The input slice is never modified. The request is assumed valid.
func Filter(candidates []models.ProfessionalProfile, req models.SearchFilterRequest) []models.ProfessionalProfile {
	match := newMatcher(req)
	out := make([]models.ProfessionalProfile, 0, len(candidates))
	for _, p := range candidates {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether a single profile satisfies req.
func Matches(p models.ProfessionalProfile, req models.SearchFilterRequest) bool {
	return newMatcher(req)(p)
}

func newMatcher(req models.SearchFilterRequest) func(models.ProfessionalProfile) bool {
	query := strings.ToLower(strings.TrimSpace(req.Query))
	bucket, hasBucket := priceBuckets[req.PriceRange]

	return func(p models.ProfessionalProfile) bool {
		if req.CategoryID != "" && !p.HasCategory(req.CategoryID) {
			return false
		}
		if req.AreaID != "" && !p.HasArea(req.AreaID) {
			return false
		}
		if req.MinRating != nil && p.RatingAvg < *req.MinRating {
			return false
		}
		if req.Verified != nil && p.Verified != *req.Verified {
			return false
		}
		if req.AvailableNow != nil && p.Active != *req.AvailableNow {
			return false
		}
		if req.MinPrice != nil && p.MinPrice < *req.MinPrice {
			return false
		}
		if req.MaxPrice != nil && p.MinPrice > *req.MaxPrice {
			return false
		}
		if hasBucket && !bucket.contains(p.MinPrice) {
			return false
		}
		if req.ResponseTimeMax != nil && p.ResponseTimeAvgMins > *req.ResponseTimeMax {
			return false
		}
		if query != "" && !matchesText(p, query) {
			return false
		}
		return true
	}
}

// matchesText expects a lower-cased, trimmed needle.
func matchesText(p models.ProfessionalProfile, needle string) bool {
	return containsFold(p.DisplayName, needle) ||
		containsFold(p.CompanyName, needle) ||
		containsFold(p.About, needle)
}

func containsFold(haystack, lowerNeedle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
