// internal/discovery/pagination.go
package discovery

import "pro-discovery/internal/models"

// Paginate slices ranked to the requested window. total is always len(ranked);
// an offset past the end yields an empty, non-nil page.
func Paginate(ranked []models.ProfessionalProfile, limit, offset int) ([]models.ProfessionalProfile, models.Pagination) {
	total := len(ranked)

	start := offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if limit >= 0 && limit < total-start {
		end = start + limit
	}

	page := make([]models.ProfessionalProfile, end-start)
	copy(page, ranked[start:end])

	return page, models.Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: limit >= 0 && offset < total-limit,
	}
}
