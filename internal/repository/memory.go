// internal/repository/memory.go
package repository

import (
	"context"
	"strings"

	"pro-discovery/internal/models"
)

// MemoryStore serves profiles and taxonomy from a fixed snapshot. It backs the seed source.
type MemoryStore struct {
	profiles   []models.ProfessionalProfile
	categories []models.Category
	areas      []models.Area
}

func NewMemoryStore(seed *Seed) *MemoryStore {
	return &MemoryStore{
		profiles:   append([]models.ProfessionalProfile(nil), seed.Profiles...),
		categories: append([]models.Category(nil), seed.Categories...),
		areas:      append([]models.Area(nil), seed.Areas...),
	}
}

// FetchProfiles applies the category, area and text predicates; the engine filters the rest.
// Profiles come back in seed order, which is also insertion order.
func (m *MemoryStore) FetchProfiles(ctx context.Context, q models.ProfileQuery) ([]models.ProfessionalProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(q.Query))
	out := make([]models.ProfessionalProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		if q.CategoryID != "" && !p.HasCategory(q.CategoryID) {
			continue
		}
		if q.AreaID != "" && !p.HasArea(q.AreaID) {
			continue
		}
		if needle != "" && !memoryTextMatch(p, needle, q.NamesOnly) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func memoryTextMatch(p models.ProfessionalProfile, needle string, namesOnly bool) bool {
	fields := []string{p.DisplayName, p.CompanyName}
	if !namesOnly {
		fields = append(fields, p.About)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func (m *MemoryStore) FetchCategories(ctx context.Context) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append(make([]models.Category, 0, len(m.categories)), m.categories...), nil
}

func (m *MemoryStore) FetchAreas(ctx context.Context) ([]models.Area, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append(make([]models.Area, 0, len(m.areas)), m.areas...), nil
}
