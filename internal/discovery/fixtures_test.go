package discovery

import (
	"context"
	"sync"
	"time"

	"pro-discovery/internal/models"
)

func intP(v int) *int { return &v }

func floatP(v float64) *float64 { return &v }

func boolP(v bool) *bool { return &v }

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func profile(id string, mutate ...func(*models.ProfessionalProfile)) models.ProfessionalProfile {
	p := models.ProfessionalProfile{
		ID:                  id,
		UserID:              "user-" + id,
		DisplayName:         "Pro " + id,
		CategoryIDs:         []string{"cat-general"},
		AreaIDs:             []string{"area-center"},
		MinPrice:            150,
		Verified:            false,
		RatingAvg:           4.0,
		RatingCount:         10,
		ResponseTimeAvgMins: 30,
		Active:              true,
		CreatedAt:           baseTime,
		UpdatedAt:           baseTime,
	}
	for _, m := range mutate {
		m(&p)
	}
	return p
}

// electricalSeed has 3 electrical profiles, 2 of them verified and rated >= 4.
func electricalSeed() []models.ProfessionalProfile {
	return []models.ProfessionalProfile{
		profile("p1", func(p *models.ProfessionalProfile) {
			p.DisplayName = "Ion Popescu"
			p.CategoryIDs = []string{"electrical"}
			p.Verified = true
			p.RatingAvg = 4.3
			p.RatingCount = 12
		}),
		profile("p2", func(p *models.ProfessionalProfile) {
			p.DisplayName = "Mihai Ionescu"
			p.CategoryIDs = []string{"electrical", "plumbing"}
			p.Verified = false
			p.RatingAvg = 4.9
		}),
		profile("p3", func(p *models.ProfessionalProfile) {
			p.DisplayName = "Andrei Stan"
			p.CompanyName = "Stan Electric SRL"
			p.CategoryIDs = []string{"electrical"}
			p.Verified = true
			p.RatingAvg = 4.8
			p.RatingCount = 40
		}),
		profile("p4", func(p *models.ProfessionalProfile) {
			p.DisplayName = "Elena Dobre"
			p.CategoryIDs = []string{"plumbing"}
			p.Verified = true
			p.RatingAvg = 5.0
		}),
		profile("p5", func(p *models.ProfessionalProfile) {
			p.DisplayName = "Radu Marin"
			p.CategoryIDs = []string{"painting"}
			p.RatingAvg = 3.1
		}),
	}
}

func seedCategories() []models.Category {
	return []models.Category{
		{ID: "plumbing", Name: "Instalații Sanitare", Icon: "droplet", Color: "#1E88E5"},
		{ID: "electrical", Name: "Instalații Electrice", Icon: "bolt", Color: "#FDD835"},
		{ID: "painting", Name: "Zugrăveli", Icon: "brush", Color: "#8E24AA"},
	}
}

func seedAreas() []models.Area {
	return []models.Area{
		{ID: "area-center", Name: "Centru", City: "Cluj-Napoca"},
		{ID: "area-manastur", Name: "Mănăștur", City: "Cluj-Napoca"},
	}
}

// fakeProfiles returns its profiles unfiltered, the loosest legal coarse fetch.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles []models.ProfessionalProfile
	err      error
	calls    int
	queries  []models.ProfileQuery
}

func (f *fakeProfiles) FetchProfiles(_ context.Context, q models.ProfileQuery) ([]models.ProfessionalProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.ProfessionalProfile, len(f.profiles))
	copy(out, f.profiles)
	return out, nil
}

type fakeTaxonomy struct {
	categories    []models.Category
	areas         []models.Area
	categoriesErr error
	areasErr      error
	calls         int
}

func (f *fakeTaxonomy) FetchCategories(context.Context) ([]models.Category, error) {
	f.calls++
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return f.categories, nil
}

func (f *fakeTaxonomy) FetchAreas(context.Context) ([]models.Area, error) {
	f.calls++
	if f.areasErr != nil {
		return nil, f.areasErr
	}
	return f.areas, nil
}

func ids(profiles []models.ProfessionalProfile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.ID
	}
	return out
}
