// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro-discovery/internal/api"
	"pro-discovery/internal/common/config"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/discovery"
	"pro-discovery/internal/models"
	"pro-discovery/internal/repository"
	"pro-discovery/pkg/registry"

	arr "pro-discovery/internal/workers/discovery/apply-relevance-ranking"
	gsf "pro-discovery/internal/workers/discovery/get-search-facets"
	psf "pro-discovery/internal/workers/discovery/parse-search-filters"
	sp "pro-discovery/internal/workers/discovery/search-professionals"
	ss "pro-discovery/internal/workers/discovery/search-suggestions"
)

const configsDir = "../../configs"

// stack is the discovery service wired the way discovery-manager wires it for the seed source.
type stack struct {
	cfg     *config.Config
	service *discovery.Service
	server  *api.Server
	log     logger.Logger
}

func newStack(t *testing.T) *stack {
	t.Helper()

	cfg, err := config.LoadFromFile(filepath.Join(configsDir, "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.SourceSeed, cfg.Discovery.ProfileSource)

	seed, err := repository.LoadSeedFile(filepath.Join(configsDir, filepath.Base(cfg.Discovery.SeedFile)))
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	store := repository.NewMemoryStore(seed)
	service := discovery.NewService(store, store,
		discovery.WithWeights(discovery.WeightsFromConfig(cfg.Discovery.Ranking)),
		discovery.WithLogger(log),
	)

	return &stack{
		cfg:     cfg,
		service: service,
		server:  api.NewServer(cfg.Server, "pro-discovery-e2e", service, nil, log),
		log:     log,
	}
}

func (s *stack) get(t *testing.T, target string, dest interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if dest != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
	}
	return rec.Code
}

func ids(profiles []models.ProfessionalProfile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ID)
	}
	return out
}

// ==========================
// HTTP API over the seed catalogue
// ==========================

func TestE2E_SearchOverSeedCatalogue(t *testing.T) {
	s := newStack(t)

	tests := []struct {
		name           string
		target         string
		validateOutput func(t *testing.T, result models.SearchResult)
	}{
		{
			name:   "category with recommended ranking",
			target: "/api/v1/professionals/search?category=electrical",
			validateOutput: func(t *testing.T, result models.SearchResult) {
				assert.Equal(t, []string{"p-ion-popescu", "p-radu-matei"}, ids(result.Profiles))
				assert.Equal(t, 2, result.Pagination.Total)
				assert.False(t, result.Pagination.HasMore)
			},
		},
		{
			name:   "price sort and bucket",
			target: "/api/v1/professionals/search?priceRange=100-300&sortBy=price_low_to_high",
			validateOutput: func(t *testing.T, result models.SearchResult) {
				assert.Equal(t, []string{"p-elena-stan", "p-ion-popescu", "p-vasile-dinu"}, ids(result.Profiles))
				assert.NotEmpty(t, result.AppliedFilters)
			},
		},
		{
			name:   "available now excludes inactive profiles",
			target: "/api/v1/professionals/search?availableNow=true&area=sector-1",
			validateOutput: func(t *testing.T, result models.SearchResult) {
				assert.Equal(t, []string{"p-ion-popescu"}, ids(result.Profiles))
			},
		},
		{
			name:   "text query across company names",
			target: "/api/v1/professionals/search?q=zugrav",
			validateOutput: func(t *testing.T, result models.SearchResult) {
				assert.Equal(t, []string{"p-maria-pop"}, ids(result.Profiles))
			},
		},
		{
			name:   "pagination window",
			target: "/api/v1/professionals/search?limit=2&offset=2&sortBy=newest",
			validateOutput: func(t *testing.T, result models.SearchResult) {
				assert.Len(t, result.Profiles, 2)
				assert.Equal(t, 6, result.Pagination.Total)
				assert.True(t, result.Pagination.HasMore)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result models.SearchResult
			require.Equal(t, http.StatusOK, s.get(t, tt.target, &result))
			tt.validateOutput(t, result)
		})
	}
}

func TestE2E_RejectsMalformedFilters(t *testing.T) {
	s := newStack(t)

	for _, target := range []string{
		"/api/v1/professionals/search?minPrice=cheap",
		"/api/v1/professionals/search?priceRange=0-10",
		"/api/v1/professionals/search?limit=500",
		"/api/v1/search/suggestions?q=",
	} {
		t.Run(target, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, s.get(t, target, nil))
		})
	}
}

func TestE2E_SuggestionsAndFacets(t *testing.T) {
	s := newStack(t)

	var suggestions struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	require.Equal(t, http.StatusOK, s.get(t, "/api/v1/search/suggestions?q=zugr", &suggestions))

	kinds := map[models.SuggestionKind]int{}
	for _, sg := range suggestions.Suggestions {
		kinds[sg.Type]++
	}
	assert.Equal(t, 1, kinds[models.SuggestionKindProfessional])
	assert.Equal(t, 1, kinds[models.SuggestionKindCategory])
	assert.Equal(t, 1, kinds[models.SuggestionKindService])

	var facets models.Facets
	require.Equal(t, http.StatusOK, s.get(t, "/api/v1/search/facets", &facets))
	assert.Len(t, facets.Categories, 6)
	assert.Equal(t, "plumbing", facets.Categories[0].ID)
	assert.Len(t, facets.Areas, 8)
	assert.Len(t, facets.PriceBands, 5)
	assert.Len(t, facets.SortOptions, 6)
}

// ==========================
// Worker pipeline
// ==========================

// TestE2E_WorkerPipeline runs the job handlers in process order:
// parse-search-filters, search-professionals, apply-relevance-ranking.
func TestE2E_WorkerPipeline(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	parsed, err := psf.NewHandler(psf.LoadConfig(), s.log).Execute(ctx, &psf.Input{
		RawFilters: map[string]interface{}{
			"category":  "electrical",
			"minRating": "4",
			"verified":  true,
			"limit":     float64(10),
		},
	})
	require.NoError(t, err)
	assert.Len(t, parsed.AppliedFilters, 3)

	found, err := sp.NewHandler(sp.LoadConfig(), s.service, s.log).Execute(ctx, &sp.Input{
		SearchRequest: parsed.SearchRequest,
	})
	require.NoError(t, err)
	require.Len(t, found.Profiles, 2)
	assert.Equal(t, parsed.AppliedFilters, found.AppliedFilters)

	rankCfg := arr.LoadConfig()
	rankCfg.Weights = s.service.Weights()
	ranked, err := arr.NewHandler(rankCfg, s.log).Execute(ctx, &arr.Input{
		Profiles: found.Profiles,
		SortBy:   models.SortPriceHighToLow,
	})
	require.NoError(t, err)
	require.Equal(t, 2, ranked.TotalRanked)
	assert.Equal(t, "p-radu-matei", ranked.RankedProfiles[0].ID)
	assert.Equal(t, 1, ranked.RankedProfiles[0].Position)

	suggested, err := ss.NewHandler(ss.LoadConfig(), s.service, s.log).Execute(ctx, &ss.Input{
		Query: "electr",
		Type:  models.SuggestionTypeCategories,
	})
	require.NoError(t, err)
	require.Equal(t, 1, suggested.Count)
	assert.Equal(t, "electrical", suggested.Suggestions[0].Category)

	facets, err := gsf.NewHandler(gsf.LoadConfig(), s.service, s.log).Execute(ctx, &gsf.Input{})
	require.NoError(t, err)
	assert.Len(t, facets.Facets.Categories, 6)
}

// ==========================
// Registry and configuration
// ==========================

func TestE2E_EveryRegisteredActivityIsConfigured(t *testing.T) {
	s := newStack(t)

	reg := registry.Default()
	require.NoError(t, reg.Validate())
	for _, activity := range reg.Activities {
		wcfg, ok := s.cfg.Workers[activity.TaskType]
		assert.True(t, ok, "workers.%s missing from config.yaml", activity.TaskType)
		assert.True(t, wcfg.Enabled, activity.TaskType)
	}
}

func TestE2E_RegistryFileMatchesDefault(t *testing.T) {
	path := filepath.Join(configsDir, "activity-registry.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("no registry file; the manager uses the built-in registry")
	}

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())
	for _, activity := range registry.Default().Activities {
		assert.True(t, reg.IsRegistered(activity.TaskType), activity.TaskType)
	}
}
