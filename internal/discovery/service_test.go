package discovery

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, profiles *fakeProfiles, taxonomy *fakeTaxonomy) *Service {
	t.Helper()
	return NewService(profiles, taxonomy, WithLogger(logger.NewTestLogger(t)))
}

// ==========================
// Search
// ==========================

func TestService_Search_ElectricalScenario(t *testing.T) {
	repo := &fakeProfiles{profiles: electricalSeed()}
	svc := newTestService(t, repo, &fakeTaxonomy{})

	result, err := svc.Search(context.Background(), models.SearchFilterRequest{
		CategoryID: "electrical",
		MinRating:  floatP(4),
		Verified:   boolP(true),
		SortBy:     models.SortRating,
		Limit:      intP(2),
		Offset:     intP(0),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"p3", "p1"}, ids(result.Profiles))
	assert.Equal(t, models.Pagination{Total: 2, Limit: 2, Offset: 0, HasMore: false}, result.Pagination)
	assert.Equal(t, []string{"category", "minRating", "verified"}, result.AppliedFilters)

	require.Len(t, repo.queries, 1)
	assert.Equal(t, "electrical", repo.queries[0].CategoryID)
	assert.Equal(t, models.SortRating, repo.queries[0].SortHint)
}

func TestService_Search_Defaults(t *testing.T) {
	svc := newTestService(t, &fakeProfiles{profiles: numbered(25)}, &fakeTaxonomy{})

	result, err := svc.Search(context.Background(), models.SearchFilterRequest{})
	require.NoError(t, err)

	assert.Len(t, result.Profiles, models.DefaultSearchLimit)
	assert.Equal(t, 25, result.Pagination.Total)
	assert.True(t, result.Pagination.HasMore)
	assert.NotNil(t, result.AppliedFilters)
	assert.Empty(t, result.AppliedFilters)
}

func TestService_Search_EmptyResultIsSuccess(t *testing.T) {
	svc := newTestService(t, &fakeProfiles{profiles: electricalSeed()}, &fakeTaxonomy{})

	result, err := svc.Search(context.Background(), models.SearchFilterRequest{CategoryID: "does-not-exist"})
	require.NoError(t, err)
	assert.NotNil(t, result.Profiles)
	assert.Empty(t, result.Profiles)
	assert.Equal(t, 0, result.Pagination.Total)
	assert.False(t, result.Pagination.HasMore)
}

func TestService_Search_TotalComesFromFilterPass(t *testing.T) {
	// the repository over-returns; only the in-memory pass decides membership
	svc := newTestService(t, &fakeProfiles{profiles: electricalSeed()}, &fakeTaxonomy{})

	result, err := svc.Search(context.Background(), models.SearchFilterRequest{CategoryID: "plumbing", Limit: intP(1)})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pagination.Total)
	assert.True(t, result.Pagination.HasMore)
}

func TestService_Search_ValidationSkipsRepository(t *testing.T) {
	repo := &fakeProfiles{profiles: electricalSeed()}
	svc := newTestService(t, repo, &fakeTaxonomy{})

	_, err := svc.Search(context.Background(), models.SearchFilterRequest{Limit: intP(0)})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	assert.Equal(t, 0, repo.calls)
}

func TestService_Search_DependencyFailure(t *testing.T) {
	storeErr := errors.New("pq: too many connections")
	svc := newTestService(t, &fakeProfiles{err: storeErr}, &fakeTaxonomy{})

	result, err := svc.Search(context.Background(), models.SearchFilterRequest{})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrDependencyUnavailable)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, apperrors.ErrCodeDependencyUnavailable, apperrors.Classify(err).Code)
}

func TestService_Search_CandidateOverflowIsNotAnOutage(t *testing.T) {
	repo := &fakeProfiles{err: fmt.Errorf("%w: more than 100 profiles match", apperrors.ErrCandidateLimitExceeded)}
	svc := newTestService(t, repo, &fakeTaxonomy{})

	result, err := svc.Search(context.Background(), models.SearchFilterRequest{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrCandidateLimitExceeded)
	assert.NotErrorIs(t, err, apperrors.ErrDependencyUnavailable)
	assert.Equal(t, apperrors.ErrCodeCandidateLimitExceeded, apperrors.Classify(err).Code)
}

func TestService_Search_UsesConfiguredWeights(t *testing.T) {
	fast := profile("fast", func(p *models.ProfessionalProfile) {
		p.RatingAvg = 3
		p.ResponseTimeAvgMins = 1
	})
	rated := profile("rated", func(p *models.ProfessionalProfile) {
		p.RatingAvg = 5
		p.ResponseTimeAvgMins = 30
	})
	repo := &fakeProfiles{profiles: []models.ProfessionalProfile{rated, fast}}

	def := NewService(repo, &fakeTaxonomy{})
	result, err := def.Search(context.Background(), models.SearchFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"rated", "fast"}, ids(result.Profiles))

	tuned := NewService(repo, &fakeTaxonomy{}, WithWeights(Weights{Rating: 0.01, Responsiveness: 0.9}))
	result, err = tuned.Search(context.Background(), models.SearchFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fast", "rated"}, ids(result.Profiles))
}

// ==========================
// Suggest
// ==========================

func TestService_Suggest(t *testing.T) {
	repo := &fakeProfiles{profiles: electricalSeed()}
	taxonomy := &fakeTaxonomy{categories: seedCategories()}
	svc := newTestService(t, repo, taxonomy)

	got, err := svc.Suggest(context.Background(), models.SuggestRequest{Query: "insta", Type: models.SuggestionTypeCategories})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Instalații Sanitare", got[0].Title)
	assert.Equal(t, "Instalații Electrice", got[1].Title)
	assert.Equal(t, 0, repo.calls, "category suggestions do not touch profiles")

	got, err = svc.Suggest(context.Background(), models.SuggestRequest{Query: "stan", Type: models.SuggestionTypeProfessionals})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Andrei Stan", got[0].Title)
	assert.Equal(t, 1, taxonomy.calls, "professional suggestions do not touch taxonomy")
	assert.Equal(t, SuggestQuery(models.SuggestRequest{Query: "stan"}), repo.queries[0])
}

func TestService_Suggest_Errors(t *testing.T) {
	svc := newTestService(t, &fakeProfiles{}, &fakeTaxonomy{categoriesErr: errors.New("redis: nil pool")})

	_, err := svc.Suggest(context.Background(), models.SuggestRequest{Query: " "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = svc.Suggest(context.Background(), models.SuggestRequest{Query: "insta"})
	assert.ErrorIs(t, err, apperrors.ErrDependencyUnavailable)
}

// ==========================
// Facets
// ==========================

func TestService_Facets(t *testing.T) {
	svc := newTestService(t, &fakeProfiles{}, &fakeTaxonomy{categories: seedCategories(), areas: seedAreas()})

	facets, err := svc.Facets(context.Background())
	require.NoError(t, err)
	assert.Len(t, facets.Categories, 3)
	assert.Len(t, facets.Areas, 2)
	assert.Len(t, facets.SortOptions, 6)
}

func TestService_Facets_TaxonomyFailurePropagates(t *testing.T) {
	areasErr := errors.New("areas table missing")
	svc := newTestService(t, &fakeProfiles{}, &fakeTaxonomy{categories: seedCategories(), areasErr: areasErr})

	facets, err := svc.Facets(context.Background())
	assert.Nil(t, facets)
	assert.ErrorIs(t, err, areasErr)
	assert.ErrorIs(t, err, apperrors.ErrDependencyUnavailable)
}
