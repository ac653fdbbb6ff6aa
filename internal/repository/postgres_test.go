package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/discovery"
	"pro-discovery/internal/models"
)

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

var profileRowColumns = []string{
	"id", "user_id", "display_name", "company_name", "about", "category_ids", "area_ids",
	"min_price", "verified", "rating_avg", "rating_count", "response_time_avg_mins", "active",
	"created_at", "updated_at",
}

// ==========================
// SQL building
// ==========================

func TestBuildProfileSQL(t *testing.T) {
	tests := []struct {
		name         string
		query        models.ProfileQuery
		limit        int
		wantContains []string
		wantArgs     []interface{}
	}{
		{
			name:         "no predicates",
			query:        models.ProfileQuery{},
			limit:        0,
			wantContains: []string{"FROM professional_profiles ORDER BY verified DESC"},
			wantArgs:     nil,
		},
		{
			name: "all predicates in order",
			query: models.ProfileQuery{
				CategoryID:   "electrical",
				AreaID:       "sector-1",
				Verified:     boolPtr(true),
				AvailableNow: boolPtr(true),
				MaxPrice:     intPtr(300),
				MinRating:    floatPtr(4.0),
				Query:        "50%_off",
				SortHint:     models.SortPriceLowToHigh,
			},
			limit: 100,
			wantContains: []string{
				"WHERE $1 = ANY(category_ids) AND $2 = ANY(area_ids) AND verified = $3 AND active = $4",
				"min_price <= $5 AND rating_avg >= $6",
				`display_name ILIKE $7 ESCAPE '\' OR company_name ILIKE $7`,
				"ORDER BY min_price ASC, id LIMIT $8",
			},
			wantArgs: []interface{}{"electrical", "sector-1", true, true, 300, 4.0, `%50\%\_off%`, 100},
		},
		{
			name: "price floor and response ceiling",
			query: models.ProfileQuery{
				MinPrice:        intPtr(1000),
				ResponseTimeMax: intPtr(60),
				SortHint:        models.SortPriceLowToHigh,
			},
			limit: 3,
			wantContains: []string{
				"WHERE min_price >= $1 AND response_time_avg_mins <= $2",
				"ORDER BY min_price ASC, id LIMIT $3",
			},
			wantArgs: []interface{}{1000, 60, 3},
		},
		{
			name:  "suggestion lookup matches names in insertion order",
			query: models.ProfileQuery{Query: "zugr", NamesOnly: true, SortHint: models.SortInsertion},
			limit: 5,
			wantContains: []string{
				`WHERE (display_name ILIKE $1 ESCAPE '\' OR company_name ILIKE $1 ESCAPE '\')`,
				"ORDER BY created_at ASC, id LIMIT $2",
			},
			wantArgs: []interface{}{"%zugr%", 5},
		},
		{
			name:         "newest sort",
			query:        models.ProfileQuery{SortHint: models.SortNewest},
			limit:        10,
			wantContains: []string{"ORDER BY created_at DESC, id LIMIT $1"},
			wantArgs:     []interface{}{10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := BuildProfileSQL(tt.query, tt.limit)
			for _, fragment := range tt.wantContains {
				assert.Contains(t, query, fragment)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

// ==========================
// Profile repository
// ==========================

func TestPostgresProfileRepository_FetchProfiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(profileRowColumns).
		AddRow("p1", "u1", "Ion Popescu", "Electro SRL", "Instalații electrice", "{electrical,plumbing}", "{sector-1}",
			150, true, 4.6, 32, 20, true, created, created).
		AddRow("p2", "u2", "Ana Ionescu", "", "", "{}", "{}",
			90, false, 0.0, 0, 45, true, created, created)

	query := models.ProfileQuery{CategoryID: "electrical", Verified: boolPtr(true)}
	mock.ExpectQuery(`SELECT (.+) FROM professional_profiles WHERE \$1 = ANY\(category_ids\) AND verified = \$2 ORDER BY (.+) LIMIT \$3`).
		WithArgs("electrical", true, 50).
		WillReturnRows(rows)

	repo := NewPostgresProfileRepository(db, 50, createTestLogger(t))
	profiles, err := repo.FetchProfiles(context.Background(), query)

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "p1", profiles[0].ID)
	assert.Equal(t, []string{"electrical", "plumbing"}, profiles[0].CategoryIDs)
	assert.Equal(t, []string{"sector-1"}, profiles[0].AreaIDs)
	assert.Equal(t, 4.6, profiles[0].RatingAvg)
	assert.Equal(t, created, profiles[0].CreatedAt)
	assert.Equal(t, []string{}, profiles[1].CategoryIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProfileRepository_CandidateCap(t *testing.T) {
	tests := []struct {
		name    string
		query   models.ProfileQuery
		window  int
		rows    int
		wantErr bool
		wantLen int
	}{
		{name: "exact fit", query: models.ProfileQuery{}, window: 3, rows: 2, wantLen: 2},
		{name: "overflow fails", query: models.ProfileQuery{}, window: 3, rows: 3, wantErr: true},
		{name: "top-n fetch is never an overflow", query: models.ProfileQuery{Limit: 2}, window: 2, rows: 2, wantLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
			rows := sqlmock.NewRows(profileRowColumns)
			for i := 0; i < tt.rows; i++ {
				rows.AddRow(fmt.Sprintf("p%d", i), "u", "Pro", "", "", "{}", "{}",
					100, false, 0.0, 0, 30, true, created, created)
			}
			mock.ExpectQuery(`SELECT (.+) FROM professional_profiles ORDER BY (.+) LIMIT \$1`).
				WithArgs(tt.window).
				WillReturnRows(rows)

			repo := NewPostgresProfileRepository(db, 2, createTestLogger(t))
			profiles, err := repo.FetchProfiles(context.Background(), tt.query)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrCandidateLimitExceeded)
				assert.Nil(t, profiles)
			} else {
				require.NoError(t, err)
				assert.Len(t, profiles, tt.wantLen)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// A price floor must reach SQL, otherwise the cap cuts the cheapest rows and hides the match.
func TestPostgresProfileRepository_SearchAboveCappedCheapRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM professional_profiles WHERE min_price >= \$1 ORDER BY min_price ASC, id LIMIT \$2`).
		WithArgs(1000, 3).
		WillReturnRows(sqlmock.NewRows(profileRowColumns).
			AddRow("p-premium", "u3", "Termo Premium", "", "", "{hvac}", "{cluj}",
				1500, true, 4.5, 9, 30, true, created, created))

	repo := NewPostgresProfileRepository(db, 2, createTestLogger(t))
	store := NewMemoryStore(&Seed{})
	svc := discovery.NewService(repo, store, discovery.WithLogger(createTestLogger(t)))

	result, err := svc.Search(context.Background(), models.SearchFilterRequest{
		PriceRange: models.PriceBucket1000AndUp,
		SortBy:     models.SortPriceLowToHigh,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Total)
	require.Len(t, result.Profiles, 1)
	assert.Equal(t, "p-premium", result.Profiles[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProfileRepository_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM professional_profiles`).
		WillReturnError(errors.New("connection refused"))

	repo := NewPostgresProfileRepository(db, 0, createTestLogger(t))
	profiles, err := repo.FetchProfiles(context.Background(), models.ProfileQuery{})

	assert.Nil(t, profiles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Taxonomy store
// ==========================

func TestPostgresTaxonomyStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, icon, color FROM categories ORDER BY position, id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "color"}).
			AddRow("plumbing", "Instalații Sanitare", "wrench", "#2563eb").
			AddRow("electrical", "Instalații Electrice", "bolt", "#f59e0b"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, city FROM areas ORDER BY position, id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "city"}).
			AddRow("sector-1", "Sector 1", "București"))

	store := NewPostgresTaxonomyStore(db)

	categories, err := store.FetchCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "plumbing", categories[0].ID)
	assert.Equal(t, "#f59e0b", categories[1].Color)

	areas, err := store.FetchAreas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Area{{ID: "sector-1", Name: "Sector 1", City: "București"}}, areas)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Seeding
// ==========================

func TestSeedPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seed := &Seed{
		Categories: []models.Category{{ID: "plumbing", Name: "Instalații Sanitare"}},
		Areas:      []models.Area{{ID: "sector-1", Name: "Sector 1"}, {ID: "cluj", Name: "Cluj-Napoca"}},
		Profiles: []models.ProfessionalProfile{{
			ID: "p1", DisplayName: "Ion", CategoryIDs: []string{"plumbing"}, AreaIDs: []string{"sector-1"},
		}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO categories`).
		WithArgs("plumbing", "Instalații Sanitare", "", "", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO areas`).
		WithArgs("sector-1", "Sector 1", "", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO areas`).
		WithArgs("cluj", "Cluj-Napoca", "", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO professional_profiles`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, SeedPostgres(context.Background(), db, seed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedPostgres_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seed := &Seed{Categories: []models.Category{{ID: "plumbing", Name: "Instalații Sanitare"}}}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO categories`).WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	err = SeedPostgres(context.Background(), db, seed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert category plumbing")
	assert.NoError(t, mock.ExpectationsWereMet())
}
