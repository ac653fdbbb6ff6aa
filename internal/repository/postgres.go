// internal/repository/postgres.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/models"
)

const profileColumns = `id, user_id, display_name, company_name, about, category_ids, area_ids,
	min_price, verified, rating_avg, rating_count, response_time_avg_mins, active, created_at, updated_at`

// PostgresProfileRepository reads candidate profiles from the professional_profiles table.
type PostgresProfileRepository struct {
	db            *sql.DB
	maxCandidates int
	logger        logger.Logger
}

func NewPostgresProfileRepository(db *sql.DB, maxCandidates int, log logger.Logger) *PostgresProfileRepository {
	return &PostgresProfileRepository{
		db:            db,
		maxCandidates: maxCandidates,
		logger:        log.WithFields(map[string]interface{}{"repository": "postgres"}),
	}
}

// FetchProfiles pushes the simple predicates into SQL. Text matching uses ILIKE over
// the same three fields the in-memory filter checks.
func (r *PostgresProfileRepository) FetchProfiles(ctx context.Context, q models.ProfileQuery) ([]models.ProfessionalProfile, error) {
	query, args := BuildProfileSQL(q, candidateWindow(q, r.maxCandidates))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.ProfessionalProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	if err := checkCandidateCap(r.logger, q, len(profiles), r.maxCandidates); err != nil {
		return nil, err
	}
	return profiles, nil
}

// BuildProfileSQL renders the candidate query with positional arguments.
// A limit of zero or less leaves the result unbounded.
func BuildProfileSQL(q models.ProfileQuery, limit int) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(expr string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(expr, "?", fmt.Sprintf("$%d", len(args))))
	}

	if q.CategoryID != "" {
		add("? = ANY(category_ids)", q.CategoryID)
	}
	if q.AreaID != "" {
		add("? = ANY(area_ids)", q.AreaID)
	}
	if q.Verified != nil {
		add("verified = ?", *q.Verified)
	}
	if q.AvailableNow != nil {
		add("active = ?", *q.AvailableNow)
	}
	if q.MinPrice != nil {
		add("min_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		add("min_price <= ?", *q.MaxPrice)
	}
	if q.MinRating != nil {
		add("rating_avg >= ?", *q.MinRating)
	}
	if q.ResponseTimeMax != nil {
		add("response_time_avg_mins <= ?", *q.ResponseTimeMax)
	}
	if q.Query != "" {
		text := `(display_name ILIKE ? ESCAPE '\' OR company_name ILIKE ? ESCAPE '\' OR about ILIKE ? ESCAPE '\')`
		if q.NamesOnly {
			text = `(display_name ILIKE ? ESCAPE '\' OR company_name ILIKE ? ESCAPE '\')`
		}
		add(text, "%"+escapeLike(q.Query)+"%")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(profileColumns)
	b.WriteString(" FROM professional_profiles")
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(sqlOrder(q.SortHint))
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

// sqlOrder follows the requested sort so a top-N fetch keeps the leading rows.
func sqlOrder(hint models.SortKey) string {
	switch hint {
	case models.SortInsertion:
		return "created_at ASC, id"
	case models.SortRating:
		return "rating_avg DESC, rating_count DESC, id"
	case models.SortPriceLowToHigh:
		return "min_price ASC, id"
	case models.SortPriceHighToLow:
		return "min_price DESC, id"
	case models.SortResponseTime:
		return "response_time_avg_mins ASC, id"
	case models.SortNewest:
		return "created_at DESC, id"
	default:
		return "verified DESC, rating_avg DESC, rating_count DESC, id"
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanProfile(rows *sql.Rows) (models.ProfessionalProfile, error) {
	var (
		p                 models.ProfessionalProfile
		categories, areas pq.StringArray
	)
	err := rows.Scan(
		&p.ID, &p.UserID, &p.DisplayName, &p.CompanyName, &p.About,
		&categories, &areas,
		&p.MinPrice, &p.Verified, &p.RatingAvg, &p.RatingCount, &p.ResponseTimeAvgMins,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return p, fmt.Errorf("scan profile: %w", err)
	}
	p.CategoryIDs = []string(categories)
	p.AreaIDs = []string(areas)
	if p.CategoryIDs == nil {
		p.CategoryIDs = []string{}
	}
	if p.AreaIDs == nil {
		p.AreaIDs = []string{}
	}
	return p, nil
}

// PostgresTaxonomyStore reads the category and area catalogs.
type PostgresTaxonomyStore struct {
	db *sql.DB
}

func NewPostgresTaxonomyStore(db *sql.DB) *PostgresTaxonomyStore {
	return &PostgresTaxonomyStore{db: db}
}

func (s *PostgresTaxonomyStore) FetchCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, icon, color FROM categories ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (s *PostgresTaxonomyStore) FetchAreas(ctx context.Context) ([]models.Area, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, city FROM areas ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query areas: %w", err)
	}
	defer rows.Close()

	areas := make([]models.Area, 0)
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.City); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate areas: %w", err)
	}
	return areas, nil
}

const (
	upsertCategorySQL = `INSERT INTO categories (id, name, icon, color, position) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, icon = EXCLUDED.icon,
		color = EXCLUDED.color, position = EXCLUDED.position`
	upsertAreaSQL = `INSERT INTO areas (id, name, city, position) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, city = EXCLUDED.city, position = EXCLUDED.position`
	upsertProfileSQL = `INSERT INTO professional_profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id, display_name = EXCLUDED.display_name,
		company_name = EXCLUDED.company_name, about = EXCLUDED.about, category_ids = EXCLUDED.category_ids,
		area_ids = EXCLUDED.area_ids, min_price = EXCLUDED.min_price, verified = EXCLUDED.verified,
		rating_avg = EXCLUDED.rating_avg, rating_count = EXCLUDED.rating_count,
		response_time_avg_mins = EXCLUDED.response_time_avg_mins, active = EXCLUDED.active,
		updated_at = EXCLUDED.updated_at`
)

// SeedPostgres upserts the seed catalog and profiles in one transaction.
// Catalog position follows the order of the seed file.
func SeedPostgres(ctx context.Context, db *sql.DB, seed *Seed) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, c := range seed.Categories {
		if _, err := tx.ExecContext(ctx, upsertCategorySQL, c.ID, c.Name, c.Icon, c.Color, i); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.ID, err)
		}
	}
	for i, a := range seed.Areas {
		if _, err := tx.ExecContext(ctx, upsertAreaSQL, a.ID, a.Name, a.City, i); err != nil {
			return fmt.Errorf("upsert area %s: %w", a.ID, err)
		}
	}
	for _, p := range seed.Profiles {
		_, err := tx.ExecContext(ctx, upsertProfileSQL,
			p.ID, p.UserID, p.DisplayName, p.CompanyName, p.About,
			pq.Array(p.CategoryIDs), pq.Array(p.AreaIDs),
			p.MinPrice, p.Verified, p.RatingAvg, p.RatingCount, p.ResponseTimeAvgMins,
			p.Active, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert profile %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}
