// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pro-discovery/internal/common/config"

	_ "github.com/lib/pq"
)

// ErrSchemaMissing means the connection works but the discovery tables were never migrated.
var ErrSchemaMissing = errors.New("discovery schema not migrated")

// requiredTables are read by the profile repository and the taxonomy store.
var requiredTables = []string{"professional_profiles", "categories", "areas"}

// PostgresClient wraps the SQL connection pool backing profile and taxonomy reads.
type PostgresClient struct {
	DB *sql.DB
}

// PoolSettings is the pool shape applied to a discovery connection.
type PoolSettings struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// poolSettings keeps idle connections below the open limit and recycles
// connections on the configured lifetime, five minutes when unset.
func poolSettings(cfg config.PostgresConfig) PoolSettings {
	ps := PoolSettings{
		MaxOpen:     cfg.MaxConnections,
		MaxIdle:     cfg.MaxIdle,
		MaxLifetime: 5 * time.Minute,
	}
	if cfg.ConnMaxLifetime > 0 {
		ps.MaxLifetime = time.Duration(cfg.ConnMaxLifetime) * time.Second
	}
	if ps.MaxOpen > 0 && ps.MaxIdle > ps.MaxOpen {
		ps.MaxIdle = ps.MaxOpen
	}
	ps.MaxIdleTime = ps.MaxLifetime / 2
	return ps
}

// dsn appends the server-side statement timeout when one is configured.
func dsn(cfg config.PostgresConfig) string {
	if cfg.StatementTimeout <= 0 {
		return cfg.GetDSN()
	}
	return fmt.Sprintf("%s statement_timeout=%d", cfg.GetDSN(), cfg.StatementTimeout)
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	ps := poolSettings(cfg)
	db.SetMaxOpenConns(ps.MaxOpen)
	db.SetMaxIdleConns(ps.MaxIdle)
	db.SetConnMaxLifetime(ps.MaxLifetime)
	db.SetConnMaxIdleTime(ps.MaxIdleTime)

	return &PostgresClient{DB: db}, nil
}

// Ping checks connectivity only. Startup uses it before migrations run.
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Ready checks connectivity and that every discovery table exists.
func (c *PostgresClient) Ready(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	for _, table := range requiredTables {
		var present bool
		err := c.DB.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&present)
		if err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		if !present {
			return fmt.Errorf("%w: table %s", ErrSchemaMissing, table)
		}
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
