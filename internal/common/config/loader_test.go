package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Loading
// ==========================

func TestLoadFromFile_PostgresSourceWithDefaults(t *testing.T) {
	t.Setenv("DISCOVERY_DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
app:
  name: pro-discovery
database:
  postgres:
    host: localhost
    database: discovery
    user: discovery
    password: ${DISCOVERY_DB_PASSWORD}
discovery:
  profile_source: postgres
  taxonomy_source: postgres
  ranking:
    rating_weight: 0.5
workers:
  search-professionals:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "pro-discovery", cfg.App.Name)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10000, cfg.Discovery.MaxCandidates)
	assert.Equal(t, 500, cfg.Discovery.SlowSearchMs)
	assert.Equal(t, 0.5, cfg.Discovery.Ranking.RatingWeight)
	assert.Equal(t, "professionals", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "info", cfg.Logging.Level)

	worker := cfg.Workers["search-professionals"]
	assert.True(t, worker.Enabled)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 30000, worker.Timeout)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestLoadFromFile_SeedSourceNeedsNoDatabase(t *testing.T) {
	path := writeConfig(t, `
discovery:
  profile_source: seed
  taxonomy_source: seed
  seed_file: configs/seed.yaml
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, SourceSeed, cfg.Discovery.ProfileSource)
	assert.Equal(t, "configs/seed.yaml", cfg.Discovery.SeedFile)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "unknown profile source",
			body: `
discovery:
  profile_source: sqlite
`,
			wantErr: "discovery.profile_source",
		},
		{
			name: "elasticsearch taxonomy is not supported",
			body: `
discovery:
  profile_source: seed
  taxonomy_source: elasticsearch
  seed_file: seed.yaml
`,
			wantErr: "discovery.taxonomy_source",
		},
		{
			name: "seed source without file",
			body: `
discovery:
  profile_source: seed
  taxonomy_source: seed
`,
			wantErr: "discovery.seed_file",
		},
		{
			name: "postgres source without host",
			body: `
database:
  postgres:
    database: discovery
    user: discovery
`,
			wantErr: "database.postgres.host",
		},
		{
			name: "elasticsearch source without address",
			body: `
discovery:
  profile_source: elasticsearch
  taxonomy_source: seed
  seed_file: seed.yaml
`,
			wantErr: "database.elasticsearch",
		},
		{
			name: "mongo source without uri",
			body: `
discovery:
  profile_source: mongo
  taxonomy_source: seed
  seed_file: seed.yaml
database:
  mongo:
    database: discovery
`,
			wantErr: "database.mongo.uri",
		},
		{
			name: "taxonomy cache without redis",
			body: `
discovery:
  profile_source: seed
  taxonomy_source: seed
  seed_file: seed.yaml
  taxonomy_cache_ttl: 300
`,
			wantErr: "database.redis.address",
		},
		{
			name: "camunda enabled without broker",
			body: `
camunda:
  enabled: true
discovery:
  profile_source: seed
  taxonomy_source: seed
  seed_file: seed.yaml
`,
			wantErr: "camunda.broker_address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MONGO_URI", "")
			t.Setenv("ZEEBE_ADDRESS", "")
			t.Setenv("DB_USER", "")

			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestOverrideEmptyConfig_UsesEnvironment(t *testing.T) {
	t.Setenv("ZEEBE_ADDRESS", "zeebe:26500")
	t.Setenv("DB_USER", "from-env")

	cfg := &Config{}
	cfg.Database.Postgres.Password = "kept"
	overrideEmptyConfig(cfg)

	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "from-env", cfg.Database.Postgres.User)
	assert.Equal(t, "kept", cfg.Database.Postgres.Password)
}

// ==========================
// Helpers
// ==========================

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"get-search-facets": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "get-search-facets"))
	assert.True(t, IsWorkerEnabled(cfg, "search-suggestions"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "get-search-facets").MaxJobsActive)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "search-suggestions").MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresConfig_URLs(t *testing.T) {
	pg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", pg.GetDSN())
	assert.Equal(t, "postgres://u:p@db:5432/d?sslmode=disable", pg.GetURL())
}
