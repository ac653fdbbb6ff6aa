// internal/common/config/config.go
package config

import "fmt"

// Profile and taxonomy sources selectable under discovery.*_source.
const (
	SourcePostgres      = "postgres"
	SourceElasticsearch = "elasticsearch"
	SourceMongo         = "mongo"
	SourceSeed          = "seed"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Server    ServerConfig            `mapstructure:"server"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Discovery DiscoveryConfig         `mapstructure:"discovery"`
	Tracing   TracingConfig           `mapstructure:"tracing"`
	Registry  RegistryConfig          `mapstructure:"registry"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Logging   LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// ServerConfig configures the HTTP API and the health/metrics endpoints.
type ServerConfig struct {
	Address        string `mapstructure:"address"`
	ReadTimeout    int    `mapstructure:"read_timeout"`    // milliseconds
	WriteTimeout   int    `mapstructure:"write_timeout"`   // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Mongo         MongoConfig         `mapstructure:"mongo"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	// seconds; 0 keeps the five minute default
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
	// milliseconds; 0 leaves the server default
	StatementTimeout int `mapstructure:"statement_timeout"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// GetURL returns the connection URL form used by golang-migrate.
func (p PostgresConfig) GetURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"`
	Index      string   `mapstructure:"index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

// DiscoveryConfig selects the profile and taxonomy sources and tunes the engine.
type DiscoveryConfig struct {
	ProfileSource    string        `mapstructure:"profile_source"`
	TaxonomySource   string        `mapstructure:"taxonomy_source"`
	SeedFile         string        `mapstructure:"seed_file"`
	TaxonomyCacheTTL int           `mapstructure:"taxonomy_cache_ttl"` // seconds, 0 disables the cache
	MaxCandidates    int           `mapstructure:"max_candidates"`
	SlowSearchMs     int           `mapstructure:"slow_search_ms"`
	Ranking          RankingConfig `mapstructure:"ranking"`
}

// RankingConfig carries the recommended-sort weights. Zero values fall back to the defaults.
type RankingConfig struct {
	RatingWeight         float64 `mapstructure:"rating_weight"`
	ResponsivenessWeight float64 `mapstructure:"responsiveness_weight"`
	ReviewVolumeWeight   float64 `mapstructure:"review_volume_weight"`
	VerifiedWeight       float64 `mapstructure:"verified_weight"`
	VerifiedBonus        float64 `mapstructure:"verified_bonus"`
	ResponseWindowMins   float64 `mapstructure:"response_window_mins"`
	ReviewVolumeCap      float64 `mapstructure:"review_volume_cap"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// UsesSource reports whether either discovery source is set to name.
func (d DiscoveryConfig) UsesSource(name string) bool {
	return d.ProfileSource == name || d.TaxonomySource == name
}
