// cmd/discovery-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"pro-discovery/internal/api"
	"pro-discovery/internal/common/camunda"
	"pro-discovery/internal/common/config"
	"pro-discovery/internal/common/database"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/observability"
	"pro-discovery/internal/discovery"
	"pro-discovery/internal/repository"
	"pro-discovery/pkg/registry"

	qe "pro-discovery/internal/workers/data-access/query-elasticsearch"
	qp "pro-discovery/internal/workers/data-access/query-postgresql"
	arr "pro-discovery/internal/workers/discovery/apply-relevance-ranking"
	gsf "pro-discovery/internal/workers/discovery/get-search-facets"
	psf "pro-discovery/internal/workers/discovery/parse-search-filters"
	sp "pro-discovery/internal/workers/discovery/search-professionals"
	ss "pro-discovery/internal/workers/discovery/search-suggestions"
)

const serviceName = "discovery-manager"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// stores holds every connection the selected sources need. Unused ones stay nil.
type stores struct {
	pg    *database.PostgresClient
	es    *database.ElasticsearchClient
	mongo *database.MongoClient
	redis *database.RedisClient
	seed  *repository.Seed
}

func (s *stores) close(ctx context.Context, log *zap.Logger) {
	if s.pg != nil {
		if err := s.pg.Close(); err != nil {
			log.Error("error closing postgres", zap.Error(err))
		}
	}
	if s.mongo != nil {
		if err := s.mongo.Close(ctx); err != nil {
			log.Error("error closing mongo", zap.Error(err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Error("error closing redis", zap.Error(err))
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting discovery manager",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("profileSource", cfg.Discovery.ProfileSource),
		zap.String("taxonomySource", cfg.Discovery.TaxonomySource),
	)

	ctx := context.Background()

	tracing, err := observability.NewTracerProvider(cfg.Tracing, serviceName, cfg.App.Version)
	if err != nil {
		zapLog.Fatal("tracing init failed", zap.Error(err))
	}
	obs := observability.New(serviceName, zapLog)

	st, err := connectStores(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("store init failed", zap.Error(err))
	}

	profiles, err := profileSource(cfg, st, log)
	if err != nil {
		zapLog.Fatal("profile source init failed", zap.Error(err))
	}
	taxonomy := taxonomySource(cfg, st, log)

	service := discovery.NewService(profiles, taxonomy,
		discovery.WithWeights(discovery.WeightsFromConfig(cfg.Discovery.Ranking)),
		discovery.WithLogger(log),
		discovery.WithTracer(tracing.Tracer()),
		discovery.WithSlowSearchThreshold(config.GetDuration(cfg.Discovery.SlowSearchMs)),
		discovery.WithObservability(obs),
	)

	// --- Job workers ---
	var (
		zeebe   *camunda.Client
		workers []*camunda.Worker
	)
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(ctx, camunda.ConfigFromSettings(cfg.Camunda))
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		reg, err := registry.LoadOrDefault(cfg.Registry.Path)
		if err != nil {
			zapLog.Fatal("activity registry load failed", zap.Error(err))
		}
		if err := reg.Validate(); err != nil {
			zapLog.Fatal("activity registry invalid", zap.Error(err))
		}

		workers = startWorkers(zeebe.GetClient(), cfg, reg, service, st, log, zapLog)
		zapLog.Info("workers registered", zap.Int("count", len(workers)))
	} else {
		zapLog.Info("camunda disabled, serving the HTTP API only")
	}

	// --- HTTP API ---
	server := api.NewServer(cfg.Server, serviceName, service, readinessChecks(st, zeebe), log)
	server.Start()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error stopping http server", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("error closing Zeebe client", zap.Error(err))
		}
	}
	st.close(shutdownCtx, zapLog)
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error stopping metrics", zap.Error(err))
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error stopping tracing", zap.Error(err))
	}

	zapLog.Info("discovery manager stopped gracefully")
}

// connectStores opens only the stores the configured sources use. Postgres also backs
// the query-postgresql worker and Elasticsearch the query-elasticsearch worker, so those
// are opened whenever their address is configured.
func connectStores(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (*stores, error) {
	st := &stores{}
	d := cfg.Discovery

	if d.UsesSource(config.SourcePostgres) || cfg.Database.Postgres.Host != "" {
		err := retryWithBackoff(func() error {
			var err error
			st.pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return st.pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(st.pg.DB); err != nil {
			return nil, err
		}
		zapLog.Info("PostgreSQL connected successfully")
	}

	if d.UsesSource(config.SourceElasticsearch) || cfg.Database.Elasticsearch.GetURL() != "" {
		err := retryWithBackoff(func() error {
			var err error
			st.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return st.es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return nil, err
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	if d.UsesSource(config.SourceMongo) {
		err := retryWithBackoff(func() error {
			var err error
			st.mongo, err = database.NewMongo(ctx, cfg.Database.Mongo)
			if err != nil {
				return err
			}
			return st.mongo.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "MongoDB connection")
		if err != nil {
			return nil, err
		}
		zapLog.Info("MongoDB connected successfully")
	}

	if d.TaxonomyCacheTTL > 0 {
		err := retryWithBackoff(func() error {
			var err error
			st.redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return st.redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			return nil, err
		}
		zapLog.Info("Redis connected successfully")
	}

	if d.UsesSource(config.SourceSeed) {
		seed, err := repository.LoadSeedFile(d.SeedFile)
		if err != nil {
			return nil, err
		}
		st.seed = seed
		zapLog.Info("seed catalogue loaded",
			zap.String("path", d.SeedFile),
			zap.Int("profiles", len(seed.Profiles)),
		)
	}

	return st, nil
}

func profileSource(cfg *config.Config, st *stores, log logger.Logger) (discovery.ProfileRepository, error) {
	limit := cfg.Discovery.MaxCandidates
	switch cfg.Discovery.ProfileSource {
	case config.SourcePostgres:
		return repository.NewPostgresProfileRepository(st.pg.DB, limit, log), nil
	case config.SourceElasticsearch:
		return repository.NewElasticProfileRepository(st.es.Client, st.es.Index, limit, log), nil
	case config.SourceMongo:
		return repository.NewMongoProfileRepository(st.mongo.Collection, limit, log), nil
	case config.SourceSeed:
		return repository.NewMemoryStore(st.seed), nil
	}
	return nil, fmt.Errorf("unsupported profile source %q", cfg.Discovery.ProfileSource)
}

func taxonomySource(cfg *config.Config, st *stores, log logger.Logger) discovery.TaxonomyStore {
	var source repository.TaxonomySource
	if cfg.Discovery.TaxonomySource == config.SourceSeed {
		source = repository.NewMemoryStore(st.seed)
	} else {
		source = repository.NewPostgresTaxonomyStore(st.pg.DB)
	}

	if cfg.Discovery.TaxonomyCacheTTL > 0 {
		ttl := time.Duration(cfg.Discovery.TaxonomyCacheTTL) * time.Second
		return repository.NewCachedTaxonomyStore(source, st.redis.Client, ttl, log)
	}
	return source
}

// handlerTimeout prefers the configured worker timeout over the worker's own default.
func handlerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
		return config.GetDuration(w.Timeout)
	}
	return fallback
}

func startWorkers(
	client zbc.Client,
	cfg *config.Config,
	reg *registry.ActivityRegistry,
	service *discovery.Service,
	st *stores,
	log logger.Logger,
	zapLog *zap.Logger,
) []*camunda.Worker {
	handlers := make(map[string]camunda.JobHandler)

	psfCfg := psf.LoadConfig()
	psfCfg.Timeout = handlerTimeout(cfg, psf.TaskType, psfCfg.Timeout)
	handlers[psf.TaskType] = psf.NewHandler(psfCfg, log)

	spCfg := sp.LoadConfig()
	spCfg.Timeout = handlerTimeout(cfg, sp.TaskType, spCfg.Timeout)
	handlers[sp.TaskType] = sp.NewHandler(spCfg, service, log)

	arrCfg := arr.LoadConfig()
	arrCfg.Timeout = handlerTimeout(cfg, arr.TaskType, arrCfg.Timeout)
	arrCfg.Weights = service.Weights()
	handlers[arr.TaskType] = arr.NewHandler(arrCfg, log)

	ssCfg := ss.LoadConfig()
	ssCfg.Timeout = handlerTimeout(cfg, ss.TaskType, ssCfg.Timeout)
	handlers[ss.TaskType] = ss.NewHandler(ssCfg, service, log)

	gsfCfg := gsf.LoadConfig()
	gsfCfg.Timeout = handlerTimeout(cfg, gsf.TaskType, gsfCfg.Timeout)
	handlers[gsf.TaskType] = gsf.NewHandler(gsfCfg, service, log)

	if st.pg != nil {
		qpCfg := qp.LoadConfig()
		qpCfg.Timeout = handlerTimeout(cfg, qp.TaskType, qpCfg.Timeout)
		qpCfg.MaxCandidates = cfg.Discovery.MaxCandidates
		handlers[qp.TaskType] = qp.NewHandler(qpCfg, st.pg.DB, log)
	}

	if st.es != nil {
		qeCfg := qe.LoadConfig()
		qeCfg.Timeout = handlerTimeout(cfg, qe.TaskType, qeCfg.Timeout)
		qeCfg.DefaultIndex = st.es.Index
		handlers[qe.TaskType] = qe.NewHandler(qeCfg, st.es.Client, log)
	}

	var started []*camunda.Worker
	for _, activity := range reg.Activities {
		taskType := activity.TaskType
		handler, ok := handlers[taskType]
		if !ok {
			zapLog.Warn("no handler for registered activity", zap.String("taskType", taskType))
			continue
		}
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			continue
		}
		started = append(started, camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, zapLog))
	}
	return started
}

func readinessChecks(st *stores, zeebe *camunda.Client) []api.ReadinessCheck {
	var checks []api.ReadinessCheck
	if st.pg != nil {
		checks = append(checks, api.ReadinessCheck{Name: "postgres", Ping: st.pg.Ready})
	}
	if st.es != nil {
		checks = append(checks, api.ReadinessCheck{Name: "elasticsearch", Ping: st.es.Ready})
	}
	if st.mongo != nil {
		checks = append(checks, api.ReadinessCheck{Name: "mongo", Ping: st.mongo.Ping})
	}
	if st.redis != nil {
		// taxonomy reads fall through to the source when the cache is down
		checks = append(checks, api.ReadinessCheck{Name: "redis", Ping: st.redis.Ping, Optional: true})
	}
	if zeebe != nil {
		checks = append(checks, api.ReadinessCheck{Name: "zeebe", Ping: zeebe.HealthCheck})
	}
	return checks
}
