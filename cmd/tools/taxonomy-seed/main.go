// cmd/tools/taxonomy-seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"pro-discovery/internal/common/config"
	"pro-discovery/internal/common/database"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/repository"
)

// Loads a YAML seed catalogue into PostgreSQL: categories, areas and profiles.
// Rows are upserted, so the tool can be re-run after editing the seed file.
func main() {
	seedPath := flag.String("seed", "configs/seed.yaml", "Path to the seed file")
	configPath := flag.String("config", "", "Config file (defaults to configs/config.yaml lookup)")
	skipMigrations := flag.Bool("skip-migrations", false, "Do not apply schema migrations first")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	seed, err := repository.LoadSeedFile(*seedPath)
	if err != nil {
		zapLog.Fatal("seed load failed", zap.Error(err))
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	if !*skipMigrations {
		if err := database.RunMigrations(pg.DB); err != nil {
			zapLog.Fatal("migrations failed", zap.Error(err))
		}
	}

	if err := repository.SeedPostgres(ctx, pg.DB, seed); err != nil {
		zapLog.Error("seeding failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Seeded %d categories, %d areas, %d profiles from %s\n",
		len(seed.Categories), len(seed.Areas), len(seed.Profiles), *seedPath)
}
