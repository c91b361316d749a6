package main

import (
	"os"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/config"
	"github.com/Hitesh2006-org/FINANCE/internal/db"
	"github.com/Hitesh2006-org/FINANCE/internal/migrate"
	"github.com/Hitesh2006-org/FINANCE/internal/observability"
)

// Standalone migration runner for deploy pipelines that upgrade the schema
// before rolling the API servers.
func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	ctx, cancel := config.WithTimeout(5 * time.Minute)

	defer cancel()

	if err := migrate.New(pool, log, nil).Run(ctx); err != nil {
		log.Error("schema migration failed", "err", err)
		os.Exit(1)
	}

	log.Info("schema is up to date", "version", migrate.Current)
}
