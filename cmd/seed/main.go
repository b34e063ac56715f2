package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	postgres "github.com/solace-advocates/advocate-directory-api/internal/adapters/postgres"
	pgadvocaterepo "github.com/solace-advocates/advocate-directory-api/internal/adapters/postgres/advocaterepo"
	"github.com/solace-advocates/advocate-directory-api/internal/adapters/redis/searchcache"
	"github.com/solace-advocates/advocate-directory-api/internal/app/advocates"
	platformclock "github.com/solace-advocates/advocate-directory-api/internal/platform/clock"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/config"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/logging"
	"github.com/solace-advocates/advocate-directory-api/internal/seed"
)

func main() {
	file := flag.String("file", "", "JSON array of advocates to import instead of the built-in data set")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	in := seed.Advocates()
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			logger.Error("open seed file", "file", *file, "error", err)
			os.Exit(1)
		}
		in, err = seed.Decode(f)
		_ = f.Close()
		if err != nil {
			logger.Error("read seed file", "file", *file, "error", err)
			os.Exit(1)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database.URL, postgres.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		logger.Error("invalid postgres config", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Imports bump the cache generation shared with the API.
	repo, closeCache, err := searchcache.Wrap(ctx, pgadvocaterepo.NewRepo(pool, cfg.Database.QueryTimeout), cfg.Redis.URL, cfg.Redis.TTL, logger, nil)
	if err != nil {
		logger.Error("invalid redis config", "error", err)
		pool.Close()
		os.Exit(1)
	}
	defer func() { _ = closeCache() }()

	svc := advocates.NewService(repo, platformclock.NewSystemClock())
	n, err := svc.ImportAdvocates(ctx, in)
	if err != nil {
		logger.Error("seed failed", "imported", n, "error", err)
		_ = closeCache()
		pool.Close()
		os.Exit(1)
	}
	logger.Info("seeded advocates", "imported", n)
}
