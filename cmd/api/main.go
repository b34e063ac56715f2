package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/solace-advocates/advocate-directory-api/internal/adapters/httpapi"
	memadvocaterepo "github.com/solace-advocates/advocate-directory-api/internal/adapters/memory/advocaterepo"
	postgres "github.com/solace-advocates/advocate-directory-api/internal/adapters/postgres"
	pgadvocaterepo "github.com/solace-advocates/advocate-directory-api/internal/adapters/postgres/advocaterepo"
	"github.com/solace-advocates/advocate-directory-api/internal/adapters/redis/searchcache"
	"github.com/solace-advocates/advocate-directory-api/internal/adapters/web"
	"github.com/solace-advocates/advocate-directory-api/internal/app/advocates"
	platformclock "github.com/solace-advocates/advocate-directory-api/internal/platform/clock"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/config"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/logging"
	"github.com/solace-advocates/advocate-directory-api/internal/platform/metrics"
	advocaterepoport "github.com/solace-advocates/advocate-directory-api/internal/ports/out/advocaterepo"
	"github.com/solace-advocates/advocate-directory-api/internal/search"
	"github.com/solace-advocates/advocate-directory-api/internal/seed"
)

func main() {
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

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	clk := platformclock.NewSystemClock()
	m := metrics.New()

	var repo advocaterepoport.Repository
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database.URL, postgres.PoolOptions{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return fmt.Errorf("invalid postgres config: %w", err)
		}
		defer pool.Close()
		repo = pgadvocaterepo.NewRepo(pool, cfg.Database.QueryTimeout)
	default:
		repo = memadvocaterepo.NewRepo()
	}

	repo, closeCache, err := searchcache.Wrap(ctx, repo, cfg.Redis.URL, cfg.Redis.TTL, logger, m)
	if err != nil {
		return fmt.Errorf("invalid redis config: %w", err)
	}
	defer func() { _ = closeCache() }()
	if cfg.Redis.URL != "" {
		logger.Info("search cache enabled", "ttl", cfg.Redis.TTL)
	}

	policy := search.PolicyFor(cfg.Search.ExtendedFields)
	svc := advocates.NewService(repo, clk, advocates.WithPolicy(policy), advocates.WithMetrics(m))
	svc.MaxTermLength = cfg.Search.MaxTermLength

	// The memory store starts empty; give local runs something to search.
	if cfg.Storage.Backend == config.StorageMemory {
		n, err := svc.ImportAdvocates(ctx, seed.Advocates())
		if err != nil {
			return fmt.Errorf("seed memory store: %w", err)
		}
		logger.Info("seeded memory store", "advocates", n)
	}

	page := web.NewHandler(web.Options{
		Debounce:        cfg.Directory.Debounce,
		MinLoading:      cfg.Directory.MinLoading,
		ClientFiltering: cfg.Directory.Strategy == config.StrategyClient,
		Policy:          policy,
	}, logger)

	handler := httpapi.NewRouterWithOptions(
		httpapi.NewServer(svc, logger),
		httpapi.RouterOptions{Logger: logger, Metrics: m.Handler(), Web: page},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", srv.Addr, "storage", cfg.Storage.Backend, "extended_search", policy.Extended())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
