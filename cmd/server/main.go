package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/datagrid/internal/config"
	"github.com/JonMunkholm/datagrid/internal/core"
	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/logging"
	"github.com/JonMunkholm/datagrid/internal/prefs"
	"github.com/JonMunkholm/datagrid/internal/source"
	"github.com/JonMunkholm/datagrid/internal/web"
)

func main() {
	// Overload lets a local .env win over the shell
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"page_size", cfg.Grid.DefaultPageSize,
		"load_limit", cfg.Grid.LoadLimit,
		"max_concurrent_loads", cfg.Session.MaxConcurrentLoads,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher, backend, closeDB, err := openBackends(ctx, cfg)
	if err != nil {
		slog.Error("failed to open data source", "error", err)
		os.Exit(1)
	}
	defer closeDB()

	service := core.NewService(fetcher, backend, core.Options{
		PageSize:           cfg.Grid.DefaultPageSize,
		LoadLimit:          cfg.Grid.LoadLimit,
		PreferencesKey:     cfg.Grid.PreferencesKey,
		RestoreLayout:      cfg.Grid.RestoreLayout,
		LoadTimeout:        cfg.Session.LoadTimeout,
		Columns:            source.DefaultColumns(),
		MaxConcurrentLoads: cfg.Session.MaxConcurrentLoads,
		LoadWaitTime:       cfg.Session.LoadWaitTime,
	})

	server := web.NewServer(service, cfg)

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		service.StartReaper(egctx, cfg.Session.IdleTTL, cfg.Session.ReapInterval)
		return nil
	})

	eg.Go(func() error {
		if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		slog.Info("waiting for loads and preference saves", "active_loads", service.LimiterStatus().Active)
		if err := service.WaitForLoads(shutdownCtx); err != nil {
			slog.Warn("loads did not complete in time", "error", err)
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openBackends picks the data source and preferences store. Without a
// database URL the server runs on generated users and in-memory preferences.
func openBackends(ctx context.Context, cfg *config.Config) (grid.Fetcher, prefs.Backend, func(), error) {
	if !cfg.Database.Enabled() {
		mock := source.NewMock(cfg.Grid.MockRows, uint64(cfg.Grid.MockSeed))
		mock.Latency = cfg.Grid.MockLatency
		slog.Info("using generated data", "rows", mock.Len(), "seed", cfg.Grid.MockSeed)
		return mock, prefs.NewMemory(), func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	fetcher, err := source.NewPostgres(pool, cfg.Database.SourceTable, source.DefaultFields())
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	store := prefs.NewPostgres(pool, cfg.Database.PreferencesTable)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	return fetcher, store, pool.Close, nil
}
