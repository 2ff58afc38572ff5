// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/glowgirl/glowgirl/internal/auth"
	"github.com/glowgirl/glowgirl/internal/auth/postgres"
	"github.com/glowgirl/glowgirl/internal/config"
	"github.com/glowgirl/glowgirl/internal/logging"
	"github.com/glowgirl/glowgirl/internal/observability"
	"github.com/glowgirl/glowgirl/internal/store"
	"github.com/glowgirl/glowgirl/internal/web"
	"github.com/glowgirl/glowgirl/pkg/errutil"
)

const (
	serviceName     = "glowgirl"
	shutdownTimeout = 5 * time.Second
	readinessPing   = 2 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. Pending database migrations are applied
first unless database.auto_migrate is false.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, nil)
		},
	}

	defaults := config.Defaults()
	cmd.Flags().String("http-addr", defaults["http.addr"].(string), "API listen address")
	cmd.Flags().String("metrics-addr", defaults["metrics.addr"].(string), "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL (default: DATABASE_URL)")
	cmd.Flags().Bool("auto-migrate", defaults["database.auto_migrate"].(bool), "apply pending migrations on startup")
	cmd.Flags().String("log-format", defaults["log.format"].(string), "log format (json or text)")
	cmd.Flags().String("log-level", defaults["log.level"].(string), "log level (debug, info, warn, error)")

	return cmd
}

func defaultServeDeps(deps *ServeDeps) *ServeDeps {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.ConfigLoader == nil {
		deps.ConfigLoader = config.Load
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(url string) (AutoMigrator, error) {
			return store.NewMigrator(url)
		}
	}
	if deps.DatabaseOpener == nil {
		deps.DatabaseOpener = func(ctx context.Context, cfg store.PoolConfig) (Database, error) {
			return store.Open(ctx, cfg)
		}
	}
	if deps.AccountRepositoryFactory == nil {
		deps.AccountRepositoryFactory = func(db Database) (auth.AccountRepository, error) {
			pool, ok := db.(*pgxpool.Pool)
			if !ok {
				return nil, oops.Code("DB_UNSUPPORTED").Errorf("account repository requires a pgx pool, got %T", db)
			}
			return postgres.NewAccountRepository(pool), nil
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(cfg web.ServerConfig, handler http.Handler) APIServer {
			return web.NewServer(cfg, handler)
		}
	}
	return deps
}

// runServeWithDeps starts the API with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deps = defaultServeDeps(deps)

	path, err := resolveConfigFile()
	if err != nil {
		return oops.With("operation", "locate configuration").Wrap(err)
	}
	cfg, err := deps.ConfigLoader(path, cmd.Flags())
	if err != nil {
		return oops.With("operation", "load configuration").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return oops.With("operation", "validate configuration").Wrap(err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return oops.With("operation", "parse log level").Wrap(err)
	}
	logger := logging.SetDefault(serviceName, version, cfg.Log.Format, level)

	logger.Info("starting glowgirl",
		"http_addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"hasher", cfg.Auth.Hasher,
		"auto_migrate", cfg.Database.AutoMigrate,
	)

	if cfg.Database.AutoMigrate {
		if err := runAutoMigration(deps.MigratorFactory, cfg.Database.URL); err != nil {
			return err
		}
	} else {
		logger.Info("auto-migration disabled")
	}

	db, err := deps.DatabaseOpener(ctx, store.PoolConfig{
		URL:            cfg.Database.URL,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		MaxConns:       cfg.Database.MaxConns,
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()
	logger.Info("connected to database")

	accounts, err := deps.AccountRepositoryFactory(db)
	if err != nil {
		return oops.With("operation", "create account repository").Wrap(err)
	}

	hasher, err := auth.NewHasher(cfg.Auth.Hasher, cfg.Auth.BcryptCost, cfg.Auth.HashParallelism)
	if err != nil {
		return oops.With("operation", "create password hasher").Wrap(err)
	}
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte(cfg.Auth.JWTSecret),
		Issuer: cfg.Auth.JWTIssuer,
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		return oops.With("operation", "create token service").Wrap(err)
	}
	service, err := auth.NewServiceWithLogger(accounts, hasher, tokens, logger)
	if err != nil {
		return oops.With("operation", "create auth service").Wrap(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, store.ReadinessCheck(db, readinessPing))
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	router, err := web.NewRouter(web.RouterDeps{
		Service:     service,
		Tokens:      tokens,
		Metrics:     metrics,
		Logger:      logger,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})
	if err != nil {
		stopServers(logger, obsServer, nil)
		return oops.With("operation", "build router").Wrap(err)
	}

	apiServer := deps.APIServerFactory(web.ServerConfig{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, router)
	apiErrChan, err := apiServer.Start()
	if err != nil {
		stopServers(logger, obsServer, nil)
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("glowgirl listening on " + apiServer.Addr())
	logger.Info("glowgirl ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")
	stopServers(logger, obsServer, apiServer)
	logger.Info("shutdown complete")
	return nil
}

// stopServers stops api first so in-flight requests drain before the
// readiness endpoint disappears. Either may be nil.
func stopServers(logger *slog.Logger, obs ObservabilityServer, api APIServer) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if api != nil {
		if err := api.Stop(shutdownCtx); err != nil {
			errutil.LogError(logger, "error stopping api server", err)
		}
	}
	if obs != nil {
		if err := obs.Stop(shutdownCtx); err != nil {
			errutil.LogError(logger, "error stopping observability server", err)
		}
	}
}

// runAutoMigration applies pending migrations before the pool opens.
func runAutoMigration(factory func(string) (AutoMigrator, error), databaseURL string) error {
	migrator, err := factory(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	slog.Info("applying database migrations")
	if err := migrator.Up(); err != nil {
		return oops.Code("AUTO_MIGRATION_FAILED").With("operation", "apply migrations").Wrap(err)
	}
	slog.Info("database migrations complete")
	return nil
}

// monitorServerErrors cancels ctx when a server reports a serve failure.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
