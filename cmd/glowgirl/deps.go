package main

import (
	"context"
	"net/http"

	"github.com/spf13/pflag"

	"github.com/glowgirl/glowgirl/internal/auth"
	"github.com/glowgirl/glowgirl/internal/config"
	"github.com/glowgirl/glowgirl/internal/observability"
	"github.com/glowgirl/glowgirl/internal/store"
	"github.com/glowgirl/glowgirl/internal/web"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// ConfigLoader loads layered configuration.
	// Default: config.Load
	ConfigLoader func(path string, flags *pflag.FlagSet) (*config.Config, error)

	// MigratorFactory opens a schema migrator for auto-migration.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (AutoMigrator, error)

	// DatabaseOpener opens the connection pool.
	// Default: store.Open
	DatabaseOpener func(ctx context.Context, cfg store.PoolConfig) (Database, error)

	// AccountRepositoryFactory builds the account store over db.
	// Default: postgres.NewAccountRepository, which requires a *pgxpool.Pool.
	AccountRepositoryFactory func(db Database) (auth.AccountRepository, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// APIServerFactory creates the HTTP API server.
	// Default: web.NewServer
	APIServerFactory func(cfg web.ServerConfig, handler http.Handler) APIServer
}

// AutoMigrator is the part of store.Migrator serve uses.
type AutoMigrator interface {
	Up() error
	Close() error
}

// Database is the part of *pgxpool.Pool serve uses directly.
type Database interface {
	Ping(ctx context.Context) error
	Close()
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// APIServer interface wraps the methods used from web.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
