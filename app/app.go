package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/companion/account"
	"github.com/kbukum/companion/auth/password"
	"github.com/kbukum/companion/auth/token"
	"github.com/kbukum/companion/bootstrap"
	"github.com/kbukum/companion/database"
	"github.com/kbukum/companion/logger"
	"github.com/kbukum/companion/observability"
	"github.com/kbukum/companion/resilience"
	"github.com/kbukum/companion/server"
	"github.com/kbukum/companion/server/middleware"
	"github.com/kbukum/companion/version"
)

// App is the bootstrapped companion service.
type App = bootstrap.App[*Config]

// New builds the service: telemetry and database start first, then the
// configure phase wires the account API onto a fresh HTTP server.
func New(cfg *Config, opts ...bootstrap.Option) (*App, error) {
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	a.Logger.Info("Configuration loaded", logger.Fields(
		"environment", cfg.Environment,
		"auth", cfg.Auth.Describe(),
		"dsn", maskDSN(cfg.Database.DSN),
	))

	telemetry := observability.NewComponent(cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, a.Logger)
	db := database.NewComponent(cfg.Database, a.Logger).WithMigrations(account.NewMigrator())

	if err := a.RegisterComponent(telemetry); err != nil {
		return nil, err
	}
	if err := a.RegisterComponent(db); err != nil {
		return nil, err
	}

	a.OnConfigure(func(ctx context.Context, a *App) error {
		return configure(a, db)
	})
	return a, nil
}

func configure(a *App, db *database.Component) error {
	cfg := a.Cfg
	log := a.Logger

	if db.DB() == nil {
		return errors.New("database component not started")
	}

	tokens, err := token.NewService(cfg.Auth.Token)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	pool := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "password-hasher",
		MaxConcurrent: cfg.Auth.Hashing.MaxConcurrent,
		MaxWait:       cfg.Auth.Hashing.MaxWait,
		OnReject: func(name string, err error) {
			log.Warn("Hashing request rejected", logger.Fields("pool", name, "error", err.Error()))
		},
	})

	svc, err := account.NewService(cfg.Accounts,
		account.NewStore(db.DB().GormDB),
		password.NewHasher(cfg.Auth.Password),
		tokens,
		account.WithHashingPool(pool),
		account.WithMetrics(metrics),
		account.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("account service: %w", err)
	}

	srv := server.New(cfg.Server, log, server.WithMetrics(metrics), server.WithPool("password-hasher", pool))
	srv.RegisterDefaultEndpoints(cfg.Name, cfg.Environment, a.Components.HealthAll)
	account.NewHandler(svc).RegisterRoutes(
		srv.Engine().Group(cfg.Accounts.BasePath),
		middleware.Authenticate(tokens, log, metrics),
	)
	for _, r := range srv.Engine().Routes() {
		a.Summary.TrackRoute(r.Method, r.Path)
	}

	return a.RegisterComponent(server.NewComponent(srv))
}
