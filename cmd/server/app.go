package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/bookshelf-api/internal/config"
	"github.com/phrazzld/bookshelf-api/internal/platform/openlibrary"
	"github.com/phrazzld/bookshelf-api/internal/platform/postgres"
	"github.com/phrazzld/bookshelf-api/internal/platform/redis"
	"github.com/phrazzld/bookshelf-api/internal/service"
	"github.com/phrazzld/bookshelf-api/internal/service/auth"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	tokenCodec auth.TokenCodec
	accounts   *service.AccountService
	profiles   *service.ProfileService
	books      *service.BookService

	cache    *redis.Cache
	registry *prometheus.Registry
}

// newApplication wires stores, services and platform clients on top of db.
// A configured Redis cache must be reachable; the caller runs cleanup when done.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	codec, err := auth.NewTokenCodec(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	app.tokenCodec = codec
	passwords := auth.NewBcryptVerifier(cfg.Auth.BcryptCost)

	credentialStore := postgres.NewPostgresCredentialStore(db, logger)
	profileStore := postgres.NewPostgresProfileStore(db, logger)
	bookStore := postgres.NewPostgresBookStore(db, logger)

	authenticator, err := auth.NewAuthenticator(credentialStore, passwords, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	var lookupOpts []openlibrary.Option
	if cfg.Cache.Enabled() {
		cache, err := redis.NewCache(cfg.Cache, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to cache: %w", err)
		}
		app.cache = cache
		lookupOpts = append(lookupOpts, openlibrary.WithCache(cache))
		logger.Info("isbn cache enabled", slog.String("addr", cfg.Cache.RedisAddr))
	}

	lookup, err := openlibrary.New(
		cfg.OpenLibrary.BaseURL,
		time.Duration(cfg.OpenLibrary.TimeoutSeconds)*time.Second,
		logger,
		lookupOpts...,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create open library client: %w", err)
	}

	app.accounts, err = service.NewAccountService(
		db, credentialStore, profileStore, authenticator, codec, passwords, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}
	app.profiles, err = service.NewProfileService(db, profileStore, bookStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create profile service: %w", err)
	}
	app.books, err = service.NewBookService(bookStore, lookup, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create book service: %w", err)
	}

	if cfg.Metrics.Enabled {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewDBStatsCollector(db, "bookshelf"),
		)
	}

	return app, nil
}

// cleanup releases resources owned by the application. The database pool is
// owned by main and closed there.
func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("failed to close cache", slog.String("error", err.Error()))
		}
		app.cache = nil
	}
}
