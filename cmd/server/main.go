// Command server runs the bookshelf HTTP API.
//
// With -migrate it runs a single goose command (up, down, status, version,
// reset) against the configured database and exits instead of serving.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/bookshelf-api/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up|down|status|version|reset) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrate); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}
	logConfigSummary(cfg, logger)

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if migrateCmd != "" {
		return postgres.RunMigrations(ctx, db, migrateCmd, logger)
	}

	if err := migrateOnStart(ctx, cfg.Database, db, logger); err != nil {
		return fmt.Errorf("failed to migrate on start: %w", err)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		return err
	}

	router, err := app.setupRouter()
	if err != nil {
		app.cleanup()
		return err
	}

	return app.startHTTPServer(ctx, router)
}
