package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/bookshelf-api/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfigSummary reports the loaded configuration without secrets.
func logConfigSummary(cfg *config.Config, log *slog.Logger) {
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("metrics_enabled", cfg.Metrics.Enabled),
		slog.Bool("cache_enabled", cfg.Cache.Enabled()))

	log.Debug("database configuration",
		slog.Bool("url_present", cfg.Database.URL != ""),
		slog.Bool("migrate_on_start", cfg.Database.MigrateOnStart))
	log.Debug("auth configuration",
		slog.Bool("jwt_secret_present", cfg.Auth.JWTSecret != ""),
		slog.String("jwt_issuer", cfg.Auth.JWTIssuer))
}
