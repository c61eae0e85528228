package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"

	"github.com/target/marketnest"
	"github.com/target/marketnest/config"
	"github.com/target/marketnest/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	return bootstrap.Run(ctx, bootstrap.RunConfig{
		Config: &cfg,
		Static: staticFiles(&cfg),
		Logger: logger,
	})
}

// staticFiles serves from disk in dev so edits show without a rebuild.
func staticFiles(cfg *config.AppConfig) fs.FS {
	if cfg.IsDev {
		return os.DirFS(marketnest.StaticDir)
	}
	return marketnest.StaticFS()
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting marketnest",
		"site", cfg.Site.Title,
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"session_backend", cfg.Session.Backend,
		"metrics", cfg.Observability.Metrics.Enabled,
		"dev", cfg.IsDev,
	)
}
