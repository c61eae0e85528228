package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/target/marketnest/config"
	"github.com/target/marketnest/internal/observability/metrics"
	"golang.org/x/sync/errgroup"
)

// RunConfig contains what Run needs to serve the storefront.
type RunConfig struct {
	Config *config.AppConfig
	Static fs.FS
	Logger *slog.Logger
}

// Run connects infrastructure, serves HTTP and blocks until SIGINT, SIGTERM,
// ctx cancellation or a component failure.
func Run(ctx context.Context, rc RunConfig) error {
	if rc.Config == nil {
		return errors.New("run config missing AppConfig")
	}
	cfg := rc.Config
	logger := rc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient redis.UniversalClient
	if cfg.UsesRedis() {
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		redisClient = client
		defer func() {
			if cerr := client.Close(); cerr != nil {
				logger.Error("close redis failed", "error", cerr)
			}
		}()
	}

	var rec *metrics.Recorder
	if cfg.Observability.Metrics.Enabled {
		rec = metrics.NewRecorder(metrics.Options{RuntimeCollectors: cfg.Observability.Metrics.RuntimeCollectors})
	}

	stack, err := BuildAuth(AuthConfig{
		Auth:        cfg.Auth,
		Session:     cfg.Session,
		Redis:       cfg.Redis,
		RedisClient: redisClient,
		Metrics:     rec,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build auth: %w", err)
	}

	handler, err := BuildHTTPHandler(HandlerConfig{
		Config:      cfg,
		Auth:        stack,
		Static:      rc.Static,
		Metrics:     rec,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	server := NewHTTPServer(gctx, cfg.HTTP.Addr, handler)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr, "site", cfg.Site.Title)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(ShutdownConfig{
			Server:  server,
			Timeout: cfg.HTTP.ShutdownTimeout,
			Logger:  logger,
		})
	})
	g.Go(func() error {
		stack.SweepSessions(gctx, cfg.Session.SweepInterval, logger)
		return nil
	})

	return g.Wait()
}
