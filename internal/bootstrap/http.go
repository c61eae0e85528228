package bootstrap

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/marketnest/config"
	"github.com/target/marketnest/internal/domain/nav"
	httpx "github.com/target/marketnest/internal/http"
	"github.com/target/marketnest/internal/http/assets"
	"github.com/target/marketnest/internal/observability/metrics"
)

// HandlerConfig contains the dependencies of the storefront handler.
type HandlerConfig struct {
	Config *config.AppConfig
	Auth   *AuthStack
	// Static holds css/js and the asset manifest. Nil disables /static/.
	Static      fs.FS
	Metrics     *metrics.Recorder
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildHTTPHandler assembles the router with its middleware chain.
func BuildHTTPHandler(cfg HandlerConfig) (http.Handler, error) {
	if cfg.Auth == nil || cfg.Auth.Service == nil {
		return nil, errors.New("http handler requires an auth stack")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	services := httpx.RouterServices{
		Metrics:      cfg.Metrics,
		Static:       cfg.Static,
		SiteTitle:    appCfg.Site.Title,
		Items:        nav.DefaultItems(),
		CookieDomain: appCfg.HTTP.CookieDomain,
		RetryAfter:   appCfg.Session.RetryInterval,
		KeepAlive:    appCfg.HTTP.SSEKeepAlive,
		HealthChecks: healthChecks(cfg.RedisClient),
		Auth:         cfg.Auth.Service,
		Logger:       logger,
	}
	// A nil *AuthStateFeed must stay a nil interface so the stream route is skipped.
	if cfg.Auth.Feed != nil {
		services.Feed = cfg.Auth.Feed
	}
	if cfg.Static != nil {
		resolver, err := assets.NewAssetResolver(cfg.Static, assets.Options{Dev: appCfg.IsDev, Logger: logger})
		if err != nil {
			logger.Warn("asset manifest unavailable, serving logical asset names", "error", err)
		}
		services.Assets = resolver.URL
	}

	return httpx.NewRouter(services), nil
}

func healthChecks(client redis.UniversalClient) map[string]httpx.HealthCheck {
	if client == nil {
		return nil
	}
	return map[string]httpx.HealthCheck{
		"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}
}

// NewHTTPServer creates the server. Request contexts derive from base so open
// header streams end when base is canceled instead of holding up Shutdown.
func NewHTTPServer(base context.Context, addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Header streams clear their own write deadline.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return base },
	}
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger.Info("shutting down HTTP server")

	// The serving context is already canceled here.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("HTTP server stopped")
	return nil
}
