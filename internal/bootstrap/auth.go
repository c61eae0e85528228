package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/marketnest/config"
	"github.com/target/marketnest/internal/adapters/authroles"
	"github.com/target/marketnest/internal/adapters/devauth"
	"github.com/target/marketnest/internal/adapters/memory"
	"github.com/target/marketnest/internal/adapters/oidc"
	redisadapter "github.com/target/marketnest/internal/adapters/redis"
	httpx "github.com/target/marketnest/internal/http"
	"github.com/target/marketnest/internal/observability/metrics"
	"github.com/target/marketnest/internal/ports"
	"github.com/target/marketnest/internal/service"
)

// AuthConfig contains configuration for the auth stack.
type AuthConfig struct {
	Auth        config.AuthConfig
	Session     config.SessionConfig
	Redis       config.RedisConfig
	RedisClient redis.UniversalClient
	Metrics     *metrics.Recorder
	Logger      *slog.Logger
}

// AuthStack is the wired identity side of the header: the service behind the
// auth routes and the feed behind the live header.
type AuthStack struct {
	Service *service.AuthService
	Feed    *service.AuthStateFeed

	sweeper *memory.SessionStore
}

// BuildAuth wires the configured provider, session backend and role mapping.
func BuildAuth(cfg AuthConfig) (*AuthStack, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessions, events, sweeper, err := buildSessionBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	provider, err := buildProvider(cfg.Auth)
	if err != nil {
		return nil, err
	}

	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles: authroles.StaticRoleMapper{
			AdminGroup:    cfg.Auth.AdminGroup,
			CustomerGroup: cfg.Auth.UserGroup,
		},
		Events:         events,
		Metrics:        cfg.Metrics,
		Logger:         logger,
		ResolveTimeout: cfg.Session.ResolveTimeout,
	})
	feed := service.NewAuthStateFeed(service.AuthStateFeedOptions{
		Resolver:      svc,
		Events:        events,
		RetryInterval: cfg.Session.RetryInterval,
		Logger:        logger,
	})

	logger.Info("auth configured",
		"mode", cfg.Auth.Mode,
		"session_backend", cfg.Session.Backend,
	)
	return &AuthStack{Service: svc, Feed: feed, sweeper: sweeper}, nil
}

func buildSessionBackend(
	cfg AuthConfig,
	logger *slog.Logger,
) (ports.SessionStore, ports.SessionEvents, *memory.SessionStore, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		store := memory.NewSessionStore(nil)
		return store, memory.NewSessionEvents(), store, nil
	case config.SessionBackendRedis, "":
		if cfg.RedisClient == nil {
			return nil, nil, nil, errors.New("redis session backend selected but no redis client configured")
		}
		store := redisadapter.NewSessionStore(cfg.RedisClient, redisadapter.WithSessionPrefix(cfg.Redis.SessionPrefix))
		events := redisadapter.NewSessionEvents(cfg.RedisClient, redisadapter.SessionEventsOptions{
			Prefix: cfg.Redis.ChannelPrefix,
			Logger: logger,
		})
		return store, events, nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

//nolint:ireturn // the provider is chosen by AUTH_MODE at startup.
func buildProvider(cfg config.AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:       cfg.DevAuth.UserID,
			DisplayName:  cfg.DevAuth.DisplayName,
			Email:        cfg.DevAuth.Email,
			Groups:       cfg.DevAuth.Groups,
			CallbackPath: httpx.PathAuthCallback,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth, "":
		oauth := cfg.OAuth
		if !oauth.Complete() {
			return nil, fmt.Errorf("oauth auth mode requires OAUTH_DISCOVERY_URL, OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET"+
				" (discovery_url_empty=%t client_id_empty=%t client_secret_empty=%t)",
				oauth.DiscoveryURL == "", oauth.ClientID == "", oauth.ClientSecret == "")
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:        oauth.ClientID,
			ClientSecret:    oauth.ClientSecret,
			RedirectURL:     oauth.RedirectURL,
			Scope:           oauth.Scope,
			DiscoveryURL:    oauth.DiscoveryURL,
			DisplayNameExpr: oauth.DisplayNameExpr,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// SweepSessions drops expired in-memory sessions every interval until ctx ends.
// It returns immediately for backends that expire sessions themselves.
func (s *AuthStack) SweepSessions(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if s == nil || s.sweeper == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweeper.Sweep(); n > 0 {
				logger.DebugContext(ctx, "swept expired sessions", "count", n)
			}
		}
	}
}
