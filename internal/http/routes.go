package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/target/marketnest/internal/domain/nav"
	"github.com/target/marketnest/internal/http/ui/header"
	"github.com/target/marketnest/internal/http/ui/layout"
	"github.com/target/marketnest/internal/http/ui/pages"
	"github.com/target/marketnest/internal/http/ui/theme"
	"github.com/target/marketnest/internal/observability/metrics"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth AuthServiceInterface
	// Feed enables the live header stream when set.
	Feed    AuthStateWatcher
	Metrics *metrics.Recorder
	// Static is the root of the files served under /static/.
	Static fs.FS
	Assets layout.AssetURL

	SiteTitle    string
	Items        []nav.Item
	CookieDomain string
	RetryAfter   time.Duration
	KeepAlive    time.Duration
	HealthChecks map[string]HealthCheck
	Logger       *slog.Logger
}

// NewRouter creates the storefront handler wrapped in the middleware chain
// Recover, Logging, Metrics, ClientID, CSRFProtection.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ui := &UIHandlers{
		SiteTitle:    services.SiteTitle,
		Items:        services.Items,
		Auth:         services.Auth,
		Feed:         services.Feed,
		Assets:       services.Assets,
		Metrics:      services.Metrics,
		RetryAfter:   services.RetryAfter,
		KeepAlive:    services.KeepAlive,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Metrics:      services.Metrics,
		Logger:       logger,
	}

	mux := http.NewServeMux()
	registerPageRoutes(mux, ui)
	registerHeaderRoutes(mux, ui)
	registerAuthRoutes(mux, authHandlers)
	mux.HandleFunc("POST "+theme.TogglePath, ui.ToggleTheme)

	health := &HealthHandler{Checks: services.HealthChecks}
	mux.Handle("GET "+PathHealth, health)
	mux.Handle("HEAD "+PathHealth, health)
	if services.Metrics != nil {
		mux.Handle("GET "+PathMetrics, services.Metrics.Handler())
	}
	if services.Static != nil {
		mux.Handle("GET "+PathStatic, staticHandler(services.Static))
	}

	return Chain(mux,
		Recover(logger),
		Logging(logger),
		Metrics(services.Metrics, mux),
		ClientID(ClientIDConfig{CookieDomain: services.CookieDomain}),
		CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain}),
	)
}

func registerPageRoutes(mux *http.ServeMux, ui *UIHandlers) {
	for _, p := range pages.All() {
		pattern := "GET " + p.Path
		if p.Path == nav.HomePath {
			pattern = "GET /{$}"
		}
		mux.HandleFunc(pattern, ui.Page(p))
	}
	mux.HandleFunc("GET /", ui.NotFound)
}

func registerHeaderRoutes(mux *http.ServeMux, ui *UIHandlers) {
	mux.HandleFunc("GET "+header.AuthPartialPath, ui.HeaderAuth)
	mux.HandleFunc("GET "+header.LivePath, ui.HeaderLive)
	if ui.Feed != nil {
		mux.HandleFunc("GET "+header.StreamPath, ui.HeaderStream)
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET "+header.SignInPath, h.SignIn)
	mux.HandleFunc("GET "+header.SignUpPath, h.SignUp)
	mux.HandleFunc("GET "+PathAuthCallback, h.Callback)
	mux.HandleFunc("POST "+layout.SignOutPath, h.SignOut)
	mux.HandleFunc("GET "+PathAuthStatus, h.Status)
}

// hashedFilePattern matches content-hashed names like app.abc12345.js.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticHandler serves fsys under /static/. Hashed assets are cached for a
// year; everything else must revalidate.
func staticHandler(fsys fs.FS) http.Handler {
	files := http.StripPrefix(PathStatic, http.FileServer(http.FS(fsys)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		files.ServeHTTP(w, r)
	})
}
