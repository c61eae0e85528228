package httpx

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	g "maragu.dev/gomponents"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	"github.com/target/marketnest/internal/domain/nav"
	"github.com/target/marketnest/internal/http/ui/header"
	"github.com/target/marketnest/internal/http/ui/layout"
	"github.com/target/marketnest/internal/http/ui/theme"
	"github.com/target/marketnest/internal/http/ui/viewmodel"
	"github.com/target/marketnest/internal/observability/metrics"
	"github.com/target/marketnest/internal/observe"
	"github.com/target/marketnest/internal/service"
)

// StateResolver resolves the auth state of a session cookie.
type StateResolver interface {
	ResolveState(ctx context.Context, sessionID string) domainauth.State
}

// AuthStateWatcher produces a live auth state observer for one browser.
type AuthStateWatcher interface {
	Watch(ctx context.Context, clientID, sessionID string) *observe.Value[domainauth.State]
}

var _ AuthStateWatcher = (*service.AuthStateFeed)(nil)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	SiteTitle string
	Items     []nav.Item
	Auth      StateResolver
	// Feed is optional. Without it pages render a static header and the stream route is absent.
	Feed         AuthStateWatcher
	Assets       layout.AssetURL
	Metrics      *metrics.Recorder
	RetryAfter   time.Duration
	KeepAlive    time.Duration
	CookieDomain string
	Logger       *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) items() []nav.Item {
	if h.Items == nil {
		return nav.DefaultItems()
	}
	return h.Items
}

func (h *UIHandlers) keepAlive() time.Duration {
	if h.KeepAlive <= 0 {
		return DefaultKeepAlive
	}
	return h.KeepAlive
}

// resolveState looks up the request's session. Requests without a session cookie
// skip the store entirely.
func (h *UIHandlers) resolveState(r *http.Request) domainauth.State {
	return h.Auth.ResolveState(r.Context(), cookieValue(r, SessionCookieName))
}

// headerModel builds the header for path and records the render.
func (h *UIHandlers) headerModel(r *http.Request, path string, state domainauth.State) header.Model {
	m := header.Build(header.Input{
		SiteTitle:   h.SiteTitle,
		Items:       h.items(),
		Auth:        state,
		CurrentPath: path,
		Theme:       theme.FromRequest(r),
		RetryAfter:  h.RetryAfter,
	})
	h.Metrics.HeaderRendered(m.Auth.Kind)
	return m
}

func (h *UIHandlers) layoutFor(r *http.Request, title, path string) *viewmodel.Layout {
	m := h.headerModel(r, path, h.resolveState(r))
	return &viewmodel.Layout{
		Title:       title,
		SiteTitle:   h.SiteTitle,
		CurrentPath: path,
		CSRFToken:   GetCSRFToken(r),
		Theme:       m.Theme,
		Header:      m,
		Live:        h.Feed != nil,
	}
}

// render buffers n so a render failure can still produce a clean 500.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, n g.Node) {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		h.logger().ErrorContext(r.Context(), "render failed", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
