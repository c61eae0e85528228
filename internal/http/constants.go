package httpx

import "time"

// Cookie names.
const (
	SessionCookieName       = "session_id"
	ClientCookieName        = "mn_client"
	oauthStateCookie        = "oauth_state"
	oauthNonceCookie        = "oauth_nonce"
	postLoginRedirectCookie = "post_login_redirect"
)

// Route paths served by NewRouter besides the pages and header partials.
const (
	PathHealth       = "/healthz"
	PathMetrics      = "/metrics"
	PathStatic       = "/static/"
	PathAuthCallback = "/auth/callback"
	PathAuthStatus   = "/auth/status"
)

// ThemeChangedEvent is the HX-Trigger event fired after the theme toggles.
const ThemeChangedEvent = "themeChanged"

const (
	// DefaultKeepAlive spaces SSE comments on an idle header stream.
	DefaultKeepAlive = 25 * time.Second

	oauthCookieTTL  = 10 * time.Minute
	clientCookieTTL = 365 * 24 * time.Hour
)
