package config

import "time"

const (
	defaultSSEKeepAlive = 25 * time.Second
	minSSEKeepAlive     = time.Second
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SSEKeepAlive is the comment interval on idle header streams.
	SSEKeepAlive time.Duration `env:"HTTP_SSE_KEEPALIVE" envDefault:"25s"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.SSEKeepAlive <= 0 {
		h.SSEKeepAlive = defaultSSEKeepAlive
	}
	if h.SSEKeepAlive < minSSEKeepAlive {
		h.SSEKeepAlive = minSSEKeepAlive
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}
