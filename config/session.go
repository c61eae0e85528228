package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where sessions and auth events live.
type SessionBackend string

const (
	SessionBackendRedis  SessionBackend = "redis"
	SessionBackendMemory SessionBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: redis, memory)", v)
	}
}

const (
	defaultResolveTimeout = 2 * time.Second
	defaultRetryInterval  = 3 * time.Second
	defaultSweepInterval  = time.Minute
	minRetryInterval      = 250 * time.Millisecond
)

// SessionConfig controls session storage and how the header resolves auth state.
type SessionConfig struct {
	Backend SessionBackend `env:"BACKEND" envDefault:"redis"`

	// ResolveTimeout bounds one session lookup. A lookup that runs out renders Loading.
	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"2s"`

	// RetryInterval is how long a Loading header waits before asking again.
	RetryInterval time.Duration `env:"RETRY_INTERVAL" envDefault:"3s"`

	// SweepInterval drops expired sessions from the memory backend.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
}

// Sanitize restores defaults for non-positive durations and keeps retries from spinning.
func (s *SessionConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = SessionBackendRedis
	}
	if s.ResolveTimeout <= 0 {
		s.ResolveTimeout = defaultResolveTimeout
	}
	if s.RetryInterval <= 0 {
		s.RetryInterval = defaultRetryInterval
	}
	if s.RetryInterval < minRetryInterval {
		s.RetryInterval = minRetryInterval
	}
	if s.SweepInterval <= 0 {
		s.SweepInterval = defaultSweepInterval
	}
}
