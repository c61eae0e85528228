package redis

// Package redis provides Redis-backed session storage and auth event fan-out.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/marketnest/internal/domain/auth"
	apperrors "github.com/target/marketnest/internal/errors"
)

// DefaultSessionPrefix namespaces session keys.
const DefaultSessionPrefix = "marketnest:session:"

// ErrNotFound is returned when a session is unknown or expired.
var ErrNotFound = apperrors.NotFound("session not found")

// SessionStore is a Redis-based session store.
// Keys expire with the session so Redis does the cleanup.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// SessionStoreOption configures a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionPrefix overrides the key prefix.
func WithSessionPrefix(prefix string) SessionStoreOption {
	return func(s *SessionStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithSessionClock overrides time.Now, used in tests.
func WithSessionClock(now func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		client: client,
		prefix: DefaultSessionPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.ValidationField("id", "session ID cannot be empty")
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return apperrors.ValidationField("expires_at", "session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal session")
	}

	if setErr := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); setErr != nil {
		return apperrors.MapStoreError(setErr, "redis save session")
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, apperrors.MapStoreError(err, "redis get session")
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, apperrors.Wrap(unmarshalErr, apperrors.ErrCodeInternal, "unmarshal session")
	}

	// Key TTL has millisecond resolution; the record's own expiry is authoritative.
	if sess.Expired(s.now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return apperrors.MapStoreError(err, "redis delete session")
	}
	return nil
}

func (s *SessionStore) key(id string) string { return s.prefix + id }
