// Package memory provides in-process session storage and auth event fan-out
// for single-replica deployments and local development.
package memory

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	apperrors "github.com/target/marketnest/internal/errors"
	"github.com/target/marketnest/internal/ports"
)

var (
	_ ports.SessionStore  = (*SessionStore)(nil)
	_ ports.SessionEvents = (*SessionEvents)(nil)
)

// ErrNotFound is returned when a session is unknown or expired.
var ErrNotFound = apperrors.NotFound("session not found")

// SessionStore keeps sessions in a map guarded by a RWMutex.
// Expired entries are dropped lazily on Get and by Sweep.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
	now      func() time.Time
}

// NewSessionStore creates an empty store. A nil now defaults to time.Now.
func NewSessionStore(now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		sessions: make(map[string]domainauth.Session),
		now:      now,
	}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if err := ctx.Err(); err != nil {
		return apperrors.MapStoreError(err, "memory save session")
	}
	if sess.ID == "" {
		return apperrors.ValidationField("id", "session ID cannot be empty")
	}
	if sess.Expired(s.now()) {
		return apperrors.ValidationField("expires_at", "session is expired")
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if err := ctx.Err(); err != nil {
		return domainauth.Session{}, apperrors.MapStoreError(err, "memory get session")
	}
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *SessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
