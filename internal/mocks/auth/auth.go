package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	"github.com/target/marketnest/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider  = (*MockAuthProvider)(nil)
	_ ports.SessionStore  = (*BlockingSessionStore)(nil)
	_ ports.SessionEvents = (*RecordingEvents)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
	begins    []ports.BeginInput
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: defaultIdentity(),
	}
}

func defaultIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:    "mock-user-1",
		FirstName: "Mock",
		LastName:  "Shopper",
		Email:     "mock.shopper@example.com",
		Groups:    []string{"customers"},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	m.mu.Lock()
	m.begins = append(m.begins, in)
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	if in.Intent == ports.IntentSignUp {
		authURL += "?prompt=create"
	}

	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	return authURL, fmt.Sprintf("%s-%d", statePrefix, n), fmt.Sprintf("%s-%d", noncePrefix, n), nil
}

// BeginCalls returns the inputs of every Begin call so far.
func (m *MockAuthProvider) BeginCalls() []ports.BeginInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.BeginInput(nil), m.begins...)
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.UserID == "" {
		user = defaultIdentity()
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

// BlockingSessionStore wraps a SessionStore and holds every Get until Release is
// called or the caller's context ends. Used to exercise the Loading state.
type BlockingSessionStore struct {
	ports.SessionStore

	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	gets    int
}

// NewBlockingSessionStore wraps inner.
func NewBlockingSessionStore(inner ports.SessionStore) *BlockingSessionStore {
	return &BlockingSessionStore{SessionStore: inner, release: make(chan struct{})}
}

func (b *BlockingSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	b.mu.Lock()
	b.gets++
	b.mu.Unlock()
	select {
	case <-b.release:
		return b.SessionStore.Get(ctx, id)
	case <-ctx.Done():
		return domainauth.Session{}, ctx.Err()
	}
}

// Release unblocks pending and future Get calls.
func (b *BlockingSessionStore) Release() { b.once.Do(func() { close(b.release) }) }

// Gets returns how many Get calls have started.
func (b *BlockingSessionStore) Gets() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gets
}

// RecordingEvents captures published events and never delivers them.
type RecordingEvents struct {
	PublishErr error

	mu        sync.Mutex
	published []ports.SessionEvent
}

func (r *RecordingEvents) Publish(_ context.Context, ev ports.SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, ev)
	return r.PublishErr
}

func (r *RecordingEvents) Subscribe(_ context.Context, _ string) (<-chan ports.SessionEvent, func(), error) {
	ch := make(chan ports.SessionEvent)
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }, nil
}

// Published returns a copy of every published event.
func (r *RecordingEvents) Published() []ports.SessionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.SessionEvent(nil), r.published...)
}
