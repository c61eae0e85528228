package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/target/marketnest/internal/domain/auth"
)

// Intent selects which provider screen a flow starts on.
type Intent string

const (
	IntentSignIn Intent = "sign-in"
	IntentSignUp Intent = "sign-up"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
	Intent      Intent
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
// Get returns an error matching errors.IsNotFound for unknown or expired ids.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// SessionEvent announces an auth change for one browser.
type SessionEvent struct {
	ClientID    string               `json:"client_id"`
	Kind        domainauth.StateKind `json:"kind"`
	DisplayName string               `json:"display_name,omitempty"`
	At          time.Time            `json:"at"`
}

// State converts the event to the auth state it announces.
func (e SessionEvent) State() domainauth.State {
	switch e.Kind {
	case domainauth.StateAuthenticated:
		return domainauth.AuthenticatedAs(e.DisplayName)
	case domainauth.StateUnauthenticated:
		return domainauth.UnauthenticatedState()
	default:
		return domainauth.LoadingState()
	}
}

// SessionEvents fans out sign-in/sign-out changes to every open header of a browser.
type SessionEvents interface {
	Publish(ctx context.Context, ev SessionEvent) error
	// Subscribe delivers events for clientID until ctx ends or the returned cancel is called.
	// The channel is closed when the subscription ends.
	Subscribe(ctx context.Context, clientID string) (<-chan SessionEvent, func(), error)
}
