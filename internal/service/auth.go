package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/marketnest/internal/domain/auth"
	apperrors "github.com/target/marketnest/internal/errors"
	"github.com/target/marketnest/internal/observability/metrics"
	"github.com/target/marketnest/internal/ports"
	"golang.org/x/sync/singleflight"
)

// DefaultResolveTimeout bounds a session lookup made to render the header.
const DefaultResolveTimeout = 2 * time.Second

// ErrSessionExpired is returned by GetSession for sessions past their expiry.
var ErrSessionExpired = apperrors.NotFound("session expired")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	// Events is optional. When nil, sign-in and sign-out are not broadcast.
	Events         ports.SessionEvents
	Metrics        *metrics.Recorder
	Logger         *slog.Logger
	ResolveTimeout time.Duration
	Now            func() time.Time
}

// AuthService orchestrates authentication flows by coordinating provider, role mapping,
// session persistence and auth change broadcasts.
type AuthService struct {
	provider       ports.AuthProvider
	sessions       ports.SessionStore
	roles          ports.RoleMapper
	events         ports.SessionEvents
	metrics        *metrics.Recorder
	logger         *slog.Logger
	resolveTimeout time.Duration
	now            func() time.Time

	lookups singleflight.Group
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.ResolveTimeout
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider:       opts.Provider,
		sessions:       opts.Sessions,
		roles:          opts.Roles,
		events:         opts.Events,
		metrics:        opts.Metrics,
		logger:         logger.With("component", "auth_service"),
		resolveTimeout: timeout,
		now:            now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates a sign-in flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	return s.begin(ctx, redirectURL, ports.IntentSignIn)
}

// BeginSignUp initiates a flow that opens on the provider's registration screen.
func (s *AuthService) BeginSignUp(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	return s.begin(ctx, redirectURL, ports.IntentSignUp)
}

func (s *AuthService) begin(ctx context.Context, redirectURL string, intent ports.Intent) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, apperrors.ValidationField("redirect_url", "redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL, Intent: intent}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("begin %s flow: %w", intent, err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
	// ClientID identifies the browser whose open headers should switch to signed in.
	ClientID string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes an authentication flow by exchanging the code for an identity,
// mapping roles, persisting a session and announcing the sign-in.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, apperrors.ValidationField("code", "authorization code is required")
	}
	if input.State == "" {
		return nil, apperrors.ValidationField("state", "state parameter is required")
	}
	if input.Nonce == "" {
		return nil, apperrors.ValidationField("nonce", "nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	session := domainauth.Session{
		ID:          generateSessionID(),
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName(),
		Email:       identity.Email,
		Role:        s.roles.Map(identity.Groups),
		ExpiresAt:   identity.ExpiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.publish(ctx, input.ClientID, domainauth.StateFromSession(&session))

	return &CompleteLoginResult{
		Session: session,
	}, nil
}

// GetSession retrieves a session by ID. Concurrent lookups for the same ID share one
// store round trip. Expired sessions are deleted and reported as ErrSessionExpired.
//
// The shared lookup is detached from any single caller and bounded by the resolve
// timeout; a caller whose context ends gets its own ctx.Err() while the others wait on.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, apperrors.ValidationField("session_id", "session ID is required")
	}

	ch := s.lookups.DoChan(sessionID, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.resolveTimeout)
		defer cancel()
		return s.loadSession(lookupCtx, sessionID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		sess := res.Val.(domainauth.Session)
		return &sess, nil
	}
}

func (s *AuthService) loadSession(ctx context.Context, sessionID string) (domainauth.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return domainauth.Session{}, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return domainauth.Session{}, ErrSessionExpired
	}

	return session, nil
}

// ResolveState maps a session cookie value to the header auth state.
// A missing, unknown or expired session is Unauthenticated. A lookup that fails or
// does not finish within the resolve timeout stays Loading.
func (s *AuthService) ResolveState(ctx context.Context, sessionID string) domainauth.State {
	if sessionID == "" {
		s.metrics.AuthResolved(metrics.OutcomeUnauthenticated, nil)
		return domainauth.UnauthenticatedState()
	}

	ctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	session, err := s.GetSession(ctx, sessionID)
	switch {
	case err == nil:
		s.metrics.AuthResolved(metrics.OutcomeAuthenticated, nil)
		return domainauth.StateFromSession(session)
	case apperrors.IsNotFound(err):
		s.metrics.AuthResolved(metrics.OutcomeUnauthenticated, err)
		return domainauth.UnauthenticatedState()
	case errors.Is(err, context.Canceled):
		// The caller went away; nobody renders this result.
		s.metrics.AuthResolved(metrics.OutcomeCanceled, nil)
		return domainauth.LoadingState()
	case errors.Is(err, context.DeadlineExceeded) || apperrors.IsTimeout(err):
		s.metrics.AuthResolved(metrics.OutcomeTimeout, err)
		s.logger.WarnContext(ctx, "session resolve timed out", "timeout", s.resolveTimeout)
		return domainauth.LoadingState()
	default:
		s.metrics.AuthResolved(metrics.OutcomeError, err)
		s.logger.WarnContext(ctx, "session resolve failed", "error", err)
		return domainauth.LoadingState()
	}
}

// Logout removes a session and announces the sign-out to the browser's open headers.
// The sign-out is announced even when the delete fails, since the caller clears the
// session cookie regardless.
func (s *AuthService) Logout(ctx context.Context, sessionID, clientID string) error {
	defer s.publish(ctx, clientID, domainauth.UnauthenticatedState())

	if sessionID != "" {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	return nil
}

// publish broadcasts state to clientID. Failures are logged, not returned.
func (s *AuthService) publish(ctx context.Context, clientID string, state domainauth.State) {
	if s.events == nil || clientID == "" {
		return
	}
	name, _ := state.DisplayName()
	err := s.events.Publish(ctx, ports.SessionEvent{
		ClientID:    clientID,
		Kind:        state.Kind(),
		DisplayName: name,
		At:          s.now().UTC(),
	})
	s.metrics.SessionEventPublished(state.Kind(), err)
	if err != nil {
		s.logger.WarnContext(ctx, "publish session event failed",
			"client_id", clientID, "kind", state.Kind().String(), "error", err)
	}
}

// generateSessionID creates a random, URL-safe session ID.
func generateSessionID() string {
	return uuid.New().String()
}
