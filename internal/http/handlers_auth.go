package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	apperrors "github.com/target/marketnest/internal/errors"
	"github.com/target/marketnest/internal/observability/metrics"
	"github.com/target/marketnest/internal/service"
)

// AuthServiceInterface defines the auth operations the HTTP layer needs.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	BeginSignUp(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	ResolveState(ctx context.Context, sessionID string) domainauth.State
	Logout(ctx context.Context, sessionID, clientID string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// Auth flow steps used as metric labels.
const (
	flowSignIn   = "sign_in"
	flowSignUp   = "sign_up"
	flowCallback = "callback"
	flowSignOut  = "sign_out"
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Metrics      *metrics.Recorder
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) jar() cookieJar { return cookieJar{domain: h.CookieDomain} }

// SignIn starts a sign-in flow.
// GET /auth/sign-in?next=<optional path>.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, flowSignIn, h.Svc.BeginLogin)
}

// SignUp starts a flow that opens on the provider's registration screen.
// GET /auth/sign-up?next=<optional path>.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, flowSignUp, h.Svc.BeginSignUp)
}

type beginFunc func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)

func (h *AuthHandlers) begin(w http.ResponseWriter, r *http.Request, step string, start beginFunc) {
	next := safeRedirectPath(r.URL.Query().Get("next"))

	result, err := start(r.Context(), next)
	h.Metrics.AuthFlow(step, err)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin auth flow failed", "step", step, "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: step + "_failed",
			Err:     errors.New("identity provider unavailable"),
		})
		return
	}

	jar := h.jar()
	jar.set(w, r, oauthStateCookie, result.State, oauthCookieTTL)
	jar.set(w, r, oauthNonceCookie, result.Nonce, oauthCookieTTL)
	jar.set(w, r, postLoginRedirectCookie, next, oauthCookieTTL)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the provider round trip.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		h.callbackError(w, r, http.StatusBadRequest, "missing_code", errors.New("authorization code is required"))
		return
	}
	if state == "" {
		h.callbackError(w, r, http.StatusBadRequest, "missing_state", errors.New("state parameter is required"))
		return
	}

	if cookieValue(r, oauthStateCookie) != state {
		h.callbackError(w, r, http.StatusBadRequest, "invalid_state", errors.New("invalid or missing state parameter"))
		return
	}
	nonce := cookieValue(r, oauthNonceCookie)
	if nonce == "" {
		h.callbackError(w, r, http.StatusBadRequest, "missing_nonce", errors.New("missing nonce parameter"))
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:     code,
		State:    state,
		Nonce:    nonce,
		ClientID: ClientIDFromContext(r.Context()),
	})
	if err != nil {
		status := http.StatusBadGateway
		if apperrors.IsValidation(err) {
			status = http.StatusBadRequest
		}
		h.logger().ErrorContext(r.Context(), "complete login failed", "error", err)
		h.callbackError(w, r, status, "login_completion_failed", errors.New("sign-in could not be completed"))
		return
	}
	h.Metrics.AuthFlow(flowCallback, nil)

	jar := h.jar()
	jar.set(w, r, SessionCookieName, result.Session.ID, time.Until(result.Session.ExpiresAt))
	jar.clear(w, r, oauthStateCookie)
	jar.clear(w, r, oauthNonceCookie)

	http.Redirect(w, r, h.postLoginRedirect(w, r), http.StatusFound)
}

func (h *AuthHandlers) callbackError(w http.ResponseWriter, r *http.Request, code int, errCode string, err error) {
	h.Metrics.AuthFlow(flowCallback, err)
	h.logger().WarnContext(r.Context(), "auth callback rejected", "reason", errCode)
	WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: err})
}

// postLoginRedirect returns the stored destination and clears its cookie.
func (h *AuthHandlers) postLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(postLoginRedirectCookie)
	if err != nil {
		return "/"
	}
	h.jar().clear(w, r, postLoginRedirectCookie)
	return safeRedirectPath(c.Value)
}

// SignOut ends the session and tells every open header of this browser.
// POST /auth/sign-out.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	clientID := ClientIDFromContext(r.Context())
	err := h.Svc.Logout(r.Context(), cookieValue(r, SessionCookieName), clientID)
	h.Metrics.AuthFlow(flowSignOut, err)
	if err != nil {
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
	}

	h.jar().clear(w, r, SessionCookieName)

	next := r.PostFormValue("next")
	if next == "" {
		next = safeRedirectFromURL(r.Referer())
	}
	next = safeRedirectPath(next)

	switch {
	case IsHTMX(r):
		SetHXRedirect(w, next)
		w.WriteHeader(http.StatusNoContent)
	case strings.Contains(r.Header.Get("Accept"), "application/json"):
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": next})
	default:
		http.Redirect(w, r, next, http.StatusSeeOther)
	}
}

// Status reports the header auth state as JSON.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := cookieValue(r, SessionCookieName)
	state := h.Svc.ResolveState(r.Context(), sessionID)

	body := map[string]any{
		"state":         state.Kind().String(),
		"authenticated": state.IsAuthenticated(),
	}
	switch {
	case state.IsAuthenticated():
		body["display_name"] = state.Label()
		if sess, err := h.Svc.GetSession(r.Context(), sessionID); err == nil {
			body["expires_at"] = sess.ExpiresAt
			body["role"] = sess.Role
		}
	case state.Kind() == domainauth.StateUnauthenticated && sessionID != "":
		h.jar().clear(w, r, SessionCookieName)
	}
	WriteJSON(w, http.StatusOK, body)
}
